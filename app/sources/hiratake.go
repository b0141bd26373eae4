package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"

	"github.com/tsubasa-dev/feed-deliver/app/feed"
)

// HiratakeWeb builds a feed for a blog whose posts live as markdown files in
// a GitHub repository: list the directory via the contents API, then render
// each post's markdown with its front matter date.
type HiratakeWeb struct {
	client      *Client
	contentsURL string
	blogBase    string
	markdown    goldmark.Markdown
}

type githubContent struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	DownloadURL string `json:"download_url"`
}

type postFrontMatter struct {
	Title   string `yaml:"title"`
	Created string `yaml:"created"`
}

func NewHiratakeWeb(client *Client) *HiratakeWeb {
	return &HiratakeWeb{
		client:      client,
		contentsURL: "https://api.github.com/repos/Hiratake/hiratake-web/contents/content/blog",
		blogBase:    "https://hiratake.dev/blog/",
		markdown:    goldmark.New(),
	}
}

func (s *HiratakeWeb) Name() string {
	return "hiratake-web"
}

func (s *HiratakeWeb) Info() feed.ChannelInfo {
	return feed.ChannelInfo{
		Title:       "Hiratake Web",
		Link:        "https://hiratake.dev/blog/",
		Description: "ひらたけの個人ウェブサイトです。",
		Image: &feed.ChannelImage{
			URL:   "https://hiratake.dev/apple-touch-icon.png",
			Title: "Hiratake Web",
			Link:  "https://hiratake.dev/blog/",
		},
		Language: "ja",
	}
}

func (s *HiratakeWeb) Collect(ctx context.Context) (feed.CollectResult, error) {
	data, err := s.client.Get(ctx, s.contentsURL)
	if err != nil {
		return feed.CollectResult{}, fmt.Errorf("failed to list blog contents: %w", err)
	}

	var contents []githubContent
	if err := json.Unmarshal(data, &contents); err != nil {
		return feed.CollectResult{}, fmt.Errorf("failed to parse contents listing: %w", err)
	}

	var items []feed.Item
	for _, content := range contents {
		if content.Type != "file" || content.Name == "index.md" {
			continue
		}

		item, err := s.collectPost(ctx, content)
		if err != nil {
			return feed.CollectResult{}, fmt.Errorf("failed to collect post %s: %w", content.Name, err)
		}
		items = append(items, item)
	}

	return feed.CollectResult{Status: true, Items: items}, nil
}

func (s *HiratakeWeb) collectPost(ctx context.Context, content githubContent) (feed.Item, error) {
	raw, err := s.client.Get(ctx, content.DownloadURL)
	if err != nil {
		return feed.Item{}, err
	}

	matter, body, err := splitFrontMatter(raw)
	if err != nil {
		return feed.Item{}, err
	}

	var meta postFrontMatter
	if err := yaml.Unmarshal(matter, &meta); err != nil {
		return feed.Item{}, fmt.Errorf("failed to parse front matter: %w", err)
	}
	if meta.Title == "" || meta.Created == "" {
		return feed.Item{}, fmt.Errorf("post is missing title or created date")
	}

	createdAt, err := dateparse.ParseAny(meta.Created)
	if err != nil {
		return feed.Item{}, fmt.Errorf("failed to parse created date %q: %w", meta.Created, err)
	}

	var html bytes.Buffer
	if err := s.markdown.Convert(body, &html); err != nil {
		return feed.Item{}, fmt.Errorf("failed to render markdown: %w", err)
	}

	slug := strings.TrimSuffix(content.Name, ".md")
	link := fmt.Sprintf("%s%s/", s.blogBase, slug)

	return feed.Item{
		GUID:        link,
		Title:       feed.NormalizeTitle(meta.Title),
		Link:        link,
		Content:     html.String(),
		PublishedAt: &createdAt,
	}, nil
}

// splitFrontMatter separates a leading "---" delimited YAML block from the
// markdown body.
func splitFrontMatter(raw []byte) (matter, body []byte, err error) {
	const delim = "---"

	text := string(raw)
	if !strings.HasPrefix(text, delim) {
		return nil, raw, nil
	}

	rest := text[len(delim):]
	end := strings.Index(rest, "\n"+delim)
	if end < 0 {
		return nil, nil, fmt.Errorf("unterminated front matter block")
	}

	matter = []byte(rest[:end])
	body = []byte(strings.TrimPrefix(rest[end+1+len(delim):], "\n"))
	return matter, body, nil
}
