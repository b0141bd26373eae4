package sources

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tsubasa-dev/feed-deliver/app/feed"
)

// SekanekoBlog follows a WordPress blog feed and replaces each entry's
// summary with the full article body.
type SekanekoBlog struct {
	client  *Client
	feedURL string
}

func NewSekanekoBlog(client *Client) *SekanekoBlog {
	return &SekanekoBlog{
		client:  client,
		feedURL: "https://sekaneko13.biz/feed/",
	}
}

func (s *SekanekoBlog) Name() string {
	return "sekaneko-blog"
}

func (s *SekanekoBlog) Info() feed.ChannelInfo {
	return feed.ChannelInfo{
		Title:       "せかねこさんの日々",
		Link:        "https://sekaneko13.biz",
		Description: "せかねこさんの日々 | Powered by NAPBIZ",
		Image: &feed.ChannelImage{
			URL:   "https://sekaneko13.biz/wp-content/uploads/2018/03/cropped-sekaneko-prof-32x32.jpg",
			Title: "せかねこさんの日々",
			Link:  "https://sekaneko13.biz",
		},
		Language: "ja",
	}
}

func (s *SekanekoBlog) Collect(ctx context.Context) (feed.CollectResult, error) {
	upstream, err := s.client.GetFeed(ctx, s.feedURL)
	if err != nil {
		return feed.CollectResult{}, fmt.Errorf("failed to fetch upstream feed: %w", err)
	}

	items := make([]feed.Item, 0, len(upstream.Items))
	for _, entry := range upstream.Items {
		items = append(items, feed.Item{
			GUID:    entry.Link,
			Title:   feed.NormalizeTitle(entry.Title),
			Link:    entry.Link,
			Content: s.collectBody(ctx, entry.Link),
		})
	}

	return feed.CollectResult{Status: true, Items: items}, nil
}

func (s *SekanekoBlog) collectBody(ctx context.Context, url string) string {
	data, err := s.client.Get(ctx, url)
	if err != nil {
		slog.Warn("Failed to fetch article", "source", s.Name(), "url", url, "error", err)
		return ""
	}

	doc, err := goqueryDocument(data)
	if err != nil {
		slog.Warn("Failed to parse article", "source", s.Name(), "url", url, "error", err)
		return ""
	}

	html, err := doc.Find("section.content").Html()
	if err != nil || strings.TrimSpace(html) == "" {
		if extracted, exErr := extractReadable(data); exErr == nil {
			return extracted
		}
		return ""
	}
	return html
}
