package sources

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tsubasa-dev/feed-deliver/app/feed"
)

const zennFeedURL = "https://info.zenn.dev/rss/feed.xml"

// ZennChangelog follows the zenn.dev changelog feed and enriches each entry
// with the announcement body scraped from its page.
type ZennChangelog struct {
	client  *Client
	feedURL string
	siteURL string
}

func NewZennChangelog(client *Client) *ZennChangelog {
	return &ZennChangelog{
		client:  client,
		feedURL: zennFeedURL,
		siteURL: "https://info.zenn.dev",
	}
}

func (s *ZennChangelog) Name() string {
	return "zenn-changelog"
}

func (s *ZennChangelog) Info() feed.ChannelInfo {
	return feed.ChannelInfo{
		Title:       "Zenn Changelog",
		Link:        "https://info.zenn.dev",
		Description: "What's new on zenn.dev",
		Image: &feed.ChannelImage{
			URL:   "https://zenn.dev/images/logo-only-dark.png",
			Title: "Zenn Changelog",
			Link:  "https://info.zenn.dev",
		},
		Language: "ja",
	}
}

func (s *ZennChangelog) Collect(ctx context.Context) (feed.CollectResult, error) {
	upstream, err := s.client.GetFeed(ctx, s.feedURL)
	if err != nil {
		return feed.CollectResult{}, fmt.Errorf("failed to fetch upstream feed: %w", err)
	}

	entries := upstream.Items
	if len(entries) > 10 {
		entries = entries[:10]
	}

	items := make([]feed.Item, 0, len(entries))
	for _, entry := range entries {
		link := entry.Link

		itemID := link[strings.LastIndex(link, "/")+1:]
		content := s.collectBody(ctx, itemID)

		items = append(items, feed.Item{
			GUID:    link,
			Title:   feed.NormalizeTitle(entry.Title),
			Link:    link,
			Content: content,
		})
	}

	return feed.CollectResult{Status: true, Items: items}, nil
}

// collectBody scrapes the changelog entry page. Missing bodies are not
// fatal; the feed entry falls back to title and link only.
func (s *ZennChangelog) collectBody(ctx context.Context, itemID string) string {
	if itemID == "" {
		return ""
	}

	itemURL := fmt.Sprintf("%s/%s", s.siteURL, itemID)
	data, err := s.client.Get(ctx, itemURL)
	if err != nil {
		slog.Warn("Failed to fetch changelog entry", "source", s.Name(), "url", itemURL, "error", err)
		return ""
	}

	doc, err := goqueryDocument(data)
	if err != nil {
		slog.Warn("Failed to parse changelog entry", "source", s.Name(), "url", itemURL, "error", err)
		return ""
	}

	body := doc.Find(fmt.Sprintf("#%s [class^=SlugPage_blogBody]", itemID))
	html, err := body.Html()
	if err != nil || strings.TrimSpace(html) == "" {
		if extracted, exErr := extractReadable(data); exErr == nil {
			html = extracted
		}
	}
	if strings.TrimSpace(html) == "" {
		return ""
	}

	var parts []string
	parts = append(parts, strings.TrimSpace(html))
	parts = append(parts, fmt.Sprintf(`<a href="%s">%s</a>`, itemURL, itemURL))
	return strings.Join(parts, "\n\n")
}
