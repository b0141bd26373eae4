package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/araddon/dateparse"

	"github.com/tsubasa-dev/feed-deliver/app/feed"
)

type dev1andEntry struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	GoodCount string `json:"good_count"`
	HitCount  string `json:"hit_count"`
}

type dev1andDashboard struct {
	LastUpdatedAt string `json:"last_updated_at"`
	Data          struct {
		WeeklyHit struct {
			Items []dev1andEntry `json:"items"`
		} `json:"weekly_hit"`
		WeeklyHatena struct {
			Items []dev1andEntry `json:"items"`
		} `json:"weekly_hatena"`
	} `json:"data"`
}

// Dev1and turns the Devland dashboard API into a single weekly digest item.
// One feed item per dashboard state, keyed by the update date.
type Dev1and struct {
	client       *Client
	dashboardURL string
}

func NewDev1and(client *Client) *Dev1and {
	return &Dev1and{
		client:       client,
		dashboardURL: "https://feed.dev1and.com/api/v1/dashboard",
	}
}

func (s *Dev1and) Name() string {
	return "dev1and"
}

func (s *Dev1and) Info() feed.ChannelInfo {
	return feed.ChannelInfo{
		Title:       "Devland",
		Link:        "https://dev1and.com/",
		Description: "最新技術ブログまとめ | Devland",
		Image: &feed.ChannelImage{
			URL:   "https://dev1and.com/icon.png",
			Title: "Devland",
			Link:  "https://dev1and.com/",
		},
		Language: "ja",
	}
}

func (s *Dev1and) Collect(ctx context.Context) (feed.CollectResult, error) {
	data, err := s.client.Get(ctx, s.dashboardURL)
	if err != nil {
		return feed.CollectResult{}, fmt.Errorf("failed to fetch dashboard: %w", err)
	}

	var dashboard dev1andDashboard
	if err := json.Unmarshal(data, &dashboard); err != nil {
		return feed.CollectResult{}, fmt.Errorf("failed to parse dashboard: %w", err)
	}

	lastUpdatedAt, err := dateparse.ParseIn(strings.ReplaceAll(dashboard.LastUpdatedAt, "/", "-"), jst)
	if err != nil {
		return feed.CollectResult{}, fmt.Errorf("failed to parse last_updated_at %q: %w", dashboard.LastUpdatedAt, err)
	}
	updatedDate := lastUpdatedAt.In(jst).Format("2006-01-02")

	var content strings.Builder
	content.WriteString(fmt.Sprintf("<p>Last updated: %s</p>\n", dashboard.LastUpdatedAt))
	content.WriteString("<h2>週間ブログ・記事</h2>\n<ul>\n")
	writeDev1andEntries(&content, dashboard.Data.WeeklyHit.Items)
	content.WriteString("</ul>\n<h2>週間はてなブックマーク</h2>\n<ul>\n")
	writeDev1andEntries(&content, dashboard.Data.WeeklyHatena.Items)
	content.WriteString("</ul>")

	item := feed.Item{
		GUID:        updatedDate,
		Title:       fmt.Sprintf("週間ブログ・記事・はてなブックマーク (%s)", updatedDate),
		Link:        fmt.Sprintf("https://dev1and.com/?%s", updatedDate),
		Content:     content.String(),
		PublishedAt: &lastUpdatedAt,
	}

	return feed.CollectResult{Status: true, Items: []feed.Item{item}}, nil
}

func writeDev1andEntries(content *strings.Builder, entries []dev1andEntry) {
	for _, entry := range entries {
		content.WriteString(fmt.Sprintf(`<li><a href="%s">%s</a> [%s, %s]</li>`,
			entry.URL, entry.Title, entry.GoodCount, entry.HitCount))
		content.WriteString("\n")
	}
}
