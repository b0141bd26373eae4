package sources

import (
	"context"
	"fmt"

	"github.com/araddon/dateparse"
	"github.com/tsubasa-dev/feed-deliver/app/feed"
)

// Fish4Koma follows a livedoor blog's RSS 1.0 feed. The blog is a comic;
// the hosted image pipeline is out of scope, so items carry the upstream
// description as their body.
type Fish4Koma struct {
	client  *Client
	feedURL string
}

func NewFish4Koma(client *Client) *Fish4Koma {
	return &Fish4Koma{
		client:  client,
		feedURL: "https://nyopenasu.livedoor.blog/index.rdf",
	}
}

func (s *Fish4Koma) Name() string {
	return "fish-4koma"
}

func (s *Fish4Koma) Info() feed.ChannelInfo {
	return feed.ChannelInfo{
		Title:       "魚の4コマ",
		Link:        "https://nyopenasu.livedoor.blog/",
		Description: "魚の4コマ ニョペ茄子",
		Image: &feed.ChannelImage{
			URL:   "https://livedoor.blogimg.jp/nyopenasu/imgs/d/0/d01f1d67.jpg",
			Title: "魚の4コマ",
			Link:  "https://nyopenasu.livedoor.blog/",
		},
		Language: "ja",
	}
}

func (s *Fish4Koma) Collect(ctx context.Context) (feed.CollectResult, error) {
	upstream, err := s.client.GetFeed(ctx, s.feedURL)
	if err != nil {
		return feed.CollectResult{}, fmt.Errorf("failed to fetch upstream feed: %w", err)
	}
	if len(upstream.Items) == 0 {
		return feed.CollectResult{}, fmt.Errorf("no items in upstream feed")
	}

	items := make([]feed.Item, 0, len(upstream.Items))
	for _, entry := range upstream.Items {
		item := feed.Item{
			GUID:    entry.Link,
			Title:   feed.NormalizeTitle(entry.Title),
			Link:    entry.Link,
			Content: entry.Description,
		}

		if entry.PublishedParsed != nil {
			item.PublishedAt = entry.PublishedParsed
		} else if entry.Published != "" {
			if t, err := dateparse.ParseAny(entry.Published); err == nil {
				item.PublishedAt = &t
			}
		}

		items = append(items, item)
	}

	return feed.CollectResult{Status: true, Items: items}, nil
}
