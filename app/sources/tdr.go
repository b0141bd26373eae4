package sources

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/tsubasa-dev/feed-deliver/app/feed"
)

// Date text has the form "2023.7.24 更新情報".
var tdrDatePattern = regexp.MustCompile(`^(\d{4})\.(\d{1,2})\.(\d{1,2})`)

var jst = time.FixedZone("JST", 9*60*60)

// TdrUpdates scrapes the Tokyo Disney Resort important notices list.
type TdrUpdates struct {
	client  *Client
	pageURL string
}

func NewTdrUpdates(client *Client) *TdrUpdates {
	return &TdrUpdates{
		client:  client,
		pageURL: "https://www.tokyodisneyresort.jp/tdr/update.html",
	}
}

func (s *TdrUpdates) Name() string {
	return "tdr-updates"
}

func (s *TdrUpdates) Info() feed.ChannelInfo {
	return feed.ChannelInfo{
		Title:       "大切なお知らせ | 東京ディズニーリゾート",
		Link:        "https://www.tokyodisneyresort.jp/tdr/update.html",
		Description: "東京ディズニーリゾート「大切なお知らせ」をご案内します。",
		Language:    "ja",
	}
}

func (s *TdrUpdates) Collect(ctx context.Context) (feed.CollectResult, error) {
	doc, err := s.client.GetDocument(ctx, s.pageURL)
	if err != nil {
		return feed.CollectResult{}, fmt.Errorf("failed to fetch update page: %w", err)
	}

	var items []feed.Item
	doc.Find("div.listUpdate ul li a").Each(func(_ int, anchor *goquery.Selection) {
		href, _ := anchor.Attr("href")
		link := feed.ResolveURL(s.pageURL, href)
		title := feed.NormalizeTitle(anchor.Find("p.txt").Text())
		dateRaw := anchor.Find("p.date").Text()

		publishedAt := s.parseDate(dateRaw)
		if publishedAt == nil {
			slog.Warn("Unparseable update date", "source", s.Name(), "date", dateRaw, "title", title)
		}

		items = append(items, feed.Item{
			GUID:        link,
			Title:       title,
			Link:        link,
			PublishedAt: publishedAt,
		})
	})

	return feed.CollectResult{Status: true, Items: items}, nil
}

// parseDate interprets the list's dotted date as midnight JST.
func (s *TdrUpdates) parseDate(raw string) *time.Time {
	matches := tdrDatePattern.FindStringSubmatch(raw)
	if matches == nil {
		return nil
	}

	year, _ := strconv.Atoi(matches[1])
	month, _ := strconv.Atoi(matches[2])
	day, _ := strconv.Atoi(matches[3])

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, jst)
	return &t
}
