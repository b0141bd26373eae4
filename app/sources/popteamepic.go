package sources

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/tsubasa-dev/feed-deliver/app/feed"
)

const mangaLifeWinBase = "https://mangalifewin.takeshobo.co.jp"

// PopTeamEpic scrapes one Pop Team Epic season listing on mangalifewin.
// The completed seasons live at fixed URLs; the current one is discovered
// from the serialization index at collect time. Episode pages are comics,
// the hosted image pipeline is out of scope, so items reduce to title and
// link with dates inherited from the previously published feed.
type PopTeamEpic struct {
	client       *Client
	name         string
	listURL      string
	itemSelector string
	titleSelect  string
	indexURL     string

	mu          sync.Mutex
	seasonTitle string
	seasonLink  string
	seasonImage string
}

func NewPopTeamEpic(client *Client) *PopTeamEpic {
	return &PopTeamEpic{
		client:       client,
		name:         "pop-team-epic",
		itemSelector: "div.bookR li a",
		titleSelect:  "h3",
		indexURL:     mangaLifeWinBase + "/rensai/",
		seasonTitle:  "ポプテピピック",
		seasonLink:   mangaLifeWinBase + "/rensai/",
	}
}

func NewPopTeamEpic7(client *Client) *PopTeamEpic {
	return &PopTeamEpic{
		client:       client,
		name:         "pop-team-epic7",
		listURL:      mangaLifeWinBase + "/rensai/popute7/",
		itemSelector: "div.bookR td a",
		titleSelect:  "h3.articleTitle",
		seasonTitle:  "ポプテピピック シーズン７",
		seasonLink:   mangaLifeWinBase + "/rensai/popute7/",
		seasonImage:  mangaLifeWinBase + "/global-image/manga/okawabukubu/popute7/popute7-001/article_t.jpg",
	}
}

func NewPopTeamEpic8(client *Client) *PopTeamEpic {
	return &PopTeamEpic{
		client:       client,
		name:         "pop-team-epic8",
		listURL:      mangaLifeWinBase + "/rensai/hosiirore/",
		itemSelector: "div.bookR li a",
		titleSelect:  "h3",
		seasonTitle:  "ポプテピピック シーズン８",
		seasonLink:   mangaLifeWinBase + "/rensai/hosiirore/",
		seasonImage:  mangaLifeWinBase + "/global-image/manga/okawabukubu/hosiirore/series_t.jpg",
	}
}

func (s *PopTeamEpic) Name() string {
	return s.name
}

func (s *PopTeamEpic) Info() feed.ChannelInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	info := feed.ChannelInfo{
		Title:       s.seasonTitle,
		Link:        s.seasonLink,
		Description: fmt.Sprintf("%s / 大川ぶくぶ / まんがライフWIN", s.seasonTitle),
		Language:    "ja",
	}
	if s.seasonImage != "" {
		info.Image = &feed.ChannelImage{
			URL:   s.seasonImage,
			Title: s.seasonTitle,
			Link:  s.seasonLink,
		}
	}
	return info
}

func (s *PopTeamEpic) Collect(ctx context.Context) (feed.CollectResult, error) {
	listURL := s.listURL
	if listURL == "" {
		resolved, err := s.resolveActiveSeason(ctx)
		if err != nil {
			return feed.CollectResult{}, err
		}
		listURL = resolved
	}

	doc, err := s.client.GetDocument(ctx, listURL)
	if err != nil {
		return feed.CollectResult{}, fmt.Errorf("failed to fetch season page: %w", err)
	}

	var items []feed.Item
	doc.Find(s.itemSelector).Each(func(_ int, anchor *goquery.Selection) {
		href, _ := anchor.Attr("href")
		if href == "" {
			return
		}
		link := feed.ResolveURL(listURL, href)

		title := s.collectEpisodeTitle(ctx, link)
		if title == "" {
			return
		}

		items = append(items, feed.Item{
			GUID:  link,
			Title: title,
			Link:  link,
		})
	})

	return feed.CollectResult{Status: true, Items: items}, nil
}

// resolveActiveSeason finds the running Pop Team Epic serial on the index
// page and adopts its title, URL and cover for the channel.
func (s *PopTeamEpic) resolveActiveSeason(ctx context.Context) (string, error) {
	doc, err := s.client.GetDocument(ctx, s.indexURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch serialization index: %w", err)
	}

	var title, link, image string
	doc.Find(`ul[id*="extMdlSeriesMngrSeries"].line2 li`).EachWithBreak(func(_ int, entry *goquery.Selection) bool {
		t := feed.NormalizeTitle(entry.Find("p.itemSeriesTitle").Text())
		if !strings.HasPrefix(t, "ポプテピピック") {
			return true
		}

		href, _ := entry.Find("p.itemSeriesTitle a").Attr("href")
		src, _ := entry.Find("a.itemImage img").Attr("src")
		title = t
		link = feed.ResolveURL(s.indexURL, href)
		image = feed.ResolveURL(s.indexURL, src)
		return false
	})
	if link == "" {
		return "", fmt.Errorf("no active season found on index")
	}

	s.mu.Lock()
	s.seasonTitle = title
	s.seasonLink = link
	s.seasonImage = image
	s.mu.Unlock()

	return link, nil
}

// collectEpisodeTitle fetches an episode page for its display title. A
// missing or unreachable page skips the episode.
func (s *PopTeamEpic) collectEpisodeTitle(ctx context.Context, url string) string {
	doc, err := s.client.GetDocument(ctx, url)
	if err != nil {
		slog.Warn("Failed to fetch episode page", "source", s.name, "url", url, "error", err)
		return ""
	}

	title := doc.Find("#extMdlSeriesMngrArticle78").Find(s.titleSelect).First().Text()
	return feed.NormalizeTitle(title)
}
