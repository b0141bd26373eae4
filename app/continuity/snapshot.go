package continuity

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"
)

const fetchTimeout = 10 * time.Second

type cachedSnapshot struct {
	fetchedAt time.Time
	items     []PreviousItem
}

// SnapshotFetcher retrieves the previously published feed document for a
// source from the public base URL. Results are cached per source for the
// configured TTL so that a source queried twice within one run hits the
// network once. Fetching is fail-open: any failure yields an empty slice.
type SnapshotFetcher struct {
	publicBase string
	httpClient *http.Client
	userAgent  string
	ttl        time.Duration
	now        func() time.Time

	mu    sync.Mutex
	cache map[string]cachedSnapshot
}

func NewSnapshotFetcher(publicBase string, httpClient *http.Client, userAgent string, ttl time.Duration) *SnapshotFetcher {
	return &SnapshotFetcher{
		publicBase: publicBase,
		httpClient: httpClient,
		userAgent:  userAgent,
		ttl:        ttl,
		now:        time.Now,
		cache:      make(map[string]cachedSnapshot),
	}
}

// SetClock overrides the fetcher's clock. Used by tests.
func (f *SnapshotFetcher) SetClock(now func() time.Time) {
	f.now = now
}

// Fetch returns the items of the previously published feed for sourceName.
// An empty slice means "no history": first run, unreachable endpoint or an
// unparseable document. Never returns an error to the caller.
func (f *SnapshotFetcher) Fetch(ctx context.Context, sourceName string) []PreviousItem {
	f.mu.Lock()
	if cached, ok := f.cache[sourceName]; ok && f.now().Sub(cached.fetchedAt) < f.ttl {
		f.mu.Unlock()
		slog.Debug("Using cached previous feed", "source", sourceName, "items", len(cached.items))
		return cached.items
	}
	f.mu.Unlock()

	url := fmt.Sprintf("%s/%s.xml", f.publicBase, sourceName)
	slog.Debug("Fetching previous feed", "source", sourceName, "url", url)

	data, err := f.fetch(ctx, url)
	if err != nil {
		slog.Warn("Failed to fetch previous feed", "source", sourceName, "error", err)
		return []PreviousItem{}
	}

	items, err := f.parse(data)
	if err != nil {
		slog.Warn("Failed to parse previous feed", "source", sourceName, "error", err)
		return []PreviousItem{}
	}

	f.mu.Lock()
	f.cache[sourceName] = cachedSnapshot{fetchedAt: f.now(), items: items}
	f.mu.Unlock()

	slog.Debug("Found previous items", "source", sourceName, "items", len(items))
	return items
}

func (f *SnapshotFetcher) fetch(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// parse reads the fixed feed schema back into previous items. gofeed always
// yields a slice, which also covers the single-item document case where the
// serialized form has a scalar item rather than a sequence.
func (f *SnapshotFetcher) parse(data []byte) ([]PreviousItem, error) {
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]PreviousItem, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		prev := PreviousItem{
			GUID:  item.GUID,
			Title: item.Title,
			Link:  item.Link,
		}

		if item.PublishedParsed != nil {
			prev.PublishedAt = item.PublishedParsed
		} else if item.Published != "" {
			// Older runs emitted a handful of non-RFC1123 date strings.
			if t, err := dateparse.ParseAny(item.Published); err == nil {
				prev.PublishedAt = &t
			}
		}

		items = append(items, prev)
	}

	return items, nil
}
