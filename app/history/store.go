package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	SchemaVersion = "1.0"
	FileName      = "deleted-articles-history.json"

	fetchTimeout = 10 * time.Second
)

// Store fetches the published deletion history, merges newly detected
// deletions into it, prunes expired entries and persists the result.
// Fetching is fail-open: any failure degrades to "no history".
type Store struct {
	publicBase string
	outputDir  string
	retention  time.Duration
	httpClient *http.Client
	userAgent  string
	now        func() time.Time
}

func NewStore(publicBase, outputDir string, retentionDays int, httpClient *http.Client, userAgent string) *Store {
	return &Store{
		publicBase: publicBase,
		outputDir:  outputDir,
		retention:  time.Duration(retentionDays) * 24 * time.Hour,
		httpClient: httpClient,
		userAgent:  userAgent,
		now:        time.Now,
	}
}

// SetClock overrides the store's clock. Used by tests.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Fetch retrieves the published history document. A cache-busting query
// parameter keeps intermediate layers from serving a stale copy. Returns nil
// on any failure; a missing history is the first-run state, not an error.
func (s *Store) Fetch(ctx context.Context) *History {
	url := fmt.Sprintf("%s/%s?t=%d", s.publicBase, FileName, s.now().UnixMilli())

	timeoutCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		slog.Warn("Failed to build history request", "error", err)
		return nil
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		slog.Warn("Failed to fetch deleted articles history", "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("Failed to fetch deleted articles history", "status", resp.StatusCode)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Warn("Failed to read history response", "error", err)
		return nil
	}

	var h History
	if err := json.Unmarshal(data, &h); err != nil {
		slog.Warn("Failed to parse deleted articles history", "error", err)
		return nil
	}

	slog.Debug("Fetched deleted articles history", "articles", len(h.Articles))
	return &h
}

// Merge folds newly detected deletions into current and prunes entries whose
// DeletedAt is older than the retention window. Pure with respect to its
// inputs; a new History value is returned.
func (s *Store) Merge(current *History, newlyDeleted []DeletedArticle) *History {
	now := s.now()

	merged := &History{
		Version:     SchemaVersion,
		LastUpdated: now,
	}

	existingIDs := make(map[string]bool)
	if current != nil {
		merged.Articles = make([]DeletedArticle, 0, len(current.Articles)+len(newlyDeleted))
		merged.Articles = append(merged.Articles, current.Articles...)
		for _, article := range current.Articles {
			existingIDs[article.ID] = true
		}
	}

	added := 0
	for _, article := range newlyDeleted {
		if existingIDs[article.ID] {
			continue
		}
		existingIDs[article.ID] = true
		merged.Articles = append(merged.Articles, article)
		added++
	}
	if added > 0 {
		slog.Info("Added deleted articles to history", "count", added)
	}

	cutoff := now.Add(-s.retention)
	kept := merged.Articles[:0]
	pruned := 0
	for _, article := range merged.Articles {
		if article.DeletedAt.Before(cutoff) {
			pruned++
			continue
		}
		kept = append(kept, article)
	}
	merged.Articles = kept
	if pruned > 0 {
		slog.Info("Pruned expired deleted articles", "count", pruned)
	}

	if merged.Articles == nil {
		merged.Articles = []DeletedArticle{}
	}

	return merged
}

// Persist writes the history JSON into the output directory. Write failure
// is logged and swallowed; the generated feeds outrank the bookkeeping file.
func (s *Store) Persist(h *History) {
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		slog.Error("Failed to marshal deleted articles history", "error", err)
		return
	}

	outputPath := filepath.Join(s.outputDir, FileName)
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		slog.Error("Failed to save deleted articles history", "path", outputPath, "error", err)
		return
	}

	slog.Info("Saved deleted articles history", "path", outputPath, "articles", len(h.Articles))
}
