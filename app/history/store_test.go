package history

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testStore(t *testing.T, base string) *Store {
	t.Helper()
	return NewStore(base, t.TempDir(), 30, &http.Client{}, "test-agent")
}

func TestFetchParsesHistory(t *testing.T) {
	published := History{
		Version:     SchemaVersion,
		LastUpdated: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Articles: []DeletedArticle{
			{
				ID:          "https://example.com/gone",
				Title:       "Gone article",
				Link:        "https://example.com/gone",
				PublishedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				DeletedAt:   time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC),
				SourceName:  "example",
			},
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("t") == "" {
			t.Error("Expected cache-busting query parameter")
		}
		json.NewEncoder(w).Encode(published)
	}))
	defer server.Close()

	store := testStore(t, server.URL)
	h := store.Fetch(context.Background())
	if h == nil {
		t.Fatal("Expected history, got nil")
	}
	if len(h.Articles) != 1 {
		t.Fatalf("Expected 1 article, got %d", len(h.Articles))
	}
	if h.Articles[0].ID != "https://example.com/gone" {
		t.Errorf("Unexpected article ID: %s", h.Articles[0].ID)
	}
}

func TestFetchFailOpenOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	store := testStore(t, server.URL)
	if h := store.Fetch(context.Background()); h != nil {
		t.Error("Expected nil history on 500 response")
	}
}

func TestFetchFailOpenOnMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer server.Close()

	store := testStore(t, server.URL)
	if h := store.Fetch(context.Background()); h != nil {
		t.Error("Expected nil history on malformed JSON")
	}
}

func TestFetchFailOpenOnNetworkError(t *testing.T) {
	store := testStore(t, "http://127.0.0.1:1")
	if h := store.Fetch(context.Background()); h != nil {
		t.Error("Expected nil history on network error")
	}
}

func TestMergeFromEmpty(t *testing.T) {
	store := testStore(t, "http://unused")
	mergeInstant := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return mergeInstant })

	newlyDeleted := []DeletedArticle{
		{ID: "a", Title: "A", DeletedAt: mergeInstant},
	}

	merged := store.Merge(nil, newlyDeleted)
	if merged.Version != SchemaVersion {
		t.Errorf("Expected version %q, got %q", SchemaVersion, merged.Version)
	}
	if !merged.LastUpdated.Equal(mergeInstant) {
		t.Errorf("Expected lastUpdated %v, got %v", mergeInstant, merged.LastUpdated)
	}
	if len(merged.Articles) != 1 {
		t.Fatalf("Expected 1 article, got %d", len(merged.Articles))
	}
}

func TestMergeDeduplicatesByID(t *testing.T) {
	store := testStore(t, "http://unused")
	mergeInstant := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return mergeInstant })

	existing := &History{
		Version: SchemaVersion,
		Articles: []DeletedArticle{
			{ID: "a", Title: "Original", DeletedAt: mergeInstant.Add(-24 * time.Hour)},
		},
	}
	newlyDeleted := []DeletedArticle{
		{ID: "a", Title: "Redetected", DeletedAt: mergeInstant},
	}

	merged := store.Merge(existing, newlyDeleted)
	if len(merged.Articles) != 1 {
		t.Fatalf("Expected 1 article after dedup, got %d", len(merged.Articles))
	}
	if merged.Articles[0].Title != "Original" {
		t.Errorf("Expected existing record to win, got title %q", merged.Articles[0].Title)
	}
}

func TestMergeRetentionPruning(t *testing.T) {
	store := testStore(t, "http://unused")
	mergeInstant := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return mergeInstant })

	existing := &History{
		Version: SchemaVersion,
		Articles: []DeletedArticle{
			{ID: "expired", DeletedAt: mergeInstant.Add(-31 * 24 * time.Hour)},
			{ID: "fresh", DeletedAt: mergeInstant.Add(-29 * 24 * time.Hour)},
		},
	}

	merged := store.Merge(existing, nil)
	if len(merged.Articles) != 1 {
		t.Fatalf("Expected 1 surviving article, got %d", len(merged.Articles))
	}
	if merged.Articles[0].ID != "fresh" {
		t.Errorf("Expected 'fresh' to survive pruning, got %q", merged.Articles[0].ID)
	}
}

func TestMergeDoesNotMutateInput(t *testing.T) {
	store := testStore(t, "http://unused")
	mergeInstant := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return mergeInstant })

	existing := &History{
		Version: SchemaVersion,
		Articles: []DeletedArticle{
			{ID: "a", DeletedAt: mergeInstant.Add(-24 * time.Hour)},
		},
	}

	store.Merge(existing, []DeletedArticle{{ID: "b", DeletedAt: mergeInstant}})
	if len(existing.Articles) != 1 {
		t.Errorf("Merge must not mutate its input, input now has %d articles", len(existing.Articles))
	}
}

func TestMergeEmptyProducesEmptyArticles(t *testing.T) {
	store := testStore(t, "http://unused")

	merged := store.Merge(nil, nil)
	if merged.Articles == nil {
		t.Error("Expected empty slice, not nil, so the persisted JSON has an articles array")
	}
}

func TestPersistWritesFile(t *testing.T) {
	outputDir := t.TempDir()
	store := NewStore("http://unused", outputDir, 30, &http.Client{}, "test-agent")

	h := &History{
		Version:     SchemaVersion,
		LastUpdated: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Articles:    []DeletedArticle{{ID: "a", Title: "A"}},
	}
	store.Persist(h)

	data, err := os.ReadFile(filepath.Join(outputDir, FileName))
	if err != nil {
		t.Fatalf("Expected history file to exist: %v", err)
	}

	var loaded History
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Persisted file is not valid JSON: %v", err)
	}
	if len(loaded.Articles) != 1 || loaded.Articles[0].ID != "a" {
		t.Error("Persisted history does not round-trip")
	}
}

func TestPersistSwallowsWriteFailure(t *testing.T) {
	store := NewStore("http://unused", filepath.Join(t.TempDir(), "missing", "dir"), 30, &http.Client{}, "test-agent")

	// Must not panic or abort; failure is logged only.
	store.Persist(&History{Version: SchemaVersion, Articles: []DeletedArticle{}})
}

func TestLookupPublishDate(t *testing.T) {
	published := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h := &History{
		Articles: []DeletedArticle{
			{ID: "a", PublishedAt: published},
		},
	}

	if got, ok := h.LookupPublishDate("a"); !ok || !got.Equal(published) {
		t.Errorf("Expected (%v, true), got (%v, %t)", published, got, ok)
	}
	if _, ok := h.LookupPublishDate("missing"); ok {
		t.Error("Expected lookup miss for unknown id")
	}

	var nilHistory *History
	if _, ok := nilHistory.LookupPublishDate("a"); ok {
		t.Error("Expected lookup on nil history to miss")
	}
}
