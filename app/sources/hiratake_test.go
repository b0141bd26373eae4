package sources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const hiratakePost = `---
title: テスト投稿
created: 2023-05-01
---

# Heading

Body paragraph.
`

func TestHiratakeCollect(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/contents/content/blog"):
			json.NewEncoder(w).Encode([]githubContent{
				{Name: "index.md", Type: "file", DownloadURL: server.URL + "/raw/index.md"},
				{Name: "first-post.md", Type: "file", DownloadURL: server.URL + "/raw/first-post.md"},
				{Name: "images", Type: "dir"},
			})
		case strings.HasSuffix(r.URL.Path, "/raw/first-post.md"):
			w.Write([]byte(hiratakePost))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	source := NewHiratakeWeb(NewClient(&http.Client{}, "test-agent"))
	source.contentsURL = server.URL + "/repos/x/y/contents/content/blog"

	result, err := source.Collect(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("Expected 1 item (index.md and dirs skipped), got %d", len(result.Items))
	}

	item := result.Items[0]
	if item.Title != "テスト投稿" {
		t.Errorf("Unexpected title: %q", item.Title)
	}
	if item.Link != "https://hiratake.dev/blog/first-post/" {
		t.Errorf("Unexpected link: %q", item.Link)
	}
	if !strings.Contains(item.Content, "<h1") || !strings.Contains(item.Content, "Body paragraph.") {
		t.Errorf("Expected rendered markdown, got %q", item.Content)
	}
	if item.PublishedAt == nil {
		t.Fatal("Expected publish date from front matter")
	}
	if item.PublishedAt.Year() != 2023 || item.PublishedAt.Month() != time.May {
		t.Errorf("Unexpected publish date: %v", item.PublishedAt)
	}
}

func TestSplitFrontMatter(t *testing.T) {
	matter, body, err := splitFrontMatter([]byte(hiratakePost))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !strings.Contains(string(matter), "title: テスト投稿") {
		t.Errorf("Unexpected front matter: %q", matter)
	}
	if !strings.HasPrefix(string(body), "\n# Heading") && !strings.HasPrefix(string(body), "# Heading") {
		t.Errorf("Unexpected body start: %q", body)
	}
}

func TestSplitFrontMatterWithoutBlock(t *testing.T) {
	matter, body, err := splitFrontMatter([]byte("plain markdown\n"))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if matter != nil {
		t.Errorf("Expected no front matter, got %q", matter)
	}
	if string(body) != "plain markdown\n" {
		t.Errorf("Expected body unchanged, got %q", body)
	}
}

func TestSplitFrontMatterUnterminated(t *testing.T) {
	if _, _, err := splitFrontMatter([]byte("---\ntitle: x\n")); err == nil {
		t.Error("Expected error for unterminated front matter")
	}
}
