package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const dev1andDashboardJSON = `{
  "last_updated_at": "2024/06/03 09:00:00",
  "data": {
    "weekly_hit": {
      "items": [
        {"url": "https://blog.example.com/a", "title": "記事A", "good_count": "12", "hit_count": "340"}
      ]
    },
    "weekly_hatena": {
      "items": [
        {"url": "https://blog.example.com/b", "title": "記事B", "good_count": "5", "hit_count": "120"}
      ]
    }
  }
}`

func TestDev1andCollect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(dev1andDashboardJSON))
	}))
	defer server.Close()

	source := NewDev1and(NewClient(&http.Client{}, "test-agent"))
	source.dashboardURL = server.URL + "/api/v1/dashboard"

	result, err := source.Collect(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("Expected a single digest item, got %d", len(result.Items))
	}

	item := result.Items[0]
	if item.GUID != "2024-06-03" {
		t.Errorf("Expected digest keyed by update date, got %q", item.GUID)
	}
	if item.Title != "週間ブログ・記事・はてなブックマーク (2024-06-03)" {
		t.Errorf("Unexpected title: %q", item.Title)
	}
	if item.Link != "https://dev1and.com/?2024-06-03" {
		t.Errorf("Unexpected link: %q", item.Link)
	}
	if !strings.Contains(item.Content, `<a href="https://blog.example.com/a">記事A</a> [12, 340]`) {
		t.Errorf("Expected weekly hit entry in content, got %q", item.Content)
	}
	if !strings.Contains(item.Content, "週間はてなブックマーク") {
		t.Error("Expected hatena section heading in content")
	}
	if item.PublishedAt == nil {
		t.Fatal("Expected publish date from last_updated_at")
	}
	expected := time.Date(2024, 6, 3, 9, 0, 0, 0, jst)
	if !item.PublishedAt.Equal(expected) {
		t.Errorf("Expected %v, got %v", expected, item.PublishedAt)
	}
}

func TestDev1andCollectBadPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	source := NewDev1and(NewClient(&http.Client{}, "test-agent"))
	source.dashboardURL = server.URL + "/api/v1/dashboard"

	if _, err := source.Collect(context.Background()); err == nil {
		t.Error("Expected error for unparseable dashboard payload")
	}
}
