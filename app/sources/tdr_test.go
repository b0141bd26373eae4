package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const tdrUpdatePage = `<!DOCTYPE html>
<html>
<body>
  <div class="listUpdate">
    <ul>
      <li>
        <a href="/treasure/fantasy/notice.html">
          <p class="date">2023.7.24 更新情報</p>
          <p class="txt">パークチケットの販売状況について</p>
        </a>
      </li>
      <li>
        <a href="https://www.tokyodisneyresort.jp/tdr/other.html">
          <p class="date">2023.7.4 更新情報</p>
          <p class="txt">運営カレンダーを更新しました</p>
        </a>
      </li>
    </ul>
  </div>
</body>
</html>`

func TestTdrUpdatesCollect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(tdrUpdatePage))
	}))
	defer server.Close()

	source := NewTdrUpdates(NewClient(&http.Client{}, "test-agent"))
	source.pageURL = server.URL + "/tdr/update.html"

	result, err := source.Collect(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !result.Status {
		t.Error("Expected status true")
	}
	if len(result.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(result.Items))
	}

	first := result.Items[0]
	if first.Title != "パークチケットの販売状況について" {
		t.Errorf("Unexpected title: %q", first.Title)
	}
	if first.Link != server.URL+"/treasure/fantasy/notice.html" {
		t.Errorf("Expected relative link resolved against page URL, got %q", first.Link)
	}
	if first.PublishedAt == nil {
		t.Fatal("Expected parsed publish date")
	}
	expected := time.Date(2023, 7, 24, 0, 0, 0, 0, jst)
	if !first.PublishedAt.Equal(expected) {
		t.Errorf("Expected %v, got %v", expected, first.PublishedAt)
	}

	second := result.Items[1]
	if second.Link != "https://www.tokyodisneyresort.jp/tdr/other.html" {
		t.Errorf("Expected absolute link kept as-is, got %q", second.Link)
	}
}

func TestTdrParseDate(t *testing.T) {
	source := NewTdrUpdates(NewClient(&http.Client{}, "test-agent"))

	tests := []struct {
		name  string
		raw   string
		valid bool
	}{
		{"dotted with suffix", "2023.7.24 更新情報", true},
		{"single digit parts", "2024.1.5", true},
		{"garbage", "coming soon", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := source.parseDate(tt.raw)
			if tt.valid && got == nil {
				t.Errorf("Expected parseDate(%q) to succeed", tt.raw)
			}
			if !tt.valid && got != nil {
				t.Errorf("Expected parseDate(%q) to fail, got %v", tt.raw, got)
			}
		})
	}
}
