package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriterCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "output")

	writer, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if writer.Dir() != dir {
		t.Errorf("Expected dir %q, got %q", dir, writer.Dir())
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("Expected output directory to exist: %v", err)
	}
}

func TestWriteFeed(t *testing.T) {
	writer, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := writer.WriteFeed("zenn-changelog", "<rss></rss>"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(writer.Dir(), "zenn-changelog.xml"))
	if err != nil {
		t.Fatalf("Expected feed file to exist: %v", err)
	}
	if string(data) != "<rss></rss>" {
		t.Errorf("Unexpected file content: %q", data)
	}
}

func TestWriteFeedOverwrites(t *testing.T) {
	writer, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	writer.WriteFeed("test", "old")
	writer.WriteFeed("test", "new")

	data, _ := os.ReadFile(filepath.Join(writer.Dir(), "test.xml"))
	if string(data) != "new" {
		t.Errorf("Expected overwrite, got %q", data)
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	writer, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	writer.WriteFeed("a", "x")
	writer.WriteIndex("<html></html>")

	entries, err := os.ReadDir(writer.Dir())
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".tmp-") {
			t.Errorf("Leftover temp file: %s", entry.Name())
		}
	}
}

func TestGenerateIndex(t *testing.T) {
	entries := []IndexEntry{
		{SourceName: "zenn-changelog", Title: "Zenn Changelog", Description: "What's new", ItemCount: 10},
		{SourceName: "lodestone-news", Title: "FF14 <News>", ItemCount: 3},
	}

	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	page := GenerateIndex(entries, "https://feeds.example.com/deliver", "1.0", now)

	if !strings.Contains(page, `<a href="https://feeds.example.com/deliver/zenn-changelog.xml">Zenn Changelog</a>`) {
		t.Error("Expected zenn feed link")
	}
	if !strings.Contains(page, "FF14 &lt;News&gt;") {
		t.Error("Expected escaped title")
	}
	if !strings.Contains(page, "(10 items)") {
		t.Error("Expected item count")
	}

	// Sorted by source name: lodestone before zenn.
	if strings.Index(page, "lodestone-news.xml") > strings.Index(page, "zenn-changelog.xml") {
		t.Error("Expected entries sorted by source name")
	}
}
