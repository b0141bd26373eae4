package feed

import (
	"testing"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain ascii", "Hello World", "Hello World"},
		{"surrounding whitespace", "  Hello  ", "Hello"},
		{"fullwidth alphanumerics folded", "ＦＦ１４ パッチ", "FF14 パッチ"},
		{"fullwidth space folded", "お知らせ　更新", "お知らせ 更新"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTitle(tt.input); got != tt.expected {
				t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		href     string
		expected string
	}{
		{"relative path", "https://example.com/lodestone/", "/lodestone/news/detail/abc", "https://example.com/lodestone/news/detail/abc"},
		{"already absolute", "https://example.com", "https://other.com/page", "https://other.com/page"},
		{"empty href", "https://example.com", "", ""},
		{"relative without slash", "https://example.com/list/", "item.html", "https://example.com/list/item.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveURL(tt.base, tt.href); got != tt.expected {
				t.Errorf("ResolveURL(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.expected)
			}
		})
	}
}
