package sources

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-shiori/go-readability"
)

// extractReadable is the fallback body extraction for adapters whose
// site-specific selector came up empty.
func extractReadable(html []byte) (string, error) {
	if len(html) == 0 {
		return "", fmt.Errorf("HTML data is empty")
	}

	article, err := readability.FromReader(strings.NewReader(string(html)), nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	if article.Content == "" {
		return "", fmt.Errorf("no content extracted from HTML data")
	}

	slog.Debug("Content extracted via readability",
		"title", article.Title,
		"content_length", len(article.Content))

	return article.Content, nil
}
