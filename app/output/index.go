package output

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"sort"
	"time"
)

// IndexEntry is one generated feed as listed on the index page.
type IndexEntry struct {
	SourceName  string
	Title       string
	Description string
	ItemCount   int
	BuiltAt     time.Time
}

// GenerateIndex renders the browsable index of all generated feeds.
// Entries are sorted by source name so the page is stable across runs.
func GenerateIndex(entries []IndexEntry, publicBase, version string, now time.Time) string {
	sorted := make([]IndexEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].SourceName < sorted[j].SourceName
	})

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html lang=\"ja\">\n<head>\n")
	buf.WriteString("  <meta charset=\"utf-8\">\n")
	buf.WriteString("  <title>feed-deliver</title>\n")
	buf.WriteString("</head>\n<body>\n")
	buf.WriteString("  <h1>feed-deliver</h1>\n")
	buf.WriteString(fmt.Sprintf("  <p>Generated %s by FeedDeliver/%s</p>\n",
		html.EscapeString(now.Format(time.RFC1123Z)), html.EscapeString(version)))
	buf.WriteString("  <ul>\n")

	for _, entry := range sorted {
		feedURL := fmt.Sprintf("%s/%s.xml", publicBase, entry.SourceName)
		buf.WriteString("    <li>")
		buf.WriteString(fmt.Sprintf("<a href=\"%s\">", html.EscapeString(feedURL)))
		writeEscaped(&buf, entry.Title)
		buf.WriteString("</a>")
		if entry.Description != "" {
			buf.WriteString(" &mdash; ")
			writeEscaped(&buf, entry.Description)
		}
		buf.WriteString(fmt.Sprintf(" (%d items)", entry.ItemCount))
		buf.WriteString("</li>\n")
	}

	buf.WriteString("  </ul>\n</body>\n</html>\n")
	return buf.String()
}

func writeEscaped(buf *bytes.Buffer, s string) {
	xml.EscapeText(buf, []byte(s))
}
