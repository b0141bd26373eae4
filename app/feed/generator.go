package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"time"

	"github.com/tsubasa-dev/feed-deliver/app/cfg"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Run serializes one source's channel and items into an RSS 2.0 document.
// Items still carrying a nil PublishedAt get now as their date; this is the
// single defaulting point, the reconciler never invents dates.
func (g *Generator) Run(sourceName string, info ChannelInfo, items []Item, now time.Time) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", info.Title, 4)
	g.writeElement(&buf, "link", info.Link, 4)
	description := info.Description
	if description == "" {
		description = fmt.Sprintf("Generated feed for %s", sourceName)
	}
	g.writeElement(&buf, "description", description, 4)

	selfLink := fmt.Sprintf("%s/%s.xml", cfg.Get().PublicBase, sourceName)
	buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
		html.EscapeString(selfLink)))

	lastBuildDate := now
	for _, item := range items {
		if item.IsFiltered {
			continue
		}
		if item.PublishedAt != nil {
			lastBuildDate = *item.PublishedAt
		}
		break
	}
	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("FeedDeliver/%s", cfg.Get().Version), 4)
	if info.Language != "" {
		g.writeElement(&buf, "language", info.Language, 4)
	}

	if info.Image != nil {
		buf.WriteString("    <image>\n")
		g.writeElement(&buf, "url", info.Image.URL, 6)
		g.writeElement(&buf, "title", info.Image.Title, 6)
		g.writeElement(&buf, "link", info.Image.Link, 6)
		buf.WriteString("    </image>\n")
	}

	for _, item := range items {
		if item.IsFiltered {
			continue
		}
		g.writeItem(&buf, item, now)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, item Item, now time.Time) {
	buf.WriteString("    <item>\n")

	if item.GUID != "" {
		buf.WriteString(fmt.Sprintf("      <guid isPermaLink=\"%t\">", g.isURL(item.GUID)))
		xml.EscapeText(buf, []byte(item.GUID))
		buf.WriteString("</guid>\n")
	}

	if item.Title != "" {
		g.writeElement(buf, "title", item.Title, 6)
	}

	if item.Link != "" {
		g.writeElement(buf, "link", item.Link, 6)
	}

	if item.Content != "" {
		buf.WriteString("      <content:encoded><![CDATA[")
		buf.WriteString(item.Content)
		buf.WriteString("]]></content:encoded>\n")
	}

	pubDate := now
	if item.PublishedAt != nil {
		pubDate = *item.PublishedAt
	}
	g.writeElement(buf, "pubDate", pubDate.Format(time.RFC1123Z), 6)

	for _, category := range item.Categories {
		if category != "" {
			g.writeElement(buf, "category", category, 6)
		}
	}

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

func (g *Generator) isURL(s string) bool {
	return (len(s) > 7 && s[:7] == "http://") || (len(s) > 8 && s[:8] == "https://")
}
