package continuity

import (
	"log/slog"
	"time"

	"github.com/tsubasa-dev/feed-deliver/app/feed"
	"github.com/tsubasa-dev/feed-deliver/app/history"
)

// InheritPublishDate resolves an item's publish date from the previous
// snapshot, falling back to the deletion history. Adapter-supplied dates
// always win; when nothing matches the date stays unset and the generator
// defaults it at emission time.
func InheritPublishDate(item feed.Item, previousItems []PreviousItem, h *history.History) feed.Item {
	if item.PublishedAt != nil {
		return item
	}

	id := Identity(item.GUID, item.Link, item.Title)

	// Identity collisions are not disambiguated; the last match by scan
	// order wins.
	var match *PreviousItem
	for i := range previousItems {
		if Identity(previousItems[i].GUID, previousItems[i].Link, previousItems[i].Title) == id {
			match = &previousItems[i]
		}
	}
	if match != nil && match.PublishedAt != nil {
		item.PublishedAt = match.PublishedAt
		return item
	}

	if published, ok := h.LookupPublishDate(id); ok {
		item.PublishedAt = &published
	}

	return item
}

// ReconcileDates applies InheritPublishDate to a whole collection.
func ReconcileDates(items []feed.Item, previousItems []PreviousItem, h *history.History) []feed.Item {
	inherited := 0
	reconciled := make([]feed.Item, len(items))
	for i, item := range items {
		hadDate := item.PublishedAt != nil
		reconciled[i] = InheritPublishDate(item, previousItems, h)
		if !hadDate && reconciled[i].PublishedAt != nil {
			inherited++
		}
	}

	if inherited > 0 {
		slog.Debug("Inherited publish dates", "count", inherited, "total", len(items))
	}

	return reconciled
}

// DetectDeleted returns a record for every previous item whose identity key
// is absent from the current collection. Pure set difference; the whole
// batch shares one detection instant.
func DetectDeleted(previousItems []PreviousItem, currentItems []feed.Item, sourceName string, now time.Time) []history.DeletedArticle {
	currentIDs := make(map[string]bool, len(currentItems))
	for _, item := range currentItems {
		currentIDs[Identity(item.GUID, item.Link, item.Title)] = true
	}

	var deleted []history.DeletedArticle
	for _, prev := range previousItems {
		id := Identity(prev.GUID, prev.Link, prev.Title)
		if currentIDs[id] {
			continue
		}

		published := now
		if prev.PublishedAt != nil {
			published = *prev.PublishedAt
		}

		deleted = append(deleted, history.DeletedArticle{
			ID:          id,
			Title:       prev.Title,
			Link:        prev.Link,
			PublishedAt: published,
			DeletedAt:   now,
			SourceName:  sourceName,
		})
	}

	for _, article := range deleted {
		slog.Info("Detected deleted article", "source", sourceName, "title", article.Title)
	}

	return deleted
}
