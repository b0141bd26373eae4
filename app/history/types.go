package history

import (
	"time"
)

// DeletedArticle is a durable record of an item that existed in a previous
// run's feed but disappeared from its source. Never updated after creation.
type DeletedArticle struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	PublishedAt time.Time `json:"pubDate"`
	DeletedAt   time.Time `json:"deletedAt"`
	SourceName  string    `json:"serviceName"`
}

// History is the cross-run aggregate of deleted-article records. Articles
// are deduplicated by ID; the existing record wins on conflict.
type History struct {
	Version     string           `json:"version"`
	LastUpdated time.Time        `json:"lastUpdated"`
	Articles    []DeletedArticle `json:"articles"`
}

// LookupPublishDate returns the recorded publish date for an identity key.
func (h *History) LookupPublishDate(id string) (time.Time, bool) {
	if h == nil {
		return time.Time{}, false
	}
	for _, article := range h.Articles {
		if article.ID == id {
			return article.PublishedAt, true
		}
	}
	return time.Time{}, false
}
