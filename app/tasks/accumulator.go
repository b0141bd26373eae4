package tasks

import (
	"sync"

	"github.com/tsubasa-dev/feed-deliver/app/history"
	"github.com/tsubasa-dev/feed-deliver/app/output"
)

// Accumulator collects each source task's contributions to the aggregation
// phase. Tasks run on separate goroutines, so access is mutex guarded.
type Accumulator struct {
	mu      sync.Mutex
	deleted []history.DeletedArticle
	entries []output.IndexEntry
}

func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

func (a *Accumulator) AddDeleted(records []history.DeletedArticle) {
	if len(records) == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.deleted = append(a.deleted, records...)
}

func (a *Accumulator) AddEntry(entry output.IndexEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
}

func (a *Accumulator) Deleted() []history.DeletedArticle {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]history.DeletedArticle(nil), a.deleted...)
}

func (a *Accumulator) Entries() []output.IndexEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]output.IndexEntry(nil), a.entries...)
}
