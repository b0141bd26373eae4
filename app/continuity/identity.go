package continuity

import (
	"cmp"
	"time"
)

// PreviousItem is one entry of a previously published feed, as parsed back
// from the snapshot endpoint.
type PreviousItem struct {
	GUID        string
	Title       string
	Link        string
	PublishedAt *time.Time
}

// Identity derives the key used to match the same logical item across runs:
// the first non-empty of guid, link, title. Every comparison in the snapshot
// fetcher, the reconciler and the history store goes through this function;
// divergent priority rules would show up as false deletions.
func Identity(guid, link, title string) string {
	return cmp.Or(guid, link, title)
}
