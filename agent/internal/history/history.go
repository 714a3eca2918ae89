// Package history is the append-only, size-bounded log of visited-page
// events.
package history

import "time"

// MaxHistory bounds the store; the oldest records are evicted first.
const MaxHistory = 1000

// Record is one visited-page event. Immutable once created.
type Record struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRecord builds a record for url at now. An empty title defaults to
// "Unknown".
func NewRecord(url, title string, now time.Time) Record {
	if title == "" {
		title = "Unknown"
	}
	return Record{URL: url, Title: title, Timestamp: now}
}
