package history

import (
	"sync"
	"time"

	"webguard/agent/internal/logger"
)

// Forwarder mirrors records to the companion tracking endpoint. Failures
// are the forwarder's to report and the recorder's to ignore.
type Forwarder interface {
	ForwardRecord(rec Record) error
}

// Recorder turns navigation events into history records. A URL equal to the
// immediately preceding one is dropped without touching the store, which
// suppresses repeated events from the same page.
type Recorder struct {
	mu      sync.Mutex
	lastURL string

	store   *Store
	forward Forwarder
	now     func() time.Time
}

func NewRecorder(store *Store, forward Forwarder) *Recorder {
	return &Recorder{store: store, forward: forward, now: time.Now}
}

// Record appends a new history record for url unless it repeats the last
// recorded URL. Forwarding to the remote endpoint is best-effort; a failure
// never affects local recording.
func (r *Recorder) Record(url, title string) {
	if url == "" {
		return
	}
	r.mu.Lock()
	if url == r.lastURL {
		r.mu.Unlock()
		return
	}
	r.lastURL = url
	now := r.now()
	r.mu.Unlock()

	rec := NewRecord(url, title, now)
	r.store.Append(rec)

	if r.forward != nil {
		go func() {
			if err := r.forward.ForwardRecord(rec); err != nil {
				logger.Debugf("recorder: forward %s: %v", rec.URL, err)
			}
		}()
	}
}
