package rules

import (
	"encoding/json"
	"sync"
	"time"

	"webguard/agent/internal/logger"
	"webguard/agent/internal/storage"
)

const docBlockStats = "block_stats"

const dayKeyLayout = "2006-01-02"

// Stats counts blocking verdicts per local calendar day. The counter is
// incremented once per blocked verdict and resets when the day key rolls
// over.
type Stats struct {
	mu   sync.Mutex
	docs storage.Store

	blockedToday int
	dayKey       string

	now func() time.Time // test hook
}

func NewStats(docs storage.Store) *Stats {
	return &Stats{docs: docs, now: time.Now}
}

type statsDoc struct {
	BlockedToday int    `json:"totalBlocksToday"`
	DayKey       string `json:"lastReset"`
}

// Load restores the persisted counter, discarding it when it belongs to an
// earlier day.
func (s *Stats) Load() {
	data, ok, err := s.docs.Get(docBlockStats)
	if err != nil || !ok {
		return
	}
	var doc statsDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc.DayKey == s.now().Format(dayKeyLayout) {
		s.blockedToday = doc.BlockedToday
		s.dayKey = doc.DayKey
	}
}

// RecordBlock increments today's counter, resetting first when the stored
// day differs from the current one. Persistence is fire-and-forget so the
// verdict path never waits on storage.
func (s *Stats) RecordBlock() {
	s.mu.Lock()
	today := s.now().Format(dayKeyLayout)
	if s.dayKey != today {
		s.dayKey = today
		s.blockedToday = 0
	}
	s.blockedToday++
	s.mu.Unlock()
	go s.persist()
}

// BlockedToday returns today's counter, seen as zero after a day rollover
// even before the next block.
func (s *Stats) BlockedToday() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dayKey != s.now().Format(dayKeyLayout) {
		return 0
	}
	return s.blockedToday
}

func (s *Stats) persist() {
	s.mu.Lock()
	doc := statsDoc{BlockedToday: s.blockedToday, DayKey: s.dayKey}
	s.mu.Unlock()
	data, err := json.Marshal(doc)
	if err != nil {
		return
	}
	if err := s.docs.Set(docBlockStats, data); err != nil {
		logger.Debugf("stats: persist: %v", err)
	}
}
