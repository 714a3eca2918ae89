package history

import (
	"encoding/json"
	"sync"

	"webguard/agent/internal/logger"
	"webguard/agent/internal/storage"
)

const docURLHistory = "url_history"

// Store holds records in insertion (chronological) order, capped at
// MaxHistory with FIFO eviction.
type Store struct {
	mu      sync.Mutex
	docs    storage.Store
	records []Record
}

func NewStore(docs storage.Store) *Store {
	return &Store{docs: docs}
}

// Load restores the persisted log. Missing or unreadable documents leave
// the log empty.
func (s *Store) Load() error {
	data, ok, err := s.docs.Get(docURLHistory)
	if err != nil {
		logger.Warnf("history: load failed, starting empty: %v", err)
		return nil
	}
	if !ok {
		return nil
	}
	var loaded []Record
	if err := json.Unmarshal(data, &loaded); err != nil {
		return err
	}
	if n := len(loaded); n > MaxHistory {
		loaded = loaded[n-MaxHistory:]
	}
	s.mu.Lock()
	s.records = loaded
	s.mu.Unlock()
	return nil
}

// Append adds rec to the end, evicting from the front past MaxHistory, and
// persists the log.
func (s *Store) Append(rec Record) {
	s.mu.Lock()
	s.records = append(s.records, rec)
	if n := len(s.records); n > MaxHistory {
		s.records = s.records[n-MaxHistory:]
	}
	s.persistLocked()
	s.mu.Unlock()
}

// All returns a snapshot copy in chronological ascending order.
func (s *Store) All() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Clear empties the log and persists the empty state.
func (s *Store) Clear() {
	s.mu.Lock()
	s.records = nil
	s.persistLocked()
	s.mu.Unlock()
}

func (s *Store) persistLocked() {
	recs := s.records
	if recs == nil {
		recs = []Record{}
	}
	data, err := json.Marshal(recs)
	if err != nil {
		logger.Errorf("history: marshal: %v", err)
		return
	}
	if err := s.docs.Set(docURLHistory, data); err != nil {
		logger.Warnf("history: persist failed, will retry on next append: %v", err)
	}
}
