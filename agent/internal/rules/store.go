package rules

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"time"

	"webguard/agent/internal/domainutil"
	"webguard/agent/internal/logger"
	"webguard/agent/internal/storage"
)

const docBlockedDomains = "blocked_domains"

// Store owns the rule set. All mutations persist the whole set as one
// document and notify the wired blocking backend so it can recompile.
type Store struct {
	mu      sync.Mutex
	docs    storage.Store
	rules   []Rule
	applier Applier
}

func NewStore(docs storage.Store) *Store {
	return &Store{docs: docs}
}

// SetApplier wires a table-based blocking backend. Callback backends read
// the live rule set and need no notification.
func (s *Store) SetApplier(a Applier) {
	s.mu.Lock()
	s.applier = a
	s.mu.Unlock()
	s.recompile()
}

// Load replaces the in-memory set with the persisted document. A missing or
// unreadable document leaves the set empty.
func (s *Store) Load() error {
	data, ok, err := s.docs.Get(docBlockedDomains)
	if err != nil {
		logger.Warnf("rules: load failed, starting empty: %v", err)
		return nil
	}
	if !ok {
		return nil
	}
	var loaded []Rule
	if err := json.Unmarshal(data, &loaded); err != nil {
		return err
	}
	s.mu.Lock()
	s.rules = loaded
	s.mu.Unlock()
	s.recompile()
	return nil
}

// Add normalizes raw and inserts a new enabled rule at the front.
func (s *Store) Add(raw string) (Rule, error) {
	domain, err := domainutil.Normalize(raw)
	if err != nil {
		return Rule{}, err
	}
	s.mu.Lock()
	if s.indexOf(domain) >= 0 {
		s.mu.Unlock()
		return Rule{}, ErrDuplicateRule
	}
	r := Rule{Domain: domain, Enabled: true, CreatedAt: time.Now()}
	s.rules = append([]Rule{r}, s.rules...)
	s.persistLocked()
	s.mu.Unlock()
	s.recompile()
	return r, nil
}

// Remove deletes the rule for domain. Absent domains are a no-op.
func (s *Store) Remove(domain string) {
	if d, err := domainutil.Normalize(domain); err == nil {
		domain = d
	}
	s.mu.Lock()
	i := s.indexOf(domain)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.rules = append(s.rules[:i], s.rules[i+1:]...)
	s.persistLocked()
	s.mu.Unlock()
	s.recompile()
}

// Toggle sets the enabled flag of one rule. Absent domains are a no-op.
func (s *Store) Toggle(domain string, enabled bool) {
	if d, err := domainutil.Normalize(domain); err == nil {
		domain = d
	}
	s.mu.Lock()
	i := s.indexOf(domain)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.rules[i].Enabled = enabled
	s.persistLocked()
	s.mu.Unlock()
	s.recompile()
}

// ToggleAll sets every rule's flag in one persisted batch.
func (s *Store) ToggleAll(enabled bool) {
	s.mu.Lock()
	for i := range s.rules {
		s.rules[i].Enabled = enabled
	}
	s.persistLocked()
	s.mu.Unlock()
	s.recompile()
}

// NextToggleAll reports the state a toggle-all affordance should switch to:
// disable everything when everything is enabled, enable otherwise.
func (s *Store) NextToggleAll() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rules {
		if !r.Enabled {
			return true
		}
	}
	return len(s.rules) == 0
}

// Import reads newline-delimited domains, skipping blank lines and comments
// ("#" or "//"). Invalid and duplicate lines are skipped silently; the
// return value counts rules actually added.
func (s *Store) Import(r io.Reader) int {
	added := 0
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		domain, err := domainutil.Normalize(line)
		if err != nil {
			continue
		}
		s.mu.Lock()
		if s.indexOf(domain) >= 0 {
			s.mu.Unlock()
			continue
		}
		s.rules = append(s.rules, Rule{Domain: domain, Enabled: true, CreatedAt: time.Now()})
		s.mu.Unlock()
		added++
	}
	if added > 0 {
		s.mu.Lock()
		s.persistLocked()
		s.mu.Unlock()
		s.recompile()
	}
	return added
}

// Rules returns a snapshot copy of the set in stored order.
func (s *Store) Rules() []Rule {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rules)
}

func (s *Store) indexOf(domain string) int {
	for i, r := range s.rules {
		if r.Domain == domain {
			return i
		}
	}
	return -1
}

// persistLocked writes the whole set. Failures are logged, not returned:
// the next mutation retries the write.
func (s *Store) persistLocked() {
	data, err := json.Marshal(s.rules)
	if err != nil {
		logger.Errorf("rules: marshal: %v", err)
		return
	}
	if err := s.docs.Set(docBlockedDomains, data); err != nil {
		logger.Warnf("rules: persist failed, will retry on next change: %v", err)
	}
}

func (s *Store) recompile() {
	s.mu.Lock()
	a := s.applier
	s.mu.Unlock()
	if a == nil {
		return
	}
	if err := a.Apply(s.Rules()); err != nil {
		logger.Errorf("rules: backend apply: %v", err)
	}
}
