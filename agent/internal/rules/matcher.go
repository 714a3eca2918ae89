package rules

import (
	"strings"

	"webguard/agent/internal/domainutil"
)

// Matcher is the callback blocking backend. It reads the live rule set on
// every call, so a toggled rule takes effect on the next request with no
// recompilation.
type Matcher struct {
	store *Store
	stats *Stats
}

func NewMatcher(store *Store, stats *Stats) *Matcher {
	return &Matcher{store: store, stats: stats}
}

// Evaluate decides block/allow for one request URL. A URL whose host cannot
// be extracted is allowed: an inspection failure must never keep a page from
// loading. A block increments the per-day stats.
func (m *Matcher) Evaluate(rawURL string) Verdict {
	host, err := domainutil.Host(rawURL)
	if err != nil || host == "" {
		return Verdict{}
	}
	for _, r := range m.store.Rules() {
		if !r.Enabled {
			continue
		}
		if host == r.Domain || strings.HasSuffix(host, "."+r.Domain) {
			if m.stats != nil {
				m.stats.RecordBlock()
			}
			return Verdict{Blocked: true, Host: host, Rule: r.Domain}
		}
	}
	return Verdict{Host: host}
}
