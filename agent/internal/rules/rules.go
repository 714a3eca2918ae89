// Package rules owns the blocked-domain rule set: normalization-keyed
// storage, enable/disable state, import, and the matching engine that turns
// observed request URLs into block/allow verdicts.
package rules

import (
	"errors"
	"time"
)

// Rule is one blocked domain. Domain is stored in normalized form and is
// unique across the set.
type Rule struct {
	Domain    string    `json:"domain"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"dateAdded"`
}

// ErrDuplicateRule reports an add for a domain already present under
// normalization.
var ErrDuplicateRule = errors.New("domain is already blocked")

// Verdict is the outcome of matching one request against the rule set.
type Verdict struct {
	Blocked bool   // cancel the request
	Host    string // normalized request host, empty when unparsable
	Rule    string // domain of the matching rule, empty on allow
}

// Evaluator is a blocking backend that decides requests inline.
type Evaluator interface {
	Evaluate(rawURL string) Verdict
}

// Applier is a blocking backend that consumes a precompiled rule table
// instead of evaluating callbacks.
type Applier interface {
	Apply(rules []Rule) error
}
