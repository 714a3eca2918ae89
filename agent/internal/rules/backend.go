package rules

import (
	"github.com/google/uuid"
)

// TableRule is one compiled declarative blocking rule, for interception
// backends that consume a rule table instead of calling back per request.
// Each enabled domain compiles to one entry covering the bare domain and its
// subdomains, scoped to top-level navigation.
type TableRule struct {
	ID            string   `json:"id"`
	DomainPattern []string `json:"domainPattern"`
	Action        string   `json:"action"`
	Scope         string   `json:"scope"`
}

const (
	ActionBlock   = "block"
	ScopeTopLevel = "top_level_navigation"
)

// TableBackend compiles the rule set and hands the table to an apply
// function supplied by the interception adapter.
type TableBackend struct {
	apply func([]TableRule) error
}

func NewTableBackend(apply func([]TableRule) error) *TableBackend {
	return &TableBackend{apply: apply}
}

// Apply recompiles and pushes the table. Disabled rules compile to nothing.
func (b *TableBackend) Apply(rules []Rule) error {
	return b.apply(Compile(rules))
}

// Compile turns enabled rules into table entries.
func Compile(rules []Rule) []TableRule {
	out := make([]TableRule, 0, len(rules))
	for _, r := range rules {
		if !r.Enabled {
			continue
		}
		out = append(out, TableRule{
			ID:            uuid.NewString(),
			DomainPattern: []string{r.Domain, "*." + r.Domain},
			Action:        ActionBlock,
			Scope:         ScopeTopLevel,
		})
	}
	return out
}
