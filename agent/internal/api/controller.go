// Package api is the agent's local HTTP surface. The browser-side
// interception hook and the UI are external collaborators; they reach the
// core through these endpoints.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"webguard/agent/internal/domainutil"
	"webguard/agent/internal/history"
	"webguard/agent/internal/query"
	"webguard/agent/internal/rules"
	"webguard/agent/internal/state"
)

type Controller struct {
	Store    *rules.Store
	Stats    *rules.Stats
	Matcher  *rules.Matcher
	History  *history.Store
	Recorder *history.Recorder
}

func NewController(store *rules.Store, stats *rules.Stats, matcher *rules.Matcher, hist *history.Store, rec *history.Recorder) *Controller {
	return &Controller{Store: store, Stats: stats, Matcher: matcher, History: hist, Recorder: rec}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

// Check returns the blocking verdict for one request URL.
// GET /check?url=...
func (c *Controller) Check(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing url parameter"))
		return
	}
	v := c.Matcher.Evaluate(rawURL)
	writeJSON(w, http.StatusOK, map[string]any{"cancel": v.Blocked, "domain": v.Host})
}

// Track records one navigation event.
// POST /track {"url": ..., "title": ...}
func (c *Controller) Track(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL   string `json:"url"`
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeError(w, http.StatusBadRequest, errors.New("invalid track request"))
		return
	}
	c.Recorder.Record(req.URL, req.Title)
	w.WriteHeader(http.StatusNoContent)
}

// Rules lists, adds, or removes block rules.
func (c *Controller) Rules(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, c.Store.Rules())
	case http.MethodPost:
		var req struct {
			Domain string `json:"domain"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, errors.New("invalid body"))
			return
		}
		rule, err := c.Store.Add(req.Domain)
		switch {
		case errors.Is(err, domainutil.ErrInvalidDomain):
			writeError(w, http.StatusBadRequest, err)
		case errors.Is(err, rules.ErrDuplicateRule):
			writeError(w, http.StatusConflict, err)
		case err != nil:
			writeError(w, http.StatusInternalServerError, err)
		default:
			writeJSON(w, http.StatusCreated, rule)
		}
	case http.MethodDelete:
		domain := r.URL.Query().Get("domain")
		if domain == "" {
			writeError(w, http.StatusBadRequest, errors.New("missing domain parameter"))
			return
		}
		c.Store.Remove(domain)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// ToggleRule flips one rule's enabled flag.
// POST /rules/toggle {"domain": ..., "enabled": bool}
func (c *Controller) ToggleRule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Domain  string `json:"domain"`
		Enabled bool   `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Domain == "" {
		writeError(w, http.StatusBadRequest, errors.New("invalid toggle request"))
		return
	}
	c.Store.Toggle(req.Domain, req.Enabled)
	w.WriteHeader(http.StatusNoContent)
}

// ToggleAll flips every rule in one batch. Without a body the direction
// follows the UI affordance: disable all only when everything is enabled.
// POST /rules/toggle-all [{"enabled": bool}]
func (c *Controller) ToggleAll(w http.ResponseWriter, r *http.Request) {
	enabled := c.Store.NextToggleAll()
	var req struct {
		Enabled *bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.Enabled != nil {
		enabled = *req.Enabled
	}
	c.Store.ToggleAll(enabled)
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": enabled})
}

// ImportRules bulk-imports a newline-delimited blocklist from the body.
// POST /rules/import
func (c *Controller) ImportRules(w http.ResponseWriter, r *http.Request) {
	added := c.Store.Import(r.Body)
	writeJSON(w, http.StatusOK, map[string]int{"added": added})
}

// RuleTable returns the compiled declarative rule table for table-based
// interception backends.
// GET /rules/table
func (c *Controller) RuleTable(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rules.Compile(c.Store.Rules()))
}

// HistoryPage returns one filtered, paginated slice of the activity log.
// GET /history?search=&window=&page=&page_size=
func (c *Controller) HistoryPage(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodDelete {
		c.History.Clear()
		w.WriteHeader(http.StatusNoContent)
		return
	}
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	filtered := query.Filter(c.History.All(), query.Options{
		Search: q.Get("search"),
		Window: query.ParseWindow(q.Get("window")),
	}, time.Now())
	pageSlice, totalPages := query.Paginate(filtered, page, pageSize)

	writeJSON(w, http.StatusOK, map[string]any{
		"records":     pageSlice,
		"total":       len(filtered),
		"total_pages": totalPages,
	})
}

// TopDomains returns per-domain visit counts.
// GET /history/domains
func (c *Controller) TopDomains(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, query.TopDomains(c.History.All()))
}

// DashboardStats returns totals and day-over-day growth.
// GET /history/stats
func (c *Controller) DashboardStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, query.Dashboard(c.History.All(), time.Now()))
}

// Export streams the full log as a dated JSON attachment.
// GET /history/export
func (c *Controller) Export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", history.ExportFilename(time.Now())))
	if err := c.History.Export(w); err != nil {
		writeError(w, http.StatusInternalServerError, err)
	}
}

// Status summarizes the agent for a connectivity indicator.
// GET /status
func (c *Controller) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"agent_id":      state.GetAgentID(),
		"rules":         c.Store.Count(),
		"blocked_today": c.Stats.BlockedToday(),
		"history":       c.History.Len(),
		"online":        state.IsOnline(),
	})
}
