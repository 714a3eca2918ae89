// Package query filters, sorts, paginates, and aggregates the activity
// history for presentation.
package query

import (
	"sort"
	"strings"
	"time"

	"webguard/agent/internal/domainutil"
	"webguard/agent/internal/history"
)

// Window selects the time range of a history filter.
type Window string

const (
	WindowAll   Window = "all"
	WindowToday Window = "today"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
)

// ParseWindow maps a query-string value to a Window, defaulting to all.
func ParseWindow(s string) Window {
	switch Window(s) {
	case WindowToday, WindowWeek, WindowMonth:
		return Window(s)
	default:
		return WindowAll
	}
}

// Options narrows a history filter.
type Options struct {
	Search string
	Window Window
}

// Filter returns the records matching opts at time now, sorted by timestamp
// descending with ties kept in insertion order.
func Filter(records []history.Record, opts Options, now time.Time) []history.Record {
	cutoff, bounded := windowCutoff(opts.Window, now)
	search := strings.ToLower(opts.Search)

	out := make([]history.Record, 0, len(records))
	for _, rec := range records {
		if bounded && rec.Timestamp.Before(cutoff) {
			continue
		}
		if search != "" && !matchesSearch(rec, search) {
			continue
		}
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

func matchesSearch(rec history.Record, search string) bool {
	return strings.Contains(strings.ToLower(rec.URL), search) ||
		strings.Contains(strings.ToLower(rec.Title), search) ||
		strings.Contains(domainutil.FromURL(rec.URL), search)
}

func windowCutoff(w Window, now time.Time) (time.Time, bool) {
	switch w {
	case WindowToday:
		return dayStart(now), true
	case WindowWeek:
		return now.Add(-7 * 24 * time.Hour), true
	case WindowMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), true
	default:
		return time.Time{}, false
	}
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Paginate slices a filtered result into 1-indexed pages of size pageSize,
// clamped to available records. totalPages is at least 1 so an empty result
// still displays as "page 1 of 1".
func Paginate(records []history.Record, page, pageSize int) (pageSlice []history.Record, totalPages int) {
	if pageSize <= 0 {
		pageSize = 10
	}
	if page < 1 {
		page = 1
	}
	totalPages = (len(records) + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	start := (page - 1) * pageSize
	if start >= len(records) {
		return []history.Record{}, totalPages
	}
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end], totalPages
}

// DomainCount pairs a derived domain with its visit count.
type DomainCount struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// TopDomains aggregates records per derived domain, sorted by count
// descending with ties broken by first-seen order. Records whose domain
// cannot be derived are excluded.
func TopDomains(records []history.Record) []DomainCount {
	counts := map[string]int{}
	var order []string
	for _, rec := range records {
		d := domainutil.FromURL(rec.URL)
		if d == "unknown" {
			continue
		}
		if _, seen := counts[d]; !seen {
			order = append(order, d)
		}
		counts[d]++
	}
	out := make([]DomainCount, 0, len(order))
	for _, d := range order {
		out = append(out, DomainCount{Domain: d, Count: counts[d]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// DashboardStats summarizes the history for the stats view.
type DashboardStats struct {
	Total         int     `json:"total"`
	UniqueDomains int     `json:"uniqueDomains"`
	TodayCount    int     `json:"todayCount"`
	GrowthRate    float64 `json:"growthRate"`
}

// Dashboard computes totals and the day-over-day growth rate:
// (today-yesterday)/yesterday*100, 100 when yesterday is empty and today is
// not, 0 when both are.
func Dashboard(records []history.Record, now time.Time) DashboardStats {
	todayStart := dayStart(now)
	yesterdayStart := todayStart.AddDate(0, 0, -1)

	unique := map[string]struct{}{}
	var today, yesterday int
	for _, rec := range records {
		unique[domainutil.FromURL(rec.URL)] = struct{}{}
		switch {
		case !rec.Timestamp.Before(todayStart):
			today++
		case !rec.Timestamp.Before(yesterdayStart):
			yesterday++
		}
	}

	var growth float64
	switch {
	case yesterday > 0:
		growth = float64(today-yesterday) / float64(yesterday) * 100
	case today > 0:
		growth = 100
	}

	return DashboardStats{
		Total:         len(records),
		UniqueDomains: len(unique),
		TodayCount:    today,
		GrowthRate:    growth,
	}
}
