package api

import "net/http"

// NewRouter builds the agent's local HTTP handler.
func NewRouter(c *Controller) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/check", c.Check)
	mux.HandleFunc("/track", c.Track)
	mux.HandleFunc("/rules", c.Rules)
	mux.HandleFunc("/rules/toggle", c.ToggleRule)
	mux.HandleFunc("/rules/toggle-all", c.ToggleAll)
	mux.HandleFunc("/rules/import", c.ImportRules)
	mux.HandleFunc("/rules/table", c.RuleTable)
	mux.HandleFunc("/history", c.HistoryPage)
	mux.HandleFunc("/history/domains", c.TopDomains)
	mux.HandleFunc("/history/stats", c.DashboardStats)
	mux.HandleFunc("/history/export", c.Export)
	mux.HandleFunc("/status", c.Status)
	return Logging(mux)
}
