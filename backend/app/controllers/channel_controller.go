package controllers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"webguard/backend/app/dto"
	"webguard/backend/app/models"
	"webguard/backend/app/queue"
	"webguard/backend/app/repo"
	"webguard/backend/global"
	"webguard/wire"
)

// ChannelController serves the agent-facing command channel endpoints.
type ChannelController struct {
	Queue queue.Queue
	URLs  *repo.TrackedURLRepository
}

func NewChannelController(q queue.Queue, urls *repo.TrackedURLRepository) *ChannelController {
	return &ChannelController{Queue: q, URLs: urls}
}

// Ping answers liveness probes.
// GET /ping
func (c *ChannelController) Ping(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// GetCommands returns the pending batch without consuming it; the agent
// acknowledges with /clear-commands after processing.
// GET /get-commands
func (c *ChannelController) GetCommands(w http.ResponseWriter, r *http.Request) {
	cmds, err := c.Queue.Pending(r.Context())
	if err != nil {
		global.Logger.Error().Err(err).Msg("list pending commands")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if cmds == nil {
		cmds = []wire.Command{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(wire.CommandsResponse{Commands: cmds})
}

// ClearCommands acknowledges the pending batch.
// POST /clear-commands
func (c *ChannelController) ClearCommands(w http.ResponseWriter, r *http.Request) {
	if err := c.Queue.Clear(r.Context()); err != nil {
		global.Logger.Error().Err(err).Msg("clear pending commands")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TrackURL stores one mirrored history record.
// POST /track-url {"url","title","timestamp"}
func (c *ChannelController) TrackURL(w http.ResponseWriter, r *http.Request) {
	var req wire.TrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	ts, err := time.Parse(time.RFC3339, req.Timestamp)
	if err != nil {
		ts = time.Now()
	}
	row := &models.TrackedURL{
		URL:       req.URL,
		Title:     req.Title,
		Domain:    extractDomain(req.URL),
		Timestamp: ts,
	}
	if err := c.URLs.Create(row); err != nil {
		global.Logger.Error().Err(err).Msg("store tracked url")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "stored"})
}

// ListURLs returns the newest tracked rows.
// GET /urls?limit=
func (c *ChannelController) ListURLs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := c.URLs.ListRecent(limit)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	out := make([]dto.TrackedURLResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.TrackedURLResponse{
			URL:       row.URL,
			Title:     row.Title,
			Domain:    row.Domain,
			Timestamp: row.Timestamp.Unix(),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func extractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
