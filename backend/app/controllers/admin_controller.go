package controllers

import (
	"encoding/json"
	"net/http"

	"webguard/backend/app/dto"
	"webguard/backend/app/queue"
	"webguard/backend/global"
	"webguard/wire"
)

// AdminController enqueues commands for the agents.
type AdminController struct {
	Queue queue.Queue
}

func NewAdminController(q queue.Queue) *AdminController {
	return &AdminController{Queue: q}
}

// known command names; anything else is rejected at enqueue time so agents
// never see garbage
var knownCommands = map[string]bool{
	"block_domain":  true,
	"block_domains": true,
	"set_blocking":  true,
}

// PostCommand queues one command for the next agent poll.
// POST /admin/command {"command","payload"}
func (c *AdminController) PostCommand(w http.ResponseWriter, r *http.Request) {
	var req dto.CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Command == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if !knownCommands[req.Command] {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"unknown command"}`))
		return
	}
	cmd := wire.Command{Name: req.Command, Payload: req.Payload}
	if err := c.Queue.Push(r.Context(), cmd); err != nil {
		global.Logger.Error().Err(err).Msg("enqueue command")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
