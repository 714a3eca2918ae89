package dto

import "encoding/json"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

// CommandRequest is the admin body for enqueueing one command.
type CommandRequest struct {
	Command string          `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// TrackedURLResponse is one row of GET /urls.
type TrackedURLResponse struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	Domain    string `json:"domain"`
	Timestamp int64  `json:"timestamp"`
}
