package wire

import "encoding/json"

// Command is one instruction delivered from the backend to an agent.
type Command struct {
	Name    string          `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// CommandsResponse is the body of GET /get-commands.
type CommandsResponse struct {
	Commands []Command `json:"commands"`
}

// TrackRequest is the body of POST /track-url.
type TrackRequest struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	Timestamp string `json:"timestamp"`
}

// BlockDomainPayload is the payload of the block_domain command.
type BlockDomainPayload struct {
	Domain string `json:"domain"`
}

// BlockDomainsPayload is the payload of the block_domains command.
type BlockDomainsPayload struct {
	Domains []string `json:"domains"`
}

// SetBlockingPayload is the payload of the set_blocking command.
type SetBlockingPayload struct {
	Enabled bool `json:"enabled"`
}
