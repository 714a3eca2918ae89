// Package channel talks to the command channel backend. Every call is
// best-effort: an unreachable backend degrades to offline, it never takes
// the agent down.
package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"webguard/agent/internal/history"
	"webguard/agent/internal/state"
	"webguard/wire"
)

// ErrOffline reports that the backend could not be reached. Callers treat
// it as "no commands this cycle", not as a fault.
var ErrOffline = errors.New("command channel unreachable")

type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

// NewClient builds a client for the backend at addr ("host:port"). Every
// request carries the per-call timeout so no channel operation can hang the
// agent.
func NewClient(addr string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Client{
		baseURL: "http://" + addr,
		http:    &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// GetCommands fetches the pending command batch without consuming it.
func (c *Client) GetCommands(ctx context.Context) ([]wire.Command, error) {
	var resp wire.CommandsResponse
	if err := c.do(ctx, http.MethodGet, "/get-commands", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Commands, nil
}

// ClearCommands acknowledges the batch returned by the last GetCommands.
func (c *Client) ClearCommands(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/clear-commands", nil, nil)
}

// TrackURL mirrors one history record to the backend.
func (c *Client) TrackURL(ctx context.Context, rec history.Record) error {
	body := wire.TrackRequest{
		URL:       rec.URL,
		Title:     rec.Title,
		Timestamp: rec.Timestamp.Format(time.RFC3339),
	}
	return c.do(ctx, http.MethodPost, "/track-url", body, nil)
}

// Ping probes backend liveness.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/ping", nil, nil)
}

// ForwardRecord implements history.Forwarder with the client's own timeout.
func (c *Client) ForwardRecord(rec history.Record) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	err := c.TrackURL(ctx, rec)
	state.SetOnline(err == nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOffline, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("channel %s %s: status %d", method, path, resp.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
