package channel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webguard/agent/internal/history"
	"webguard/agent/internal/state"
	"webguard/wire"
)

// fakeBackend is a minimal command channel server for client tests.
type fakeBackend struct {
	mu       sync.Mutex
	commands []wire.Command
	cleared  int
	tracked  []wire.TrackRequest
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/get-commands", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		json.NewEncoder(w).Encode(wire.CommandsResponse{Commands: b.commands})
	})
	mux.HandleFunc("/clear-commands", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.commands = nil
		b.cleared++
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/track-url", func(w http.ResponseWriter, r *http.Request) {
		var req wire.TrackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		b.tracked = append(b.tracked, req)
		json.NewEncoder(w).Encode(map[string]string{"status": "stored"})
	})
	return mux
}

func newTestClient(t *testing.T, b *fakeBackend) *Client {
	t.Helper()
	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)
	return NewClient(strings.TrimPrefix(srv.URL, "http://"), time.Second)
}

func TestClientGetCommands(t *testing.T) {
	b := &fakeBackend{commands: []wire.Command{
		{Name: "block_domain", Payload: json.RawMessage(`{"domain":"a.com"}`)},
		{Name: "set_blocking", Payload: json.RawMessage(`{"enabled":true}`)},
	}}
	c := newTestClient(t, b)

	cmds, err := c.GetCommands(context.Background())
	require.NoError(t, err)
	require.Len(t, cmds, 2)
	assert.Equal(t, "block_domain", cmds[0].Name)
	assert.JSONEq(t, `{"domain":"a.com"}`, string(cmds[0].Payload))
}

func TestClientClearCommands(t *testing.T) {
	b := &fakeBackend{commands: []wire.Command{{Name: "block_domain"}}}
	c := newTestClient(t, b)

	require.NoError(t, c.ClearCommands(context.Background()))
	assert.Equal(t, 1, b.cleared)
	assert.Empty(t, b.commands)
}

func TestClientTrackURL(t *testing.T) {
	b := &fakeBackend{}
	c := newTestClient(t, b)

	ts := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	rec := history.Record{URL: "https://a.com/", Title: "A", Timestamp: ts}
	require.NoError(t, c.TrackURL(context.Background(), rec))

	require.Len(t, b.tracked, 1)
	assert.Equal(t, "https://a.com/", b.tracked[0].URL)
	assert.Equal(t, "A", b.tracked[0].Title)
	assert.Equal(t, "2026-03-14T10:00:00Z", b.tracked[0].Timestamp)
}

func TestClientPing(t *testing.T) {
	c := newTestClient(t, &fakeBackend{})
	assert.NoError(t, c.Ping(context.Background()))
}

func TestClientOffline(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := strings.TrimPrefix(srv.URL, "http://")
	srv.Close()

	c := NewClient(addr, 500*time.Millisecond)
	_, err := c.GetCommands(context.Background())
	assert.ErrorIs(t, err, ErrOffline)
}

func TestClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(strings.TrimPrefix(srv.URL, "http://"), time.Second)
	_, err := c.GetCommands(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrOffline)
}

func TestForwardRecordUpdatesOnlineState(t *testing.T) {
	c := newTestClient(t, &fakeBackend{})

	require.NoError(t, c.ForwardRecord(history.Record{URL: "https://a.com/", Title: "A", Timestamp: time.Now()}))
	assert.True(t, state.IsOnline())

	srv := httptest.NewServer(http.NotFoundHandler())
	addr := strings.TrimPrefix(srv.URL, "http://")
	srv.Close()

	down := NewClient(addr, 500*time.Millisecond)
	assert.Error(t, down.ForwardRecord(history.Record{URL: "https://a.com/", Timestamp: time.Now()}))
	assert.False(t, state.IsOnline())
}

// --- poller ---

type captureDispatcher struct {
	mu   sync.Mutex
	cmds []wire.Command
}

func (d *captureDispatcher) Dispatch(cmd wire.Command) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cmds = append(d.cmds, cmd)
}

func TestPollerCycle(t *testing.T) {
	b := &fakeBackend{commands: []wire.Command{
		{Name: "block_domain", Payload: json.RawMessage(`{"domain":"a.com"}`)},
	}}
	c := newTestClient(t, b)
	d := &captureDispatcher{}

	p := NewPoller(c, d, time.Minute)
	p.Poll(context.Background())

	require.Len(t, d.cmds, 1)
	assert.Equal(t, "block_domain", d.cmds[0].Name)
	// the batch is acknowledged so it is not reprocessed
	assert.Equal(t, 1, b.cleared)
	assert.True(t, state.IsOnline())

	// nothing pending: no dispatch, no clear
	p.Poll(context.Background())
	assert.Len(t, d.cmds, 1)
	assert.Equal(t, 1, b.cleared)
}

func TestPollerOfflineBackend(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := strings.TrimPrefix(srv.URL, "http://")
	srv.Close()

	c := NewClient(addr, 500*time.Millisecond)
	d := &captureDispatcher{}
	p := NewPoller(c, d, time.Minute)

	p.Poll(context.Background())
	assert.Empty(t, d.cmds)
	assert.False(t, state.IsOnline())
}

func TestPollerRunStopsOnCancel(t *testing.T) {
	b := &fakeBackend{}
	c := newTestClient(t, b)
	p := NewPoller(c, &captureDispatcher{}, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after cancel")
	}
}
