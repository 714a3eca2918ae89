package channel

import (
	"context"
	"errors"
	"time"

	"webguard/agent/internal/logger"
	"webguard/agent/internal/state"
	"webguard/wire"
)

// Dispatcher consumes one command; satisfied by command.Dispatcher.
type Dispatcher interface {
	Dispatch(cmd wire.Command)
}

// Poller periodically drains the backend command queue into the
// dispatcher. Cycles run on one goroutine, so a tick that fires while the
// previous cycle is still in flight is simply dropped rather than locked
// against.
type Poller struct {
	client     *Client
	dispatcher Dispatcher
	interval   time.Duration
}

func NewPoller(client *Client, dispatcher Dispatcher, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Poller{client: client, dispatcher: dispatcher, interval: interval}
}

// Run polls until ctx is cancelled. The first cycle runs immediately.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll runs one fetch-dispatch-clear cycle. An unreachable backend means
// "no commands this cycle".
func (p *Poller) Poll(ctx context.Context) {
	cmds, err := p.client.GetCommands(ctx)
	if err != nil {
		state.SetOnline(false)
		if errors.Is(err, ErrOffline) {
			logger.Debugf("poller: backend offline: %v", err)
		} else {
			logger.Warnf("poller: get commands: %v", err)
		}
		return
	}
	state.SetOnline(true)
	if len(cmds) == 0 {
		return
	}

	logger.Infof("poller: processing %d command(s)", len(cmds))
	for _, cmd := range cmds {
		p.dispatcher.Dispatch(cmd)
	}

	// Clear so the batch is not reprocessed. If the clear fails the next
	// cycle re-sees the batch; the rule handlers tolerate replays.
	if err := p.client.ClearCommands(ctx); err != nil {
		logger.Warnf("poller: clear commands: %v", err)
	}
}
