// Package command routes instructions from the command channel into rule
// store operations.
package command

import (
	"encoding/json"
	"errors"

	"webguard/agent/internal/domainutil"
	"webguard/agent/internal/logger"
	"webguard/agent/internal/rules"
	"webguard/wire"
)

// Handler executes one named command. DecodeArg lets each command define
// its own payload struct.
type Handler interface {
	DecodeArg(raw json.RawMessage) (any, error)
	Handle(arg any) error
}

// Dispatcher maps command names to handlers. Unknown commands are logged
// and ignored, never fatal.
type Dispatcher struct {
	handlers map[string]Handler
}

// NewDispatcher builds a dispatcher with the built-in rule commands
// registered against store.
func NewDispatcher(store *rules.Store) *Dispatcher {
	d := &Dispatcher{handlers: map[string]Handler{}}
	d.Register("block_domain", blockDomainHandler{store})
	d.Register("block_domains", blockDomainsHandler{store})
	d.Register("set_blocking", setBlockingHandler{store})
	return d
}

func (d *Dispatcher) Register(name string, h Handler) { d.handlers[name] = h }

// Dispatch executes cmd and logs the outcome. Handler failures do not stop
// the batch.
func (d *Dispatcher) Dispatch(cmd wire.Command) {
	h, ok := d.handlers[cmd.Name]
	if !ok {
		logger.Warnf("command: unknown command %q ignored", cmd.Name)
		return
	}
	arg, err := h.DecodeArg(cmd.Payload)
	if err != nil {
		logger.Errorf("command: decode %s: %v", cmd.Name, err)
		return
	}
	if err := h.Handle(arg); err != nil {
		logger.Errorf("command: %s failed: %v", cmd.Name, err)
		return
	}
	logger.Infof("command: %s completed", cmd.Name)
}

type blockDomainHandler struct {
	store *rules.Store
}

func (h blockDomainHandler) DecodeArg(raw json.RawMessage) (any, error) {
	var p wire.BlockDomainPayload
	if len(raw) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return p, nil
}

func (h blockDomainHandler) Handle(arg any) error {
	p, ok := arg.(wire.BlockDomainPayload)
	if !ok {
		return errors.New("invalid argument type")
	}
	return addDomain(h.store, p.Domain)
}

type blockDomainsHandler struct {
	store *rules.Store
}

func (h blockDomainsHandler) DecodeArg(raw json.RawMessage) (any, error) {
	var p wire.BlockDomainsPayload
	if len(raw) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return p, nil
}

func (h blockDomainsHandler) Handle(arg any) error {
	p, ok := arg.(wire.BlockDomainsPayload)
	if !ok {
		return errors.New("invalid argument type")
	}
	for _, d := range p.Domains {
		if err := addDomain(h.store, d); err != nil {
			return err
		}
	}
	return nil
}

type setBlockingHandler struct {
	store *rules.Store
}

func (h setBlockingHandler) DecodeArg(raw json.RawMessage) (any, error) {
	var p wire.SetBlockingPayload
	if len(raw) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return p, nil
}

func (h setBlockingHandler) Handle(arg any) error {
	p, ok := arg.(wire.SetBlockingPayload)
	if !ok {
		return errors.New("invalid argument type")
	}
	h.store.ToggleAll(p.Enabled)
	return nil
}

// addDomain treats duplicates as already-satisfied and bad input as a
// skipped line, mirroring bulk import.
func addDomain(store *rules.Store, raw string) error {
	_, err := store.Add(raw)
	switch {
	case errors.Is(err, rules.ErrDuplicateRule):
		logger.Debugf("command: %s already blocked", raw)
		return nil
	case errors.Is(err, domainutil.ErrInvalidDomain):
		logger.Warnf("command: skipping invalid domain %q", raw)
		return nil
	}
	return err
}
