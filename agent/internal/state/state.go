package state

import "sync/atomic"

type appState struct {
	AgentID atomic.Value // string
	Online  atomic.Bool
}

var s appState

func SetAgentID(id string) { s.AgentID.Store(id) }
func GetAgentID() string {
	if v := s.AgentID.Load(); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// SetOnline records the outcome of the last backend exchange.
func SetOnline(ok bool) { s.Online.Store(ok) }
func IsOnline() bool    { return s.Online.Load() }
