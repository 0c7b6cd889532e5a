package loom

import "github.com/google/uuid"

// Monitor tracks the tokens currently being resolved within one top-level
// resolution chain. A fresh Monitor is opened for every top-level Resolve or
// ResolveSync call and is never shared across chains, so two unrelated
// concurrent resolutions of the same token are never mistaken for a cycle.
//
// A Monitor is confined to its chain and performs no locking of its own.
type Monitor struct {
	requestID string
	inFlight  map[*tokenHandle]struct{}
	stack     []AnyToken
}

// MonitorFactory produces the Monitor for each top-level resolution. Supply a
// custom factory with WithMonitorFactory; the default is NewMonitor.
type MonitorFactory func() *Monitor

// NewMonitor creates an empty monitor with a unique request identifier.
func NewMonitor() *Monitor {
	return &Monitor{
		requestID: uuid.NewString(),
		inFlight:  make(map[*tokenHandle]struct{}),
	}
}

// RequestID returns the identifier correlating errors from this chain.
func (m *Monitor) RequestID() string {
	return m.requestID
}

// Enter marks tok as in flight. It reports false when tok is already being
// resolved within this chain, which means the chain has a cycle.
func (m *Monitor) Enter(tok AnyToken) bool {
	if _, ok := m.inFlight[tok.handle()]; ok {
		return false
	}

	m.inFlight[tok.handle()] = struct{}{}
	m.stack = append(m.stack, tok)

	return true
}

// Exit unmarks tok after its creator finished, successfully or not.
func (m *Monitor) Exit(tok AnyToken) {
	delete(m.inFlight, tok.handle())

	if n := len(m.stack); n > 0 && m.stack[n-1].handle() == tok.handle() {
		m.stack = m.stack[:n-1]
	}
}

// Path returns a copy of the ordered resolution stack.
func (m *Monitor) Path() []AnyToken {
	out := make([]AnyToken, len(m.stack))
	copy(out, m.stack)

	return out
}

// Depth returns how many tokens are currently in flight.
func (m *Monitor) Depth() int {
	return len(m.stack)
}
