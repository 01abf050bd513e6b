package midihook

import (
	"sync"

	"github.com/hetima/midihook/sdk/contracts"
)

// HandlerMux is a concurrency safe handler registry keyed by candidate
// identifier. Handlers may be added and removed while the engine runs.
type HandlerMux struct {
	mu       sync.RWMutex
	handlers map[string]contracts.Handler
}

// NewHandlerMux returns an empty registry.
func NewHandlerMux() *HandlerMux {
	return &HandlerMux{handlers: make(map[string]contracts.Handler)}
}

// Handle registers fn under the given identifier, replacing any previous
// registration. A nil fn is ignored.
func (m *HandlerMux) Handle(id string, fn contracts.Handler) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	m.handlers[id] = fn
	m.mu.Unlock()
}

// Unhandle removes the registration for the given identifier.
func (m *HandlerMux) Unhandle(id string) {
	m.mu.Lock()
	delete(m.handlers, id)
	m.mu.Unlock()
}

// Resolve returns the handler registered under id.
func (m *HandlerMux) Resolve(id string) (contracts.Handler, bool) {
	m.mu.RLock()
	fn, ok := m.handlers[id]
	m.mu.RUnlock()
	return fn, ok
}
