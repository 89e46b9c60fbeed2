package coordinator

import (
	"sync"

	"github.com/AzerQ/sed-notifications/internal/domain"
)

// toastGate is the presentation gate for ephemeral toasts. It owns no
// notification state; it only holds the single active render callback.
type toastGate struct {
	mu sync.Mutex
	fn func(domain.CompactNotification)
}

// Set replaces the active render target. At most one is active.
func (g *toastGate) Set(fn func(domain.CompactNotification)) {
	g.mu.Lock()
	g.fn = fn
	g.mu.Unlock()
}

// Show renders a toast if a target is registered.
func (g *toastGate) Show(n domain.CompactNotification) {
	g.mu.Lock()
	fn := g.fn
	g.mu.Unlock()
	if fn != nil {
		fn(n)
	}
}
