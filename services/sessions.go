package services

import (
	"context"
	"sync"
	"time"
)

// SessionManager owns the live carts, one per visitor session.
type SessionManager struct {
	deps  CartDeps
	mu    sync.Mutex
	carts map[string]*BookingCart
}

func NewSessionManager(deps CartDeps) *SessionManager {
	return &SessionManager{deps: deps.withDefaults(), carts: make(map[string]*BookingCart)}
}

// Cart returns the session's cart, rehydrating it from the store and loading
// its catalog on first access.
func (m *SessionManager) Cart(ctx context.Context, sessionID string) *BookingCart {
	m.mu.Lock()
	cart, ok := m.carts[sessionID]
	if !ok {
		cart = NewBookingCart(ctx, m.deps, sessionID)
		m.carts[sessionID] = cart
	}
	m.mu.Unlock()

	if !ok {
		cart.Refresh(ctx)
	}
	return cart
}

// Evict drops carts idle since before cutoff. Their persisted state stays in
// the store and is rehydrated on the next visit.
func (m *SessionManager) Evict(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, cart := range m.carts {
		if cart.LastSeen().Before(cutoff) {
			delete(m.carts, id)
			n++
		}
	}
	return n
}

func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.carts)
}
