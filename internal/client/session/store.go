// Package session holds the client's view of the current authentication
// session. The store is the only owner of that state: it is seeded by the
// backend's current-session lookup and then follows the backend's
// session-change notifications, in arrival order.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/dkarklins/jobfolio/internal/backend"
)

// Store caches the current session and fans changes out to consumers.
// The zero value is not usable; construct with NewStore.
type Store struct {
	auth backend.Auth

	mu          sync.RWMutex
	current     *backend.Session
	initialized bool
	sub         backend.Subscription
	watchers    *backend.Notifier
}

func NewStore(auth backend.Auth) *Store {
	return &Store{auth: auth, watchers: backend.NewNotifier()}
}

// Initialize performs the backend's current-session lookup, publishes the
// result as initial state, and only then begins listening for change
// notifications. After Initialize returns, Current reflects backend truth
// until the next notification.
func (s *Store) Initialize(ctx context.Context) error {
	cur, err := s.auth.CurrentSession(ctx)
	if err != nil {
		return fmt.Errorf("current session lookup: %w", err)
	}

	s.mu.Lock()
	s.current = cur
	s.initialized = true
	s.mu.Unlock()

	sub := s.auth.SubscribeToSessionChanges(s.onChange)

	s.mu.Lock()
	s.sub = sub
	s.mu.Unlock()

	return nil
}

// Current returns a copy of the cached session, or nil when no session
// exists. It never blocks on the backend.
func (s *Store) Current() *backend.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	cur := *s.current
	return &cur
}

// Initialized reports whether the initial lookup has completed.
func (s *Store) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// OnChange registers a consumer callback invoked after every effective
// state change, with the new session (nil on sign-out). The returned
// function cancels the registration.
func (s *Store) OnChange(fn func(*backend.Session)) func() {
	sub := s.watchers.Subscribe(fn)
	return sub.Unsubscribe
}

// onChange replaces the store's state atomically. Duplicate notifications
// with identical content are dropped, so consumers observe each distinct
// state exactly once.
func (s *Store) onChange(next *backend.Session) {
	s.mu.Lock()
	if s.current.Equal(next) {
		s.mu.Unlock()
		return
	}
	if next != nil {
		cp := *next
		next = &cp
	}
	s.current = next
	s.mu.Unlock()

	s.watchers.Publish(next)
}

// Teardown unsubscribes from the backend's notification channel. It is
// idempotent and safe to call at any point, including before Initialize
// and while a notification is in flight.
func (s *Store) Teardown() {
	s.mu.Lock()
	sub := s.sub
	s.sub = nil
	s.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
}
