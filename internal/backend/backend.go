// Package backend defines the contract of the remote persistence, auth and
// blob-storage collaborator. The client core only ever sees these
// interfaces; the REST implementation lives in backend/rest, an in-memory
// one in backend/memory.
package backend

import (
	"context"
	"io"
	"time"
)

// Table names of the remote row store.
const (
	TableProfiles = "user_profiles"
	TableLinks    = "user_links"
)

// Identity is the authenticated subject whose id scopes all protected data.
type Identity struct {
	ID    string
	Email string
}

// Session is ephemeral proof of identity plus expiry. It is created by the
// backend on sign-in (or restored from a cached credential on startup) and
// replaced wholesale on every session change.
type Session struct {
	Identity      Identity
	ExpiresAt     time.Time
	RawCredential string
}

// Equal reports whether two session payloads carry identical content.
// Both nil counts as equal.
func (s *Session) Equal(other *Session) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.Identity == other.Identity &&
		s.ExpiresAt.Equal(other.ExpiresAt) &&
		s.RawCredential == other.RawCredential
}

// Subscription is a cancellable handle on a session-change feed.
// Unsubscribe is idempotent and safe to call mid-delivery.
type Subscription interface {
	Unsubscribe()
}

// Auth covers the authentication surface of the backend. CurrentSession
// returns (nil, nil) when no session exists; that is a normal outcome, not
// an error.
type Auth interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error
	RequestPasswordReset(ctx context.Context, email, redirectTarget string) error
	UpdatePassword(ctx context.Context, newPassword string) error
	CurrentSession(ctx context.Context) (*Session, error)
	SubscribeToSessionChanges(fn func(*Session)) Subscription
}

// Row is one remote record in wire form. The layout is whatever the
// backend defines for its tables; the synchronizer converts rows to typed
// values at its own boundary.
type Row map[string]any

// Filter is a conjunction of equality predicates. Only owner id and
// record id columns are ever filtered on.
type Filter map[string]string

// Order is an optional ordering directive for Select.
type Order struct {
	Column     string
	Descending bool
}

// Store is the remote row store: equality-filtered CRUD over named tables.
type Store interface {
	Select(ctx context.Context, table string, filter Filter, order *Order) ([]Row, error)
	Insert(ctx context.Context, table string, row Row) (Row, error)
	Update(ctx context.Context, table string, patch Row, filter Filter) ([]Row, error)
	Upsert(ctx context.Context, table string, row Row, conflictKey string) error
	Delete(ctx context.Context, table string, filter Filter) error
}

// Blob is the file storage surface.
type Blob interface {
	Upload(ctx context.Context, bucket, path string, r io.Reader) error
	PublicURL(bucket, path string) string
}

// Backend aggregates the three collaborator surfaces.
type Backend interface {
	Auth
	Store
	Blob
}
