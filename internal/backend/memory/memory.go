// Package memory implements the backend contract entirely in memory. It
// backs the client test suites and doubles as a reference for what the
// remote collaborator is expected to do.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dkarklins/jobfolio/internal/backend"
	"github.com/dkarklins/jobfolio/internal/common"
	"github.com/google/uuid"
)

type user struct {
	id       string
	email    string
	password string
}

// Backend is an in-memory implementation of backend.Backend.
//
// OnBefore, when set, runs ahead of every store operation and aborts it by
// returning a non-nil error. Tests use it to inject remote failures.
type Backend struct {
	OnBefore func(op, table string) error

	mu       sync.Mutex
	users    map[string]*user // keyed by email
	session  *backend.Session
	tables   map[string][]backend.Row
	blobs    map[string][]byte
	notifier *backend.Notifier

	sessionTTL time.Duration
}

func New() *Backend {
	return &Backend{
		users:      make(map[string]*user),
		tables:     make(map[string][]backend.Row),
		blobs:      make(map[string][]byte),
		notifier:   backend.NewNotifier(),
		sessionTTL: time.Hour,
	}
}

// --- Auth ---

func (b *Backend) SignUp(ctx context.Context, email, password string) (*backend.Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", common.ErrValidation)
	}

	b.mu.Lock()
	if _, ok := b.users[email]; ok {
		b.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", common.ErrAlreadyExists, email)
	}
	u := &user{id: uuid.NewString(), email: email, password: password}
	b.users[email] = u
	b.mu.Unlock()

	return b.startSession(u)
}

func (b *Backend) SignIn(ctx context.Context, email, password string) (*backend.Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	b.mu.Lock()
	u, ok := b.users[email]
	b.mu.Unlock()
	if !ok || u.password != password {
		return nil, common.ErrUnauthorized
	}

	return b.startSession(u)
}

func (b *Backend) startSession(u *user) (*backend.Session, error) {
	cred, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, err
	}
	s := &backend.Session{
		Identity:      backend.Identity{ID: u.id, Email: u.email},
		ExpiresAt:     time.Now().Add(b.sessionTTL),
		RawCredential: cred,
	}

	b.mu.Lock()
	b.session = s
	b.mu.Unlock()

	b.notifier.Publish(s)
	return s, nil
}

func (b *Backend) SignOut(ctx context.Context) error {
	b.mu.Lock()
	had := b.session != nil
	b.session = nil
	b.mu.Unlock()

	if had {
		b.notifier.Publish(nil)
	}
	return nil
}

func (b *Backend) RequestPasswordReset(ctx context.Context, email, redirectTarget string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.users[strings.ToLower(email)]; !ok {
		// Do not leak which addresses exist.
		return nil
	}
	return nil
}

func (b *Backend) UpdatePassword(ctx context.Context, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: empty password", common.ErrValidation)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session == nil {
		return common.ErrUnauthorized
	}
	u, ok := b.users[b.session.Identity.Email]
	if !ok {
		return common.ErrUnauthorized
	}
	u.password = newPassword
	return nil
}

func (b *Backend) CurrentSession(ctx context.Context) (*backend.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session == nil || time.Now().After(b.session.ExpiresAt) {
		return nil, nil
	}
	s := *b.session
	return &s, nil
}

func (b *Backend) SubscribeToSessionChanges(fn func(*backend.Session)) backend.Subscription {
	return b.notifier.Subscribe(fn)
}

// EmitSessionChange publishes an arbitrary session payload without going
// through sign-in, for exercising notification handling in tests.
func (b *Backend) EmitSessionChange(s *backend.Session) {
	b.mu.Lock()
	b.session = s
	b.mu.Unlock()
	b.notifier.Publish(s)
}

// --- Store ---

func (b *Backend) check(op, table string) error {
	if b.OnBefore != nil {
		return b.OnBefore(op, table)
	}
	return nil
}

func matches(row backend.Row, filter backend.Filter) bool {
	for col, want := range filter {
		if fmt.Sprintf("%v", row[col]) != want {
			return false
		}
	}
	return true
}

func copyRow(row backend.Row) backend.Row {
	out := make(backend.Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

func (b *Backend) Select(ctx context.Context, table string, filter backend.Filter, order *backend.Order) ([]backend.Row, error) {
	if err := b.check("select", table); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]backend.Row, 0)
	for _, row := range b.tables[table] {
		if matches(row, filter) {
			out = append(out, copyRow(row))
		}
	}

	if order != nil {
		sort.SliceStable(out, func(i, j int) bool {
			a := fmt.Sprintf("%v", out[i][order.Column])
			z := fmt.Sprintf("%v", out[j][order.Column])
			if order.Descending {
				return a > z
			}
			return a < z
		})
	}

	return out, nil
}

func (b *Backend) Insert(ctx context.Context, table string, row backend.Row) (backend.Row, error) {
	if err := b.check("insert", table); err != nil {
		return nil, err
	}

	stored := copyRow(row)
	if _, ok := stored["id"]; !ok {
		stored["id"] = uuid.NewString()
	}
	if _, ok := stored["created_at"]; !ok {
		stored["created_at"] = time.Now().UTC().Format(time.RFC3339Nano)
	}

	b.mu.Lock()
	b.tables[table] = append(b.tables[table], stored)
	b.mu.Unlock()

	return copyRow(stored), nil
}

func (b *Backend) Update(ctx context.Context, table string, patch backend.Row, filter backend.Filter) ([]backend.Row, error) {
	if err := b.check("update", table); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	updated := make([]backend.Row, 0)
	for _, row := range b.tables[table] {
		if !matches(row, filter) {
			continue
		}
		for k, v := range patch {
			row[k] = v
		}
		updated = append(updated, copyRow(row))
	}
	return updated, nil
}

func (b *Backend) Upsert(ctx context.Context, table string, row backend.Row, conflictKey string) error {
	if err := b.check("upsert", table); err != nil {
		return err
	}

	stored := copyRow(row)
	if _, ok := stored["id"]; !ok {
		stored["id"] = uuid.NewString()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	key := fmt.Sprintf("%v", stored[conflictKey])
	for i, existing := range b.tables[table] {
		if fmt.Sprintf("%v", existing[conflictKey]) == key {
			stored["id"] = existing["id"]
			b.tables[table][i] = stored
			return nil
		}
	}
	b.tables[table] = append(b.tables[table], stored)
	return nil
}

func (b *Backend) Delete(ctx context.Context, table string, filter backend.Filter) error {
	if err := b.check("delete", table); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	kept := b.tables[table][:0]
	for _, row := range b.tables[table] {
		if !matches(row, filter) {
			kept = append(kept, row)
		}
	}
	b.tables[table] = kept
	return nil
}

// --- Blob ---

func (b *Backend) Upload(ctx context.Context, bucket, path string, r io.Reader) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}

	b.mu.Lock()
	b.blobs[bucket+"/"+path] = buf.Bytes()
	b.mu.Unlock()
	return nil
}

func (b *Backend) PublicURL(bucket, path string) string {
	return fmt.Sprintf("memory://%s/%s", bucket, path)
}

// BlobContents returns a stored object, for assertions in tests.
func (b *Backend) BlobContents(bucket, path string) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.blobs[bucket+"/"+path]
	return data, ok
}

// RowCount reports how many rows a table currently holds.
func (b *Backend) RowCount(table string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.tables[table])
}
