// Package apply drives the one-way transition of a tracked record from
// unapplied to applied. The transition is guarded twice: a persisted
// profile must exist for the identity, and at most one submission per
// record id may be in flight at a time.
package apply

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dkarklins/jobfolio/internal/backend"
	"github.com/dkarklins/jobfolio/internal/client/syncer"
	"github.com/dkarklins/jobfolio/internal/common"
)

// Precondition failures. Both short-circuit before any remote call and
// are not retryable without changing state first.
var (
	ErrAlreadyApplied = fmt.Errorf("%w: record already applied", common.ErrValidation)
	ErrNoProfile      = fmt.Errorf("%w: save a profile before applying", common.ErrValidation)
	ErrInFlight       = fmt.Errorf("%w: application already in progress", common.ErrValidation)
)

// Machine serializes apply submissions per record. Records are
// independent: submissions for different ids may run concurrently.
type Machine struct {
	sync *syncer.Synchronizer

	mu       sync.Mutex
	inflight map[string]bool
}

func NewMachine(s *syncer.Synchronizer) *Machine {
	return &Machine{sync: s, inflight: make(map[string]bool)}
}

// InFlight reports whether a submission for the record is currently running.
func (m *Machine) InFlight(recordID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inflight[recordID]
}

// Apply submits an application for the record. On success the record's
// remote row carries the applied status, the timestamp, a snapshot of the
// profile document and a generated note, and the local cache has been
// reloaded. On failure the guard clears and the record stays unapplied.
func (m *Machine) Apply(ctx context.Context, identity backend.Identity, recordID string) error {
	rec, ok := m.sync.RecordByID(recordID)
	if !ok {
		return fmt.Errorf("%w: record %s", common.ErrNotFound, recordID)
	}
	if rec.Applied() {
		return ErrAlreadyApplied
	}
	if !m.sync.HasPersistedProfile() {
		return ErrNoProfile
	}

	m.mu.Lock()
	if m.inflight[recordID] {
		m.mu.Unlock()
		return ErrInFlight
	}
	m.inflight[recordID] = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.inflight, recordID)
		m.mu.Unlock()
	}()

	doc, ok := m.sync.Profile()
	if !ok {
		return ErrNoProfile
	}

	note := fmt.Sprintf("Applied to %s (%s)", rec.Title, rec.URL)
	return m.sync.MarkApplied(ctx, identity, recordID, doc.Sections(), note)
}

// Retryable reports whether re-triggering the same apply could succeed
// without the user changing anything first.
func Retryable(err error) bool {
	return err != nil && !errors.Is(err, common.ErrValidation)
}
