package apply

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkarklins/jobfolio/internal/backend"
	"github.com/dkarklins/jobfolio/internal/backend/memory"
	"github.com/dkarklins/jobfolio/internal/client/syncer"
	"github.com/dkarklins/jobfolio/internal/common"
)

func newFixture(t *testing.T) (*Machine, *syncer.Synchronizer, *memory.Backend, backend.Identity) {
	t.Helper()
	be := memory.New()
	s, err := be.SignUp(context.Background(), "kate@example.com", "secret")
	require.NoError(t, err)
	sy := syncer.New(be)
	return NewMachine(sy), sy, be, s.Identity
}

func withProfileAndRecord(t *testing.T) (*Machine, *syncer.Synchronizer, *memory.Backend, backend.Identity, syncer.TrackedRecord) {
	t.Helper()
	m, sy, be, identity := newFixture(t)
	ctx := context.Background()

	_, err := sy.LoadProfile(ctx, identity)
	require.NoError(t, err)
	require.NoError(t, sy.SaveProfile(ctx, identity))

	rec, err := sy.CreateRecord(ctx, identity, "https://jobs.example.com/1", "Backend engineer", "")
	require.NoError(t, err)
	return m, sy, be, identity, rec
}

func TestApplySuccess(t *testing.T) {
	m, sy, _, identity, rec := withProfileAndRecord(t)

	require.NoError(t, m.Apply(context.Background(), identity, rec.ID))

	got, ok := sy.RecordByID(rec.ID)
	require.True(t, ok)
	assert.Equal(t, "applied", got.ApplicationStatus)
	assert.NotNil(t, got.AppliedAt)
	assert.False(t, m.InFlight(rec.ID))
}

func TestApplyWithoutProfileMakesNoRemoteCall(t *testing.T) {
	m, sy, be, identity := newFixture(t)
	ctx := context.Background()

	_, err := sy.LoadProfile(ctx, identity)
	require.NoError(t, err)
	rec, err := sy.CreateRecord(ctx, identity, "https://jobs.example.com/1", "one", "")
	require.NoError(t, err)

	calls := 0
	be.OnBefore = func(op, table string) error { calls++; return nil }

	err = m.Apply(ctx, identity, rec.ID)
	assert.ErrorIs(t, err, ErrNoProfile)
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Zero(t, calls)
}

func TestApplyAlreadyApplied(t *testing.T) {
	m, _, be, identity, rec := withProfileAndRecord(t)
	ctx := context.Background()

	require.NoError(t, m.Apply(ctx, identity, rec.ID))

	calls := 0
	be.OnBefore = func(op, table string) error { calls++; return nil }

	err := m.Apply(ctx, identity, rec.ID)
	assert.ErrorIs(t, err, ErrAlreadyApplied)
	assert.Zero(t, calls)
}

func TestApplyUnknownRecord(t *testing.T) {
	m, _, _, identity, _ := withProfileAndRecord(t)
	err := m.Apply(context.Background(), identity, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestApplyFailureRollsBack(t *testing.T) {
	m, sy, be, identity, rec := withProfileAndRecord(t)
	ctx := context.Background()

	be.OnBefore = func(op, table string) error {
		if op == "update" {
			return common.ErrRemote
		}
		return nil
	}

	err := m.Apply(ctx, identity, rec.ID)
	require.ErrorIs(t, err, common.ErrRemote)
	be.OnBefore = nil

	// Guard cleared, record still unapplied, so a retry can succeed.
	assert.False(t, m.InFlight(rec.ID))
	got, ok := sy.RecordByID(rec.ID)
	require.True(t, ok)
	assert.False(t, got.Applied())
	assert.True(t, Retryable(err))

	require.NoError(t, m.Apply(ctx, identity, rec.ID))
}

func TestConcurrentAppliesProduceOneRemoteUpdate(t *testing.T) {
	m, _, be, identity, rec := withProfileAndRecord(t)
	ctx := context.Background()

	var mu sync.Mutex
	updates := 0
	release := make(chan struct{})
	be.OnBefore = func(op, table string) error {
		if op == "update" {
			mu.Lock()
			updates++
			mu.Unlock()
			<-release
		}
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- m.Apply(ctx, identity, rec.ID) }()

	// Wait for the first submission to reach the remote update, then
	// trigger a second one while it is still in flight.
	for {
		mu.Lock()
		started := updates
		mu.Unlock()
		if started == 1 {
			break
		}
	}
	assert.True(t, m.InFlight(rec.ID))
	assert.ErrorIs(t, m.Apply(ctx, identity, rec.ID), ErrInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, updates)
}

func TestIndependentRecordsMayRunConcurrently(t *testing.T) {
	m, sy, _, identity, rec := withProfileAndRecord(t)
	ctx := context.Background()

	other, err := sy.CreateRecord(ctx, identity, "https://jobs.example.com/2", "two", "")
	require.NoError(t, err)

	require.NoError(t, m.Apply(ctx, identity, rec.ID))
	require.NoError(t, m.Apply(ctx, identity, other.ID))

	for _, id := range []string{rec.ID, other.ID} {
		got, ok := sy.RecordByID(id)
		require.True(t, ok)
		assert.True(t, got.Applied())
	}
}

func TestRetryable(t *testing.T) {
	assert.False(t, Retryable(nil))
	assert.False(t, Retryable(ErrNoProfile))
	assert.False(t, Retryable(ErrInFlight))
	assert.True(t, Retryable(common.ErrRemote))
}
