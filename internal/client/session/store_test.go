package session

import (
	"context"
	"testing"
	"time"

	"github.com/dkarklins/jobfolio/internal/backend"
	"github.com/dkarklins/jobfolio/internal/backend/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeWithoutSession(t *testing.T) {
	store := NewStore(memory.New())

	assert.False(t, store.Initialized())
	require.NoError(t, store.Initialize(context.Background()))
	assert.True(t, store.Initialized())
	assert.Nil(t, store.Current())
}

func TestInitializeRestoresExistingSession(t *testing.T) {
	b := memory.New()
	ctx := context.Background()
	_, err := b.SignUp(ctx, "a@x.test", "pw")
	require.NoError(t, err)

	store := NewStore(b)
	require.NoError(t, store.Initialize(ctx))

	cur := store.Current()
	require.NotNil(t, cur)
	assert.Equal(t, "a@x.test", cur.Identity.Email)
}

func TestFollowsSessionChanges(t *testing.T) {
	b := memory.New()
	ctx := context.Background()

	store := NewStore(b)
	require.NoError(t, store.Initialize(ctx))
	defer store.Teardown()

	_, err := b.SignUp(ctx, "a@x.test", "pw")
	require.NoError(t, err)
	require.NotNil(t, store.Current())

	require.NoError(t, b.SignOut(ctx))
	assert.Nil(t, store.Current())
}

func TestDuplicateNotificationsAreIdempotent(t *testing.T) {
	b := memory.New()
	store := NewStore(b)
	require.NoError(t, store.Initialize(context.Background()))
	defer store.Teardown()

	var calls int
	cancel := store.OnChange(func(*backend.Session) { calls++ })
	defer cancel()

	s := &backend.Session{
		Identity:      backend.Identity{ID: "u1", Email: "a@x.test"},
		ExpiresAt:     time.Now().Add(time.Hour).Truncate(time.Second),
		RawCredential: "tok",
	}
	b.EmitSessionChange(s)
	b.EmitSessionChange(s)

	assert.Equal(t, 1, calls)

	cur := store.Current()
	require.NotNil(t, cur)
	assert.Equal(t, "u1", cur.Identity.ID)
}

func TestCurrentReturnsCopy(t *testing.T) {
	b := memory.New()
	ctx := context.Background()
	_, err := b.SignUp(ctx, "a@x.test", "pw")
	require.NoError(t, err)

	store := NewStore(b)
	require.NoError(t, store.Initialize(ctx))

	cur := store.Current()
	cur.Identity.Email = "tampered"
	assert.Equal(t, "a@x.test", store.Current().Identity.Email)
}

func TestTeardownStopsUpdates(t *testing.T) {
	b := memory.New()
	ctx := context.Background()

	store := NewStore(b)
	require.NoError(t, store.Initialize(ctx))
	store.Teardown()

	_, err := b.SignUp(ctx, "a@x.test", "pw")
	require.NoError(t, err)
	assert.Nil(t, store.Current())

	// Safe to call again, and before Initialize on a fresh store.
	store.Teardown()
	NewStore(b).Teardown()
}
