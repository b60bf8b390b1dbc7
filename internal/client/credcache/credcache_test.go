package credcache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadEmpty(t *testing.T) {
	s := openStore(t)

	cred, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, cred)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	want := Credential{
		UserID:       "u-1",
		Email:        "kate@example.com",
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(time.Hour).UTC().Truncate(time.Second),
	}
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.UserID, got.UserID)
	assert.Equal(t, want.Email, got.Email)
	assert.Equal(t, want.AccessToken, got.AccessToken)
	assert.Equal(t, want.RefreshToken, got.RefreshToken)
	assert.True(t, want.ExpiresAt.Equal(got.ExpiresAt))
	assert.False(t, got.Expired())
}

func TestSaveReplaces(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, Credential{UserID: "u-1", Email: "a@example.com", AccessToken: "one", RefreshToken: "r1", ExpiresAt: time.Now()}))
	require.NoError(t, s.Save(ctx, Credential{UserID: "u-2", Email: "b@example.com", AccessToken: "two", RefreshToken: "r2", ExpiresAt: time.Now()}))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u-2", got.UserID)
	assert.Equal(t, "two", got.AccessToken)
}

func TestClear(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, Credential{UserID: "u-1", ExpiresAt: time.Now()}))
	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestExpired(t *testing.T) {
	past := Credential{ExpiresAt: time.Now().Add(-time.Minute)}
	future := Credential{ExpiresAt: time.Now().Add(time.Minute)}

	assert.True(t, past.Expired())
	assert.False(t, future.Expired())
}
