package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStore(rdb), mr
}

func TestIssueAndResolve(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	sid, err := store.Issue(ctx, 42)
	require.NoError(t, err)
	require.NotEmpty(t, sid)

	userID, ok, err := store.Resolve(ctx, sid)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint(42), userID)
}

func TestResolveUnknownSession(t *testing.T) {
	store, _ := newTestStore(t)

	_, ok, err := store.Resolve(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSlidingExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	sid, err := store.Issue(ctx, 7)
	require.NoError(t, err)

	// Just inside the window the session is still valid.
	mr.FastForward(23*time.Hour + 59*time.Minute)
	_, ok, err := store.Resolve(ctx, sid)
	require.NoError(t, err)
	assert.True(t, ok, "session should be valid at T+23h59m")

	// An intervening request slides the window forward by a full TTL.
	require.NoError(t, store.Touch(ctx, sid))
	mr.FastForward(23 * time.Hour)
	_, ok, err = store.Resolve(ctx, sid)
	require.NoError(t, err)
	assert.True(t, ok, "touched session should survive another near-full window")

	// Without further requests the window finally closes.
	mr.FastForward(24*time.Hour + time.Minute)
	_, ok, err = store.Resolve(ctx, sid)
	require.NoError(t, err)
	assert.False(t, ok, "session should be invalid at T+24h01m without a refresh")
}

func TestExpiryWithoutTouch(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	sid, err := store.Issue(ctx, 7)
	require.NoError(t, err)

	mr.FastForward(24*time.Hour + time.Minute)
	_, ok, err := store.Resolve(ctx, sid)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRevoke(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	sid, err := store.Issue(ctx, 9)
	require.NoError(t, err)

	require.NoError(t, store.Revoke(ctx, sid))

	_, ok, err := store.Resolve(ctx, sid)
	require.NoError(t, err)
	assert.False(t, ok)

	// Revoking twice is a no-op.
	assert.NoError(t, store.Revoke(ctx, sid))
}

func TestNilClientIsAnonymous(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()

	_, err := store.Issue(ctx, 1)
	assert.Error(t, err)

	_, ok, err := store.Resolve(ctx, "anything")
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, store.Touch(ctx, "anything"))
	assert.NoError(t, store.Revoke(ctx, "anything"))
}
