package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kassatrack/cash_report_app/internal/apperrors"
	"github.com/kassatrack/cash_report_app/internal/core/domain"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr
}

func testSession(sid, userID, role string) domain.Session {
	now := time.Now().UTC().Truncate(time.Second)
	return domain.Session{
		SID:      sid,
		UserID:   userID,
		Username: "user-" + userID,
		Role:     role,
		Capabilities: domain.CapabilitySet{
			domain.CapReportsViewAssigned: {},
			domain.CapReportsCreate:       {},
		},
		Locations:    []string{"Central"},
		IPAddress:    "10.0.0.1",
		UserAgent:    "test-agent",
		CreatedAt:    now,
		LastActivity: now,
	}
}

func TestRedisStore_PutAndGet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	sess := testSession("sid-1", "u1", "operator")
	require.NoError(t, store.Put(ctx, sess, time.Hour))

	got, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.Equal(t, sess.Role, got.Role)
	assert.Equal(t, sess.Locations, got.Locations)
	assert.True(t, got.Capabilities.Has(domain.CapReportsCreate))
	assert.False(t, got.Capabilities.Has(domain.CapUsersView))
}

func TestRedisStore_GetMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "no-such-sid")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRedisStore_GetExpired(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testSession("sid-1", "u1", "operator"), time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "sid-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRedisStore_TouchKeepsTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testSession("sid-1", "u1", "operator"), time.Hour))

	later := time.Now().UTC().Add(30 * time.Minute).Truncate(time.Second)
	require.NoError(t, store.Touch(ctx, "sid-1", later))

	got, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.True(t, got.LastActivity.Equal(later))

	// The fixed max-age still applies after a touch.
	mr.FastForward(61 * time.Minute)
	_, err = store.Get(ctx, "sid-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRedisStore_Delete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testSession("sid-1", "u1", "operator"), time.Hour))
	require.NoError(t, store.Delete(ctx, "sid-1"))

	_, err := store.Get(ctx, "sid-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, "sid-1"), apperrors.ErrNotFound)
}

func TestRedisStore_ListByUser(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testSession("sid-1", "u1", "operator"), time.Hour))
	require.NoError(t, store.Put(ctx, testSession("sid-2", "u1", "operator"), time.Minute))
	require.NoError(t, store.Put(ctx, testSession("sid-3", "u2", "manager"), time.Hour))

	sessions, err := store.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, sessions, 2)

	// Expired sessions drop out of the listing.
	mr.FastForward(2 * time.Minute)
	sessions, err = store.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "sid-1", sessions[0].SID)
}

// A device logging in with a shorter-lived session must not shorten the
// index's lifetime: the longer-lived session has to stay countable for the
// device limit and reachable for admin termination.
func TestRedisStore_ShorterPutKeepsIndexAlive(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testSession("sid-long", "u1", "operator"), time.Hour))
	require.NoError(t, store.Put(ctx, testSession("sid-short", "u1", "operator"), time.Minute))

	// Past the short session's expiry, well within the long one's.
	mr.FastForward(30 * time.Minute)

	sessions, err := store.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "sid-long", sessions[0].SID)

	removed, err := store.DeleteByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	_, err = store.Get(ctx, "sid-long")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// Same invariant for the role index: a short-lived login by one role member
// must not hide other members from a role-wide invalidation.
func TestRedisStore_ShorterPutKeepsRoleIndexAlive(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testSession("sid-long", "u1", "operator"), time.Hour))
	require.NoError(t, store.Put(ctx, testSession("sid-short", "u2", "operator"), time.Minute))

	mr.FastForward(30 * time.Minute)

	removed, err := store.InvalidateSessionsForRole(ctx, "operator")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	_, err = store.Get(ctx, "sid-long")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRedisStore_DeleteByUser(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testSession("sid-1", "u1", "operator"), time.Hour))
	require.NoError(t, store.Put(ctx, testSession("sid-2", "u1", "operator"), time.Hour))
	require.NoError(t, store.Put(ctx, testSession("sid-3", "u2", "manager"), time.Hour))

	removed, err := store.DeleteByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = store.Get(ctx, "sid-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// Other users' sessions survive.
	_, err = store.Get(ctx, "sid-3")
	assert.NoError(t, err)
}

func TestRedisStore_InvalidateSessionsForRole(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testSession("sid-1", "u1", "operator"), time.Hour))
	require.NoError(t, store.Put(ctx, testSession("sid-2", "u2", "operator"), time.Hour))
	require.NoError(t, store.Put(ctx, testSession("sid-3", "u3", "manager"), time.Hour))

	removed, err := store.InvalidateSessionsForRole(ctx, "operator")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = store.Get(ctx, "sid-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = store.Get(ctx, "sid-2")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	got, err := store.Get(ctx, "sid-3")
	require.NoError(t, err)
	assert.Equal(t, "manager", got.Role)
}
