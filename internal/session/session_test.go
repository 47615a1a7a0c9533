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

func newTestManager(t *testing.T) (*Manager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewManager(NewRedisStore(client), "test-secret"), mr
}

func TestIssueAndResolve(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	cookie, err := m.Issue(ctx, Visitor{ID: 7, Username: "alice", Avatar: "https://gravatar.com/avatar/x?s=128"})
	require.NoError(t, err)
	require.NotEmpty(t, cookie)

	v := m.Resolve(ctx, cookie)
	assert.Equal(t, uint(7), v.ID)
	assert.Equal(t, "alice", v.Username)
	assert.Equal(t, "https://gravatar.com/avatar/x?s=128", v.Avatar)
}

func TestResolveInvalidCookieIsAnonymous(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	assert.Zero(t, m.Resolve(ctx, ""))
	assert.Zero(t, m.Resolve(ctx, "not-a-token"))
}

func TestResolveTamperedCookieIsAnonymous(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	cookie, err := m.Issue(ctx, Visitor{ID: 1, Username: "bob"})
	require.NoError(t, err)

	other := NewManager(NewMemoryStore(), "different-secret")
	assert.Zero(t, other.Resolve(ctx, cookie))
}

func TestResolveAfterExpiryIsAnonymous(t *testing.T) {
	m, mr := newTestManager(t)
	ctx := context.Background()

	cookie, err := m.Issue(ctx, Visitor{ID: 3, Username: "carol"})
	require.NoError(t, err)

	mr.FastForward(TTL + time.Minute)
	assert.Zero(t, m.Resolve(ctx, cookie))
}

func TestDestroyInvalidatesSession(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	cookie, err := m.Issue(ctx, Visitor{ID: 9, Username: "dave"})
	require.NoError(t, err)
	require.NotZero(t, m.Resolve(ctx, cookie))

	require.NoError(t, m.Destroy(ctx, cookie))
	assert.Zero(t, m.Resolve(ctx, cookie))
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "sid", Visitor{ID: 2}, -time.Second))
	_, found, err := store.Get(ctx, "sid")
	require.NoError(t, err)
	assert.False(t, found)
}
