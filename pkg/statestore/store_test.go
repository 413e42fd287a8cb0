package statestore

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
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewWithClient(client), mr
}

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestGetSet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	in := sample{Name: "payment-api", Count: 3}
	require.NoError(t, store.Set(ctx, "svc:payment-api", in, 0))

	var out sample
	found, err := store.Get(ctx, "svc:payment-api", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)
}

func TestGetMissing(t *testing.T) {
	store, _ := newTestStore(t)

	var out sample
	found, err := store.Get(context.Background(), "nope", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSetWithTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "ephemeral", "v", 5*time.Second))

	exists, err := store.Exists(ctx, "ephemeral")
	require.NoError(t, err)
	assert.True(t, exists)

	mr.FastForward(6 * time.Second)

	exists, err = store.Exists(ctx, "ephemeral")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDeleteByPattern(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "workflow:a:pending:1", "x", 0))
	require.NoError(t, store.Set(ctx, "workflow:a:pending:2", "x", 0))
	require.NoError(t, store.Set(ctx, "workflow:b:pending:1", "x", 0))

	n, err := store.DeleteByPattern(ctx, "workflow:a:pending:*")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	exists, err := store.Exists(ctx, "workflow:b:pending:1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGetManySetMany(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	err := store.SetMany(ctx, map[string]interface{}{
		"k1": sample{Name: "one"},
		"k2": sample{Name: "two"},
	}, 0)
	require.NoError(t, err)

	result, err := store.GetMany(ctx, []string{"k1", "k2", "k3"})
	require.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Contains(t, result, "k1")
	assert.NotContains(t, result, "k3")
}

func TestHashOperations(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.HSet(ctx, "agents", "web-01", sample{Name: "web-01", Count: 1}))
	require.NoError(t, store.HSet(ctx, "agents", "web-02", sample{Name: "web-02", Count: 2}))

	var out sample
	found, err := store.HGet(ctx, "agents", "web-01", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "web-01", out.Name)

	all, err := store.HGetAll(ctx, "agents")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, store.HDelete(ctx, "agents", "web-01"))
	found, err = store.HGet(ctx, "agents", "web-01", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestListOperations(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RPush(ctx, "queue", "first", "second"))
	require.NoError(t, store.LPush(ctx, "queue", "zeroth"))

	n, err := store.LLen(ctx, "queue")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	var head string
	found, err := store.LPop(ctx, "queue", &head)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "zeroth", head)

	var tail string
	found, err = store.RPop(ctx, "queue", &tail)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "second", tail)
}

func TestSetMembership(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SAdd(ctx, "revoked", "tok-1", "tok-2"))

	ok, err := store.SContains(ctx, "revoked", "tok-1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.SRem(ctx, "revoked", "tok-1"))
	ok, err = store.SContains(ctx, "revoked", "tok-1")
	require.NoError(t, err)
	assert.False(t, ok)

	members, err := store.SMembers(ctx, "revoked")
	require.NoError(t, err)
	assert.Equal(t, []string{"tok-2"}, members)
}

func TestLeaseMutualExclusion(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	ok, err := store.AcquireLease(ctx, "workflow:wf-1", "engine-a", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	// Second owner is refused while the lease is live.
	ok, err = store.AcquireLease(ctx, "workflow:wf-1", "engine-b", 30*time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	holder, err := store.LeaseHolder(ctx, "workflow:wf-1")
	require.NoError(t, err)
	assert.Equal(t, "engine-a", holder)
}

func TestLeaseReacquireByOwner(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	ok, err := store.AcquireLease(ctx, "workflow:wf-1", "engine-a", 30*time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	// The holder re-acquiring its own lease refreshes it.
	ok, err = store.AcquireLease(ctx, "workflow:wf-1", "engine-a", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLeaseExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	ok, err := store.AcquireLease(ctx, "workflow:wf-1", "engine-a", 10*time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(11 * time.Second)

	ok, err = store.AcquireLease(ctx, "workflow:wf-1", "engine-b", 10*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRenewLease(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	ok, err := store.AcquireLease(ctx, "workflow:wf-1", "engine-a", 10*time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(8 * time.Second)

	ok, err = store.RenewLease(ctx, "workflow:wf-1", "engine-a", 10*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	// Renew by a non-holder must fail and must not extend.
	ok, err = store.RenewLease(ctx, "workflow:wf-1", "engine-b", 10*time.Second)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReleaseLease(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	ok, err := store.AcquireLease(ctx, "workflow:wf-1", "engine-a", 30*time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	// Release by a non-holder leaves the lease intact.
	require.NoError(t, store.ReleaseLease(ctx, "workflow:wf-1", "engine-b"))
	holder, err := store.LeaseHolder(ctx, "workflow:wf-1")
	require.NoError(t, err)
	assert.Equal(t, "engine-a", holder)

	require.NoError(t, store.ReleaseLease(ctx, "workflow:wf-1", "engine-a"))
	holder, err = store.LeaseHolder(ctx, "workflow:wf-1")
	require.NoError(t, err)
	assert.Equal(t, "", holder)
}

func TestIncrement(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	n, err := store.Increment(ctx, "counter", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = store.Increment(ctx, "counter", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)
}
