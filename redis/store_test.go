package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/meikuraledutech/skilltree"
	"github.com/meikuraledutech/skilltree/redis"
	"github.com/meikuraledutech/skilltree/storetest"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ skilltree.Store = (*redis.Store)(nil)

func newStore(t *testing.T, opts ...redis.Option) (*miniredis.Miniredis, *redis.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, redis.NewFromClient(client, opts...)
}

func TestRedisStore_Contract(t *testing.T) {
	_, store := newStore(t)
	storetest.Run(t, store)
}

func TestRedisStore_KeyAndTTL(t *testing.T) {
	mr, store := newStore(t,
		redis.WithPrefix("test:"),
		redis.WithTreeID("warrior"),
		redis.WithTTL(time.Hour),
	)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, storetest.Sample()))
	assert.Equal(t, "test:warrior", store.Key())
	assert.True(t, mr.Exists("test:warrior"))
	assert.Equal(t, time.Hour, mr.TTL("test:warrior"))

	mr.FastForward(2 * time.Hour)
	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	mr, store := newStore(t)
	require.NoError(t, mr.Set(store.Key(), "not json"))

	_, err := store.Load(context.Background())
	assert.Error(t, err)

	e := skilltree.Open(context.Background(), skilltree.WithStore(store))
	assert.Empty(t, e.Nodes())
}

func TestRedisStore_Delete(t *testing.T) {
	mr, store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, storetest.Sample()))
	require.NoError(t, store.Delete(ctx))
	assert.False(t, mr.Exists(store.Key()))
}
