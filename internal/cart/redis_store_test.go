package cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rogerio-17/cardapio-digital-web/internal/logger"
)

// setupTestRedis creates a miniredis server and returns a RedisStore on top of it
func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	store := NewRedisStore(client, time.Hour)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return store, mr, cleanup
}

func TestRedisStore_LoadMiss(t *testing.T) {
	store, _, cleanup := setupTestRedis(t)
	defer cleanup()

	data, err := store.Load(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, data)
}

func TestRedisStore_SaveSetsKeyAndTTL(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", []byte(`[]`)))

	raw, err := mr.Get("cart:s1")
	require.NoError(t, err)
	assert.Equal(t, `[]`, raw)
	ttl := mr.TTL("cart:s1")
	assert.GreaterOrEqual(t, ttl, time.Hour)
	assert.Less(t, ttl, 2*time.Hour)
}

func TestRedisStore_Delete(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", []byte(`[]`)))
	require.NoError(t, store.Delete(ctx, "s1"))
	assert.False(t, mr.Exists("cart:s1"))
}

func TestRedisStore_EngineRoundTrip(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()
	ctx := context.Background()

	e := New(ctx, store, "s1", logger.Discard())
	e.AddItem(ctx, burger())

	restored := New(ctx, store, "s1", logger.Discard())
	assert.Equal(t, 2, restored.TotalItems())

	mr.Set("cart:s1", "garbage")
	corrupt := New(ctx, store, "s1", logger.Discard())
	assert.True(t, corrupt.Snapshot().IsEmpty())
}

func TestRedisStore_ServerDown(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()
	mr.Close()

	ctx := context.Background()
	_, err := store.Load(ctx, "s1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	e := New(ctx, store, "s1", logger.Discard())
	_, snap := e.AddItem(ctx, burger())
	assert.Equal(t, 1, snap.Len())
}
