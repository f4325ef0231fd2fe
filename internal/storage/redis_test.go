package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/ottomart/internal/domain"
	"github.com/hammamikhairi/ottomart/internal/logger"
)

func setupRedisStore(t *testing.T, opts ...RedisOption) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, logger.New(logger.LevelOff, nil), opts...), mr
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store, mr := setupRedisStore(t, WithKeyPrefix("test:"))
	ctx := context.Background()

	session := newSession("r1", domain.SessionActive)
	require.NoError(t, store.Save(ctx, session))
	assert.True(t, mr.Exists("test:session:r1"))

	loaded, err := store.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, session.UserID, loaded.UserID)
	assert.Equal(t, session.Cart, loaded.Cart)
	assert.Equal(t, session.RecipeSources, loaded.RecipeSources)
	assert.True(t, loaded.StartedAt.Equal(session.StartedAt))

	_, err = store.Load(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRedisStore_ListActive(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	older := newSession("a", domain.SessionActive)
	older.StartedAt = time.Now().Add(-time.Hour)
	require.NoError(t, store.Save(ctx, newSession("b", domain.SessionActive)))
	require.NoError(t, store.Save(ctx, older))
	require.NoError(t, store.Save(ctx, newSession("c", domain.SessionPurchased)))

	active, err := store.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "a", active[0].ID)

	// Purchasing a session drops it from the active set.
	b, _ := store.Load(ctx, "b")
	b.Status = domain.SessionPurchased
	require.NoError(t, store.Save(ctx, b))
	active, _ = store.ListActive(ctx)
	require.Len(t, active, 1)
}

func TestRedisStore_ExpiredSessionsPruned(t *testing.T) {
	store, mr := setupRedisStore(t, WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newSession("gone", domain.SessionActive)))
	mr.FastForward(2 * time.Minute)

	active, err := store.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	members, err := mr.Members("ottomart:sessions:active")
	if err == nil {
		assert.Empty(t, members)
	}
}

func TestRedisStore_Delete(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newSession("d", domain.SessionActive)))
	require.NoError(t, store.Delete(ctx, "d"))
	assert.ErrorIs(t, store.Delete(ctx, "d"), domain.ErrNotFound)

	active, _ := store.ListActive(ctx)
	assert.Empty(t, active)
}
