//go:build integration

package dedup_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/couchcryptid/quake-alert-service/internal/dedup"
)

func startRedis(ctx context.Context, t *testing.T) *dedup.RedisStore {
	t.Helper()

	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	uri, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)

	store, err := dedup.NewRedis(uri)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Ping(ctx))
	return store
}

func TestRedisStore_CheckAndMark(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	store := startRedis(ctx, t)

	first, err := store.CheckAndMark(ctx, "evt-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := store.CheckAndMark(ctx, "evt-1", time.Hour)
	require.NoError(t, err)
	assert.False(t, second)

	other, err := store.CheckAndMark(ctx, "evt-2", time.Hour)
	require.NoError(t, err)
	assert.True(t, other)
}

func TestRedisStore_MarkExpires(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	store := startRedis(ctx, t)

	first, err := store.CheckAndMark(ctx, "evt-1", time.Second)
	require.NoError(t, err)
	assert.True(t, first)

	// Redis enforces the expiry server-side; after it lapses the id is new.
	assert.Eventually(t, func() bool {
		again, err := store.CheckAndMark(ctx, "evt-1", time.Second)
		return err == nil && again
	}, 5*time.Second, 200*time.Millisecond)
}

func TestRedisStore_ConcurrentSameID(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	store := startRedis(ctx, t)

	const goroutines = 20
	var wg sync.WaitGroup
	var firsts atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			first, err := store.CheckAndMark(ctx, "evt-1", time.Hour)
			assert.NoError(t, err)
			if first {
				firsts.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), firsts.Load(), "SETNX admits exactly one winner")
}

func TestRedisStore_UnreachableBackend(t *testing.T) {
	store, err := dedup.NewRedis("redis://127.0.0.1:1") // nothing listens here
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = store.CheckAndMark(ctx, "evt-1", time.Hour)
	assert.ErrorIs(t, err, dedup.ErrUnavailable)
}
