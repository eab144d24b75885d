package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetops/internal/platform/config"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("empty URL disables redis", func(t *testing.T) {
		c, err := New(ctx, config.RedisConfig{})
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("bad URL is rejected", func(t *testing.T) {
		_, err := New(ctx, config.RedisConfig{URL: "http://not-redis"})
		require.Error(t, err)
	})

	t.Run("connects and writes the health key", func(t *testing.T) {
		mr := miniredis.RunT(t)

		c, err := New(ctx, config.RedisConfig{URL: "redis://" + mr.Addr(), PoolSize: 4})
		require.NoError(t, err)
		t.Cleanup(func() { _ = c.Close() })

		assert.Equal(t, 4, c.Options().PoolSize)
		assert.True(t, mr.Exists(healthKey))
		assert.Equal(t, healthTTL, mr.TTL(healthKey))
	})

	t.Run("zero settings keep client defaults", func(t *testing.T) {
		mr := miniredis.RunT(t)

		c, err := New(ctx, config.RedisConfig{URL: "redis://" + mr.Addr()})
		require.NoError(t, err)
		t.Cleanup(func() { _ = c.Close() })

		assert.Positive(t, c.Options().PoolSize)
		assert.Positive(t, c.Options().DialTimeout)
	})

	t.Run("unreachable server fails", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		_, err := New(ctx, config.RedisConfig{URL: "redis://" + addr, DialTimeout: 200 * time.Millisecond})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "alert ledger")
	})
}

func TestHealth_ReportsWriteFailures(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := New(context.Background(), config.RedisConfig{URL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Health(context.Background()))

	mr.SetError("READONLY You can't write against a read only replica.")
	assert.Error(t, c.Health(context.Background()))
}
