package alerts

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLedger_FirstSeen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	ledger := NewRedisLedger(client)
	ctx := context.Background()

	first, err := ledger.FirstSeen(ctx, "driver:DAILY_DRIVING_RISK:high:2024-01-15", time.Hour)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := ledger.FirstSeen(ctx, "driver:DAILY_DRIVING_RISK:high:2024-01-15", time.Hour)
	require.NoError(t, err)
	assert.False(t, again)
	assert.True(t, mr.Exists(alertKeyPrefix+"driver:DAILY_DRIVING_RISK:high:2024-01-15"))

	mr.FastForward(time.Hour + time.Second)
	expired, err := ledger.FirstSeen(ctx, "driver:DAILY_DRIVING_RISK:high:2024-01-15", time.Hour)
	require.NoError(t, err)
	assert.True(t, expired)
}

func TestRedisLedger_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	_, err := NewRedisLedger(client).FirstSeen(context.Background(), "k", time.Minute)
	assert.Error(t, err)
}

func TestInMemoryLedger_FirstSeen(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	ledger := NewInMemoryLedger()
	ledger.now = func() time.Time { return now }
	ctx := context.Background()

	first, _ := ledger.FirstSeen(ctx, "k", time.Hour)
	again, _ := ledger.FirstSeen(ctx, "k", time.Hour)
	assert.True(t, first)
	assert.False(t, again)

	now = now.Add(2 * time.Hour)
	expired, _ := ledger.FirstSeen(ctx, "k", time.Hour)
	assert.True(t, expired)
}
