package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// alertKeyPrefix namespaces alert dedup keys.
const alertKeyPrefix = "fleetops:alert:"

// RedisLedger is a Redis-backed alert ledger shared by every instance.
type RedisLedger struct {
	client *redis.Client
}

func NewRedisLedger(client *redis.Client) *RedisLedger {
	return &RedisLedger{client: client}
}

// FirstSeen sets key with SET NX and the given TTL; only the first caller
// within the TTL gets true.
func (l *RedisLedger) FirstSeen(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, alertKeyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("record alert: %w", err)
	}
	return ok, nil
}
