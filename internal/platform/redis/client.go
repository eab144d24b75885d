// Package redis opens the connection backing the shared alert ledger.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fleetops/internal/platform/config"
)

// healthKey is written by Health. The ledger only ever writes keys, so a
// reachable but read-only node (a replica after failover) counts as down.
const (
	healthKey = "fleetops:health"
	healthTTL = 30 * time.Second
)

type Client struct {
	*redis.Client
}

// New connects using cfg.URL and verifies the ledger can write. It returns a
// nil client and no error when the URL is empty; callers fall back to the
// in-memory ledger. Zero-valued pool and timeout settings keep the go-redis
// defaults.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	applyOverrides(opts, cfg)

	c := &Client{Client: redis.NewClient(opts)}
	if err := c.Health(ctx); err != nil {
		_ = c.Client.Close()
		return nil, fmt.Errorf("redis unavailable for alert ledger: %w", err)
	}
	return c, nil
}

func applyOverrides(opts *redis.Options, cfg config.RedisConfig) {
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
}

// Health writes a short-lived key, exercising the same write path as the
// alert ledger.
func (c *Client) Health(ctx context.Context) error {
	return c.Set(ctx, healthKey, time.Now().Unix(), healthTTL).Err()
}

func (c *Client) Close() error {
	return c.Client.Close()
}
