// Package cache holds the Redis-backed pieces: the client factory, the
// dashboard summary cache and the change feed.
package cache

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// Options selects the Redis instance. Zero pool values fall back to the
// client defaults used by the server.
type Options struct {
	Host     string
	Port     string
	Password string
	DB       int

	PoolSize     int
	MinIdleConns int
}

func (o Options) Addr() string {
	return net.JoinHostPort(o.Host, o.Port)
}

func (o Options) clientOptions() *redis.Options {
	pool, idle := o.PoolSize, o.MinIdleConns
	if pool <= 0 {
		pool = 10
	}
	if idle <= 0 {
		idle = 2
	}

	return &redis.Options{
		Addr:         o.Addr(),
		Password:     o.Password,
		DB:           o.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     pool,
		MinIdleConns: idle,
	}
}

// NewRedisClient connects and pings; an unreachable server is an error and
// leaves no open client behind.
func NewRedisClient(ctx context.Context, opts Options) (*redis.Client, error) {
	rdb := redis.NewClient(opts.clientOptions())

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: connect to redis at %s: %w", opts.Addr(), err)
	}
	return rdb, nil
}
