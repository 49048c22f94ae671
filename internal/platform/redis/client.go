// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis opens the connection used for short-lived campus data.

The account service keeps email verification and password reset tokens here
with a TTL, and the push notifier appends to a stream that the push gateway
reads.
*/
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// pingTimeout bounds the startup check and every readiness probe.
const pingTimeout = 2 * time.Second

// tune applies the pool and timeout settings of the API process.
func tune(options *redis.Options) {
	options.ClientName = "campus-api"
	options.PoolSize = 10
	options.MinIdleConns = 2
	options.DialTimeout = 3 * time.Second
	options.ReadTimeout = 2 * time.Second
	options.WriteTimeout = 2 * time.Second
}

// NewClient connects to redisURL and fails unless the server answers a PING.
func NewClient(ctx context.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	tune(options)

	client := redis.NewClient(options)
	if err := Ping(ctx, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_connected", slog.String("addr", options.Addr), slog.Int("db", options.DB))
	return client, nil
}

// Ping reports whether client answers within [pingTimeout]. The readiness probe calls it.
func Ping(ctx context.Context, client redis.UniversalClient) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping: %w", err)
	}
	return nil
}
