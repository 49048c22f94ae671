// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/internal/platform/constants"
)

// RedisTokenStore implements [TokenStore] with one Redis key per token.
type RedisTokenStore struct {
	client redis.Cmdable
	prefix string
	label  string
}

// NewVerificationTokenStore creates the store for email verification tokens.
func NewVerificationTokenStore(client redis.Cmdable) *RedisTokenStore {
	return &RedisTokenStore{client: client, prefix: constants.RedisPrefixVerifyToken, label: "Verification token"}
}

// NewResetTokenStore creates the store for password reset tokens.
func NewResetTokenStore(client redis.Cmdable) *RedisTokenStore {
	return &RedisTokenStore{client: client, prefix: constants.RedisPrefixResetToken, label: "Reset token"}
}

/*
Set stores a token with its associated userID and TTL.

Parameters:
  - ctx: context.Context
  - token: string
  - userID: string
  - ttl: time.Duration

Returns:
  - error: Storage failures
*/
func (store *RedisTokenStore) Set(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := store.client.Set(ctx, store.prefix+token, userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_token_set_failed: %w", err)
	}
	return nil
}

/*
Consume reads and deletes the token with a single GETDEL.

Description: A token can be redeemed exactly once even when two requests race.

Returns:
  - string: Original UserID
  - error: apperr.NotFound or connectivity errors
*/
func (store *RedisTokenStore) Consume(ctx context.Context, token string) (string, error) {
	userID, err := store.client.GetDel(ctx, store.prefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound(store.label)
		}
		return "", fmt.Errorf("redis_token_consume_failed: %w", err)
	}

	return userID, nil
}
