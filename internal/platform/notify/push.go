// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// # Log transport

// LogPushSender writes push payloads to the structured log instead of a gateway.
// It is the default transport for development and for deployments without FCM credentials.
type LogPushSender struct {
	logger *slog.Logger
}

// NewLogPushSender creates a push sender that only logs.
func NewLogPushSender(logger *slog.Logger) *LogPushSender {
	return &LogPushSender{logger: logger}
}

// Send implements [PushSender].
func (sender *LogPushSender) Send(ctx context.Context, token string, message Message) error {
	sender.logger.InfoContext(ctx, "push_logged",
		slog.String("token_suffix", tokenSuffix(token)),
		slog.String("title", message.Title),
		slog.String("body", message.Body),
		slog.Any("data", message.Data),
	)
	return nil
}

// # Redis Streams transport

// streamMaxLen bounds the stream so an offline gateway cannot exhaust memory.
const streamMaxLen = 100_000

// streamWriter is the subset of the go-redis client used by [RedisPushSender].
type streamWriter interface {
	XAdd(ctx context.Context, args *redis.XAddArgs) *redis.StringCmd
}

// RedisPushSender appends each push to a Redis stream consumed by the push gateway.
type RedisPushSender struct {
	client streamWriter
	stream string
}

// NewRedisPushSender creates a sender writing to stream.
func NewRedisPushSender(client streamWriter, stream string) *RedisPushSender {
	return &RedisPushSender{client: client, stream: stream}
}

// Send implements [PushSender].
func (sender *RedisPushSender) Send(ctx context.Context, token string, message Message) error {
	data, err := json.Marshal(message.Data)
	if err != nil {
		return fmt.Errorf("notify: encode push data: %w", err)
	}

	err = sender.client.XAdd(ctx, &redis.XAddArgs{
		Stream: sender.stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]any{
			"token": token,
			"title": message.Title,
			"body":  message.Body,
			"data":  string(data),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("notify: xadd %s: %w", sender.stream, err)
	}

	return nil
}
