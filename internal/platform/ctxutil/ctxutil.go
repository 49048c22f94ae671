// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ctxutil carries per-request values through [context.Context].

Middleware stores the request id, the request-scoped logger and the verified
token claims. Services read them back without knowing about HTTP.
*/
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/campus/internal/platform/access"
	"github.com/taibuivan/campus/internal/platform/sec"
)

// contextKey is unexported so no other package can read or overwrite these values.
type contextKey uint8

const (
	requestIDKey contextKey = iota
	loggerKey
	claimsKey
)

// value reads key from ctx, returning the zero value on a miss.
func value[T any](ctx context.Context, key contextKey) T {
	found, _ := ctx.Value(key).(T)
	return found
}

// # Request Tracing

// WithRequestID attaches the correlation id echoed in X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns the correlation id, or "" outside a request.
func GetRequestID(ctx context.Context) string {
	return value[string](ctx, requestIDKey)
}

// # Structured Logging

// WithLogger attaches a request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger returns the request-scoped logger, falling back to [slog.Default]
// for background work such as the expiry sweeper.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger := value[*slog.Logger](ctx, loggerKey); logger != nil {
		return logger
	}
	return slog.Default()
}

// # Identity

// WithAuthUser attaches verified access token claims.
func WithAuthUser(ctx context.Context, claims *sec.AuthClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// GetAuthUser returns the verified claims, or nil for an anonymous request.
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	return value[*sec.AuthClaims](ctx, claimsKey)
}

// GetActor converts the claims into the [access.Actor] that services authorize.
// Anonymous requests yield [access.Anonymous].
func GetActor(ctx context.Context) access.Actor {
	claims := GetAuthUser(ctx)
	if claims == nil {
		return access.Anonymous
	}
	return access.Actor{ID: claims.UserID, Role: sec.UserRole(claims.Role)}
}
