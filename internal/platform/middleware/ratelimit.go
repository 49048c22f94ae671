// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/internal/platform/constants"
	"github.com/taibuivan/campus/internal/platform/respond"
)

// retryAfterSeconds is advertised to throttled clients.
const retryAfterSeconds = 1

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
}

// NewRateLimiter allows requestsPerSecond per IP with the given burst. Idle
// buckets are dropped periodically until ctx is cancelled.
func NewRateLimiter(ctx context.Context, requestsPerSecond float64, burst int) *RateLimiter {
	limiter := &RateLimiter{
		buckets: make(map[string]*bucket),
		limit:   rate.Limit(requestsPerSecond),
		burst:   burst,
	}
	go limiter.sweep(ctx)
	return limiter
}

func (limiter *RateLimiter) sweep(ctx context.Context) {
	ticker := time.NewTicker(constants.RateLimitCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			limiter.evict(now)
		case <-ctx.Done():
			return
		}
	}
}

func (limiter *RateLimiter) evict(now time.Time) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	for ip, entry := range limiter.buckets {
		if now.Sub(entry.lastSeen) > constants.RateLimitClientTTL {
			delete(limiter.buckets, ip)
		}
	}
}

func (limiter *RateLimiter) allow(ip string, now time.Time) bool {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	entry, found := limiter.buckets[ip]
	if !found {
		entry = &bucket{limiter: rate.NewLimiter(limiter.limit, limiter.burst)}
		limiter.buckets[ip] = entry
	}
	entry.lastSeen = now

	return entry.limiter.AllowN(now, 1)
}

// Middleware answers 429 with a Retry-After header once a client runs dry.
func (limiter *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if !limiter.allow(RealIP(request), time.Now()) {
			writer.Header().Set(constants.HeaderRetryAfter, strconv.Itoa(retryAfterSeconds))
			respond.Error(writer, request, apperr.RateLimited(retryAfterSeconds))
			return
		}
		next.ServeHTTP(writer, request)
	})
}
