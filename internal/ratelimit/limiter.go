package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Purposes limited by the API.
const (
	PurposeAuth     = "auth"
	PurposeRegister = "register"
)

// Rule allows Max requests per Window, counted from the first request.
type Rule struct {
	Max    int
	Window time.Duration
}

// Limiter keeps fixed-window counters per client IP and purpose in Redis.
type Limiter struct {
	client *redis.Client
	rules  map[string]Rule
}

func NewLimiter(client *redis.Client, rules map[string]Rule) *Limiter {
	return &Limiter{client: client, rules: rules}
}

func limiterKey(purpose, ip string) string {
	return fmt.Sprintf("ratelimit:%s:%s", purpose, ip)
}

// AllowIPRequestWithPurpose counts one request from ip and reports whether it
// still fits in the current window. The counter and its TTL are written in a
// single MULTI, and the decision is taken from the value INCR returned, so
// concurrent requests cannot all slip under the limit.
func (l *Limiter) AllowIPRequestWithPurpose(ctx context.Context, ip, purpose string) (bool, error) {
	rule, ok := l.rules[purpose]
	if !ok {
		return false, fmt.Errorf("no rate limit rule for %q", purpose)
	}

	key := limiterKey(purpose, ip)

	var count *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		count = pipe.Incr(ctx, key)
		// NX: only the first request of a window starts the TTL.
		pipe.ExpireNX(ctx, key, rule.Window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	return count.Val() <= int64(rule.Max), nil
}

// ResetIPWithPurpose clears the counter, e.g. after a successful login
func (l *Limiter) ResetIPWithPurpose(ctx context.Context, ip, purpose string) error {
	if err := l.client.Del(ctx, limiterKey(purpose, ip)).Err(); err != nil {
		return fmt.Errorf("failed to reset rate limit counter: %w", err)
	}
	return nil
}
