package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrLoginThrottled = errors.New("login throttled")
	ErrUnavailable    = errors.New("login throttle unavailable")
)

// LoginLimiter counts failed logins per email and client IP inside a fixed
// window. A zero MaxAttempts or nil client disables it.
type LoginLimiter struct {
	redis       redis.UniversalClient
	maxAttempts int
	window      time.Duration
}

// NewLoginLimiter builds a limiter.
func NewLoginLimiter(client redis.UniversalClient, maxAttempts int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{redis: client, maxAttempts: maxAttempts, window: window}
}

func (l *LoginLimiter) enabled() bool {
	return l != nil && l.redis != nil && l.maxAttempts > 0
}

// Check returns ErrLoginThrottled and the remaining lockout when the key has
// used up its attempts.
func (l *LoginLimiter) Check(ctx context.Context, email, ip string) (time.Duration, error) {
	if !l.enabled() {
		return 0, nil
	}
	key := loginKey(email, ip)

	count, err := l.redis.Get(ctx, key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if count < l.maxAttempts {
		return 0, nil
	}

	ttl, err := l.redis.TTL(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if ttl < 0 {
		ttl = l.window
	}
	return ttl, ErrLoginThrottled
}

// RecordFailure counts one failed attempt.
func (l *LoginLimiter) RecordFailure(ctx context.Context, email, ip string) error {
	if !l.enabled() {
		return nil
	}
	key := loginKey(email, ip)

	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	return nil
}

// Reset forgets failures after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email, ip string) error {
	if !l.enabled() {
		return nil
	}
	if err := l.redis.Del(ctx, loginKey(email, ip)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func loginKey(email, ip string) string {
	return "login:fail:" + strings.ToLower(strings.TrimSpace(email)) + ":" + ip
}
