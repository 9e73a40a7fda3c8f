package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter counts failed logins per account.
type LoginLimiter interface {
	Blocked(ctx context.Context, email string) (bool, error)
	Fail(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// RedisLoginLimiter keeps a fixed-window failure counter per email.
type RedisLoginLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewRedisLoginLimiter returns a limiter, or a no-op one when client is nil.
func NewRedisLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) LoginLimiter {
	if client == nil || maxAttempts <= 0 {
		return noopLimiter{}
	}
	return &RedisLoginLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

func loginKey(email string) string {
	return "login:failures:" + strings.ToLower(strings.TrimSpace(email))
}

// Blocked reports whether the account has used up its attempts.
func (l *RedisLoginLimiter) Blocked(ctx context.Context, email string) (bool, error) {
	val, err := l.client.Get(ctx, loginKey(email)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return false, nil
	}
	return n >= l.maxAttempts, nil
}

// Fail records a failed attempt. The window starts at the first failure.
func (l *RedisLoginLimiter) Fail(ctx context.Context, email string) error {
	key := loginKey(email)
	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if n == 1 {
		return l.client.Expire(ctx, key, l.window).Err()
	}
	return nil
}

// Reset clears the counter after a successful login.
func (l *RedisLoginLimiter) Reset(ctx context.Context, email string) error {
	return l.client.Del(ctx, loginKey(email)).Err()
}

type noopLimiter struct{}

func (noopLimiter) Blocked(context.Context, string) (bool, error) { return false, nil }
func (noopLimiter) Fail(context.Context, string) error            { return nil }
func (noopLimiter) Reset(context.Context, string) error           { return nil }
