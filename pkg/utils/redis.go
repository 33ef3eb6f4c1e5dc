package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig controls redis client behavior.
// Keep it config-driven; defaults should be safe and conservative.
type RedisConfig struct {
	Addr string

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int

	PingTimeout time.Duration
}

func (c RedisConfig) withDefaults() RedisConfig {
	out := c
	if out.DialTimeout <= 0 {
		out.DialTimeout = 3 * time.Second
	}
	if out.ReadTimeout <= 0 {
		out.ReadTimeout = 2 * time.Second
	}
	if out.WriteTimeout <= 0 {
		out.WriteTimeout = 2 * time.Second
	}
	if out.PoolSize <= 0 {
		out.PoolSize = 10
	}
	if out.PingTimeout <= 0 {
		out.PingTimeout = 2 * time.Second
	}
	return out
}

// OpenRedis initializes a Redis client and validates connectivity via PING.
func OpenRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	cfg = cfg.withDefaults()
	if cfg.Addr == "" {
		return nil, errors.New("redis addr is required")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

var fixedWindowScript = redis.NewScript(`
-- KEYS[1] = counter key
-- ARGV[1] = limit (int)
-- ARGV[2] = window_ms (int)
--
-- Returns {allowed (1|0), remaining ttl in ms}
local current = redis.call('INCR', KEYS[1])
local ttl = redis.call('PTTL', KEYS[1])
if current == 1 or ttl < 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[2])
  ttl = tonumber(ARGV[2])
end

if current > tonumber(ARGV[1]) then
  return {0, ttl}
end
return {1, ttl}
`)

// RateDecision is the outcome of one limiter hit.
type RateDecision struct {
	Allowed bool
	// RetryAfter is the time left in the current window.
	RetryAfter time.Duration
}

// FixedWindowLimiter counts hits per key in fixed windows.
//
// The count and the window expiry are updated in one Lua call, so
// concurrent callers across processes never exceed the limit.
type FixedWindowLimiter struct {
	rdb    redis.Scripter
	prefix string
	limit  int
	window time.Duration
}

func NewFixedWindowLimiter(rdb redis.Scripter, prefix string, limit int, window time.Duration) (*FixedWindowLimiter, error) {
	if rdb == nil {
		return nil, errors.New("redis client is nil")
	}
	if limit <= 0 {
		return nil, errors.New("limit must be > 0")
	}
	if window < time.Millisecond {
		return nil, errors.New("window must be >= 1ms")
	}
	return &FixedWindowLimiter{rdb: rdb, prefix: prefix, limit: limit, window: window}, nil
}

// Allow records one hit for key and reports whether it fits the window.
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) (RateDecision, error) {
	if key == "" {
		return RateDecision{}, errors.New("key is required")
	}

	res, err := fixedWindowScript.Run(ctx, l.rdb, []string{l.prefix + key}, l.limit, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return RateDecision{}, err
	}
	if len(res) != 2 {
		return RateDecision{}, fmt.Errorf("unexpected limiter reply %v", res)
	}
	return RateDecision{
		Allowed:    res[0] == 1,
		RetryAfter: time.Duration(res[1]) * time.Millisecond,
	}, nil
}
