package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed one-minute window shared by every instance behind
// the same Redis.
type RedisLimiter struct {
	rdb       redis.Cmdable
	prefix    string
	perMinute int64
	window    time.Duration
	now       func() time.Time
}

func NewRedisLimiter(rdb redis.Cmdable, perMinute int) *RedisLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &RedisLimiter{
		rdb:       rdb,
		prefix:    "ratelimit:reservations",
		perMinute: int64(perMinute),
		window:    time.Minute,
		now:       time.Now,
	}
}

func (l *RedisLimiter) windowKey(key string, now time.Time) (string, time.Time) {
	start := now.Truncate(l.window)
	return fmt.Sprintf("%s:%s:%d", l.prefix, key, start.Unix()), start.Add(l.window)
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	now := l.now()
	redisKey, end := l.windowKey(key, now)

	var incr *redis.IntCmd
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.Expire(ctx, redisKey, l.window+time.Second)
		return nil
	})
	if err != nil {
		return false, 0, fmt.Errorf("redis rate limit: %w", err)
	}

	if incr.Val() > l.perMinute {
		return false, end.Sub(now), nil
	}
	return true, 0, nil
}

// NewRedisClient connects and pings. On error callers fall back to the
// in-process limiter.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
