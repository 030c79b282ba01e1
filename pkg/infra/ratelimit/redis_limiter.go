package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

type RedisLimiterOpts struct {
	TimeProvider func() time.Time
	UuidProvider func() uuid.UUID
}

type redisLimiter struct {
	redis        *redis.Client
	cfg          Config
	timeProvider func() time.Time
	uuidProvider func() uuid.UUID
}

// NewRedisLimiter keeps a sliding window per key in a sorted set so the
// limit holds across every server instance sharing the Redis database.
func NewRedisLimiter(redisClient *redis.Client, cfg Config, opts *RedisLimiterOpts) Limiter {
	l := &redisLimiter{
		redis:        redisClient,
		cfg:          cfg,
		timeProvider: time.Now,
		uuidProvider: uuid.New,
	}
	if opts != nil {
		if opts.TimeProvider != nil {
			l.timeProvider = opts.TimeProvider
		}
		if opts.UuidProvider != nil {
			l.uuidProvider = opts.UuidProvider
		}
	}
	return l
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	redisKey := fmt.Sprintf(KeyPattern, l.cfg.Scope, key)
	now := l.timeProvider()
	windowStart := now.Add(-l.cfg.Window).Unix()

	count, err := l.redis.ZCount(ctx, redisKey,
		strconv.FormatInt(windowStart, 10),
		strconv.FormatInt(now.Unix(), 10)).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("failed to get rate limit count: %w", err)
	}

	decision := Decision{
		Limit:     l.cfg.Limit,
		Remaining: l.cfg.Limit - int(count),
		Reset:     now.Add(l.cfg.Window),
	}
	if count >= int64(l.cfg.Limit) {
		decision.Remaining = 0
		decision.RetryAfter = l.cfg.Window
		return decision, nil
	}

	member := fmt.Sprintf("%d:%s", now.Unix(), l.uuidProvider().String())
	pipe := l.redis.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(windowStart, 10))
	pipe.ZAdd(ctx, redisKey, &redis.Z{
		Score:  float64(now.Unix()),
		Member: member,
	})
	pipe.Expire(ctx, redisKey, l.cfg.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("failed to execute rate limit pipeline: %w", err)
	}

	decision.Allowed = true
	decision.Remaining--
	return decision, nil
}
