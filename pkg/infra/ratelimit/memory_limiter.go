package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const maxTrackedKeys = 10000

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type memoryLimiter struct {
	cfg  Config
	now  func() time.Time
	mu   sync.Mutex
	keys map[string]*visitor
}

// NewMemoryLimiter is a per-process token bucket: Limit tokens refilled
// evenly over Window.
func NewMemoryLimiter(cfg Config) Limiter {
	return &memoryLimiter{
		cfg:  cfg,
		now:  time.Now,
		keys: make(map[string]*visitor),
	}
}

func (l *memoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := l.now()

	l.mu.Lock()
	v, ok := l.keys[key]
	if !ok {
		if len(l.keys) >= maxTrackedKeys {
			l.evict(now)
		}
		every := l.cfg.Window / time.Duration(l.cfg.Limit)
		v = &visitor{limiter: rate.NewLimiter(rate.Every(every), l.cfg.Limit)}
		l.keys[key] = v
	}
	v.lastSeen = now
	allowed := v.limiter.AllowN(now, 1)
	tokens := v.limiter.TokensAt(now)
	l.mu.Unlock()

	decision := Decision{
		Allowed:   allowed,
		Limit:     l.cfg.Limit,
		Remaining: int(math.Max(0, math.Floor(tokens))),
		Reset:     now.Add(l.cfg.Window),
	}
	if !allowed {
		decision.RetryAfter = time.Duration((1 - tokens) * float64(l.cfg.Window) / float64(l.cfg.Limit))
	}
	return decision, nil
}

// evict drops keys idle for a full window. Caller holds mu.
func (l *memoryLimiter) evict(now time.Time) {
	for k, v := range l.keys {
		if now.Sub(v.lastSeen) > l.cfg.Window {
			delete(l.keys, k)
		}
	}
}
