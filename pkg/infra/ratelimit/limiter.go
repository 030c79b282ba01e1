package ratelimit

import (
	"context"
	"time"
)

const KeyPattern = "turing:ratelimit:%s:%s"

type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	Reset      time.Time
	RetryAfter time.Duration
}

//go:generate mockery --name=Limiter --dir=. --output=./mocks --filename=limiter_mock.go --case=underscore --with-expecter

// Limiter admits at most Limit requests per key within Window.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

type Config struct {
	Scope  string
	Limit  int
	Window time.Duration
}
