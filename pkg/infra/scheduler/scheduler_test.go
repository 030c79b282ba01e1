package scheduler

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestScheduler_RejectsInvalidSpec(t *testing.T) {
	s := New(quietLogger())
	err := s.Add("reload", "not a cron spec", func(context.Context) error { return nil })
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "reload")
}

func TestScheduler_RunsJob(t *testing.T) {
	s := New(quietLogger())
	var runs atomic.Int32
	require.NoError(t, s.Add("reload", "@every 1s", func(context.Context) error {
		runs.Add(1)
		return nil
	}))

	s.Start()
	defer s.Stop(context.Background())

	require.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
