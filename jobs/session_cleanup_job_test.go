package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCleanupJob_RunsPeriodically(t *testing.T) {
	var calls atomic.Int32
	job := NewSessionCleanupJob(CleanupFunc(func(ctx context.Context) error {
		calls.Add(1)
		return nil
	}), 10*time.Millisecond)

	job.Start()
	require.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	job.Stop()

	stopped := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, calls.Load())
}

func TestSessionCleanupJob_RunOnceSurvivesErrors(t *testing.T) {
	var calls int
	job := NewSessionCleanupJob(CleanupFunc(func(ctx context.Context) error {
		calls++
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return errors.New("store unavailable")
	}), 0)

	job.RunOnce()
	job.RunOnce()
	assert.Equal(t, 2, calls)
	assert.Equal(t, 10*time.Minute, job.interval)
}
