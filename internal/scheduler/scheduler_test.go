package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fr4nk3nst1ner/salarybarometer/internal/logging"
)

func TestRunOnStartAndTicks(t *testing.T) {
	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	s := New("test", 10*time.Millisecond, true, func(ctx context.Context) error {
		if runs.Add(1) >= 3 {
			cancel()
		}
		return nil
	}, logging.Discard())

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.GreaterOrEqual(t, runs.Load(), int32(3))
}

func TestFailingJobKeepsSchedule(t *testing.T) {
	var runs atomic.Int32
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	s := New("failing", 5*time.Millisecond, false, func(ctx context.Context) error {
		if runs.Add(1) >= 2 {
			cancel()
		}
		return errors.New("upstream down")
	}, logging.Discard())

	s.Run(ctx)
	assert.GreaterOrEqual(t, runs.Load(), int32(2))
}

func TestNoRunWhenCancelledBeforeStart(t *testing.T) {
	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	New("cancelled", time.Hour, true, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}, logging.Discard()).Run(ctx)

	assert.Equal(t, int32(0), runs.Load())
}
