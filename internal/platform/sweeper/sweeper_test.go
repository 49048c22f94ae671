// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sweeper_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/campus/internal/platform/sweeper"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

/*
TestRunOnce_IsolatesFailures verifies that an erroring or panicking task does not
stop the tasks after it.
*/
func TestRunOnce_IsolatesFailures(t *testing.T) {
	var ran atomic.Int32

	runner := sweeper.NewRunner(discard, time.Minute, time.Second,
		sweeper.Task{Name: "broken", Run: func(context.Context, time.Time) (int64, error) {
			return 0, errors.New("connection refused")
		}},
		sweeper.Task{Name: "panics", Run: func(context.Context, time.Time) (int64, error) {
			panic("boom")
		}},
		sweeper.Task{Name: "polls", Run: func(context.Context, time.Time) (int64, error) {
			ran.Add(1)
			return 3, nil
		}},
	)

	results := runner.RunOnce(context.Background())

	assert.Equal(t, map[string]int64{"polls": 3}, results)
	assert.EqualValues(t, 1, ran.Load())
}

func TestRunOnce_AppliesTimeout(t *testing.T) {
	runner := sweeper.NewRunner(discard, time.Minute, 20*time.Millisecond,
		sweeper.Task{Name: "slow", Run: func(ctx context.Context, _ time.Time) (int64, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		}},
	)

	start := time.Now()
	results := runner.RunOnce(context.Background())

	assert.Empty(t, results)
	assert.Less(t, time.Since(start), time.Second)
}

func TestStart_TicksUntilCancelled(t *testing.T) {
	var ticks atomic.Int32

	runner := sweeper.NewRunner(discard, 10*time.Millisecond, 5*time.Millisecond,
		sweeper.Task{Name: "count", Run: func(context.Context, time.Time) (int64, error) {
			ticks.Add(1)
			return 0, nil
		}},
	)

	ctx, cancel := context.WithCancel(context.Background())
	runner.Start(ctx)

	assert.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, 5*time.Millisecond)

	cancel()
	runner.Wait()
	stopped := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, ticks.Load())
}
