// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package sweeper runs periodic batch updates that close out expired resources.

Each [Task] issues a single filtered update ("expired AND still active"), so a
sweep racing a user action, or a second sweep, converges on the same state.
A failing or panicking task is logged and counted. The next tick runs as usual.
*/
package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/campus/internal/platform/metrics"
)

// Task is one named sweep. Run returns the number of resources it transitioned.
type Task struct {
	Name string
	Run  func(ctx context.Context, now time.Time) (int64, error)
}

// Runner executes its tasks on a fixed interval.
type Runner struct {
	logger   *slog.Logger
	interval time.Duration
	timeout  time.Duration
	tasks    []Task
	now      func() time.Time
	wg       sync.WaitGroup
}

// NewRunner creates a new sweep runner.
func NewRunner(logger *slog.Logger, interval, timeout time.Duration, tasks ...Task) *Runner {
	if timeout <= 0 || timeout > interval {
		timeout = interval
	}
	return &Runner{
		logger:   logger,
		interval: interval,
		timeout:  timeout,
		tasks:    tasks,
		now:      time.Now,
	}
}

// Start runs one sweep immediately and then one per interval until ctx is cancelled.
func (runner *Runner) Start(ctx context.Context) {
	runner.wg.Add(1)
	go func() {
		defer runner.wg.Done()

		ticker := time.NewTicker(runner.interval)
		defer ticker.Stop()

		runner.RunOnce(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runner.RunOnce(ctx)
			}
		}
	}()
}

// Wait blocks until the loop started by [Runner.Start] has returned.
func (runner *Runner) Wait() {
	runner.wg.Wait()
}

// RunOnce executes every task once and returns the transitions per task.
// Failed tasks are absent from the result.
func (runner *Runner) RunOnce(ctx context.Context) map[string]int64 {
	results := make(map[string]int64, len(runner.tasks))
	now := runner.now().UTC()

	for _, task := range runner.tasks {
		count, err := runner.runTask(ctx, task, now)
		if err != nil {
			metrics.SweepErrors.WithLabelValues(task.Name).Inc()
			runner.logger.ErrorContext(ctx, "sweep_failed",
				slog.String("task", task.Name),
				slog.String("error", err.Error()),
			)
			continue
		}

		results[task.Name] = count
		if count > 0 {
			metrics.SweepTransitions.WithLabelValues(task.Name).Add(float64(count))
			runner.logger.InfoContext(ctx, "sweep_completed",
				slog.String("task", task.Name),
				slog.Int64("transitioned", count),
			)
		}
	}

	return results
}

func (runner *Runner) runTask(ctx context.Context, task Task, now time.Time) (count int64, err error) {
	tickCtx, cancel := context.WithTimeout(ctx, runner.timeout)
	defer cancel()

	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("sweeper: task %s panicked: %v", task.Name, recovered)
		}
	}()

	return task.Run(tickCtx, now)
}
