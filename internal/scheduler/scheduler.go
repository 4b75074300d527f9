// Package scheduler runs periodic background passes such as the watch
// re-analysis.
package scheduler

import (
	"context"
	"time"

	"skilltrend-engine/internal/logger"
)

type Task func(ctx context.Context) error

// Every runs task once right away and then on each tick until ctx is done.
// Runs never overlap: a tick that fires during a slow run is skipped.
// Task errors are logged and do not stop the loop.
func Every(ctx context.Context, interval time.Duration, name string, log logger.Logger, task Task) {
	if log == nil {
		log = logger.NopLogger{}
	}
	if interval <= 0 {
		log.WarnObj("scheduler disabled", "scheduler_disabled", map[string]any{"task": name})
		return
	}

	run := func() {
		start := time.Now()
		if err := task(ctx); err != nil {
			log.ErrorObj("scheduled task failed", "scheduler_error", map[string]any{
				"task":   name,
				"error":  err,
				"dur_ms": time.Since(start).Milliseconds(),
			})
			return
		}
		log.DebugObj("scheduled task done", "scheduler_ok", map[string]any{
			"task":   name,
			"dur_ms": time.Since(start).Milliseconds(),
		})
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	run()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			run()
		}
	}
}
