package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvery_RunsImmediatelyAndRepeats(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	done := make(chan struct{})
	go func() {
		defer close(done)
		Every(ctx, 10*time.Millisecond, "test", nil, func(context.Context) error {
			runs.Add(1)
			return errors.New("keeps going")
		})
	}()

	require.Eventually(t, func() bool { return runs.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Every did not return after cancel")
	}
}

func TestEvery_NonPositiveIntervalIsNoop(t *testing.T) {
	var runs atomic.Int32
	Every(context.Background(), 0, "off", nil, func(context.Context) error {
		runs.Add(1)
		return nil
	})
	assert.Zero(t, runs.Load())
}
