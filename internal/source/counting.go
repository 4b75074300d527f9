package source

import (
	"context"
	"fmt"

	"skilltrend-engine/internal/httpclient"
)

// CallCounter records one billable upstream call.
type CallCounter interface {
	Increment(ctx context.Context) (int64, error)
}

type countingClient struct {
	inner   httpclient.Client
	counter CallCounter
}

// Counting wraps a client so the counter is bumped before every request
// leaves the process, whether or not it succeeds.
func Counting(inner httpclient.Client, counter CallCounter) httpclient.Client {
	if counter == nil {
		return inner
	}
	return &countingClient{inner: inner, counter: counter}
}

func (c *countingClient) Get(ctx context.Context, url string, headers map[string]string) (httpclient.Response, error) {
	if _, err := c.counter.Increment(ctx); err != nil {
		return nil, fmt.Errorf("increment usage counter: %w", err)
	}
	return c.inner.Get(ctx, url, headers)
}
