// Package httpclient is the outbound HTTP layer for provider fetchers.
package httpclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// Response is the subset of a resty response the fetchers read.
type Response interface {
	StatusCode() int
	Body() []byte
}

type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}

// RestyClient is a Client backed by resty, optionally throttled per host.
type RestyClient struct {
	r       *resty.Client
	limiter *HostLimiter
}

func NewRestyClient(timeout time.Duration) *RestyClient {
	r := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "skilltrend/1.0")
	return &RestyClient{r: r}
}

// WithLimiter throttles every request through hl before it is sent.
func (c *RestyClient) WithLimiter(hl *HostLimiter) *RestyClient {
	c.limiter = hl
	return c
}

func (c *RestyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	if c.limiter != nil {
		if err := c.limiter.WaitURL(ctx, url); err != nil {
			return nil, err
		}
	}
	resp, err := c.r.R().
		SetContext(ctx).
		SetHeaders(headers).
		Get(url)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
