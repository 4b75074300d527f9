package source

import (
	"context"
	"fmt"
	"time"

	"skilltrend-engine/internal/config"
	"skilltrend-engine/internal/httpclient"
	"skilltrend-engine/internal/logger"
)

// Deps carries what a provider needs beyond its config section.
// Credentials are resolved by the caller.
type Deps struct {
	Client       httpclient.Client
	Counter      CallCounter
	APIKey       string
	IMAPPassword string
	Log          logger.Logger
}

// DefaultClient is a resty client throttled by the provider rate settings.
func DefaultClient(cfg config.Config) *httpclient.RestyClient {
	timeout := time.Duration(cfg.Provider.TimeoutSeconds) * time.Second
	return httpclient.NewRestyClient(timeout).
		WithLimiter(httpclient.NewHostLimiter(cfg.Provider.RequestsPerSecond, cfg.Provider.Burst))
}

// New builds the fetcher named by provider.name.
func New(cfg config.Config, d Deps) (Fetcher, error) {
	raw := d.Client
	if raw == nil {
		raw = DefaultClient(cfg)
	}
	counted := Counting(raw, d.Counter)
	p := cfg.Provider

	switch p.Name {
	case config.ProviderSerpAPI:
		return NewSerpAPI(SerpAPIConfig{
			BaseURL:     p.BaseURL,
			APIKey:      d.APIKey,
			QuerySuffix: p.QuerySuffix,
			Location:    p.Location,
			Language:    p.Language,
			MaxResults:  p.MaxResults,
			NumPages:    p.NumPages,
		}, counted).WithAccountClient(raw), nil
	case config.ProviderJSearch:
		return NewJSearch(JSearchConfig{
			BaseURL:     p.BaseURL,
			APIKey:      d.APIKey,
			QuerySuffix: p.QuerySuffix,
			Country:     p.Country,
			MaxResults:  p.MaxResults,
			NumPages:    p.NumPages,
		}, counted), nil
	case config.ProviderGreenhouse:
		return NewGreenhouse(GreenhouseConfig{
			BaseURL:    p.BaseURL,
			Boards:     cfg.Greenhouse.Boards,
			MaxResults: p.MaxResults,
		}, counted), nil
	case config.ProviderMailbox:
		mb := cfg.Mailbox
		return NewMailbox(MailboxConfig{
			Host:        mb.IMAPHost,
			Port:        mb.IMAPPort,
			Username:    mb.Username,
			Password:    d.IMAPPassword,
			Mailbox:     mb.Mailbox,
			MaxMessages: mb.MaxMessages,
			SinceDays:   mb.SinceDays,
			MaxResults:  p.MaxResults,
		}, d.Log), nil
	}
	return nil, &config.ConfigError{Key: "provider.name", Msg: fmt.Sprintf("unknown provider %q", p.Name)}
}

// AccountReader is implemented by providers that expose quota usage.
type AccountReader interface {
	Account(ctx context.Context, defaultLimit int) (AccountUsage, error)
}
