package main

import (
	"context"
	"fmt"

	"skilltrend-engine/internal/analyze"
	"skilltrend-engine/internal/config"
	"skilltrend-engine/internal/rank"
	"skilltrend-engine/internal/secrets"
	"skilltrend-engine/internal/source"
	"skilltrend-engine/internal/store"
	"skilltrend-engine/internal/usage"
)

// pipeline is the fetch side of the app: a counted fetcher, the counter
// it writes to and, when the provider has one, the account API.
type pipeline struct {
	fetcher source.Fetcher
	counter usage.CounterStore
	account source.AccountReader
}

func (p pipeline) Close() error {
	if p.counter == nil {
		return nil
	}
	return p.counter.Close()
}

func (a *app) credentials(cfg config.Config) (apiKey, imapPassword string, err error) {
	switch cfg.Provider.Name {
	case config.ProviderMailbox:
		imapPassword, err = secrets.GetIMAPPassword(cfg)
		return "", imapPassword, err
	case config.ProviderGreenhouse:
		return "", "", nil
	}
	apiKey, err = secrets.ResolveAPIKey(cfg)
	return apiKey, "", err
}

// buildPipeline wires the fetcher. db may be nil; when set, a sqlite usage
// backend on the same file shares it.
func (a *app) buildPipeline(cfg config.Config, db *store.DB) (pipeline, error) {
	counter, err := usage.OpenWithDB(cfg, db)
	if err != nil {
		return pipeline{}, fmt.Errorf("open usage counter: %w", err)
	}

	apiKey, imapPW, err := a.credentials(cfg)
	if err != nil {
		_ = counter.Close()
		return pipeline{}, err
	}

	f, err := source.New(cfg, source.Deps{
		Counter:      counter,
		APIKey:       apiKey,
		IMAPPassword: imapPW,
		Log:          a.log,
	})
	if err != nil {
		_ = counter.Close()
		return pipeline{}, err
	}

	p := pipeline{fetcher: f, counter: counter}
	if acc, ok := f.(source.AccountReader); ok {
		p.account = acc
	}
	a.log.InfoObj("pipeline ready", "pipeline_ready", map[string]any{
		"provider": f.Name(),
		"usage":    cfg.Usage.Backend,
	})
	return p, nil
}

func (a *app) newService(cfg config.Config, f source.Fetcher, onDone func(context.Context, analyze.Result)) *analyze.Service {
	return analyze.NewService(f, cfg.Vocab(), analyze.Options{
		Tagger:     rank.NewRuleTagger(cfg.Tagging.Rules),
		Log:        a.log,
		OnComplete: onDone,
	})
}
