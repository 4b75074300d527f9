// Package analyze runs the fetch, extract and aggregate pipeline for one or
// more roles.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"skilltrend-engine/internal/domain"
	"skilltrend-engine/internal/logger"
	"skilltrend-engine/internal/rank"
	"skilltrend-engine/internal/skills"
	"skilltrend-engine/internal/source"
)

// ErrEmptyRole is returned when no role is given and there is no default.
var ErrEmptyRole = errors.New("role is empty")

// AnalyzedJob is one listing with what was extracted from it.
type AnalyzedJob struct {
	Job    domain.JobRecord
	Skills skills.SkillSet
	Tags   []string
}

// Result is the outcome of one role's analysis.
type Result struct {
	Role     string
	Provider string
	Jobs     []AnalyzedJob
	Table    *skills.Table
	At       time.Time
}

// ManyResult holds per-role results plus their merged table.
type ManyResult struct {
	Results []Result
	Merged  *skills.Table
}

type Options struct {
	Tagger rank.Tagger
	Log    logger.Logger
	// OnComplete runs once per role after a successful Analyze or AnalyzeMany.
	OnComplete func(ctx context.Context, r Result)
	Now        func() time.Time
}

type Service struct {
	fetcher   source.Fetcher
	extractor *skills.Extractor
	tagger    rank.Tagger
	log       logger.Logger
	onDone    func(ctx context.Context, r Result)
	now       func() time.Time
}

func NewService(fetcher source.Fetcher, vocab skills.Vocabulary, opts Options) *Service {
	s := &Service{
		fetcher:   fetcher,
		extractor: skills.NewExtractor(vocab),
		tagger:    opts.Tagger,
		log:       opts.Log,
		onDone:    opts.OnComplete,
		now:       opts.Now,
	}
	if s.tagger == nil {
		s.tagger = rank.NewRuleTagger(nil)
	}
	if s.log == nil {
		s.log = logger.NopLogger{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *Service) Provider() string { return s.fetcher.Name() }

// Analyze fetches listings for role and folds their skill sets into a
// table. A fetch failure fails the whole call.
func (s *Service) Analyze(ctx context.Context, role string) (Result, error) {
	res, err := s.analyze(ctx, role)
	if err != nil {
		return Result{}, err
	}
	s.complete(ctx, res)
	return res, nil
}

func (s *Service) analyze(ctx context.Context, role string) (Result, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return Result{}, ErrEmptyRole
	}

	start := s.now()
	records, err := s.fetcher.Fetch(ctx, role)
	if err != nil {
		s.log.ErrorObj("job fetch failed", "fetch_error", map[string]any{
			"role":     role,
			"provider": s.fetcher.Name(),
			"error":    err,
		})
		return Result{}, fmt.Errorf("analyze %q: %w", role, err)
	}

	res := Result{
		Role:     role,
		Provider: s.fetcher.Name(),
		Jobs:     make([]AnalyzedJob, 0, len(records)),
		Table:    skills.NewTable(),
		At:       s.now(),
	}
	for _, rec := range records {
		set := s.extractor.Extract(rec)
		res.Table.Add(set)
		res.Jobs = append(res.Jobs, AnalyzedJob{
			Job:    rec,
			Skills: set,
			Tags:   s.tagger.Tags(rec),
		})
	}

	s.log.InfoObj("analysis completed", "analysis_completed", map[string]any{
		"role":        role,
		"provider":    res.Provider,
		"jobs":        len(res.Jobs),
		"skills":      res.Table.Len(),
		"duration_ms": res.At.Sub(start).Milliseconds(),
	})
	return res, nil
}

func (s *Service) complete(ctx context.Context, res Result) {
	if s.onDone != nil {
		s.onDone(ctx, res)
	}
}

// AnalyzeMany runs Analyze for each distinct role concurrently. The first
// failure cancels the rest and is returned alone. OnComplete fires only once
// every role has succeeded.
func (s *Service) AnalyzeMany(ctx context.Context, roles []string) (ManyResult, error) {
	roles = distinctRoles(roles)
	if len(roles) == 0 {
		return ManyResult{}, ErrEmptyRole
	}

	results := make([]Result, len(roles))
	g, gctx := errgroup.WithContext(ctx)
	for i, role := range roles {
		g.Go(func() error {
			r, err := s.analyze(gctx, role)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ManyResult{}, err
	}

	merged := skills.NewTable()
	for _, r := range results {
		merged.Merge(r.Table)
		s.complete(ctx, r)
	}
	return ManyResult{Results: results, Merged: merged}, nil
}

func distinctRoles(roles []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range roles {
		r = strings.TrimSpace(r)
		key := strings.ToLower(r)
		if r == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}
