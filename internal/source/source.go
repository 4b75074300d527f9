// Package source fetches job listings from upstream providers and maps each
// provider's payload onto domain.JobRecord.
package source

import (
	"context"
	"fmt"
	"strings"

	"skilltrend-engine/internal/domain"
)

// Fetcher returns at most its configured number of listings for a role.
// A provider failure is returned whole; there are no partial results.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, role string) ([]domain.JobRecord, error)
}

// UpstreamError covers network failures, non-2xx answers and payloads that
// do not decode.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Snippet    string
	Err        error
}

func (e *UpstreamError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s upstream", e.Provider)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " returned status %d", e.StatusCode)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Snippet != "" {
		fmt.Fprintf(&b, " body: %s", e.Snippet)
	}
	return b.String()
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

// SearchQuery builds the provider query text, e.g. "dotnet developer".
func SearchQuery(role, suffix string) string {
	role = strings.TrimSpace(role)
	suffix = strings.TrimSpace(suffix)
	if suffix == "" || role == "" {
		return role + suffix
	}
	return role + " " + suffix
}

func bound(jobs []domain.JobRecord, max int) []domain.JobRecord {
	if max > 0 && len(jobs) > max {
		return jobs[:max]
	}
	return jobs
}
