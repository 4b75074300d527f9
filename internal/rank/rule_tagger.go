package rank

import (
	"strings"

	"skilltrend-engine/internal/config"
	"skilltrend-engine/internal/domain"
)

// FallbackTag is used when no rule matches.
const FallbackTag = "General"

// RuleTagger applies substring rules over the lowercased title and
// description. Every matching rule contributes its tag, in rule order.
type RuleTagger struct {
	Rules []config.Rule
}

func NewRuleTagger(rules []config.Rule) RuleTagger {
	return RuleTagger{Rules: rules}
}

func (t RuleTagger) Tags(job domain.JobRecord) []string {
	text := strings.ToLower(job.Title + " " + job.Description)

	var tags []string
	for _, r := range t.Rules {
		for _, needle := range r.Any {
			n := strings.ToLower(strings.TrimSpace(needle))
			if n != "" && strings.Contains(text, n) {
				tags = append(tags, r.Tag)
				break
			}
		}
	}

	tags = uniq(tags)
	if len(tags) == 0 {
		return []string{FallbackTag}
	}
	return tags
}

func uniq(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, t := range in {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
