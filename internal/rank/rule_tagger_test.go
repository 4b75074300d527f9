package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"skilltrend-engine/internal/config"
	"skilltrend-engine/internal/domain"
)

func TestRuleTagger_DefaultRules(t *testing.T) {
	tagger := NewRuleTagger(config.Default().Tagging.Rules)

	cases := []struct {
		name  string
		title string
		desc  string
		want  []string
	}{
		{"full stack", "Frontend Engineer", "React and CSS", []string{"Full-Stack"}},
		{"backend and cloud", "C# Developer", "Build APIs on Azure", []string{"Backend", "Cloud"}},
		{"gov", "Analyst", "Active secret clearance required", []string{"Gov/Defense"}},
		{"all four", "Full-Stack", "sql, docker, federal", []string{"Full-Stack", "Backend", "Cloud", "Gov/Defense"}},
		{"general", "Barista", "Make coffee", []string{"General"}},
		{"empty", "", "", []string{"General"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tagger.Tags(domain.JobRecord{Title: tc.title, Description: tc.desc})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRuleTagger_DuplicateTagsCollapse(t *testing.T) {
	tagger := NewRuleTagger([]config.Rule{
		{Tag: "Data", Any: []string{"spark"}},
		{Tag: "Data", Any: []string{"pandas"}},
		{Tag: "Ignored", Any: []string{"  "}},
	})
	got := tagger.Tags(domain.JobRecord{Description: "Spark and Pandas"})
	assert.Equal(t, []string{"Data"}, got)
}
