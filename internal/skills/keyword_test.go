package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordMatcher_Match(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
		text     string
		want     []string
	}{
		{name: "standalone word", keywords: []string{"python"}, text: "senior python engineer", want: []string{"python"}},
		{name: "substring of longer word", keywords: []string{"java"}, text: "strong javascript skills", want: nil},
		{name: "both java and javascript", keywords: []string{"javascript", "java"}, text: "java and javascript", want: []string{"javascript", "java"}},
		{name: "special characters", keywords: []string{"c#", ".net", "ci/cd"}, text: "c#, .net and ci/cd pipelines", want: []string{"c#", ".net", "ci/cd"}},
		{name: "dotted term inside longer term", keywords: []string{".net", "asp.net"}, text: "asp.net core", want: []string{"asp.net"}},
		{name: "multi word keyword", keywords: []string{"spring boot"}, text: "services in spring boot.", want: []string{"spring boot"}},
		{name: "case insensitive", keywords: []string{"c#"}, text: "C# Developer", want: []string{"c#"}},
		{name: "repeated mentions count once", keywords: []string{"sql"}, text: "sql, sql and more sql", want: []string{"sql"}},
		{name: "metacharacters are literal", keywords: []string{"c++"}, text: "c and cc", want: nil},
		{name: "accented letter glued on", keywords: []string{"python"}, text: "pythoné and épython", want: nil},
		{name: "non latin letters glued on", keywords: []string{"go"}, text: "goязык", want: nil},
		{name: "unicode digit glued on", keywords: []string{"sql"}, text: "sql٣", want: nil},
		{name: "punctuation boundaries", keywords: []string{"python"}, text: "python, rust", want: []string{"python"}},
		{name: "leading space boundary", keywords: []string{"python"}, text: "know python", want: []string{"python"}},
		{name: "non breaking space boundary", keywords: []string{"python"}, text: "python\u00a0developer", want: []string{"python"}},
		{name: "empty description", keywords: []string{"sql"}, text: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewKeywordMatcher(tt.keywords)
			assert.Equal(t, tt.want, m.Match(tt.text))
		})
	}
}

func TestKeywordMatcher_SkipsBlankKeywords(t *testing.T) {
	m := NewKeywordMatcher([]string{"", "  ", "Docker"})
	assert.Equal(t, []string{"docker"}, m.Match("docker compose"))
}
