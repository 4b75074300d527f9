package skills

import (
	"regexp"
	"strings"
)

// KeywordMatcher finds vocabulary terms that appear as whole words. Terms are
// quoted before compiling, so "c#", ".net" or "ci/cd" match literally.
type KeywordMatcher struct {
	keywords []string
	patterns []*regexp.Regexp
}

// nonWord is any rune other than a Unicode letter, digit or underscore.
const nonWord = `[^\p{L}\p{N}_]`

// NewKeywordMatcher compiles one pattern per keyword. A term counts as a whole
// word when it is not glued to a letter, digit or underscore on either side.
func NewKeywordMatcher(keywords []string) *KeywordMatcher {
	m := &KeywordMatcher{}
	for _, k := range keywords {
		k = normalize(k)
		if k == "" {
			continue
		}
		m.keywords = append(m.keywords, k)
		m.patterns = append(m.patterns, regexp.MustCompile(`(?:^|`+nonWord+`)`+regexp.QuoteMeta(k)+`(?:`+nonWord+`|$)`))
	}
	return m
}

// Match returns the keywords present in text, in vocabulary order.
func (m *KeywordMatcher) Match(text string) []string {
	if m == nil || strings.TrimSpace(text) == "" {
		return nil
	}
	text = strings.ToLower(text)

	var out []string
	for i, re := range m.patterns {
		if !strings.Contains(text, m.keywords[i]) {
			continue
		}
		if re.MatchString(text) {
			out = append(out, m.keywords[i])
		}
	}
	return out
}
