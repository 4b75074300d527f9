package skills

import "regexp"

// capitalizedRun matches one or more capitalized tokens joined by single spaces.
// Tokens may carry digits and + # . (C++, Node.js, S3).
var capitalizedRun = regexp.MustCompile(`\b[A-Z][a-zA-Z0-9+#.]+(?: [A-Z][a-zA-Z0-9+#.]+)*\b`)

const minPhraseLen = 3

// PhraseExtractor picks proper-noun looking phrases out of original-case text.
type PhraseExtractor struct {
	vocab Vocabulary
}

func NewPhraseExtractor(vocab Vocabulary) *PhraseExtractor {
	return &PhraseExtractor{vocab: vocab}
}

// Extract returns lowercase phrases in order of first appearance. Stopwords
// and phrases shorter than three characters are dropped.
func (p *PhraseExtractor) Extract(text string) []string {
	if p == nil || text == "" {
		return nil
	}

	var out []string
	seen := map[string]bool{}
	for _, m := range capitalizedRun.FindAllString(text, -1) {
		phrase := normalize(m)
		if len(phrase) < minPhraseLen || p.vocab.IsStopword(phrase) || seen[phrase] {
			continue
		}
		seen[phrase] = true
		out = append(out, phrase)
	}
	return out
}
