package skills

import (
	"strings"

	"skilltrend-engine/internal/domain"
)

// Extractor combines keyword and phrase matching into one SkillSet per job.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	keywords *KeywordMatcher
	phrases  *PhraseExtractor
}

func NewExtractor(vocab Vocabulary) *Extractor {
	return &Extractor{
		keywords: NewKeywordMatcher(vocab.TechKeywords),
		phrases:  NewPhraseExtractor(vocab),
	}
}

// Extract returns the skills mentioned in the job description. A missing
// description yields an empty set.
func (e *Extractor) Extract(job domain.JobRecord) SkillSet {
	return e.ExtractText(job.Description)
}

// ExtractText runs both matchers over a raw description.
func (e *Extractor) ExtractText(description string) SkillSet {
	var set SkillSet
	text := CleanDescription(description)
	if text == "" {
		return set
	}

	for _, k := range e.keywords.Match(strings.ToLower(text)) {
		set.Add(k)
	}
	for _, p := range e.phrases.Extract(text) {
		set.Add(p)
	}
	return set
}
