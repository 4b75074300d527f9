package skills

import "strings"

// DefaultTechKeywords is the curated vocabulary matched literally.
var DefaultTechKeywords = []string{
	"c#", ".net", "asp.net", "mvc", "rest", "graphql", "api", "sql", "javascript",
	"typescript", "react", "angular", "docker", "azure", "aws", "ci/cd", "jenkins",
	"linux", "git", "microservices", "kubernetes", "jira", "python", "java", "flask",
	"spring boot", "pandas", "numpy", "matplotlib", "tensorflow", "pytorch",
	"hadoop", "spark",
}

// DefaultStopwords are lowercase phrases never reported as skills.
var DefaultStopwords = []string{
	"experience", "requirement", "requirements", "develop", "support", "benefits",
	"preferred", "skills", "role", "strong", "excellent", "preferred qualifications",
	"proven", "ability", "computer science", "have", "this", "bachelor", "the",
	"must", "what", "why", "because", "knowledge", "need", "work", "like", "learn",
	"plus", "value", "equal opportunity employer", "commitment", "creatively", "use",
	"participate", "washington", "our", "inc", "location", "plan", "research",
	"looking", "we", "you", "your", "join", "about", "responsibilities",
	"qualifications", "required", "job", "description", "team", "with", "and",
	"for", "are", "will",
}

// Vocabulary holds the static term lists. Build it once and share it; it is
// never mutated after construction.
type Vocabulary struct {
	TechKeywords []string
	Stopwords    map[string]struct{}
}

// NewVocabulary lowercases, trims and dedups both lists. Keyword order is kept.
func NewVocabulary(keywords, stopwords []string) Vocabulary {
	v := Vocabulary{Stopwords: make(map[string]struct{}, len(stopwords))}

	seen := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		k = normalize(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		v.TechKeywords = append(v.TechKeywords, k)
	}
	for _, s := range stopwords {
		if s = normalize(s); s != "" {
			v.Stopwords[s] = struct{}{}
		}
	}
	return v
}

// DefaultVocabulary returns the built-in lists.
func DefaultVocabulary() Vocabulary {
	return NewVocabulary(DefaultTechKeywords, DefaultStopwords)
}

// IsStopword reports whether the normalized phrase is filtered.
func (v Vocabulary) IsStopword(phrase string) bool {
	_, ok := v.Stopwords[normalize(phrase)]
	return ok
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
