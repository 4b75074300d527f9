package skills

import "sort"

// SkillSet is a set of skill tokens that remembers insertion order, so folding
// sets into a Table is deterministic. The zero value is ready to use.
type SkillSet struct {
	order []string
	seen  map[string]struct{}
}

// NewSkillSet builds a set from the given tokens.
func NewSkillSet(items ...string) SkillSet {
	var s SkillSet
	for _, it := range items {
		s.Add(it)
	}
	return s
}

// Add normalizes the token and inserts it. It returns false for empty or
// already present tokens.
func (s *SkillSet) Add(skill string) bool {
	skill = normalize(skill)
	if skill == "" {
		return false
	}
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[skill]; ok {
		return false
	}
	s.seen[skill] = struct{}{}
	s.order = append(s.order, skill)
	return true
}

// Union adds every token of other.
func (s *SkillSet) Union(other SkillSet) {
	for _, it := range other.order {
		s.Add(it)
	}
}

func (s SkillSet) Has(skill string) bool {
	_, ok := s.seen[normalize(skill)]
	return ok
}

func (s SkillSet) Len() int { return len(s.order) }

// Items returns the tokens in insertion order.
func (s SkillSet) Items() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Sorted returns the tokens in lexical order.
func (s SkillSet) Sorted() []string {
	out := s.Items()
	sort.Strings(out)
	return out
}
