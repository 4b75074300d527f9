package skills

import (
	"sort"

	"skilltrend-engine/internal/domain"
)

// Table counts, per skill, how many jobs mentioned it. A skill repeated inside
// one description still counts once, because each job contributes a SkillSet.
type Table struct {
	counts map[string]int
	order  []string // first-seen order, used to break ties
	jobs   int
}

func NewTable() *Table {
	return &Table{counts: make(map[string]int)}
}

// Aggregate folds sets into a new Table. When maxResults > 0 only the first
// maxResults sets are counted.
func Aggregate(sets []SkillSet, maxResults int) *Table {
	if maxResults > 0 && len(sets) > maxResults {
		sets = sets[:maxResults]
	}
	t := NewTable()
	for _, s := range sets {
		t.Add(s)
	}
	return t
}

// Add folds one job's skills into the table.
func (t *Table) Add(set SkillSet) {
	t.jobs++
	for _, skill := range set.order {
		t.bump(skill, 1)
	}
}

// Merge adds other's counts into t. Skills new to t are appended in other's
// first-seen order, so merging independently built tables is a plain counter sum.
func (t *Table) Merge(other *Table) {
	if other == nil {
		return
	}
	t.jobs += other.jobs
	for _, skill := range other.order {
		t.bump(skill, other.counts[skill])
	}
}

func (t *Table) bump(skill string, n int) {
	if t.counts == nil {
		t.counts = make(map[string]int)
	}
	if _, ok := t.counts[skill]; !ok {
		t.order = append(t.order, skill)
	}
	t.counts[skill] += n
}

// Count returns the number of jobs that mentioned skill.
func (t *Table) Count(skill string) int { return t.counts[normalize(skill)] }

// Jobs returns the number of sets folded in.
func (t *Table) Jobs() int { return t.jobs }

// Len returns the number of distinct skills.
func (t *Table) Len() int { return len(t.order) }

// Ranked returns every skill sorted by descending count. Equal counts keep
// first-seen order.
func (t *Table) Ranked() []domain.SkillCount {
	out := make([]domain.SkillCount, 0, len(t.order))
	for _, s := range t.order {
		out = append(out, domain.SkillCount{Skill: s, Count: t.counts[s]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Top returns the first n ranked rows; n <= 0 means all of them.
func (t *Table) Top(n int) []domain.SkillCount {
	ranked := t.Ranked()
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
