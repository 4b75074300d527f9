package analyze

import (
	"skilltrend-engine/internal/domain"
	"skilltrend-engine/internal/report"
	"skilltrend-engine/internal/store"
)

// TagCounts counts jobs per tag, in first-seen order.
func (r Result) TagCounts() []domain.SkillCount {
	idx := map[string]int{}
	var out []domain.SkillCount
	for _, j := range r.Jobs {
		for _, t := range j.Tags {
			if i, ok := idx[t]; ok {
				out[i].Count++
				continue
			}
			idx[t] = len(out)
			out = append(out, domain.SkillCount{Skill: t, Count: 1})
		}
	}
	return out
}

// Response builds the API body with the top n skills (n <= 0 for all).
func (r Result) Response(n int) report.SkillsResponse {
	return report.NewSkillsResponse(r.Role, r.Provider, len(r.Jobs), r.Table.Top(n), r.TagCounts(), r.At)
}

func (r Result) Snapshot() domain.Snapshot {
	return domain.Snapshot{
		Role:      r.Role,
		Provider:  r.Provider,
		TotalJobs: len(r.Jobs),
		Skills:    r.Table.Ranked(),
		At:        r.At,
	}
}

func (r Result) JobRows() []store.JobRow {
	out := make([]store.JobRow, 0, len(r.Jobs))
	for _, j := range r.Jobs {
		out = append(out, store.JobRow{
			Title:    j.Job.DisplayTitle(),
			Company:  j.Job.Company,
			Location: j.Job.Location,
			Skills:   j.Skills.Sorted(),
			Tags:     j.Tags,
		})
	}
	return out
}

func (r Result) CSVRows() []report.Row {
	out := make([]report.Row, 0, len(r.Jobs))
	for _, j := range r.Jobs {
		out = append(out, report.Row{
			Title:  j.Job.DisplayTitle(),
			Skills: j.Skills.Items(),
			Tags:   j.Tags,
		})
	}
	return out
}

// Chart plots the top n skills (n <= 0 for all).
func (r Result) Chart(n int) report.Chart {
	top := r.Table.Top(n)
	return report.Chart{Title: report.ChartTitle(len(top), r.Role), Counts: top}
}

// CSVRows flattens every role's jobs into one export.
func (m ManyResult) CSVRows() []report.Row {
	var out []report.Row
	for _, r := range m.Results {
		out = append(out, r.CSVRows()...)
	}
	return out
}
