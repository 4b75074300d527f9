package domain

import "time"

// SkillCount is one row of a ranked frequency table.
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// Snapshot is a stored analysis run.
type Snapshot struct {
	ID        int64        `json:"id"`
	Role      string       `json:"role"`
	Provider  string       `json:"provider"`
	TotalJobs int          `json:"total_jobs"`
	Skills    []SkillCount `json:"skills"`
	At        time.Time    `json:"at"`
}
