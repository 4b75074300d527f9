// Package report renders aggregated skill counts as an API response, a
// CSV export and a bar chart.
package report

import (
	"bytes"
	"encoding/json"
	"time"

	"skilltrend-engine/internal/domain"
)

// OrderedCounts marshals as a JSON object whose keys keep rank order,
// e.g. {"python":2,"sql":1}.
type OrderedCounts []domain.SkillCount

func (o OrderedCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(c.Skill)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, _ := json.Marshal(c.Count)
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON keeps the key order of the incoming object.
func (o *OrderedCounts) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	if _, err := dec.Token(); err != nil {
		return err
	}
	out := OrderedCounts{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var n int
		if err := dec.Decode(&n); err != nil {
			return err
		}
		out = append(out, domain.SkillCount{Skill: key, Count: n})
	}
	*o = out
	return nil
}

// SkillsResponse is the body of GET /api/skills.
type SkillsResponse struct {
	Role      string        `json:"role"`
	Provider  string        `json:"provider"`
	TotalJobs int           `json:"total_jobs"`
	TopSkills OrderedCounts `json:"top_skills"`
	Tags      OrderedCounts `json:"tags,omitempty"`
	Timestamp string        `json:"timestamp"`
}

func NewSkillsResponse(role, provider string, totalJobs int, top, tags []domain.SkillCount, at time.Time) SkillsResponse {
	if top == nil {
		top = []domain.SkillCount{}
	}
	return SkillsResponse{
		Role:      role,
		Provider:  provider,
		TotalJobs: totalJobs,
		TopSkills: OrderedCounts(top),
		Tags:      OrderedCounts(tags),
		Timestamp: at.Format(time.RFC3339),
	}
}
