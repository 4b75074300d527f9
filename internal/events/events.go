package events

import (
	"encoding/json"
	"time"
)

const (
	TypePing              = "ping"
	TypeAnalysisCompleted = "analysis_completed"
	TypeAnalysisFailed    = "analysis_failed"
	TypeSnapshotDeleted   = "snapshot_deleted"
	TypeConfigUpdated     = "config_updated"
)

type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// AnalysisCompleted is the payload of an analysis_completed event.
type AnalysisCompleted struct {
	Role       string `json:"role"`
	Provider   string `json:"provider"`
	TotalJobs  int    `json:"total_jobs"`
	SnapshotID int64  `json:"snapshot_id,omitempty"`
	TopSkill   string `json:"top_skill,omitempty"`
}

func MakeEvent(reqID, typ string, v int, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{
		Type:      typ,
		Version:   v,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}
