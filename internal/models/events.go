package models

// VerdictEvent is published for every segment pair a run classifies.
type VerdictEvent struct {
	EventType  string  `json:"eventType"`
	RunID      string  `json:"runId"`
	Directory  string  `json:"directory"`
	SegmentID  string  `json:"segmentId"`
	Verdict    string  `json:"verdict"`
	Similarity float64 `json:"similarity"`
	Timestamp  int64   `json:"timestamp"`
}

// SummaryEvent is published once per run after consolidation.
type SummaryEvent struct {
	EventType string      `json:"eventType"`
	Timestamp int64       `json:"timestamp"`
	Report    BatchReport `json:"report"`
}
