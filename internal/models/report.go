package models

import "time"

// DirectoryFailure records a segment directory that could not be validated.
type DirectoryFailure struct {
	Dir    string `json:"dir"`
	Reason string `json:"reason"`
}

// BatchReport summarizes one full pipeline run. It is always produced for
// whatever work completed, including runs aborted by a consolidation failure.
type BatchReport struct {
	RunID        string             `json:"run_id"`
	Root         string             `json:"root"`
	Processed    int                `json:"directories_processed"`
	FailedDirs   []DirectoryFailure `json:"directories_failed,omitempty"`
	Counts       VerdictCounts      `json:"counts"`
	CopyFailures int                `json:"copy_failures"`
	DatasetPath  string             `json:"dataset_path"`
	DatasetRows  int                `json:"dataset_rows"`
	StartedAt    time.Time          `json:"started_at"`
	Duration     time.Duration      `json:"duration"`
}
