package validation

import "errors"

// Errors for directories that cannot be validated. Both are per-directory
// conditions: the batch walker records them and moves on.
var (
	// ErrMissingInput - a required engine result file is absent. Both engines
	// must have run for a directory to be validatable at all.
	ErrMissingInput = errors.New("required transcription file missing")

	// ErrMalformedInput - a result file exists but cannot be parsed into the
	// expected record shape.
	ErrMalformedInput = errors.New("transcription file malformed")

	// ErrThresholdOutOfRange - the configured similarity threshold is outside
	// [0,1]. Rejected before any directory is processed, never clamped.
	ErrThresholdOutOfRange = errors.New("similarity threshold outside [0.0, 1.0]")
)
