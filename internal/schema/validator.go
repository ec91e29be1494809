// Package schema validates the structure of decoded engine result files.
package schema

import (
	"errors"
	"fmt"

	"speech-dataset-builder/internal/asr"
)

// ErrInvalidShape indicates a result file that parsed as JSON but does not
// match the expected record shape.
var ErrInvalidShape = errors.New("result file has invalid shape")

// Validate checks that a decoded result file matches the shape the pair
// aggregator expects: a transcriptions map keyed by segment id, each record
// carrying a transcript or an error but never both. An empty transcript is
// legal; the decision engine routes it to the invalid verdict.
func Validate(rf *asr.ResultFile) error {
	if rf == nil || rf.Transcriptions == nil {
		return fmt.Errorf("%w: missing transcriptions map", ErrInvalidShape)
	}
	for id, rec := range rf.Transcriptions {
		if id == "" {
			return fmt.Errorf("%w: empty segment id", ErrInvalidShape)
		}
		if rec.Text != "" && rec.Error != "" {
			return fmt.Errorf("%w: segment %s carries both text and error", ErrInvalidShape, id)
		}
	}
	return nil
}
