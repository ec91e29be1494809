package validation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"speech-dataset-builder/internal/asr"
	"speech-dataset-builder/internal/models"
	"speech-dataset-builder/internal/schema"
)

// Aggregator loads the two engines' result files for one segment directory
// and forms normalized pairs over the union of their segment ids. Segments
// present on only one side are not dropped; they enter as pairs with one
// side empty, which the decision engine routes to the invalid verdict.
type Aggregator struct {
	engineAFile string
	engineBFile string
}

// NewAggregator creates an aggregator reading the given result file names
// inside each segment directory.
func NewAggregator(engineAFile, engineBFile string) *Aggregator {
	return &Aggregator{
		engineAFile: engineAFile,
		engineBFile: engineBFile,
	}
}

// Aggregate reads both result files from dir and returns one NormalizedPair
// per segment id in the union. Fails with ErrMissingInput if either file is
// absent and ErrMalformedInput if one cannot be decoded. No side effects.
func (a *Aggregator) Aggregate(dir string) (map[string]models.NormalizedPair, error) {
	fileA, err := a.loadResultFile(filepath.Join(dir, a.engineAFile))
	if err != nil {
		return nil, err
	}
	fileB, err := a.loadResultFile(filepath.Join(dir, a.engineBFile))
	if err != nil {
		return nil, err
	}

	ids := make(map[string]struct{}, len(fileA.Transcriptions))
	for id := range fileA.Transcriptions {
		ids[id] = struct{}{}
	}
	for id := range fileB.Transcriptions {
		ids[id] = struct{}{}
	}

	pairs := make(map[string]models.NormalizedPair, len(ids))
	for id := range ids {
		recA := fileA.Transcriptions[id]
		recB := fileB.Transcriptions[id]

		pair := models.NormalizedPair{
			SegmentID: id,
			OriginalA: recA.Text,
			OriginalB: recB.Text,
		}
		if !recA.Failed() {
			if text, ok := Normalize(recA.Text); ok {
				pair.NormalizedA = text
			}
		}
		if !recB.Failed() {
			if text, ok := Normalize(recB.Text); ok {
				pair.NormalizedB = text
			}
		}
		pairs[id] = pair
	}
	return pairs, nil
}

func (a *Aggregator) loadResultFile(path string) (*asr.ResultFile, error) {
	rf, err := asr.ReadResultFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingInput, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedInput, path, err)
	}
	if err := schema.Validate(rf); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedInput, path, err)
	}
	return rf, nil
}
