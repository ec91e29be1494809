// Package asr defines the surface of the speech-to-text engines whose
// outputs the validator cross-checks, and the on-disk result-file format
// those engines produce.
package asr

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"speech-dataset-builder/internal/models"
	"speech-dataset-builder/internal/segment"
)

// Engine is one automatic speech recognition system. Real implementations
// live upstream of this pipeline; the validation core only consumes the
// result files an engine run leaves behind.
type Engine interface {
	// Name identifies the engine in result-file metadata.
	Name() string

	// Transcribe returns the transcript for one segment audio file.
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Metadata describes the engine run that produced a result file.
type Metadata struct {
	Model          string `json:"model"`
	ProcessingDate string `json:"processing_date"`
}

// ResultFile is the serialized output of one engine run over a segment
// directory: one TranscriptionRecord per segment id, plus run metadata.
type ResultFile struct {
	Metadata       Metadata                              `json:"metadata"`
	Transcriptions map[string]models.TranscriptionRecord `json:"transcriptions"`
}

// NewResultFile creates an empty result file stamped with the model name
// and the current time.
func NewResultFile(model string) *ResultFile {
	return &ResultFile{
		Metadata: Metadata{
			Model:          model,
			ProcessingDate: time.Now().UTC().Format(time.RFC3339),
		},
		Transcriptions: make(map[string]models.TranscriptionRecord),
	}
}

// ReadResultFile decodes an engine result file from disk.
func ReadResultFile(path string) (*ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rf ResultFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &rf, nil
}

// WriteResultFile serializes a result file to disk.
func WriteResultFile(path string, rf *ResultFile) error {
	data, err := json.MarshalIndent(rf, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Collect runs an engine over every segment audio file in dir and assembles
// a result file. Per-segment transcription errors are recorded in the
// corresponding record instead of aborting the run.
func Collect(ctx context.Context, e Engine, dir, audioExt string) (*ResultFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	rf := NewResultFile(e.Name())
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), audioExt) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		segmentID := strings.TrimSuffix(name, audioExt)
		if _, err := segment.Parse(segmentID); err != nil {
			continue
		}
		text, err := e.Transcribe(ctx, filepath.Join(dir, name))
		if err != nil {
			rf.Transcriptions[segmentID] = models.TranscriptionRecord{Error: err.Error()}
			continue
		}
		rf.Transcriptions[segmentID] = models.TranscriptionRecord{Text: text}
	}
	return rf, nil
}
