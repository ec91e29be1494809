package validation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"speech-dataset-builder/internal/asr"
	"speech-dataset-builder/internal/models"
)

const (
	testEngineAFile = "transcriptions_a.json"
	testEngineBFile = "transcriptions_b.json"
)

func writeResults(t *testing.T, dir, name, model string, records map[string]models.TranscriptionRecord) {
	t.Helper()
	rf := asr.NewResultFile(model)
	rf.Transcriptions = records
	if err := asr.WriteResultFile(filepath.Join(dir, name), rf); err != nil {
		t.Fatalf("write result file %s: %v", name, err)
	}
}

func TestAggregate(t *testing.T) {
	dir := t.TempDir()
	writeResults(t, dir, testEngineAFile, "engine-a", map[string]models.TranscriptionRecord{
		"vid_1": {Text: "Olá, Mundo!"},
		"vid_2": {Text: "bom dia"},
		"vid_3": {Text: "só na primeira"},
	})
	writeResults(t, dir, testEngineBFile, "engine-b", map[string]models.TranscriptionRecord{
		"vid_1": {Text: "ola mundo"},
		"vid_2": {Error: "decode timeout"},
		"vid_4": {Text: "só na segunda"},
	})

	agg := NewAggregator(testEngineAFile, testEngineBFile)
	pairs, err := agg.Aggregate(dir)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	if len(pairs) != 4 {
		t.Fatalf("expected 4 pairs over the id union, got %d", len(pairs))
	}

	p1 := pairs["vid_1"]
	if p1.OriginalA != "Olá, Mundo!" || p1.OriginalB != "ola mundo" {
		t.Errorf("vid_1 originals = (%q, %q)", p1.OriginalA, p1.OriginalB)
	}
	if p1.NormalizedA != "ola mundo" || p1.NormalizedB != "ola mundo" {
		t.Errorf("vid_1 normalized = (%q, %q), want both %q", p1.NormalizedA, p1.NormalizedB, "ola mundo")
	}
	if !p1.Comparable() {
		t.Error("vid_1 should be comparable")
	}

	p2 := pairs["vid_2"]
	if p2.NormalizedB != "" {
		t.Errorf("failed record must not normalize, got %q", p2.NormalizedB)
	}
	if p2.Comparable() {
		t.Error("vid_2 has a failed side and must not be comparable")
	}

	if p3 := pairs["vid_3"]; p3.Comparable() {
		t.Error("vid_3 is only present on side A and must not be comparable")
	}
	if p4 := pairs["vid_4"]; p4.Comparable() {
		t.Error("vid_4 is only present on side B and must not be comparable")
	}
}

func TestAggregate_MissingFile(t *testing.T) {
	dir := t.TempDir()
	writeResults(t, dir, testEngineAFile, "engine-a", map[string]models.TranscriptionRecord{
		"vid_1": {Text: "ola"},
	})

	agg := NewAggregator(testEngineAFile, testEngineBFile)
	if _, err := agg.Aggregate(dir); !errors.Is(err, ErrMissingInput) {
		t.Errorf("expected ErrMissingInput, got %v", err)
	}
}

func TestAggregate_MalformedFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "this is not json"},
		{"wrong shape", `{"transcriptions": {"vid_1": {"text": "a", "error": "b"}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeResults(t, dir, testEngineAFile, "engine-a", map[string]models.TranscriptionRecord{
				"vid_1": {Text: "ola"},
			})
			if err := os.WriteFile(filepath.Join(dir, testEngineBFile), []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			agg := NewAggregator(testEngineAFile, testEngineBFile)
			if _, err := agg.Aggregate(dir); !errors.Is(err, ErrMalformedInput) {
				t.Errorf("expected ErrMalformedInput, got %v", err)
			}
		})
	}
}

func TestAggregate_EmptyTranscriptIsNotComparable(t *testing.T) {
	dir := t.TempDir()
	writeResults(t, dir, testEngineAFile, "engine-a", map[string]models.TranscriptionRecord{
		"vid_1": {Text: ""},
	})
	writeResults(t, dir, testEngineBFile, "engine-b", map[string]models.TranscriptionRecord{
		"vid_1": {Text: "teste"},
	})

	agg := NewAggregator(testEngineAFile, testEngineBFile)
	pairs, err := agg.Aggregate(dir)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if pairs["vid_1"].Comparable() {
		t.Error("empty transcript on one side must not be comparable")
	}
}
