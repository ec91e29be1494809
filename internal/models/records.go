// Package models defines the data structures exchanged between the
// validation pipeline stages.
package models

// TranscriptionRecord is one ASR engine's attempt at a single segment.
// A well-formed engine run sets exactly one of Text or Error.
type TranscriptionRecord struct {
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// Failed reports whether the engine produced an error instead of a transcript.
func (r TranscriptionRecord) Failed() bool {
	return r.Error != ""
}

// NormalizedPair holds both engines' transcripts for one segment id, in
// original and normalized form. A normalized field is empty when that side
// is missing, errored, or normalizes to nothing usable.
type NormalizedPair struct {
	SegmentID   string
	OriginalA   string
	NormalizedA string
	OriginalB   string
	NormalizedB string
}

// Comparable reports whether both sides carry a usable normalized text.
func (p NormalizedPair) Comparable() bool {
	return p.NormalizedA != "" && p.NormalizedB != ""
}

// DatasetRow is one approved entry of the final dataset. TextA and TextB are
// the engines' original (non-normalized) output; Similarity is the score
// computed on the normalized texts, kept as quality provenance.
type DatasetRow struct {
	Filename   string
	TextA      string
	TextB      string
	Similarity float64
}
