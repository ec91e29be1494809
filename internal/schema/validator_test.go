package schema

import (
	"errors"
	"testing"

	"speech-dataset-builder/internal/asr"
	"speech-dataset-builder/internal/models"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		rf      *asr.ResultFile
		wantErr bool
	}{
		{
			"valid text record",
			&asr.ResultFile{Transcriptions: map[string]models.TranscriptionRecord{
				"vid1_0": {Text: "ola mundo"},
			}},
			false,
		},
		{
			"valid error record",
			&asr.ResultFile{Transcriptions: map[string]models.TranscriptionRecord{
				"vid1_0": {Error: "oom"},
			}},
			false,
		},
		{
			"empty transcript is legal",
			&asr.ResultFile{Transcriptions: map[string]models.TranscriptionRecord{
				"vid1_0": {},
			}},
			false,
		},
		{
			"empty map is legal",
			&asr.ResultFile{Transcriptions: map[string]models.TranscriptionRecord{}},
			false,
		},
		{"nil file", nil, true},
		{"nil map", &asr.ResultFile{}, true},
		{
			"empty segment id",
			&asr.ResultFile{Transcriptions: map[string]models.TranscriptionRecord{
				"": {Text: "x"},
			}},
			true,
		},
		{
			"text and error together",
			&asr.ResultFile{Transcriptions: map[string]models.TranscriptionRecord{
				"vid1_0": {Text: "x", Error: "y"},
			}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.rf)
			if tt.wantErr && !errors.Is(err, ErrInvalidShape) {
				t.Errorf("expected ErrInvalidShape, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
