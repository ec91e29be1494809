package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"speech-dataset-builder/internal/models"
)

func TestTable_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	rows := []models.DatasetRow{
		{Filename: "vid_1.wav", TextA: "Olá, Mundo!", TextB: "ola mundo", Similarity: 1},
		{Filename: "vid_2.wav", TextA: "texto, com vírgula", TextB: "texto \"citado\"", Similarity: 1.0 - 3.0/7.0},
	}

	if err := WriteTable(path, rows); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	loaded, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}

	if len(loaded) != len(rows) {
		t.Fatalf("loaded %d rows, want %d", len(loaded), len(rows))
	}
	for _, want := range rows {
		got, ok := loaded[want.Filename]
		if !ok {
			t.Fatalf("row %s missing after round trip", want.Filename)
		}
		if got != want {
			t.Errorf("row %s = %+v, want %+v", want.Filename, got, want)
		}
	}
}

func TestWriteTable_EmptyKeepsHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := WriteTable(path, nil); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(string(data)); got != "filename,text_a,text_b,similarity" {
		t.Errorf("empty table content = %q", got)
	}
}

func TestLoadTable_Missing(t *testing.T) {
	rows, err := LoadTable(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("a missing dataset must load as empty, got %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected empty map, got %d rows", len(rows))
	}
}

func TestLoadTable_Corrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"wrong header", "a,b\nx,y\n"},
		{"bad similarity", "filename,text_a,text_b,similarity\nvid_1.wav,a,b,not-a-number\n"},
		{"ragged rows", "filename,text_a,text_b,similarity\nvid_1.wav,a\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadTable(path); err == nil {
				t.Error("expected an error for a corrupt table")
			}
		})
	}
}
