package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"speech-dataset-builder/internal/asr"
	"speech-dataset-builder/internal/config"
	"speech-dataset-builder/internal/dataset"
	"speech-dataset-builder/internal/events"
	"speech-dataset-builder/internal/models"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Validation.SimilarityThreshold = 0.8
	cfg.Validation.Workers = 2
	cfg.Paths.DownloadsRoot = t.TempDir()
	cfg.Paths.OutputDir = t.TempDir()
	return cfg
}

func seedDir(t *testing.T, cfg *config.Config, name string, a, b map[string]models.TranscriptionRecord) string {
	t.Helper()
	dir := filepath.Join(cfg.Paths.DownloadsRoot, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	rfA := asr.NewResultFile("engine-a")
	rfA.Transcriptions = a
	if err := asr.WriteResultFile(filepath.Join(dir, cfg.Validation.EngineAFile), rfA); err != nil {
		t.Fatal(err)
	}
	rfB := asr.NewResultFile("engine-b")
	rfB.Transcriptions = b
	if err := asr.WriteResultFile(filepath.Join(dir, cfg.Validation.EngineBFile), rfB); err != nil {
		t.Fatal(err)
	}

	for id := range a {
		if err := os.WriteFile(filepath.Join(dir, id+cfg.Validation.AudioExt), []byte("RIFF"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestRun(t *testing.T) {
	cfg := testConfig(t)
	seedDir(t, cfg, "video1",
		map[string]models.TranscriptionRecord{
			"video1_1": {Text: "ola mundo"},
			"video1_2": {Text: "bom dia"},
		},
		map[string]models.TranscriptionRecord{
			"video1_1": {Text: "olá mundo!"},
			"video1_2": {Text: "boa tarde"},
		})
	seedDir(t, cfg, "video2",
		map[string]models.TranscriptionRecord{
			"video2_1": {Text: "teste de som"},
		},
		map[string]models.TranscriptionRecord{
			"video2_1": {Text: "teste de som"},
			"video2_2": {Text: "sem par"},
		})

	w := New(cfg, events.New(nil))
	report, err := w.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.RunID == "" {
		t.Error("report must carry a run id")
	}
	if report.Processed != 2 || len(report.FailedDirs) != 0 {
		t.Fatalf("processed = %d, failed = %v", report.Processed, report.FailedDirs)
	}
	want := models.VerdictCounts{Total: 4, Approved: 2, Rejected: 1, Invalid: 1}
	if report.Counts != want {
		t.Errorf("counts = %+v, want %+v", report.Counts, want)
	}
	if report.DatasetRows != 2 {
		t.Errorf("dataset rows = %d, want 2", report.DatasetRows)
	}

	rows, err := dataset.LoadTable(report.DatasetPath)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if _, ok := rows["video1_1.wav"]; !ok {
		t.Errorf("dataset missing video1_1.wav, got %v", rows)
	}
	if _, ok := rows["video2_1.wav"]; !ok {
		t.Errorf("dataset missing video2_1.wav, got %v", rows)
	}

	for _, name := range []string{"video1_1.wav", "video2_1.wav"} {
		if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, AudioStoreDirName, name)); err != nil {
			t.Errorf("approved audio %s not in store: %v", name, err)
		}
	}
}

func TestRun_FailedDirectoryIsRecordedNotFatal(t *testing.T) {
	cfg := testConfig(t)
	seedDir(t, cfg, "good",
		map[string]models.TranscriptionRecord{"good_1": {Text: "ola mundo"}},
		map[string]models.TranscriptionRecord{"good_1": {Text: "ola mundo"}})

	// Both result files present, one of them unreadable as JSON.
	bad := seedDir(t, cfg, "bad",
		map[string]models.TranscriptionRecord{"bad_1": {Text: "x"}},
		map[string]models.TranscriptionRecord{"bad_1": {Text: "x"}})
	if err := os.WriteFile(filepath.Join(bad, cfg.Validation.EngineBFile), []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := New(cfg, events.New(nil))
	report, err := w.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.Processed != 1 {
		t.Errorf("processed = %d, want 1", report.Processed)
	}
	if len(report.FailedDirs) != 1 || report.FailedDirs[0].Dir != bad {
		t.Fatalf("failed dirs = %v, want only %s", report.FailedDirs, bad)
	}
	if report.DatasetRows != 1 {
		t.Errorf("dataset rows = %d, want 1", report.DatasetRows)
	}
}

func TestRun_SkipsDirectoriesWithoutBothResultFiles(t *testing.T) {
	cfg := testConfig(t)
	seedDir(t, cfg, "complete",
		map[string]models.TranscriptionRecord{"complete_1": {Text: "ola"}},
		map[string]models.TranscriptionRecord{"complete_1": {Text: "ola"}})

	// Only engine A present; discovery must not pick this directory up.
	partial := filepath.Join(cfg.Paths.DownloadsRoot, "partial")
	if err := os.MkdirAll(partial, 0o755); err != nil {
		t.Fatal(err)
	}
	rf := asr.NewResultFile("engine-a")
	rf.Transcriptions = map[string]models.TranscriptionRecord{"partial_1": {Text: "x"}}
	if err := asr.WriteResultFile(filepath.Join(partial, cfg.Validation.EngineAFile), rf); err != nil {
		t.Fatal(err)
	}

	w := New(cfg, events.New(nil))
	report, err := w.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Processed != 1 || len(report.FailedDirs) != 0 {
		t.Errorf("processed = %d, failed = %v", report.Processed, report.FailedDirs)
	}
}

func TestRun_RepeatRunIsStable(t *testing.T) {
	cfg := testConfig(t)
	seedDir(t, cfg, "video1",
		map[string]models.TranscriptionRecord{"video1_1": {Text: "ola mundo"}},
		map[string]models.TranscriptionRecord{"video1_1": {Text: "ola mundo"}})

	w := New(cfg, events.New(nil))
	first, err := w.Run(context.Background())
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	firstData, err := os.ReadFile(first.DatasetPath)
	if err != nil {
		t.Fatal(err)
	}

	second, err := w.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if second.DatasetRows != first.DatasetRows {
		t.Errorf("dataset rows changed across runs: %d then %d", first.DatasetRows, second.DatasetRows)
	}
	secondData, err := os.ReadFile(second.DatasetPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(firstData) != string(secondData) {
		t.Errorf("repeat run changed the dataset:\nfirst:\n%s\nsecond:\n%s", firstData, secondData)
	}
}

func TestRun_InvalidThreshold(t *testing.T) {
	cfg := testConfig(t)
	cfg.Validation.SimilarityThreshold = 1.5

	w := New(cfg, events.New(nil))
	if _, err := w.Run(context.Background()); err == nil {
		t.Error("expected an error for an out-of-range threshold")
	}
}
