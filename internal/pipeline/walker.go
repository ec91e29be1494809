// Package pipeline orchestrates batch validation across segment directories.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"speech-dataset-builder/internal/config"
	"speech-dataset-builder/internal/dataset"
	"speech-dataset-builder/internal/events"
	"speech-dataset-builder/internal/models"
	"speech-dataset-builder/internal/observability/logging"
	"speech-dataset-builder/internal/observability/metrics"
	"speech-dataset-builder/internal/validation"
)

// AudioStoreDirName is the approved-audio directory under the output dir.
const AudioStoreDirName = "segments"

// Walker discovers validatable segment directories under the downloads root,
// runs the aggregation and decision stages per directory, and feeds all
// approved rows of the run into a single consolidation.
type Walker struct {
	cfg        *config.Config
	aggregator *validation.Aggregator
	publisher  *events.Publisher
	metrics    *metrics.Metrics
}

// New creates a batch walker. The publisher may be in disabled mode but must
// not be nil.
func New(cfg *config.Config, publisher *events.Publisher) *Walker {
	return &Walker{
		cfg:        cfg,
		aggregator: validation.NewAggregator(cfg.Validation.EngineAFile, cfg.Validation.EngineBFile),
		publisher:  publisher,
		metrics:    metrics.DefaultMetrics,
	}
}

type dirOutcome struct {
	dir    string
	result *validation.Result
	err    error
}

// Run executes one full batch: per-directory validation (directories that
// fail are recorded and skipped, never fatal), then exactly one consolidator
// call for the whole run. A consolidation error aborts the run; the report
// still describes the work completed up to that point.
func (w *Walker) Run(ctx context.Context) (*models.BatchReport, error) {
	started := time.Now().UTC()
	runID := uuid.NewString()
	logger := logging.WithRun(runID)

	report := &models.BatchReport{
		RunID:     runID,
		Root:      w.cfg.Paths.DownloadsRoot,
		StartedAt: started,
	}

	decider, err := validation.NewDecider(validation.DeciderConfig{
		Threshold:   w.cfg.Validation.SimilarityThreshold,
		AudioExt:    w.cfg.Validation.AudioExt,
		StrictCopy:  w.cfg.Validation.StrictAudioCopy,
		EngineAFile: w.cfg.Validation.EngineAFile,
		EngineBFile: w.cfg.Validation.EngineBFile,
		RunID:       runID,
	})
	if err != nil {
		return report, err
	}

	dirs, err := w.discover()
	if err != nil {
		return report, err
	}

	destDir := filepath.Join(w.cfg.Paths.OutputDir, AudioStoreDirName)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return report, fmt.Errorf("create audio store %s: %w", destDir, err)
	}

	logger.Info().
		Int("directories", len(dirs)).
		Float64("threshold", w.cfg.Validation.SimilarityThreshold).
		Int("workers", w.cfg.Validation.Workers).
		Str("root", w.cfg.Paths.DownloadsRoot).
		Msg("Starting batch validation")

	// Each directory only writes its own audit artifacts plus audio files
	// named by unique segment ids, so directories can be validated in
	// parallel. Outcomes are re-assembled in directory order to keep the
	// run deterministic.
	outcomes := make([]dirOutcome, len(dirs))
	g := new(errgroup.Group)
	g.SetLimit(w.cfg.Validation.Workers)
	for i, dir := range dirs {
		g.Go(func() error {
			outcomes[i] = w.processDir(runID, dir, destDir, decider)
			return nil
		})
	}
	g.Wait() // per-directory failures land in outcomes, never here

	var rows []models.DatasetRow
	for _, oc := range outcomes {
		if oc.err != nil {
			report.FailedDirs = append(report.FailedDirs, models.DirectoryFailure{
				Dir:    oc.dir,
				Reason: oc.err.Error(),
			})
			w.metrics.RecordDirectoryFailed(failureReason(oc.err))
			continue
		}
		report.Processed++
		w.metrics.RecordDirectory()
		report.Counts.Merge(oc.result.Counts)
		report.CopyFailures += oc.result.CopyFailures
		rows = append(rows, oc.result.Approved...)
		w.publishVerdicts(ctx, runID, oc)
	}

	consolidator := dataset.NewConsolidator(filepath.Join(w.cfg.Paths.OutputDir, dataset.FileName))
	report.DatasetPath = consolidator.Path()

	consolidateStart := time.Now()
	stats, err := consolidator.Consolidate(rows)
	report.Duration = time.Since(started)
	if err != nil {
		return report, err
	}
	report.DatasetRows = stats.Total
	w.metrics.RecordConsolidation(stats.Total, time.Since(consolidateStart).Seconds())

	w.publisher.PublishSummary(ctx, runID, models.SummaryEvent{
		EventType: "batch.summary",
		Timestamp: time.Now().UnixMilli(),
		Report:    *report,
	})

	logger.Info().
		Int("processed", report.Processed).
		Int("failed", len(report.FailedDirs)).
		Int("pairs", report.Counts.Total).
		Int("approved", report.Counts.Approved).
		Int("rejected", report.Counts.Rejected).
		Int("invalid", report.Counts.Invalid).
		Int("datasetRows", report.DatasetRows).
		Dur("duration", report.Duration).
		Msg("Batch validation finished")
	return report, nil
}

// discover returns, in sorted order, every directory under the downloads
// root that contains both engine result files.
func (w *Walker) discover() ([]string, error) {
	var dirs []string
	root := w.cfg.Paths.DownloadsRoot
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if fileExists(filepath.Join(path, w.cfg.Validation.EngineAFile)) &&
			fileExists(filepath.Join(path, w.cfg.Validation.EngineBFile)) {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(dirs)
	return dirs, nil
}

func (w *Walker) processDir(runID, dir, destDir string, decider *validation.Decider) dirOutcome {
	logger := logging.WithDirectory(runID, dir)

	pairs, err := w.aggregator.Aggregate(dir)
	if err != nil {
		logger.Warn().Err(err).Msg("Skipping directory")
		return dirOutcome{dir: dir, err: err}
	}
	return dirOutcome{dir: dir, result: decider.Decide(pairs, dir, destDir)}
}

func (w *Walker) publishVerdicts(ctx context.Context, runID string, oc dirOutcome) {
	for _, outcome := range oc.result.Outcomes {
		w.publisher.PublishVerdict(ctx, outcome.SegmentID, models.VerdictEvent{
			EventType:  "segment.verdict",
			RunID:      runID,
			Directory:  oc.dir,
			SegmentID:  outcome.SegmentID,
			Verdict:    outcome.Verdict.String(),
			Similarity: outcome.Similarity,
			Timestamp:  time.Now().UnixMilli(),
		})
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, validation.ErrMissingInput):
		return "missing_input"
	case errors.Is(err, validation.ErrMalformedInput):
		return "malformed_input"
	default:
		return "other"
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
