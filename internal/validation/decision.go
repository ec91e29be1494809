package validation

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"speech-dataset-builder/internal/dataset"
	"speech-dataset-builder/internal/models"
	"speech-dataset-builder/internal/observability/logging"
	"speech-dataset-builder/internal/observability/metrics"
	"speech-dataset-builder/internal/segment"
)

// Per-directory artifact names. Diagnostic only; the authoritative sink is
// the dataset consolidator.
const (
	AuditFileName     = "validation_results.json"
	ApprovedTableName = "approved_dataset.csv"
)

// DeciderConfig configures the validation decision engine.
type DeciderConfig struct {
	Threshold   float64 // minimum similarity for approval, inclusive
	AudioExt    string  // segment audio extension, leading dot
	StrictCopy  bool    // drop approved rows whose audio copy failed
	EngineAFile string
	EngineBFile string
	RunID       string
}

// Outcome is the classification of one segment pair.
type Outcome struct {
	SegmentID  string
	Verdict    models.Verdict
	Similarity float64
	Row        *models.DatasetRow // set only for approved pairs
}

// Result carries everything the decision engine produced for one directory.
type Result struct {
	Dir          string
	Outcomes     []Outcome
	Approved     []models.DatasetRow
	Counts       models.VerdictCounts
	CopyFailures int
}

// Decider classifies normalized pairs against the similarity threshold and
// maintains the approved audio store. The verdict itself is a pure function
// of the two normalized texts and the threshold.
type Decider struct {
	cfg     DeciderConfig
	metrics *metrics.Metrics
}

// NewDecider creates a decision engine. The threshold must lie in [0,1];
// out-of-range values are a configuration error, not something to clamp.
func NewDecider(cfg DeciderConfig) (*Decider, error) {
	if cfg.Threshold < 0 || cfg.Threshold > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrThresholdOutOfRange, cfg.Threshold)
	}
	if cfg.AudioExt == "" {
		cfg.AudioExt = ".wav"
	}
	return &Decider{cfg: cfg, metrics: metrics.DefaultMetrics}, nil
}

// Decide classifies every pair in sorted segment-id order, copies approved
// segment audio from dir into destDir, and writes the per-directory audit
// report and approved table. Audit write failures are logged, never fatal.
func (d *Decider) Decide(pairs map[string]models.NormalizedPair, dir, destDir string) *Result {
	logger := logging.WithDirectory(d.cfg.RunID, dir)

	ids := make([]string, 0, len(pairs))
	for id := range pairs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := &Result{Dir: dir}
	for _, id := range ids {
		pair := pairs[id]
		outcome := Outcome{SegmentID: id}

		if !pair.Comparable() {
			outcome.Verdict = models.VerdictInvalid
		} else {
			outcome.Similarity = Similarity(pair.NormalizedA, pair.NormalizedB)
			d.metrics.RecordSimilarity(outcome.Similarity)
			if outcome.Similarity >= d.cfg.Threshold {
				outcome.Verdict = models.VerdictApproved
			} else {
				outcome.Verdict = models.VerdictRejected
			}
		}

		result.Counts.Observe(outcome.Verdict)
		d.metrics.RecordVerdict(outcome.Verdict.String())

		if outcome.Verdict == models.VerdictApproved {
			row := d.approve(&pair, outcome.Similarity, dir, destDir, result, logger)
			outcome.Row = row
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	d.writeAudit(dir, result, logger)
	if err := dataset.WriteTable(filepath.Join(dir, ApprovedTableName), result.Approved); err != nil {
		logger.Warn().Err(err).Msg("Failed to write approved table")
	}

	logger.Info().
		Int("total", result.Counts.Total).
		Int("approved", result.Counts.Approved).
		Int("rejected", result.Counts.Rejected).
		Int("invalid", result.Counts.Invalid).
		Int("copyFailures", result.CopyFailures).
		Msg("Directory validated")
	return result
}

// approve builds the dataset row for an approved pair and copies its audio
// into the store. In lenient mode a copy failure keeps the row (dataset
// completeness over strict audio/text consistency); strict mode drops it.
func (d *Decider) approve(pair *models.NormalizedPair, similarity float64, dir, destDir string, result *Result, logger zerolog.Logger) *models.DatasetRow {
	filename := segment.AudioFilename(pair.SegmentID, d.cfg.AudioExt)
	row := models.DatasetRow{
		Filename:   filename,
		TextA:      pair.OriginalA,
		TextB:      pair.OriginalB,
		Similarity: similarity,
	}

	err := copyFile(filepath.Join(dir, filename), filepath.Join(destDir, filename))
	d.metrics.RecordAudioCopy(err)
	if err != nil {
		result.CopyFailures++
		logger.Warn().Err(err).Str("segmentId", pair.SegmentID).Msg("Failed to copy approved audio")
		if d.cfg.StrictCopy {
			return nil
		}
	} else if e := logger.Debug(); e.Enabled() {
		if id, perr := segment.Parse(pair.SegmentID); perr == nil {
			e = e.Str("videoId", id.VideoID)
		}
		e.Str("segmentId", pair.SegmentID).Float64("similarity", similarity).Msg("Audio copied to approved store")
	}

	result.Approved = append(result.Approved, row)
	return &row
}

// auditReport mirrors the per-directory validation_results.json layout.
type auditReport struct {
	Metadata struct {
		ProcessingDate      string  `json:"processing_date"`
		RunID               string  `json:"run_id"`
		SimilarityThreshold float64 `json:"similarity_threshold"`
		TotalPairs          int     `json:"total_pairs"`
		ApprovedPairs       int     `json:"approved_pairs"`
		RejectedPairs       int     `json:"rejected_pairs"`
		InvalidPairs        int     `json:"invalid_pairs"`
		ApprovalRate        float64 `json:"approval_rate"`
	} `json:"metadata"`
	Statistics struct {
		SegmentsFolder string `json:"segments_folder"`
		EngineASource  string `json:"engine_a_source"`
		EngineBSource  string `json:"engine_b_source"`
		OutputCSV      string `json:"output_csv"`
		CopyFailures   int    `json:"copy_failures"`
	} `json:"statistics"`
}

func (d *Decider) writeAudit(dir string, result *Result, logger zerolog.Logger) {
	var report auditReport
	report.Metadata.ProcessingDate = time.Now().UTC().Format(time.RFC3339)
	report.Metadata.RunID = d.cfg.RunID
	report.Metadata.SimilarityThreshold = d.cfg.Threshold
	report.Metadata.TotalPairs = result.Counts.Total
	report.Metadata.ApprovedPairs = result.Counts.Approved
	report.Metadata.RejectedPairs = result.Counts.Rejected
	report.Metadata.InvalidPairs = result.Counts.Invalid
	report.Metadata.ApprovalRate = result.Counts.ApprovalRate()
	report.Statistics.SegmentsFolder = filepath.Base(dir)
	report.Statistics.EngineASource = d.cfg.EngineAFile
	report.Statistics.EngineBSource = d.cfg.EngineBFile
	report.Statistics.OutputCSV = ApprovedTableName
	report.Statistics.CopyFailures = result.CopyFailures

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to encode audit report")
		return
	}
	if err := os.WriteFile(filepath.Join(dir, AuditFileName), data, 0o644); err != nil {
		logger.Warn().Err(err).Msg("Failed to write audit report")
	}
}

// copyFile copies src to dst without removing the source.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
