package dataset

import (
	"fmt"
	"os"
	"sort"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"

	"speech-dataset-builder/internal/models"
	"speech-dataset-builder/internal/observability/logging"
)

// Consolidator merges each run's approved rows into the persistent final
// dataset. The read-merge-write cycle runs under a sidecar file lock so
// concurrent pipeline invocations cannot interleave and lose rows.
type Consolidator struct {
	path string
	lock *flock.Flock
	log  zerolog.Logger
}

// MergeStats describes the outcome of one consolidation.
type MergeStats struct {
	Existing int // rows loaded from the persisted dataset
	Added    int // new filenames inserted
	Updated  int // existing filenames overwritten (last write wins)
	Total    int // rows persisted after the merge
}

// NewConsolidator creates a consolidator for the dataset file at path.
func NewConsolidator(path string) *Consolidator {
	return &Consolidator{
		path: path,
		lock: flock.New(path + ".lock"),
		log:  logging.WithComponent("consolidator"),
	}
}

// Path returns the location of the persisted dataset file.
func (c *Consolidator) Path() string {
	return c.path
}

// Consolidate upserts the new rows into the persisted dataset by filename:
// an existing filename is replaced entirely, untouched rows are preserved,
// and the merged result is always re-persisted in full, even when rows is
// empty. The file is written to a temp path and atomically renamed so a
// failed write never truncates the previous dataset. Any failure here wraps
// ErrPersistence and must abort the batch.
func (c *Consolidator) Consolidate(rows []models.DatasetRow) (MergeStats, error) {
	if err := c.lock.Lock(); err != nil {
		return MergeStats{}, fmt.Errorf("%w: lock %s: %v", ErrPersistence, c.lock.Path(), err)
	}
	defer c.lock.Unlock()

	existing, err := LoadTable(c.path)
	if err != nil {
		return MergeStats{}, fmt.Errorf("%w: load %s: %v", ErrPersistence, c.path, err)
	}

	stats := MergeStats{Existing: len(existing)}
	merged := make(map[string]models.DatasetRow, len(existing)+len(rows))
	for filename, row := range existing {
		merged[filename] = row
	}
	for _, row := range rows {
		if _, ok := merged[row.Filename]; ok {
			stats.Updated++
			c.log.Debug().Str("filename", row.Filename).Msg("Updating existing dataset row")
		} else {
			stats.Added++
		}
		merged[row.Filename] = row
	}

	out := make([]models.DatasetRow, 0, len(merged))
	for _, row := range merged {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Filename < out[j].Filename })
	stats.Total = len(out)

	tmp := c.path + ".tmp"
	if err := WriteTable(tmp, out); err != nil {
		os.Remove(tmp)
		return MergeStats{}, fmt.Errorf("%w: write %s: %v", ErrPersistence, tmp, err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		os.Remove(tmp)
		return MergeStats{}, fmt.Errorf("%w: replace %s: %v", ErrPersistence, c.path, err)
	}

	c.log.Info().
		Int("existing", stats.Existing).
		Int("added", stats.Added).
		Int("updated", stats.Updated).
		Int("total", stats.Total).
		Str("path", c.path).
		Msg("Final dataset consolidated")
	return stats, nil
}
