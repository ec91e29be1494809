// Package dataset persists the accumulated final dataset and the
// per-directory approved tables as CSV files.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"

	"speech-dataset-builder/internal/models"
)

// FileName is the name of the persisted final dataset file.
const FileName = "final_dataset.csv"

// ErrPersistence indicates the final dataset could not be loaded or written.
// This is fatal for a batch run; aborting beats silently losing rows.
var ErrPersistence = errors.New("dataset persistence failed")

var header = []string{"filename", "text_a", "text_b", "similarity"}

// WriteTable writes rows as a CSV table with the canonical header, in the
// given order.
func WriteTable(path string, rows []models.DatasetRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	for _, row := range rows {
		record := []string{
			row.Filename,
			row.TextA,
			row.TextB,
			strconv.FormatFloat(row.Similarity, 'f', -1, 64),
		}
		if err := w.Write(record); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadTable reads a dataset CSV into a map keyed by filename. A missing file
// is not an error; it yields an empty map (first run bootstrapping).
func LoadTable(path string) (map[string]models.DatasetRow, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]models.DatasetRow{}, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return map[string]models.DatasetRow{}, nil
	}
	if len(records[0]) != len(header) {
		return nil, fmt.Errorf("unexpected header in %s: %v", path, records[0])
	}

	rows := make(map[string]models.DatasetRow, len(records)-1)
	for _, record := range records[1:] {
		similarity, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			return nil, fmt.Errorf("bad similarity for %s in %s: %w", record[0], path, err)
		}
		if record[0] == "" {
			continue
		}
		rows[record[0]] = models.DatasetRow{
			Filename:   record[0],
			TextA:      record[1],
			TextB:      record[2],
			Similarity: similarity,
		}
	}
	return rows, nil
}
