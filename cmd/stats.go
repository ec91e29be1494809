package main

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/spf13/cobra"

	"speech-dataset-builder/internal/dataset"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the persisted final dataset",
		RunE:  runStats,
	}

	cmd.Flags().String("output", "", "output directory containing the final dataset")

	return cmd
}

func runStats(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("output") {
		cfg.Paths.OutputDir, _ = cmd.Flags().GetString("output")
	}

	path := filepath.Join(cfg.Paths.OutputDir, dataset.FileName)
	rows, err := dataset.LoadTable(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "dataset: %s\n", path)
	fmt.Fprintf(out, "rows:    %d\n", len(rows))
	if len(rows) == 0 {
		return nil
	}

	minSim, maxSim, sum := math.Inf(1), math.Inf(-1), 0.0
	for _, row := range rows {
		minSim = math.Min(minSim, row.Similarity)
		maxSim = math.Max(maxSim, row.Similarity)
		sum += row.Similarity
	}
	fmt.Fprintf(out, "similarity: min=%.4f mean=%.4f max=%.4f\n",
		minSim, sum/float64(len(rows)), maxSim)
	return nil
}
