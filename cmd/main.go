package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "dataset-builder",
		Short:   "Build a speech dataset by cross-validating two ASR engines",
		Long: "dataset-builder scans segment directories for the result files of two\n" +
			"independently-run speech-to-text engines, scores how well their transcripts\n" +
			"agree, and accumulates the agreeing segments into a persistent,\n" +
			"deduplicated final dataset of audio clips and transcript pairs.",
		Version: version,
	}

	rootCmd.PersistentFlags().String("config", "", "path to YAML config file")

	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newStatsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
