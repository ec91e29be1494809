package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"speech-dataset-builder/internal/app"
	"speech-dataset-builder/internal/config"
	"speech-dataset-builder/internal/models"
	"speech-dataset-builder/internal/observability/logging"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Cross-validate transcriptions and grow the final dataset",
		RunE:  runValidate,
	}

	cmd.Flags().String("root", "", "downloads root to scan for segment directories")
	cmd.Flags().String("output", "", "output directory for the final dataset and audio store")
	cmd.Flags().Float64("threshold", 0, "similarity threshold in [0,1]")
	cmd.Flags().Int("workers", 0, "segment directories validated in parallel")
	cmd.Flags().Bool("strict-audio-copy", false, "drop approved rows whose audio copy failed")
	cmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address during the run")

	return cmd
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("root") {
		cfg.Paths.DownloadsRoot, _ = cmd.Flags().GetString("root")
	}
	if cmd.Flags().Changed("output") {
		cfg.Paths.OutputDir, _ = cmd.Flags().GetString("output")
	}
	if cmd.Flags().Changed("threshold") {
		cfg.Validation.SimilarityThreshold, _ = cmd.Flags().GetFloat64("threshold")
	}
	if cmd.Flags().Changed("workers") {
		cfg.Validation.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if cmd.Flags().Changed("strict-audio-copy") {
		cfg.Validation.StrictAudioCopy, _ = cmd.Flags().GetBool("strict-audio-copy")
	}
	if cmd.Flags().Changed("metrics-addr") {
		cfg.Metrics.Addr, _ = cmd.Flags().GetString("metrics-addr")
		cfg.Metrics.Enabled = cfg.Metrics.Addr != ""
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.Format = cfg.Log.Format
	logCfg.File = cfg.Log.File
	logging.Init(logCfg)

	application := app.New(cfg)
	application.Start()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, runErr := application.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	application.Shutdown(shutdownCtx)

	if report != nil {
		printReport(cmd, report)
	}
	return runErr
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func printReport(cmd *cobra.Command, report *models.BatchReport) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
}
