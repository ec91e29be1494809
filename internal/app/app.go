// Package app wires the pipeline's components together for one invocation.
package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"speech-dataset-builder/internal/config"
	"speech-dataset-builder/internal/events"
	"speech-dataset-builder/internal/models"
	"speech-dataset-builder/internal/observability"
	"speech-dataset-builder/internal/observability/logging"
	"speech-dataset-builder/internal/pipeline"
)

// Application holds process-wide state for a pipeline invocation.
type Application struct {
	StartupTime time.Time
	Logger      zerolog.Logger
	Cfg         *config.Config

	publisher *events.Publisher
	obs       *observability.Server
	walker    *pipeline.Walker
}

// New constructs an Application from validated configuration.
func New(cfg *config.Config) *Application {
	publisher := events.New(&events.Config{
		Enabled:      cfg.Kafka.Enabled,
		Brokers:      cfg.Kafka.Brokers,
		TopicVerdict: cfg.Kafka.TopicVerdict,
		TopicSummary: cfg.Kafka.TopicSummary,
		Principal:    cfg.Kafka.Principal,
	})

	a := &Application{
		Logger:    logging.WithComponent("application"),
		Cfg:       cfg,
		publisher: publisher,
		walker:    pipeline.New(cfg, publisher),
	}
	if cfg.Metrics.Enabled {
		a.obs = observability.NewServer(cfg.Metrics.Addr)
	}
	return a
}

// Start performs startup work before the batch runs.
func (a *Application) Start() {
	a.StartupTime = time.Now().UTC()
	if a.obs != nil {
		a.obs.Start()
	}
	a.Logger.Info().
		Time("startupTime", a.StartupTime).
		Str("root", a.Cfg.Paths.DownloadsRoot).
		Str("output", a.Cfg.Paths.OutputDir).
		Msg("Dataset builder starting")
}

// Run executes the batch validation pipeline.
func (a *Application) Run(ctx context.Context) (*models.BatchReport, error) {
	return a.walker.Run(ctx)
}

// Shutdown performs a best-effort cleanup before process exit.
func (a *Application) Shutdown(ctx context.Context) {
	if a.obs != nil {
		if err := a.obs.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("Observability server shutdown failed")
		}
	}
	if err := a.publisher.Close(); err != nil {
		a.Logger.Error().Err(err).Msg("Publisher close failed")
	}
	a.Logger.Info().Msg("Dataset builder shut down")
}
