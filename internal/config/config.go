// Package config loads pipeline configuration from defaults, an optional
// YAML file, and environment variable overrides, in that order.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"speech-dataset-builder/internal/validation"
)

// ValidationConfig controls the cross-validation decision engine.
type ValidationConfig struct {
	// SimilarityThreshold is the minimum normalized similarity for a pair to
	// be approved, inclusive. Must lie in [0,1].
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	// StrictAudioCopy drops approved rows whose audio copy failed instead of
	// keeping text-only rows.
	StrictAudioCopy bool   `yaml:"strict_audio_copy"`
	AudioExt        string `yaml:"audio_ext"`
	EngineAFile     string `yaml:"engine_a_file"`
	EngineBFile     string `yaml:"engine_b_file"`
	// Workers bounds how many segment directories are validated in parallel.
	Workers int `yaml:"workers"`
}

// PathsConfig locates the pipeline's input and output trees.
type PathsConfig struct {
	DownloadsRoot string `yaml:"downloads_root"`
	OutputDir     string `yaml:"output_dir"`
}

// LogConfig configures zerolog output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
	File   string `yaml:"file"`   // optional rotating log file
}

// KafkaConfig configures the optional event publisher.
type KafkaConfig struct {
	Enabled      bool     `yaml:"enabled"`
	Brokers      []string `yaml:"brokers"`
	TopicVerdict string   `yaml:"topic_verdict"`
	TopicSummary string   `yaml:"topic_summary"`
	Principal    string   `yaml:"principal"`
}

// MetricsConfig configures the optional observability HTTP server.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Config is the full, immutable configuration for one pipeline invocation.
// It is constructed once at startup and passed into each component.
type Config struct {
	Validation ValidationConfig `yaml:"validation"`
	Paths      PathsConfig      `yaml:"paths"`
	Log        LogConfig        `yaml:"log"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Validation: ValidationConfig{
			SimilarityThreshold: 0.9,
			AudioExt:            ".wav",
			EngineAFile:         "transcriptions_a.json",
			EngineBFile:         "transcriptions_b.json",
			Workers:             1,
		},
		Paths: PathsConfig{
			DownloadsRoot: "./downloads",
			OutputDir:     "./output",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Kafka: KafkaConfig{
			TopicVerdict: "dataset.verdicts",
			TopicSummary: "dataset.summaries",
			Principal:    "svc-dataset-builder",
		},
		Metrics: MetricsConfig{
			Addr: ":9090",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// any), then environment variables. The result is not yet validated; call
// Validate before using it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays environment variables onto the configuration.
func (c *Config) applyEnv() {
	c.Validation.SimilarityThreshold = envFloat("SIMILARITY_THRESHOLD", c.Validation.SimilarityThreshold)
	c.Validation.StrictAudioCopy = envBool("STRICT_AUDIO_COPY", c.Validation.StrictAudioCopy)
	c.Validation.AudioExt = envOrDefault("AUDIO_EXT", c.Validation.AudioExt)
	c.Validation.EngineAFile = envOrDefault("ENGINE_A_FILE", c.Validation.EngineAFile)
	c.Validation.EngineBFile = envOrDefault("ENGINE_B_FILE", c.Validation.EngineBFile)
	c.Validation.Workers = envInt("VALIDATION_WORKERS", c.Validation.Workers)

	c.Paths.DownloadsRoot = envOrDefault("DOWNLOADS_ROOT", c.Paths.DownloadsRoot)
	c.Paths.OutputDir = envOrDefault("OUTPUT_DIR", c.Paths.OutputDir)

	c.Log.Level = envOrDefault("LOG_LEVEL", c.Log.Level)
	c.Log.Format = envOrDefault("LOG_FORMAT", c.Log.Format)
	c.Log.File = envOrDefault("LOG_FILE", c.Log.File)

	c.Kafka.Enabled = envBool("KAFKA_ENABLED", c.Kafka.Enabled)
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitAndTrim(v)
	}
	c.Kafka.TopicVerdict = envOrDefault("KAFKA_TOPIC_VERDICT", c.Kafka.TopicVerdict)
	c.Kafka.TopicSummary = envOrDefault("KAFKA_TOPIC_SUMMARY", c.Kafka.TopicSummary)
	c.Kafka.Principal = envOrDefault("KAFKA_PRINCIPAL", c.Kafka.Principal)

	c.Metrics.Enabled = envBool("METRICS_ENABLED", c.Metrics.Enabled)
	c.Metrics.Addr = envOrDefault("METRICS_ADDR", c.Metrics.Addr)
}

// Validate fails fast on configuration the pipeline must not run with.
func (c *Config) Validate() error {
	t := c.Validation.SimilarityThreshold
	if t < 0 || t > 1 {
		return fmt.Errorf("%w: got %v", validation.ErrThresholdOutOfRange, t)
	}
	if c.Validation.Workers < 1 {
		return fmt.Errorf("validation.workers must be >= 1, got %d", c.Validation.Workers)
	}
	if !strings.HasPrefix(c.Validation.AudioExt, ".") {
		return fmt.Errorf("validation.audio_ext must start with a dot, got %q", c.Validation.AudioExt)
	}
	if c.Validation.EngineAFile == "" || c.Validation.EngineBFile == "" {
		return fmt.Errorf("both engine result file names must be set")
	}
	if c.Validation.EngineAFile == c.Validation.EngineBFile {
		return fmt.Errorf("engine result file names must differ, both are %q", c.Validation.EngineAFile)
	}
	if c.Paths.DownloadsRoot == "" {
		return fmt.Errorf("paths.downloads_root must be set")
	}
	if c.Paths.OutputDir == "" {
		return fmt.Errorf("paths.output_dir must be set")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.enabled requires at least one broker")
	}
	return nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
