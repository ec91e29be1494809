// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "speech_dataset_builder"

// Metrics holds all Prometheus metrics for the pipeline.
type Metrics struct {
	// Directory metrics
	DirectoriesProcessed prometheus.Counter
	DirectoriesFailed    *prometheus.CounterVec

	// Verdict metrics
	PairsTotal       *prometheus.CounterVec
	SimilarityScores prometheus.Histogram

	// Audio store metrics
	AudioCopied  prometheus.Counter
	CopyFailures prometheus.Counter

	// Consolidation metrics
	ConsolidateDuration prometheus.Histogram
	DatasetRows         prometheus.Gauge

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		DirectoriesProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "directories_processed_total",
			Help:      "Total number of segment directories validated",
		}),
		DirectoriesFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "directories_failed_total",
			Help:      "Total number of segment directories skipped",
		}, []string{"reason"}),

		PairsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pairs_total",
			Help:      "Total number of transcript pairs classified",
		}, []string{"verdict"}),
		SimilarityScores: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "similarity_score",
			Help:      "Similarity scores of comparable transcript pairs",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 0.95, 1},
		}),

		AudioCopied: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_copied_total",
			Help:      "Total number of approved audio files copied to the store",
		}),
		CopyFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_copy_failures_total",
			Help:      "Total number of approved audio files that could not be copied",
		}),

		ConsolidateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "consolidate_duration_seconds",
			Help:      "Duration of final dataset consolidation in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}),
		DatasetRows: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Row count of the persisted final dataset after the last run",
		}),

		KafkaPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),
	}
}

// RecordDirectory records one segment directory completing validation.
func (m *Metrics) RecordDirectory() {
	m.DirectoriesProcessed.Inc()
}

// RecordDirectoryFailed records a directory skipped for the given reason.
func (m *Metrics) RecordDirectoryFailed(reason string) {
	m.DirectoriesFailed.WithLabelValues(reason).Inc()
}

// RecordVerdict records one classified pair.
func (m *Metrics) RecordVerdict(verdict string) {
	m.PairsTotal.WithLabelValues(verdict).Inc()
}

// RecordSimilarity records the score of a comparable pair.
func (m *Metrics) RecordSimilarity(score float64) {
	m.SimilarityScores.Observe(score)
}

// RecordAudioCopy records an audio copy attempt.
func (m *Metrics) RecordAudioCopy(err error) {
	if err != nil {
		m.CopyFailures.Inc()
		return
	}
	m.AudioCopied.Inc()
}

// RecordConsolidation records a completed dataset merge.
func (m *Metrics) RecordConsolidation(rows int, durationSeconds float64) {
	m.ConsolidateDuration.Observe(durationSeconds)
	m.DatasetRows.Set(float64(rows))
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}
