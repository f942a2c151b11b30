// Package metrics holds the Prometheus collectors for the question pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Question modes
const (
	ModeSingle    = "single"
	ModeMultiPart = "multi_part"
)

// Sub-question outcomes
const (
	OutcomeAnswered = "answered"
	OutcomeFailed   = "failed"
)

var (
	// QuestionsTotal counts top-level questions by answer mode
	QuestionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "floatchart_pipeline_questions_total",
		Help: "Total questions answered by mode",
	}, []string{"mode"})

	// SubQuestionsTotal counts sub-question runs by outcome
	SubQuestionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "floatchart_pipeline_subquestions_total",
		Help: "Total sub-questions by outcome",
	}, []string{"outcome"})

	// DegradedTotal counts stages that fell back to deterministic output
	DegradedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "floatchart_pipeline_degraded_total",
		Help: "Total degraded stage outcomes by stage",
	}, []string{"stage"})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "floatchart_pipeline_stage_duration_seconds",
		Help:    "Pipeline stage duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
	}, []string{"stage"})
)

// ObserveStage records the time elapsed since start for stage.
func ObserveStage(stage string, start time.Time) {
	StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
