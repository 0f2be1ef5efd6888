// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alfix_analyses_total",
			Help: "Credit analyses by outcome (success or error code)",
		},
		[]string{"outcome"},
	)

	ScoreCategoryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alfix_score_category_total",
			Help: "Successful analyses by risk category",
		},
		[]string{"category"},
	)

	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "alfix_analysis_duration_seconds",
			Help:    "End-to-end duration of a credit analysis",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	ClassifierLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alfix_classifier_loads_total",
			Help: "Attempts to load the default-probability classifier",
		},
		[]string{"status"},
	)

	PDCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alfix_pd_cache_total",
			Help: "Probability-of-default cache lookups by result",
		},
		[]string{"result"},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)

const OutcomeSuccess = "success"

// RecordAnalysis counts one finished analysis. category is ignored unless the
// outcome is a success.
func RecordAnalysis(outcome, category string, elapsed time.Duration) {
	AnalysesTotal.WithLabelValues(outcome).Inc()
	AnalysisDuration.Observe(elapsed.Seconds())
	if outcome == OutcomeSuccess && category != "" {
		ScoreCategoryTotal.WithLabelValues(category).Inc()
	}
}

// ObserveJob records a finished worker job.
func ObserveJob(taskType, errorCode string, elapsed time.Duration) {
	WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
	if errorCode == "" {
		WorkerJobsCompleted.WithLabelValues(taskType).Inc()
		return
	}
	WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
}
