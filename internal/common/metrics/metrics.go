// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
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

	LinksAdmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transaction_links_admitted_total",
			Help: "Links admitted to the output, per source tier",
		},
		[]string{"tier"},
	)

	LinksDuplicated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "transaction_links_duplicate_total",
			Help: "Links dropped because their normalized url was already admitted",
		},
	)

	AnchorFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "transaction_link_anchor_fallbacks_total",
			Help: "Anchors rendered through the escaped fallback",
		},
	)

	ClassificationOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transaction_match_classifications_total",
			Help: "Classification outcomes per partner type (none when unmatched)",
		},
		[]string{"partner_type"},
	)

	NotificationEmits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_emits_total",
			Help: "Fragments emitted to notification sinks",
		},
		[]string{"sink", "status"},
	)
)

// RecordEmit counts one sink emit as ok or error.
func RecordEmit(sink string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	NotificationEmits.WithLabelValues(sink, status).Inc()
}
