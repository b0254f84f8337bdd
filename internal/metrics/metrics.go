// Package metrics holds the Prometheus collectors of the service
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vendorhr"

// MetricsCollection groups the service collectors
type MetricsCollection struct {
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	JobRuns          *prometheus.CounterVec
	ImportRows       *prometheus.CounterVec
	GuardDecisions   *prometheus.CounterVec
	ContractsBuckets *prometheus.GaugeVec
	RemindersSent    prometheus.Counter
}

// Metrics is the process-wide collection
var Metrics = MetricsCollection{
	HTTPRequests: promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Handled HTTP requests by route and status.",
		},
		[]string{"method", "route", "status"},
	),
	HTTPDuration: promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	),
	JobRuns: promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_runs_total",
			Help:      "Background job runs by job name and result.",
		},
		[]string{"job", "result"},
	),
	ImportRows: promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_rows_total",
			Help:      "Bulk import rows by tenant and outcome.",
		},
		[]string{"tenant", "outcome"},
	),
	GuardDecisions: promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guard_decisions_total",
			Help:      "Page guard outcomes by state and whether remote verification ran.",
		},
		[]string{"state", "verified"},
	),
	ContractsBuckets: promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "contracts_by_bucket",
			Help:      "Active employees per contract urgency bucket, refreshed by the reminder job.",
		},
		[]string{"tenant", "bucket"},
	),
	RemindersSent: promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminder_emails_sent_total",
			Help:      "Reminder digest emails accepted by the mail provider.",
		},
	),
}

// Result label values
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)
