package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tariffmanager_requests_total",
			Help: "Total number of HTTP requests per route and status code",
		},
		[]string{"route", "code"},
	)

	RequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tariffmanager_request_duration_seconds",
			Help:    "HTTP request duration in seconds per route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	ComparisonsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tariffmanager_comparisons_total",
			Help: "Total number of comparisons per utility type and outcome",
		},
		[]string{"type", "outcome"},
	)

	SkippedTariffsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tariffmanager_skipped_tariffs_total",
			Help: "Tariffs skipped during comparisons because they could not be evaluated",
		},
		[]string{"type"},
	)

	CatalogSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tariffmanager_catalog_tariffs",
			Help: "Number of tariffs in the catalog per utility type",
		},
		[]string{"type"},
	)
)

// ObserveComparison counts one comparison and the tariffs it skipped.
func ObserveComparison(typ, outcome string, skipped int) {
	ComparisonsTotal.WithLabelValues(typ, outcome).Inc()
	if skipped > 0 {
		SkippedTariffsTotal.WithLabelValues(typ).Add(float64(skipped))
	}
}

// SetCatalogSize publishes the number of tariffs per utility type.
func SetCatalogSize(counts map[string]int) {
	for typ, n := range counts {
		CatalogSize.WithLabelValues(typ).Set(float64(n))
	}
}

var (
	ScheduledJobLastRun = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tariffmanager_job_last_run_timestamp",
			Help: "Unix timestamp of the last completed run for a job",
		},
		[]string{"job"},
	)

	ScheduledJobLastDurationSeconds = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tariffmanager_job_last_duration_seconds",
			Help: "Duration of the last completed run for a job",
		},
		[]string{"job"},
	)

	ScheduledJobFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tariffmanager_job_failures_total",
			Help: "Total number of failed executions per job",
		},
		[]string{"job"},
	)
)

func UpdateJobMetrics(job string, startedAt time.Time, err error) {
	dur := time.Since(startedAt).Seconds()
	ScheduledJobLastDurationSeconds.WithLabelValues(job).Set(dur)
	ScheduledJobLastRun.WithLabelValues(job).Set(float64(time.Now().Unix()))
	if err != nil {
		ScheduledJobFailuresTotal.WithLabelValues(job).Inc()
	}
}
