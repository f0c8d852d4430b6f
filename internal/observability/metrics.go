// Package observability holds the Prometheus instruments of the dashboard.
package observability

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fardannozami/activity-dashboard/internal/domain"
)

const (
	OutcomeSuccess     = "success"
	OutcomeSchemaError = "schema_error"
	OutcomeParseError  = "parse_error"
	OutcomeEmpty       = "empty"
	OutcomeInvalid     = "invalid_options"
	OutcomeError       = "error"
)

var (
	reportsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activity_dashboard",
		Subsystem: "reports",
		Name:      "generated_total",
		Help:      "Number of report runs grouped by outcome.",
	}, []string{"outcome"})

	recordsHistogram = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "activity_dashboard",
		Subsystem: "reports",
		Name:      "records_ingested",
		Help:      "Activity records ingested per successful report.",
		Buckets:   prometheus.ExponentialBuckets(10, 4, 8),
	})

	durationHistogram = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "activity_dashboard",
		Subsystem: "reports",
		Name:      "duration_seconds",
		Help:      "Wall time spent ingesting and aggregating one upload.",
		Buckets:   prometheus.DefBuckets,
	})

	lastReportGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "activity_dashboard",
		Subsystem: "reports",
		Name:      "last_generated_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful report.",
	})

	sideEffectErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activity_dashboard",
		Subsystem: "reports",
		Name:      "side_effect_errors_total",
		Help:      "Failures to store or publish an already generated report.",
	}, []string{"stage"})
)

func init() {
	prometheus.MustRegister(reportsCounter, recordsHistogram, durationHistogram, lastReportGauge, sideEffectErrors)
}

// RecordReportGenerated tracks a successful run.
func RecordReportGenerated(records int, elapsed time.Duration, at time.Time) {
	reportsCounter.WithLabelValues(OutcomeSuccess).Inc()
	recordsHistogram.Observe(float64(records))
	durationHistogram.Observe(elapsed.Seconds())
	if !at.IsZero() {
		lastReportGauge.Set(float64(at.Unix()))
	}
}

// RecordReportFailed tracks a failed run under the outcome derived from err.
func RecordReportFailed(err error) {
	reportsCounter.WithLabelValues(Outcome(err)).Inc()
}

func RecordStoreError() {
	sideEffectErrors.WithLabelValues("store").Inc()
}

func RecordPublishError() {
	sideEffectErrors.WithLabelValues("publish").Inc()
}

// Outcome classifies a pipeline error into a metric label.
func Outcome(err error) string {
	var (
		schemaErr *domain.SchemaError
		parseErr  *domain.ParseError
		emptyErr  *domain.EmptyResultError
	)
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.As(err, &schemaErr):
		return OutcomeSchemaError
	case errors.As(err, &parseErr):
		return OutcomeParseError
	case errors.As(err, &emptyErr):
		return OutcomeEmpty
	case errors.Is(err, domain.ErrInvalidTopN):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}
