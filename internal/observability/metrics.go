// Package observability holds the Prometheus collectors of the API and the
// fiber middleware that feeds them.
package observability

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jjenkins/parlamentar/internal/apperr"
)

var (
	// Labels: method, route, status
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "parlamentar",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by route and status",
	}, []string{"method", "route", "status"})

	// Labels: method, route
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "parlamentar",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"method", "route"})

	// Labels: ranking
	aggregationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "parlamentar",
		Subsystem: "analysis",
		Name:      "aggregation_duration_seconds",
		Help:      "Time spent running one analytical aggregation",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"ranking"})

	// Labels: ranking
	aggregationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "parlamentar",
		Subsystem: "analysis",
		Name:      "aggregation_failures_total",
		Help:      "Analytical aggregations that failed unexpectedly",
	}, []string{"ranking"})

	// Labels: step, outcome (imported, skipped, failed)
	importedRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "parlamentar",
		Subsystem: "import",
		Name:      "records_total",
		Help:      "Records processed by the open-data importer",
	}, []string{"step", "outcome"})
)

// ObserveAggregation records how long one ranking took and whether it failed.
func ObserveAggregation(ranking string, start time.Time, err error) {
	aggregationDuration.WithLabelValues(ranking).Observe(time.Since(start).Seconds())
	if err != nil {
		aggregationFailures.WithLabelValues(ranking).Inc()
	}
}

// Outcomes of one record processed by the importer
const (
	OutcomeImported = "imported"
	OutcomeSkipped  = "skipped"
	OutcomeFailed   = "failed"
)

// RecordImport counts one record of an import step under its outcome.
func RecordImport(step, outcome string) {
	importedRecords.WithLabelValues(step, outcome).Inc()
}

// Middleware counts requests and their latency per matched route.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = apperr.Status(err)
			}
		}

		route := c.Route().Path
		httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
