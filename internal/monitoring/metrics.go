// Package monitoring provides metrics and tracing for the generation pipeline
package monitoring

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artikelin_jobs_created_total",
			Help: "Total number of generation jobs created",
		},
		[]string{"job_type"},
	)

	jobsFinishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artikelin_jobs_finished_total",
			Help: "Total number of generation jobs that reached a terminal status",
		},
		[]string{"job_type", "status"},
	)

	jobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "artikelin_job_duration_seconds",
			Help:    "Time from processing start to terminal status",
			Buckets: []float64{1, 5, 10, 20, 30, 60, 120, 300},
		},
		[]string{"job_type", "status"},
	)

	jobsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "artikelin_jobs_in_flight",
			Help: "Number of detached job executions currently running",
		},
	)

	providerRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artikelin_provider_requests_total",
			Help: "Total number of generation provider calls",
		},
		[]string{"provider", "result"},
	)

	providerLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "artikelin_provider_latency_seconds",
			Help:    "Latency of generation provider calls",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
		},
		[]string{"provider"},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artikelin_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "artikelin_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordJobCreated counts a new job
func RecordJobCreated(jobType string) {
	jobsCreatedTotal.WithLabelValues(jobType).Inc()
}

// RecordJobFinished counts a terminal transition and its duration
func RecordJobFinished(jobType, status string, duration time.Duration) {
	jobsFinishedTotal.WithLabelValues(jobType, status).Inc()
	if duration > 0 {
		jobDuration.WithLabelValues(jobType, status).Observe(duration.Seconds())
	}
}

// IncJobsInFlight and DecJobsInFlight track running executions
func IncJobsInFlight() { jobsInFlight.Inc() }
func DecJobsInFlight() { jobsInFlight.Dec() }

// RecordProviderCall records one provider call
func RecordProviderCall(provider string, err error, duration time.Duration) {
	result := "success"
	if err != nil {
		result = "error"
	}
	providerRequestsTotal.WithLabelValues(provider, result).Inc()
	providerLatency.WithLabelValues(provider).Observe(duration.Seconds())
}

// HTTPMetrics records request counts and latency per matched route
func HTTPMetrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		httpRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}
