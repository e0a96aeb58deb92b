// Package metrics exposes Prometheus counters for the HTTP layer and the
// note operations.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	noteOperations *prometheus.CounterVec
}

// NewCollector creates the collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notesapi_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "notesapi_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		noteOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notesapi_note_operations_total",
			Help: "Note operations by kind and resulting status code.",
		}, []string{"operation", "status"}),
	}

	reg.MustRegister(c.requests, c.requestLatency, c.noteOperations)
	return c
}

func (c *Collector) RecordNoteOperation(op string, status int) {
	c.noteOperations.WithLabelValues(op, strconv.Itoa(status)).Inc()
}

// Middleware counts every request under its route template, so /api/notes/:id
// stays a single series.
func (c *Collector) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)

			status := ctx.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}

			route := ctx.Path()
			if route == "" {
				route = "unmatched"
			}

			method := ctx.Request().Method
			c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			c.requestLatency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}
