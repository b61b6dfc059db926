// Package metrics exposes Prometheus collectors for the HTTP API, the
// latest-reading cache and reading ingest.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Ingest sources.
const (
	SourceHTTP = "http"
	SourceMQTT = "mqtt"
)

// Metrics is safe to use as a nil pointer; every recorder is then a no-op.
type Metrics struct {
	reg *prometheus.Registry

	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	readingsIngested  *prometheus.CounterVec
	peakQueries       *prometheus.CounterVec
}

// NewMetrics registers all collectors on reg. A nil reg gets a fresh registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		reg: reg,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "latest_reading_cache_hits_total",
			Help: "Latest-reading lookups served from the cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "latest_reading_cache_misses_total",
			Help: "Latest-reading lookups that fell through to the database.",
		}),
		readingsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "readings_ingested_total",
			Help: "Sensor readings received, by source and outcome.",
		}, []string{"source", "result"}),
		peakQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "peak_power_queries_total",
			Help: "Peak power computations by outcome.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.cacheHits,
		m.cacheMisses,
		m.readingsIngested,
		m.peakQueries,
	)
	return m
}

// Middleware records request count and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

// ReadingIngested counts one received reading; err is the append outcome.
func (m *Metrics) ReadingIngested(source string, err error) {
	if m == nil {
		return
	}
	m.readingsIngested.WithLabelValues(source, result(err)).Inc()
}

func (m *Metrics) PeakQuery(err error) {
	if m == nil {
		return
	}
	m.peakQueries.WithLabelValues(result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
