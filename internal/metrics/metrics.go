// Package metrics exposes Prometheus counters for the viewer's hot
// paths: remote fetches, quote-chain resolution and the media proxy.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all the application metrics.
type Metrics struct {
	HTTPRequestTotal    *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	FetchTotal    *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec

	ResolveNodeTotal *prometheus.CounterVec
	CacheTotal       *prometheus.CounterVec
	MediaProxyTotal  *prometheus.CounterVec
}

var (
	globalMetrics *Metrics
	metricsMutex  sync.Mutex
)

// New returns the process-wide metrics instance, creating and
// registering it on first use.
func New() *Metrics {
	metricsMutex.Lock()
	defer metricsMutex.Unlock()

	if globalMetrics != nil {
		return globalMetrics
	}

	m := &Metrics{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),

		FetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "remote_fetch_total",
			Help: "Total number of remote object and actor fetches",
		}, []string{"kind", "status"}),

		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "remote_fetch_duration_seconds",
			Help:    "Remote fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind", "status"}),

		ResolveNodeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resolve_nodes_total",
			Help: "Total number of resolution nodes by terminal state",
		}, []string{"state"}),

		CacheTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fetch_cache_total",
			Help: "Total number of fetch cache lookups",
		}, []string{"result"}),

		MediaProxyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "media_proxy_total",
			Help: "Total number of media proxy requests",
		}, []string{"status"}),
	}

	prometheus.MustRegister(
		m.HTTPRequestTotal,
		m.HTTPRequestDuration,
		m.FetchTotal,
		m.FetchDuration,
		m.ResolveNodeTotal,
		m.CacheTotal,
		m.MediaProxyTotal,
	)

	globalMetrics = m
	return m
}
