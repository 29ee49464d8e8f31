// Package metrics holds the Prometheus collectors exported at /metrics.
// Adapters record into them; the core services stay metric-free.
package metrics

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
)

var durationBuckets = []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 2000, 5000}

var (
	LookupRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "atlas_lookup_requests_total",
		Help: "Total place lookup requests sent upstream",
	})
	LookupFailTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "atlas_lookup_fail_total",
		Help: "Total place lookup requests that failed after retries",
	})
	LookupDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "atlas_lookup_duration_ms",
		Help:    "Place lookup duration in milliseconds, including throttling",
		Buckets: durationBuckets,
	})
	CacheHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "atlas_lookup_cache_hits_total",
		Help: "Place lookup cache hits by backend",
	}, []string{"backend"})
	CacheMissesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "atlas_lookup_cache_misses_total",
		Help: "Place lookup cache misses by backend",
	}, []string{"backend"})
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "atlas_http_requests_total",
		Help: "HTTP API requests by route and status code",
	}, []string{"route", "code"})
	HTTPDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "atlas_http_request_duration_ms",
		Help:    "HTTP API request duration in milliseconds",
		Buckets: durationBuckets,
	}, []string{"route"})
	IngestRowsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "atlas_ingest_rows_total",
		Help: "Ingested rows by category and outcome (added, skipped, rejected)",
	}, []string{"category", "outcome"})
	SitesLoaded = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "atlas_sites_loaded",
		Help: "Site records currently loaded per category",
	}, []string{"category"})
	LocateTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "atlas_locate_total",
		Help: "Locate attempts by outcome",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(LookupRequestsTotal)
	prometheus.MustRegister(LookupFailTotal)
	prometheus.MustRegister(LookupDurationMs)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPDurationMs)
	prometheus.MustRegister(IngestRowsTotal)
	prometheus.MustRegister(SitesLoaded)
	prometheus.MustRegister(LocateTotal)
}

// ObserveIngest records one category's ingest report.
func ObserveIngest(report domain.IngestReport) {
	cat := report.Category.String()
	if report.Rejected != nil {
		IngestRowsTotal.WithLabelValues(cat, "rejected").Add(float64(report.Rows))
		return
	}
	IngestRowsTotal.WithLabelValues(cat, "added").Add(float64(report.Added))
	IngestRowsTotal.WithLabelValues(cat, "skipped").Add(float64(len(report.Skipped)))
	SitesLoaded.WithLabelValues(cat).Add(float64(report.Added))
}

// ObserveLocate records a locate outcome: "ok" or the failure kind.
func ObserveLocate(err error) {
	if err == nil {
		LocateTotal.WithLabelValues("ok").Inc()
		return
	}
	var le *domain.LocateError
	if errors.As(err, &le) {
		LocateTotal.WithLabelValues(string(le.Kind)).Inc()
		return
	}
	LocateTotal.WithLabelValues(string(domain.LocateUnsupported)).Inc()
}

// ObserveHTTP records one API request.
func ObserveHTTP(route string, code int, durationMs float64) {
	HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
	HTTPDurationMs.WithLabelValues(route).Observe(durationMs)
}

// Handler serves the registered collectors.
func Handler() http.Handler { return promhttp.Handler() }
