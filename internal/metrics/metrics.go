// Package metrics holds the Prometheus collectors of the reduction pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var msBuckets = []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000}

var (
	ReductionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "georeduce_reductions_total",
		Help: "Total reduction calls by strategy",
	}, []string{"strategy"})
	ReductionErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "georeduce_reduction_errors_total",
		Help: "Total reduction calls rejected for malformed geometry",
	})
	PointsInTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "georeduce_points_in_total",
		Help: "Ring points fed into the reducer",
	})
	PointsOutTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "georeduce_points_out_total",
		Help: "Ring points left after reduction",
	})
	ReduceDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "georeduce_reduce_duration_ms",
		Help:    "Reduction duration in milliseconds",
		Buckets: msBuckets,
	})
	FetchDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "georeduce_fetch_duration_ms",
		Help:    "Document fetch duration in milliseconds",
		Buckets: msBuckets,
	})
	FetchErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "georeduce_fetch_errors_total",
		Help: "Total failed document fetches",
	})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "georeduce_cache_hits_total",
		Help: "Total document cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "georeduce_cache_misses_total",
		Help: "Total document cache misses",
	})
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "georeduce_http_requests_total",
		Help: "Total HTTP requests by status code",
	}, []string{"code"})
)

func init() {
	prometheus.MustRegister(ReductionsTotal)
	prometheus.MustRegister(ReductionErrorsTotal)
	prometheus.MustRegister(PointsInTotal)
	prometheus.MustRegister(PointsOutTotal)
	prometheus.MustRegister(ReduceDurationMs)
	prometheus.MustRegister(FetchDurationMs)
	prometheus.MustRegister(FetchErrorsTotal)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(HTTPRequestsTotal)
}

// Handler serves every registered collector for scraping on /metrics.
func Handler() http.Handler { return promhttp.Handler() }
