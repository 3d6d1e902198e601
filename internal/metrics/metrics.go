package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tessched_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tessched_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	sectorCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tessched_pointing_sectors",
			Help: "Number of sectors in the loaded pointing table.",
		},
	)

	targetCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tessched_catalog_targets",
			Help: "Number of loaded target records.",
		},
	)

	tableAgeSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tessched_pointing_table_age_seconds",
			Help: "Seconds since the pointing table was last loaded.",
		},
	)

	sweepDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tessched_sweep_duration_seconds",
			Help:    "Duration of candidate-grid sweeps in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		},
	)

	sweepRowsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tessched_sweep_rows_total",
			Help: "Total candidate rows evaluated across all sweeps.",
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
	prometheus.MustRegister(sectorCount)
	prometheus.MustRegister(targetCount)
	prometheus.MustRegister(tableAgeSeconds)
	prometheus.MustRegister(sweepDurationSeconds)
	prometheus.MustRegister(sweepRowsTotal)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// SetSectorCount records the size of the loaded pointing table.
func SetSectorCount(n int) {
	sectorCount.Set(float64(n))
}

// SetTargetCount records the number of loaded targets.
func SetTargetCount(n int) {
	targetCount.Set(float64(n))
}

// SetTableAge records the age of the loaded pointing table.
func SetTableAge(seconds float64) {
	tableAgeSeconds.Set(seconds)
}

// RecordSweep records a completed sweep.
func RecordSweep(duration time.Duration, rows int) {
	sweepDurationSeconds.Observe(duration.Seconds())
	sweepRowsTotal.Add(float64(rows))
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.URL.Path, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(r.URL.Path, r.Method).Observe(duration)
	})
}
