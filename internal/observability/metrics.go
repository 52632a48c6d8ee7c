package observability

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	ScoreRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "score_requests_total",
			Help: "Total number of scoring requests by question mode and outcome",
		},
		[]string{"mode", "outcome"},
	)
	ScoreDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "score_duration_seconds",
			Help:    "Scoring engine latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
		[]string{"mode"},
	)

	// Scoring outcome distributions
	OverallScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "score_overall",
			Help:    "Distribution of overall answer scores ([0,100])",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)
	IssuesDetectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "score_issues_total",
			Help: "Total number of detected answer issues by type",
		},
		[]string{"type"},
	)
)

func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(ScoreRequestsTotal)
	prometheus.MustRegister(ScoreDuration)
	prometheus.MustRegister(OverallScoreHistogram)
	prometheus.MustRegister(IssuesDetectedTotal)
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		// Route pattern may be unavailable outside chi router; guard nil
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		method := r.Method
		status := ww.Status()
		HTTPRequestsTotal.WithLabelValues(route, method, http.StatusText(status)).Inc()
		HTTPRequestDuration.WithLabelValues(route, method).Observe(dur)
	})
}

// ObserveScore records the outcome of one scoring call.
func ObserveScore(mode string, overall float64, issueTypes []string, elapsed time.Duration) {
	ScoreRequestsTotal.WithLabelValues(mode, "ok").Inc()
	ScoreDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
	if overall >= 0 && overall <= 100 {
		OverallScoreHistogram.Observe(overall)
	}
	for _, t := range issueTypes {
		IssuesDetectedTotal.WithLabelValues(t).Inc()
	}
}

// FailScore records a scoring call that was rejected or errored.
func FailScore(mode string) {
	ScoreRequestsTotal.WithLabelValues(mode, "error").Inc()
}
