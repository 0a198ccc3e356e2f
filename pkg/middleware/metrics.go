// Package middleware provides the HTTP middleware shared by the searcher
// service: Prometheus request metrics and a request deadline.
package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gutensearch/gutensearch/pkg/metrics"
)

// knownRoutes is the closed set of paths the searcher serves. Everything
// else collapses into a single label value so arbitrary request paths cannot
// blow up metric cardinality.
var knownRoutes = map[string]struct{}{
	"/search":  {},
	"/healthz": {},
	"/readyz":  {},
}

// Metrics records the request counter, latency histogram, and in-flight
// gauge for every request passing through.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.HTTPRequestsInFlight.Inc()
			defer m.HTTPRequestsInFlight.Dec()

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)

			route := routeLabel(r.URL.Path)
			m.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

func routeLabel(path string) string {
	if _, ok := knownRoutes[path]; ok {
		return path
	}
	return "other"
}

// statusRecorder captures the status code for the request counter label.
// Only the first explicit WriteHeader counts; an implicit write stays 200.
type statusRecorder struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (rec *statusRecorder) WriteHeader(code int) {
	if !rec.wrote {
		rec.status = code
		rec.wrote = true
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	rec.wrote = true
	return rec.ResponseWriter.Write(b)
}
