package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/gutensearch/gutensearch/pkg/metrics"
)

var testMetrics = metrics.New()

func TestRouteLabel(t *testing.T) {
	cases := map[string]string{
		"/search":       "/search",
		"/healthz":      "/healthz",
		"/readyz":       "/readyz",
		"/search/extra": "other",
		"/favicon.ico":  "other",
		"/":             "other",
	}
	for path, want := range cases {
		if got := routeLabel(path); got != want {
			t.Errorf("routeLabel(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestMetricsMiddlewareRecordsStatus(t *testing.T) {
	wrapped := Metrics(testMetrics)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d, want 418 to pass through untouched", rec.Code)
	}
	counter := testMetrics.HTTPRequestsTotal.WithLabelValues("GET", "/search", "418")
	if got := testutil.ToFloat64(counter); got != 1 {
		t.Errorf("requests_total{GET,/search,418} = %v, want 1", got)
	}
}

func TestMetricsMiddlewareCollapsesUnknownPaths(t *testing.T) {
	wrapped := Metrics(testMetrics)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/no/such/route", nil))

	// Implicit write counts as 200.
	counter := testMetrics.HTTPRequestsTotal.WithLabelValues("GET", "other", "200")
	if got := testutil.ToFloat64(counter); got != 1 {
		t.Errorf("requests_total{GET,other,200} = %v, want 1", got)
	}
}
