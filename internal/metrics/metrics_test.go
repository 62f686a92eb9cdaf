package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Patch("/api/timer-sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPatch, "/api/timer-sessions/"+id, nil))
	}

	got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues(http.MethodPatch, "/api/timer-sessions/{id}", "404"))
	if got != 3 {
		t.Fatalf("expected 3 requests on the route pattern, got %v", got)
	}
	if n := testutil.CollectAndCount(m.HTTPDuration); n != 1 {
		t.Fatalf("expected one latency series, got %d", n)
	}
}

func TestCounters(t *testing.T) {
	m := New()
	m.RecordCreated("work_log")
	m.RecordCreated("work_log")
	m.RecordExport("github", OutcomeUpstream)

	if got := testutil.ToFloat64(m.RecordsCreated.WithLabelValues("work_log")); got != 2 {
		t.Fatalf("expected 2 work logs, got %v", got)
	}
	if got := testutil.ToFloat64(m.Exports.WithLabelValues("github", OutcomeUpstream)); got != 1 {
		t.Fatalf("expected 1 upstream failure, got %v", got)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.RateLimited.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "pichacka_rate_limited_requests_total 1") {
		t.Fatalf("rate limit counter missing from output")
	}
}
