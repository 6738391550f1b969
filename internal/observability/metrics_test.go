package observability

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/users/my", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/users/my", "GET", 200, 20*time.Millisecond)
	m.RecordError("/users/my", "GET", "UNAUTHORIZED")
	m.RecordAuthFailure("invalid_token")
	m.RecordAuthFailure("principal_not_found")
	m.RecordAuthFailure("invalid_token")

	if got := testutil.ToFloat64(m.requestCount.WithLabelValues("GET", "/users/my", "200")); got != 2 {
		t.Fatalf("expected 2 requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.errorCount.WithLabelValues("GET", "/users/my", "UNAUTHORIZED")); got != 1 {
		t.Fatalf("expected 1 error, got %v", got)
	}
	if got := testutil.ToFloat64(m.authFailures.WithLabelValues("invalid_token")); got != 2 {
		t.Fatalf("expected 2 invalid_token failures, got %v", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	m.RecordAuthFailure("x")
}

func TestMetricsHandlerExposesRegistry(t *testing.T) {
	m := NewMetrics()
	m.RecordAuthFailure("missing_token")

	app := fiber.New()
	app.Get("/metrics", m.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `auth_failures_total{reason="missing_token"} 1`) {
		t.Fatalf("metrics output missing counter:\n%s", body)
	}
}
