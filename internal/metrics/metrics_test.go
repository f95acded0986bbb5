package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCheckoutMetrics_Observe(t *testing.T) {
	m := NewCheckoutMetrics(prometheus.NewRegistry())
	m.Observe(OutcomePlaced, 12*time.Millisecond)
	m.Observe(OutcomePlaced, 3*time.Millisecond)
	m.Observe(OutcomeInsufficientStock, time.Millisecond)
	m.Retried()

	if got := testutil.ToFloat64(m.Outcomes.WithLabelValues(OutcomePlaced)); got != 2 {
		t.Fatalf("expected 2 placed, got %v", got)
	}
	if got := testutil.ToFloat64(m.Outcomes.WithLabelValues(OutcomeInsufficientStock)); got != 1 {
		t.Fatalf("expected 1 insufficient_stock, got %v", got)
	}
	if got := testutil.ToFloat64(m.Retries); got != 1 {
		t.Fatalf("expected 1 retry, got %v", got)
	}
}

func TestCheckoutMetrics_NilIsNoop(t *testing.T) {
	var m *CheckoutMetrics
	m.Observe(OutcomeFailed, time.Second)
	m.Retried()
}

func TestHTTPMetrics_LabelsByRoutePattern(t *testing.T) {
	m := NewHTTPMetrics(prometheus.NewRegistry())
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/books/:id", func(c *fiber.Ctx) error { return c.SendString("ok") })

	for _, path := range []string{"/books/1", "/books/2"} {
		if _, err := app.Test(httptest.NewRequest("GET", path, nil)); err != nil {
			t.Fatalf("request failed: %v", err)
		}
	}
	if got := testutil.ToFloat64(m.Requests.WithLabelValues("GET", "/books/:id", "200")); got != 2 {
		t.Fatalf("expected 2 requests on /books/:id, got %v", got)
	}
}
