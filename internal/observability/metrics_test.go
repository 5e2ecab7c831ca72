package observability

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/j-evans1/CPR/internal/platform/resilience"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSheetMetrics_Counts(t *testing.T) {
	t.Parallel()

	m := NewSheetMetrics()
	m.ObserveCache("fines", false)
	m.ObserveCache("fines", true)
	m.ObserveCache("fines", true)
	m.ObserveFetch("fines", 120*time.Millisecond, nil)
	m.ObserveFetch("fines", time.Second, errors.New("timeout"))

	if got := testutil.ToFloat64(m.cacheLookups.WithLabelValues("fines", "hit")); got != 2 {
		t.Fatalf("expected 2 hits, got %v", got)
	}
	if got := testutil.ToFloat64(m.cacheLookups.WithLabelValues("fines", "miss")); got != 1 {
		t.Fatalf("expected 1 miss, got %v", got)
	}
	if got := testutil.ToFloat64(m.fetchErrors.WithLabelValues("fines")); got != 1 {
		t.Fatalf("expected 1 fetch error, got %v", got)
	}
}

func TestSheetMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := NewSheetMetrics()
	m.ObserveCache("bank_statement", true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `cpr_sheet_cache_lookups_total{result="hit",source="bank_statement"} 1`) {
		t.Fatalf("expected cache counter in exposition, got:\n%s", body)
	}
}

func TestSheetMetrics_BreakerState(t *testing.T) {
	t.Parallel()

	m := NewSheetMetrics()
	if got := testutil.ToFloat64(m.breakerState.WithLabelValues("closed")); got != 1 {
		t.Fatalf("expected breaker to start closed, got %v", got)
	}

	m.ObserveBreaker(resilience.CircuitStateClosed, resilience.CircuitStateOpen)
	if got := testutil.ToFloat64(m.breakerState.WithLabelValues("open")); got != 1 {
		t.Fatalf("expected open gauge set, got %v", got)
	}
	if got := testutil.ToFloat64(m.breakerState.WithLabelValues("closed")); got != 0 {
		t.Fatalf("expected closed gauge cleared, got %v", got)
	}
}
