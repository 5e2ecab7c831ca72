package observability

import (
	"net/http"
	"time"

	"github.com/j-evans1/CPR/internal/platform/resilience"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "cpr"

// SheetMetrics records sheet fetches, cache lookups and breaker state. It
// satisfies the observer interfaces of the sheets and cache repositories.
type SheetMetrics struct {
	registry      *prometheus.Registry
	fetchDuration *prometheus.HistogramVec
	fetchErrors   *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
	breakerState  *prometheus.GaugeVec
}

func NewSheetMetrics() *SheetMetrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &SheetMetrics{
		registry: registry,
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "sheet",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of sheet export fetches.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
		}, []string{"source", "outcome"}),
		fetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "sheet",
			Name:      "fetch_errors_total",
			Help:      "Failed sheet export fetches.",
		}, []string{"source"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "sheet",
			Name:      "cache_lookups_total",
			Help:      "Sheet cache lookups by result.",
		}, []string{"source", "result"}),
		breakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "sheet",
			Name:      "breaker_state",
			Help:      "1 for the current state of the sheet fetch circuit breaker.",
		}, []string{"state"}),
	}
	registry.MustRegister(m.fetchDuration, m.fetchErrors, m.cacheLookups, m.breakerState)
	m.setBreakerState(resilience.CircuitStateClosed)

	return m
}

func (m *SheetMetrics) ObserveFetch(source string, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		m.fetchErrors.WithLabelValues(source).Inc()
	}
	m.fetchDuration.WithLabelValues(source, outcome).Observe(d.Seconds())
}

func (m *SheetMetrics) ObserveCache(source string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(source, result).Inc()
}

// ObserveBreaker matches resilience.CircuitBreakerConfig.OnStateChange.
func (m *SheetMetrics) ObserveBreaker(_, to resilience.CircuitState) {
	m.setBreakerState(to)
}

func (m *SheetMetrics) setBreakerState(current resilience.CircuitState) {
	for _, state := range resilience.AllCircuitStates() {
		value := 0.0
		if state == current {
			value = 1
		}
		m.breakerState.WithLabelValues(string(state)).Set(value)
	}
}

// Handler serves the Prometheus exposition of this registry.
func (m *SheetMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
