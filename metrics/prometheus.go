package metrics

import (
	"net/http"
	"sync"

	"cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Alloyed pool metrics collector

var (
	// Singleton collector
	collector     *Collector
	collectorOnce sync.Once
)

// Collector holds all alloyed pool metrics
type Collector struct {
	// Pool operation metrics
	JoinsTotal prometheus.Counter
	ExitsTotal prometheus.Counter
	SwapsTotal prometheus.Counter

	// Limiter metrics
	LimiterRejections *prometheus.CounterVec

	// Composition metrics
	ScopeWeight *prometheus.GaugeVec
}

// GetCollector returns the singleton metrics collector
func GetCollector() *Collector {
	collectorOnce.Do(func() {
		collector = newCollector()
	})
	return collector
}

// newCollector creates a new metrics collector
func newCollector() *Collector {
	c := &Collector{}

	c.JoinsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "alloyed",
			Subsystem: "pool",
			Name:      "joins_total",
			Help:      "Total number of pool joins",
		},
	)

	c.ExitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "alloyed",
			Subsystem: "pool",
			Name:      "exits_total",
			Help:      "Total number of pool exits",
		},
	)

	c.SwapsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "alloyed",
			Subsystem: "pool",
			Name:      "swaps_total",
			Help:      "Total number of swaps executed",
		},
	)

	c.LimiterRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "alloyed",
			Subsystem: "limiter",
			Name:      "rejections_total",
			Help:      "Total operations rejected by a weight limiter",
		},
		[]string{"scope", "label"},
	)

	c.ScopeWeight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "alloyed",
			Subsystem: "pool",
			Name:      "scope_weight",
			Help:      "Normalized value weight per scope",
		},
		[]string{"scope"},
	)

	c.registerAll()

	return c
}

// registerAll registers all metrics with Prometheus
func (c *Collector) registerAll() {
	prometheus.MustRegister(c.JoinsTotal)
	prometheus.MustRegister(c.ExitsTotal)
	prometheus.MustRegister(c.SwapsTotal)
	prometheus.MustRegister(c.LimiterRejections)
	prometheus.MustRegister(c.ScopeWeight)
}

// ============ Recording Helpers ============

// RecordJoin records a pool join
func RecordJoin() {
	GetCollector().JoinsTotal.Inc()
}

// RecordExit records a pool exit
func RecordExit() {
	GetCollector().ExitsTotal.Inc()
}

// RecordSwap records an executed swap
func RecordSwap() {
	GetCollector().SwapsTotal.Inc()
}

// RecordLimiterRejection records an operation rejected by a limiter
func RecordLimiterRejection(scope, label string) {
	GetCollector().LimiterRejections.WithLabelValues(scope, label).Inc()
}

// SetScopeWeights publishes the current weight per scope
func SetScopeWeights(weights map[string]math.LegacyDec) {
	c := GetCollector()
	for scope, weight := range weights {
		f, err := weight.Float64()
		if err != nil {
			continue
		}
		c.ScopeWeight.WithLabelValues(scope).Set(f)
	}
}

// ============ HTTP Handler ============

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
