package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the recommend HTTP handler
	RecommendLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "drink_recommend_latency_seconds",
		Help:    "Latency of the drink recommendation handler",
		Buckets: prometheus.DefBuckets,
	})

	RecommendRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "drink_recommend_requests_total",
		Help: "Total number of drink recommend requests",
	})

	// Results by terminal state, ranked or fallback
	RecommendStrategy = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "drink_recommend_strategy_total",
		Help: "Recommendations served by strategy",
	}, []string{"strategy"})

	RecommendMatchedRules = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "drink_recommend_matched_rules",
		Help:    "Number of rules matched per recommendation",
		Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
	})

	CatalogCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "drink_catalog_cache_lookups_total",
		Help: "Catalog snapshot cache lookups by result",
	}, []string{"result"})

	// 0 closed, 1 half-open, 2 open
	CircuitBreakerState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "drink_circuit_breaker_state",
		Help: "Circuit breaker state by breaker name",
	}, []string{"name"})
)

func Init() {
	prometheus.MustRegister(
		RecommendLatency,
		RecommendRequests,
		RecommendStrategy,
		RecommendMatchedRules,
		CatalogCacheLookups,
		CircuitBreakerState,
	)
}
