package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recommendation and catalog Prometheus metrics.
var (
	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recodex",
			Name:      "recommendations_total",
			Help:      "Recommendation requests by outcome",
		},
		[]string{"outcome"}, // similar / empty / fallback
	)

	RecommendDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "recodex",
			Name:      "recommend_duration_seconds",
			Help:      "Recommendation computation time in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"outcome"},
	)

	RecommendSuppressedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "recodex",
			Name:      "recommend_suppressed_errors_total",
			Help:      "Internal failures degraded to the fallback path",
		},
	)

	RecommendCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recodex",
			Name:      "recommend_cache_total",
			Help:      "Recommendation cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	CatalogProducts = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "recodex",
			Name:      "catalog_products",
			Help:      "Products in the current snapshot",
		},
		[]string{"catalog"}, // "catalog" / "trending"
	)

	CatalogMalformedRows = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "recodex",
			Name:      "catalog_malformed_rows",
			Help:      "Rows in the current snapshot with uncoercible numeric fields",
		},
		[]string{"catalog"},
	)

	CatalogLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recodex",
			Name:      "catalog_loads_total",
			Help:      "Catalog load attempts",
		},
		[]string{"catalog", "status"}, // "ok" / "absent"
	)
)

var recMetricsRegistered bool

// RegisterRecommendMetrics registers recommendation and catalog metrics. Must be called once from main.
func RegisterRecommendMetrics() {
	if recMetricsRegistered {
		return
	}
	prometheus.MustRegister(RecommendationsTotal)
	prometheus.MustRegister(RecommendDuration)
	prometheus.MustRegister(RecommendSuppressedTotal)
	prometheus.MustRegister(RecommendCacheTotal)
	prometheus.MustRegister(CatalogProducts)
	prometheus.MustRegister(CatalogMalformedRows)
	prometheus.MustRegister(CatalogLoadsTotal)
	recMetricsRegistered = true
}

// RecordCatalogLoad counts one load attempt of a named table.
func RecordCatalogLoad(name string, absent bool) {
	status := "ok"
	if absent {
		status = "absent"
	}
	CatalogLoadsTotal.WithLabelValues(name, status).Inc()
}

// SetCatalogSize describes the snapshot a named table is serving.
func SetCatalogSize(name string, products, malformed int) {
	CatalogProducts.WithLabelValues(name).Set(float64(products))
	CatalogMalformedRows.WithLabelValues(name).Set(float64(malformed))
}
