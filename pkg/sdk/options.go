package recodex

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	catalogPath  string
	trendingPath string
	products     []Product
	trending     []Product

	defaultTopN  int
	maxTopN      int
	fallbackSize int
	sampler      func(n, k int) []int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithCatalogFile loads the catalog from a .csv or .parquet file.
// A missing file yields an empty catalog, not an error.
func WithCatalogFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalogPath = path
	})
}

// WithTrendingFile loads the trending table from a .csv or .parquet file.
func WithTrendingFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.trendingPath = path
	})
}

// WithProducts uses an in-memory catalog instead of a file.
// Products are kept in the given order.
func WithProducts(products ...Product) Option {
	return optionFunc(func(c *clientConfig) {
		c.products = append(c.products, products...)
	})
}

// WithTrendingProducts uses an in-memory trending table.
func WithTrendingProducts(products ...Product) Option {
	return optionFunc(func(c *clientConfig) {
		c.trending = append(c.trending, products...)
	})
}

// WithTopN sets the default and maximum recommendation sizes.
// Defaults: 10 and 100.
func WithTopN(def, maxN int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultTopN = def
		c.maxTopN = maxN
	})
}

// WithFallbackSize sets how many random products are returned when a query
// matches nothing. Default: 20.
func WithFallbackSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.fallbackSize = n
	})
}

// WithSampler replaces the random sampler used for fallbacks and random
// listings. pick must return up to k distinct indices in [0, n).
func WithSampler(pick func(n, k int) []int) Option {
	return optionFunc(func(c *clientConfig) {
		c.sampler = pick
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
