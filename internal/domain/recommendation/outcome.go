// Package recommendation defines the terminal outcomes of a "similar items" query.
package recommendation

import "github.com/kailas-cloud/recodex/internal/domain/product"

// Kind classifies an outcome.
type Kind string

const (
	// Similar means items were ranked by tag similarity to a resolved target.
	Similar Kind = "similar"
	// Empty means no catalog or no query; nothing to recommend.
	Empty Kind = "empty"
	// Fallback means a random catalog sample, not similarity-based.
	Fallback Kind = "fallback"
)

// Match records how the query resolved to a target.
type Match string

const (
	// MatchNone means no target was resolved.
	MatchNone Match = ""
	// MatchExact means a product name equals the query.
	MatchExact Match = "exact"
	// MatchSubstring means the first product whose name contains the query, case-insensitively.
	MatchSubstring Match = "substring"
)

// Item is a recommended product. Score is the cosine similarity for Similar
// outcomes and 0 for Fallback.
type Item struct {
	Product product.View
	Score   float64
}

// Outcome is the result of a recommendation query.
type Outcome struct {
	Kind   Kind
	Match  Match
	Target *product.View
	Items  []Item
	// Suppressed holds the internal failure that forced a Fallback, if any.
	Suppressed error
}

// IsFallback reports whether the items are a random sample.
func (o Outcome) IsFallback() bool { return o.Kind == Fallback }

// Products returns the item views in order.
func (o Outcome) Products() []product.View {
	out := make([]product.View, len(o.Items))
	for i, it := range o.Items {
		out[i] = it.Product
	}
	return out
}
