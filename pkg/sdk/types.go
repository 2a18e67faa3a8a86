package recodex

import (
	"github.com/kailas-cloud/recodex/internal/domain/product"
)

// Product is an input catalog record for WithProducts. Nil numeric fields
// are missing.
type Product struct {
	Name               string
	Tags               string
	DiscountedPrice    *float64
	ActualPrice        *float64
	DiscountPercentage *float64
	ImageLink          string
	Rating             *float64
}

// Item is the display projection of a catalog product. Nil numeric fields
// were missing or not parseable in the source.
type Item struct {
	Name               string
	DiscountedPrice    *float64
	ActualPrice        *float64
	DiscountPercentage *float64
	ImageLink          string
	Rating             *float64
}

// ScoredItem is a recommended product. Score is the tag similarity in
// [0, 1]; it is zero for fallback results.
type ScoredItem struct {
	Item
	Score float64
}

// Recommendation is the result of Recommend.
type Recommendation struct {
	// Kind is "similar", "empty" or "fallback".
	Kind string
	// Fallback is true when Items is a random sample rather than a ranking.
	Fallback bool
	// Target is the product the query resolved to, if any.
	Target *Item
	Items  []ScoredItem
	// Err is the internal failure that forced a fallback, if any.
	Err error
}

// Page is a window of the catalog.
type Page struct {
	Items  []Item
	Offset int
	Limit  int
	Total  int
}

// LoadResult describes one data file after New or Reload.
type LoadResult struct {
	Table     string
	Source    string
	Found     bool
	Loaded    int
	Skipped   int
	Malformed int
	Version   string
	Err       error
}

func (p Product) fields() product.Fields {
	return product.Fields{
		Name:               p.Name,
		Tags:               p.Tags,
		DiscountedPrice:    toNumber(p.DiscountedPrice),
		ActualPrice:        toNumber(p.ActualPrice),
		DiscountPercentage: toNumber(p.DiscountPercentage),
		ImageLink:          p.ImageLink,
		Rating:             toNumber(p.Rating),
	}
}

func itemFromView(v *product.View) Item {
	return Item{
		Name:               v.Name,
		DiscountedPrice:    fromNumber(v.DiscountedPrice),
		ActualPrice:        fromNumber(v.ActualPrice),
		DiscountPercentage: fromNumber(v.DiscountPercentage),
		ImageLink:          v.ImageLink,
		Rating:             fromNumber(v.Rating),
	}
}

func itemsFromViews(views []product.View) []Item {
	out := make([]Item, len(views))
	for i := range views {
		out[i] = itemFromView(&views[i])
	}
	return out
}

func toNumber(f *float64) product.Number {
	if f == nil {
		return product.None()
	}
	return product.Some(*f)
}

func fromNumber(n product.Number) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}
