package catalog

import "strings"

// rawRow is one source row before coercion.
type rawRow struct {
	Name               string `parquet:"product_name,optional"`
	Tags               string `parquet:"tags,optional"`
	DiscountedPrice    string `parquet:"discounted_price,optional"`
	ActualPrice        string `parquet:"actual_price,optional"`
	DiscountPercentage string `parquet:"discount_percentage,optional"`
	ImageLink          string `parquet:"img_link,optional"`
	Rating             string `parquet:"rating,optional"`
}

// Canonical column names.
const (
	colName               = "product_name"
	colTags               = "tags"
	colDiscountedPrice    = "discounted_price"
	colActualPrice        = "actual_price"
	colDiscountPercentage = "discount_percentage"
	colImageLink          = "img_link"
	colRating             = "rating"
)

// headerAliases maps normalized header spellings to canonical columns.
var headerAliases = map[string]string{
	"product_name":        colName,
	"name":                colName,
	"product":             colName,
	"tags":                colTags,
	"tag":                 colTags,
	"discounted_price":    colDiscountedPrice,
	"discountedprice":     colDiscountedPrice,
	"actual_price":        colActualPrice,
	"actualprice":         colActualPrice,
	"price":               colActualPrice,
	"discount_percentage": colDiscountPercentage,
	"discountpercentage":  colDiscountPercentage,
	"img_link":            colImageLink,
	"imageurl":            colImageLink,
	"image_url":           colImageLink,
	"image":               colImageLink,
	"rating":              colRating,
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.ReplaceAll(h, " ", "_")
}

// columnIndex resolves canonical columns to positions in a CSV header.
// The first occurrence of a canonical column wins.
type columnIndex map[string]int

func resolveColumns(header []string) columnIndex {
	idx := make(columnIndex, len(header))
	for i, h := range header {
		canonical, ok := headerAliases[normalizeHeader(h)]
		if !ok {
			continue
		}
		if _, seen := idx[canonical]; !seen {
			idx[canonical] = i
		}
	}
	return idx
}

func (c columnIndex) has(col string) bool {
	_, ok := c[col]
	return ok
}

func (c columnIndex) get(record []string, col string) string {
	i, ok := c[col]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func (c columnIndex) row(record []string) rawRow {
	return rawRow{
		Name:               c.get(record, colName),
		Tags:               c.get(record, colTags),
		DiscountedPrice:    c.get(record, colDiscountedPrice),
		ActualPrice:        c.get(record, colActualPrice),
		DiscountPercentage: c.get(record, colDiscountPercentage),
		ImageLink:          c.get(record, colImageLink),
		Rating:             c.get(record, colRating),
	}
}
