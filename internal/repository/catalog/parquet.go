package catalog

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/parquet-go/parquet-go"

	domcat "github.com/kailas-cloud/recodex/internal/domain/catalog"
	"github.com/kailas-cloud/recodex/internal/domain/product"
)

// readParquet reads string columns named as in the CSV schema
// (product_name, tags, discounted_price, ...). Missing columns read as empty.
func readParquet(path string) ([]rawRow, error) {
	rows, err := parquet.ReadFile[rawRow](filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read parquet: %w", err)
	}
	return rows, nil
}

// WriteParquet writes the snapshot in catalog order using the same column
// layout Load reads. Missing numbers are written as empty cells.
func WriteParquet(path string, snap *domcat.Snapshot) error {
	rows := make([]rawRow, 0, snap.Len())
	for _, p := range snap.All() {
		rows = append(rows, rawRow{
			Name:               p.Name(),
			Tags:               p.Tags(),
			DiscountedPrice:    formatNumber(p.DiscountedPrice()),
			ActualPrice:        formatNumber(p.ActualPrice()),
			DiscountPercentage: formatNumber(p.DiscountPercentage()),
			ImageLink:          p.ImageLink(),
			Rating:             formatNumber(p.Rating()),
		})
	}
	if err := parquet.WriteFile(filepath.Clean(path), rows); err != nil {
		return fmt.Errorf("write parquet: %w", err)
	}
	return nil
}

func formatNumber(n product.Number) string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}
