// Package catalog loads product tables from CSV or Parquet sources into
// immutable snapshots.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recodex/internal/domain"
	domcat "github.com/kailas-cloud/recodex/internal/domain/catalog"
	"github.com/kailas-cloud/recodex/internal/domain/product"
)

// Source formats.
const (
	FormatCSV     = domcat.FormatCSV
	FormatParquet = domcat.FormatParquet
)

// Loader reads tabular sources. Failures never escape as errors: an
// unreadable source yields an absent snapshot and a report carrying the cause.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a loader.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// Load reads path and returns a snapshot, or an absent snapshot when the
// source is missing or unreadable.
func (l *Loader) Load(ctx context.Context, path string) (*domcat.Snapshot, domcat.LoadReport) {
	report := domcat.LoadReport{Source: path, Format: formatOf(path)}

	if path == "" {
		report.Err = fmt.Errorf("%w: no path configured", domain.ErrSourceMissing)
		return domcat.Absent(), report
	}
	if _, err := os.Stat(path); err != nil {
		report.Err = fmt.Errorf("%w: %w", domain.ErrSourceMissing, err)
		return domcat.Absent(), report
	}

	var (
		rows []rawRow
		err  error
	)
	switch report.Format {
	case FormatParquet:
		rows, err = readParquet(path)
	default:
		rows, err = readCSV(path)
	}
	if err != nil {
		report.Err = fmt.Errorf("%w: %w", domain.ErrSourceMissing, err)
		return domcat.Absent(), report
	}
	if err := ctx.Err(); err != nil {
		report.Err = fmt.Errorf("load %s: %w", path, err)
		return domcat.Absent(), report
	}

	report.Rows = len(rows)
	products := make([]product.Product, 0, len(rows))
	for i, raw := range rows {
		p, rowErrs, err := coerce(i+1, raw)
		if err != nil {
			report.Skipped++
			l.logger.Debug("Skipping catalog row", zap.Int("row", i+1), zap.Error(err))
			continue
		}
		if len(rowErrs) > 0 {
			report.Malformed++
			l.logger.Debug("Malformed catalog row",
				zap.Int("row", i+1),
				zap.String("name", raw.Name),
				zap.Error(errors.Join(rowErrs...)),
			)
		}
		products = append(products, p)
	}
	report.Loaded = len(products)

	return domcat.New(path, products), report
}

func formatOf(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return FormatParquet
	}
	return FormatCSV
}

// coerce turns a raw row into a Product. Uncoercible numeric cells become
// missing values and are reported as RowErrors; the row is still kept.
func coerce(row int, raw rawRow) (product.Product, []error, error) {
	var rowErrs []error
	number := func(col, v string) product.Number {
		n, ok := product.ParseNumber(v)
		if !ok {
			rowErrs = append(rowErrs, &domain.RowError{Row: row, Column: col, Value: v})
		}
		return n
	}

	p, err := product.New(product.Fields{
		Name:               strings.TrimSpace(raw.Name),
		Tags:               strings.TrimSpace(raw.Tags),
		DiscountedPrice:    number(colDiscountedPrice, raw.DiscountedPrice),
		ActualPrice:        number(colActualPrice, raw.ActualPrice),
		DiscountPercentage: number(colDiscountPercentage, raw.DiscountPercentage),
		ImageLink:          strings.TrimSpace(raw.ImageLink),
		Rating:             number(colRating, raw.Rating),
	})
	if err != nil {
		return product.Product{}, nil, fmt.Errorf("row %d: %w", row, err)
	}
	return p, rowErrs, nil
}
