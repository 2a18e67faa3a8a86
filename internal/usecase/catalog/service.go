// Package catalog loads the product tables into their holders and reloads
// them on demand.
package catalog

import (
	"context"
	"sync"

	"go.uber.org/zap"

	domcat "github.com/kailas-cloud/recodex/internal/domain/catalog"
	"github.com/kailas-cloud/recodex/internal/metrics"
)

// Table binds a named source path to the holder that publishes it.
type Table struct {
	Name   string
	Path   string
	Holder *domcat.Holder
}

// Result describes what happened to one table.
type Result struct {
	Table   string
	Report  domcat.LoadReport
	Version string // version now published
	Swapped bool   // false when a failed reload kept the previous snapshot
}

// Service owns the tables. Loads are serialized; readers keep using the
// holders without coordination.
type Service struct {
	mu     sync.Mutex
	loader Loader
	tables []Table
	logger *zap.Logger
}

// New creates a catalog service.
func New(loader Loader, logger *zap.Logger, tables ...Table) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{loader: loader, tables: tables, logger: logger}
}

// Load reads every table and publishes the result, absent or not.
func (s *Service) Load(ctx context.Context) []Result {
	return s.run(ctx, false)
}

// Reload re-reads every table. A table whose source has become unreadable
// keeps serving its previous snapshot.
func (s *Service) Reload(ctx context.Context) []Result {
	return s.run(ctx, true)
}

func (s *Service) run(ctx context.Context, keepOnFailure bool) []Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]Result, 0, len(s.tables))
	for _, t := range s.tables {
		results = append(results, s.loadTable(ctx, t, keepOnFailure))
	}
	return results
}

func (s *Service) loadTable(ctx context.Context, t Table, keepOnFailure bool) Result {
	snap, report := s.loader.Load(ctx, t.Path)
	metrics.RecordCatalogLoad(t.Name, snap.IsAbsent())

	log := s.logger.With(
		zap.String("table", t.Name),
		zap.String("source", t.Path),
		zap.String("format", report.Format),
	)

	if !report.Found() {
		prev := t.Holder.Load()
		if keepOnFailure && !prev.IsAbsent() {
			// Gauges keep describing prev.
			log.Warn("Reload failed, keeping previous snapshot",
				zap.String("snapshot", prev.Version()),
				zap.Error(report.Err),
			)
			return Result{Table: t.Name, Report: report, Version: prev.Version()}
		}
		log.Warn("Missing data file, serving empty table", zap.Error(report.Err))
		t.Holder.Swap(snap)
		metrics.SetCatalogSize(t.Name, 0, 0)
		return Result{Table: t.Name, Report: report, Swapped: true}
	}

	t.Holder.Swap(snap)
	metrics.SetCatalogSize(t.Name, snap.Len(), report.Malformed)
	log.Info("Found data file",
		zap.String("snapshot", snap.Version()),
		zap.Int("rows", report.Rows),
		zap.Int("loaded", report.Loaded),
		zap.Int("skipped", report.Skipped),
		zap.Int("malformed", report.Malformed),
	)
	return Result{Table: t.Name, Report: report, Version: snap.Version(), Swapped: true}
}
