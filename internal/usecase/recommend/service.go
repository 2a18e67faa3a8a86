// Package recommend serves content-based "similar items" recommendations.
package recommend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recodex/internal/domain"
	domcat "github.com/kailas-cloud/recodex/internal/domain/catalog"
	"github.com/kailas-cloud/recodex/internal/domain/recommendation"
	"github.com/kailas-cloud/recodex/internal/domain/similarity"
	"github.com/kailas-cloud/recodex/internal/metrics"
)

// Defaults for Config.
const (
	DefaultTopN         = 10
	DefaultMaxTopN      = 100
	DefaultFallbackSize = 20
)

// Config bounds result sizes.
type Config struct {
	DefaultTopN  int
	MaxTopN      int
	FallbackSize int
}

func (c Config) withDefaults() Config {
	if c.DefaultTopN <= 0 {
		c.DefaultTopN = DefaultTopN
	}
	if c.MaxTopN <= 0 {
		c.MaxTopN = DefaultMaxTopN
	}
	if c.DefaultTopN > c.MaxTopN {
		c.DefaultTopN = c.MaxTopN
	}
	if c.FallbackSize <= 0 {
		c.FallbackSize = DefaultFallbackSize
	}
	return c
}

// Service resolves a query to a catalog item and ranks the rest of the
// catalog by tag similarity to it. It keeps no state between calls: vectors
// are derived from the snapshot on every request.
type Service struct {
	vec    Vectorizer
	sample domcat.Sampler
	cfg    Config
	logger *zap.Logger
}

// New creates a recommendation service.
func New(vec Vectorizer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		vec:    vec,
		sample: domcat.RandomSampler,
		cfg:    Config{}.withDefaults(),
		logger: logger,
	}
}

// WithConfig overrides size limits.
func (s *Service) WithConfig(cfg Config) *Service {
	s.cfg = cfg.withDefaults()
	return s
}

// WithSampler overrides the fallback sampler.
func (s *Service) WithSampler(sample domcat.Sampler) *Service {
	if sample != nil {
		s.sample = sample
	}
	return s
}

// TopN normalizes a requested result size: non-positive means the default,
// and values above the maximum are clamped.
func (s *Service) TopN(requested int) int {
	if requested <= 0 {
		return s.cfg.DefaultTopN
	}
	if requested > s.cfg.MaxTopN {
		return s.cfg.MaxTopN
	}
	return requested
}

// Recommend returns up to topN products similar to the one the query names.
// It never fails: internal errors degrade to a Fallback outcome carrying the
// suppressed error.
func (s *Service) Recommend(
	ctx context.Context, snap *domcat.Snapshot, query string, topN int,
) recommendation.Outcome {
	start := time.Now()
	out := s.recommend(ctx, snap, strings.TrimSpace(query), s.TopN(topN))

	metrics.RecommendationsTotal.WithLabelValues(string(out.Kind)).Inc()
	metrics.RecommendDuration.WithLabelValues(string(out.Kind)).Observe(time.Since(start).Seconds())
	return out
}

func (s *Service) recommend(
	ctx context.Context, snap *domcat.Snapshot, query string, topN int,
) recommendation.Outcome {
	if snap.IsAbsent() || snap.Len() == 0 || query == "" {
		return recommendation.Outcome{Kind: recommendation.Empty}
	}

	target, match := resolveTarget(snap, query)
	if match == recommendation.MatchNone {
		return s.fallback(snap, nil)
	}

	items, err := s.rank(ctx, snap, target, topN)
	if err != nil {
		metrics.RecommendSuppressedTotal.Inc()
		s.logger.Warn("Recommendation degraded to fallback",
			zap.String("query", query),
			zap.String("snapshot", snap.Version()),
			zap.Error(err),
		)
		return s.fallback(snap, err)
	}

	p := snap.At(target)
	view := p.View()
	return recommendation.Outcome{
		Kind:   recommendation.Similar,
		Match:  match,
		Target: &view,
		Items:  items,
	}
}

// rank vectorizes the whole tag column, orders it against target, drops the
// target and keeps topN. Panics are converted into ErrComputation.
func (s *Service) rank(
	ctx context.Context, snap *domcat.Snapshot, target, topN int,
) (items []recommendation.Item, err error) {
	defer func() {
		if r := recover(); r != nil {
			items = nil
			err = fmt.Errorf("%w: panic: %v", domain.ErrComputation, r)
		}
	}()

	vectors, _, err := s.vec.Vectorize(ctx, snap.TagColumn())
	if err != nil {
		return nil, fmt.Errorf("%w: vectorize: %w", domain.ErrComputation, err)
	}
	if len(vectors) != snap.Len() {
		return nil, fmt.Errorf("%w: %d vectors for %d products", domain.ErrComputation, len(vectors), snap.Len())
	}

	ranked, err := similarity.Rank(vectors, target)
	if err != nil {
		return nil, fmt.Errorf("%w: rank: %w", domain.ErrComputation, err)
	}

	items = make([]recommendation.Item, 0, min(topN, len(ranked)))
	for _, r := range ranked {
		if len(items) == topN {
			break
		}
		if r.Index == target {
			continue
		}
		p := snap.At(r.Index)
		items = append(items, recommendation.Item{Product: p.View(), Score: r.Score})
	}
	return items, nil
}

func (s *Service) fallback(snap *domcat.Snapshot, suppressed error) recommendation.Outcome {
	picked := snap.Sample(s.cfg.FallbackSize, s.sample)
	items := make([]recommendation.Item, len(picked))
	for i := range picked {
		items[i] = recommendation.Item{Product: picked[i].View()}
	}
	return recommendation.Outcome{
		Kind:       recommendation.Fallback,
		Items:      items,
		Suppressed: suppressed,
	}
}
