// Package reccache memoizes similar-item outcomes per catalog snapshot.
package reccache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recodex/internal/db"
	"github.com/kailas-cloud/recodex/internal/domain"
	domcat "github.com/kailas-cloud/recodex/internal/domain/catalog"
	"github.com/kailas-cloud/recodex/internal/domain/product"
	"github.com/kailas-cloud/recodex/internal/domain/recommendation"
)

// DefaultKeyPrefix namespaces cache keys.
const DefaultKeyPrefix = "recodex:rec_cache:"

// recommender is the decorated service.
type recommender interface {
	Recommend(ctx context.Context, snap *domcat.Snapshot, query string, topN int) recommendation.Outcome
	TopN(requested int) int
}

// store is the consumer interface for the cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedRecommender serves repeated queries against the same snapshot from a
// key-value store. Only Similar outcomes are cached; fallbacks are random and
// empty outcomes are free to recompute.
type CachedRecommender struct {
	inner      recommender
	store      store
	ttl        time.Duration
	prefix     string
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner recommender,
	s store,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedRecommender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedRecommender{
		inner:      inner,
		store:      s,
		prefix:     DefaultKeyPrefix,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// WithTTL sets the entry lifetime. Zero keeps entries until evicted.
func (c *CachedRecommender) WithTTL(ttl time.Duration) *CachedRecommender {
	c.ttl = ttl
	return c
}

// WithKeyPrefix overrides DefaultKeyPrefix.
func (c *CachedRecommender) WithKeyPrefix(prefix string) *CachedRecommender {
	if prefix != "" {
		c.prefix = prefix
	}
	return c
}

// TopN delegates to the inner service.
func (c *CachedRecommender) TopN(requested int) int { return c.inner.TopN(requested) }

// Recommend returns a cached outcome or computes and stores a fresh one.
func (c *CachedRecommender) Recommend(
	ctx context.Context, snap *domcat.Snapshot, query string, topN int,
) recommendation.Outcome {
	if snap.IsAbsent() {
		return c.inner.Recommend(ctx, snap, query, topN)
	}

	key := c.cacheKey(snap.Version(), query, c.inner.TopN(topN))

	out, err := c.getFromCache(ctx, key)
	if err == nil {
		c.incCache("hit")
		return out
	}
	c.incCache("miss")

	out = c.inner.Recommend(ctx, snap, query, topN)
	if out.Kind == recommendation.Similar {
		c.putToCache(ctx, key, out)
	}
	return out
}

func (c *CachedRecommender) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey hashes the trimmed query; the engine ignores surrounding spaces.
func (c *CachedRecommender) cacheKey(version, query string, topN int) string {
	h := sha256.Sum256([]byte(strings.TrimSpace(query)))
	return c.prefix + version + ":" + strconv.Itoa(topN) + ":" + hex.EncodeToString(h[:])
}

func (c *CachedRecommender) getFromCache(ctx context.Context, key string) (recommendation.Outcome, error) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached recommendation", zap.String("key", key), zap.Error(err))
		}
		return recommendation.Outcome{}, domain.ErrCacheMiss
	}
	if len(data) == 0 {
		return recommendation.Outcome{}, domain.ErrCacheMiss
	}

	out, err := decodeOutcome(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached recommendation", zap.String("key", key), zap.Error(err))
		return recommendation.Outcome{}, domain.ErrCacheMiss
	}
	return out, nil
}

func (c *CachedRecommender) putToCache(ctx context.Context, key string, out recommendation.Outcome) {
	data, err := encodeOutcome(out)
	if err != nil {
		c.logger.Warn("Failed to encode recommendation", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache recommendation", zap.String("key", key), zap.Error(err))
	}
}

// cachedOutcome is the stored form of a Similar outcome.
type cachedOutcome struct {
	Match  recommendation.Match `json:"match"`
	Target product.View         `json:"target"`
	Items  []cachedItem         `json:"items"`
}

type cachedItem struct {
	Product product.View `json:"product"`
	Score   float64      `json:"score"`
}

func encodeOutcome(out recommendation.Outcome) ([]byte, error) {
	if out.Target == nil {
		return nil, fmt.Errorf("similar outcome without target")
	}
	dto := cachedOutcome{
		Match:  out.Match,
		Target: *out.Target,
		Items:  make([]cachedItem, len(out.Items)),
	}
	for i, it := range out.Items {
		dto.Items[i] = cachedItem{Product: it.Product, Score: it.Score}
	}
	data, err := json.Marshal(dto)
	if err != nil {
		return nil, fmt.Errorf("marshal outcome: %w", err)
	}
	return data, nil
}

func decodeOutcome(data []byte) (recommendation.Outcome, error) {
	var dto cachedOutcome
	if err := json.Unmarshal(data, &dto); err != nil {
		return recommendation.Outcome{}, fmt.Errorf("unmarshal outcome: %w", err)
	}
	if dto.Target.Name == "" {
		return recommendation.Outcome{}, fmt.Errorf("cached outcome has no target")
	}
	items := make([]recommendation.Item, len(dto.Items))
	for i, it := range dto.Items {
		items[i] = recommendation.Item{Product: it.Product, Score: it.Score}
	}
	target := dto.Target
	return recommendation.Outcome{
		Kind:   recommendation.Similar,
		Match:  dto.Match,
		Target: &target,
		Items:  items,
	}, nil
}
