package reccache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recodex/internal/db"
	"github.com/kailas-cloud/recodex/internal/db/memory"
	domcat "github.com/kailas-cloud/recodex/internal/domain/catalog"
	"github.com/kailas-cloud/recodex/internal/domain/product"
	"github.com/kailas-cloud/recodex/internal/domain/recommendation"
)

// --- Mocks ---

type mockRecommender struct {
	out   recommendation.Outcome
	calls int
}

func (m *mockRecommender) Recommend(_ context.Context, _ *domcat.Snapshot, _ string, _ int) recommendation.Outcome {
	m.calls++
	return m.out
}

func (m *mockRecommender) TopN(requested int) int {
	if requested <= 0 {
		return 10
	}
	return requested
}

type failingStore struct {
	getErr error
	setErr error
	sets   int
}

func (f *failingStore) Get(_ context.Context, _ string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return nil, db.ErrKeyNotFound
}

func (f *failingStore) SetWithTTL(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	f.sets++
	return f.setErr
}

func similarOutcome() recommendation.Outcome {
	target := product.View{Name: "Red Shirt", Rating: product.Some(4.5)}
	return recommendation.Outcome{
		Kind:   recommendation.Similar,
		Match:  recommendation.MatchExact,
		Target: &target,
		Items: []recommendation.Item{
			{Product: product.View{Name: "Blue Shirt", ActualPrice: product.Some(499)}, Score: 0.59},
			{Product: product.View{Name: "Red Hat"}, Score: 0.27},
		},
	}
}

func testSnapshot(t *testing.T) *domcat.Snapshot {
	t.Helper()
	p, err := product.New(product.Fields{Name: "Red Shirt", Tags: "red shirt"})
	if err != nil {
		t.Fatal(err)
	}
	return domcat.New("test", []product.Product{p})
}

func newCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_total"}, []string{"result"})
}

// --- Tests ---

func TestRecommend_MissThenHit(t *testing.T) {
	inner := &mockRecommender{out: similarOutcome()}
	store := memory.NewStore(0)
	defer store.Close()
	counter := newCounter()
	c := New(inner, store, counter, zap.NewNop()).WithTTL(time.Minute)
	snap := testSnapshot(t)
	ctx := context.Background()

	first := c.Recommend(ctx, snap, "Red Shirt", 2)
	second := c.Recommend(ctx, snap, "Red Shirt", 2)

	if inner.calls != 1 {
		t.Fatalf("expected 1 inner call, got %d", inner.calls)
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("miss")); got != 1 {
		t.Errorf("expected 1 miss, got %v", got)
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("hit")); got != 1 {
		t.Errorf("expected 1 hit, got %v", got)
	}

	if second.Kind != recommendation.Similar || second.Match != first.Match {
		t.Errorf("unexpected cached outcome: %+v", second)
	}
	if second.Target == nil || second.Target.Name != "Red Shirt" || second.Target.Rating != product.Some(4.5) {
		t.Errorf("unexpected cached target: %+v", second.Target)
	}
	if len(second.Items) != 2 {
		t.Fatalf("expected 2 cached items, got %d", len(second.Items))
	}
	if second.Items[0].Product.Name != "Blue Shirt" || second.Items[0].Score != 0.59 {
		t.Errorf("unexpected first item: %+v", second.Items[0])
	}
	if second.Items[0].Product.ActualPrice != product.Some(499) {
		t.Errorf("price lost in cache: %+v", second.Items[0].Product.ActualPrice)
	}
	if second.Items[1].Product.Rating.Valid {
		t.Error("missing rating should stay missing")
	}
}

func TestRecommend_KeyedBySnapshotAndTopN(t *testing.T) {
	inner := &mockRecommender{out: similarOutcome()}
	store := memory.NewStore(0)
	defer store.Close()
	c := New(inner, store, nil, nil)
	ctx := context.Background()

	snap := testSnapshot(t)
	c.Recommend(ctx, snap, "Red Shirt", 2)
	c.Recommend(ctx, snap, "Red Shirt", 3)
	c.Recommend(ctx, testSnapshot(t), "Red Shirt", 2)
	c.Recommend(ctx, snap, "Red Shirt", 2)

	if inner.calls != 3 {
		t.Errorf("expected 3 inner calls (topN and reload change the key), got %d", inner.calls)
	}
}

func TestRecommend_DefaultTopNSharesKey(t *testing.T) {
	inner := &mockRecommender{out: similarOutcome()}
	store := memory.NewStore(0)
	defer store.Close()
	c := New(inner, store, nil, nil)
	snap := testSnapshot(t)

	c.Recommend(context.Background(), snap, "Red Shirt", 0)
	c.Recommend(context.Background(), snap, "Red Shirt", 10)

	if inner.calls != 1 {
		t.Errorf("expected normalized topN to share a key, got %d calls", inner.calls)
	}
}

func TestRecommend_SurroundingSpacesShareKey(t *testing.T) {
	inner := &mockRecommender{out: similarOutcome()}
	store := memory.NewStore(0)
	defer store.Close()
	c := New(inner, store, nil, nil)
	snap := testSnapshot(t)

	c.Recommend(context.Background(), snap, "Red Shirt", 2)
	c.Recommend(context.Background(), snap, "  Red Shirt\t", 2)

	if inner.calls != 1 {
		t.Errorf("expected padded query to hit the same entry, got %d calls", inner.calls)
	}
}

func TestRecommend_FallbackNotCached(t *testing.T) {
	inner := &mockRecommender{out: recommendation.Outcome{
		Kind:  recommendation.Fallback,
		Items: []recommendation.Item{{Product: product.View{Name: "Random"}}},
	}}
	fs := &failingStore{}
	c := New(inner, fs, nil, nil)

	out := c.Recommend(context.Background(), testSnapshot(t), "nothing", 5)
	if !out.IsFallback() {
		t.Fatalf("expected fallback passthrough, got %q", out.Kind)
	}
	if fs.sets != 0 {
		t.Errorf("fallback must not be cached, got %d sets", fs.sets)
	}
}

func TestRecommend_AbsentCatalogBypassesCache(t *testing.T) {
	inner := &mockRecommender{out: recommendation.Outcome{Kind: recommendation.Empty}}
	fs := &failingStore{getErr: errors.New("must not be called")}
	counter := newCounter()
	c := New(inner, fs, counter, nil)

	out := c.Recommend(context.Background(), domcat.Absent(), "Red Shirt", 5)
	if out.Kind != recommendation.Empty {
		t.Errorf("expected empty outcome, got %q", out.Kind)
	}
	if testutil.CollectAndCount(counter) != 0 {
		t.Error("absent catalog should not touch cache metrics")
	}
}

func TestRecommend_StoreErrorsDegradeToInner(t *testing.T) {
	inner := &mockRecommender{out: similarOutcome()}
	fs := &failingStore{
		getErr: errors.New("connection refused"),
		setErr: errors.New("connection refused"),
	}
	c := New(inner, fs, nil, zap.NewNop())

	out := c.Recommend(context.Background(), testSnapshot(t), "Red Shirt", 2)
	if out.Kind != recommendation.Similar || len(out.Items) != 2 {
		t.Errorf("expected inner outcome despite store failure, got %+v", out)
	}
	if fs.sets != 1 {
		t.Errorf("expected one set attempt, got %d", fs.sets)
	}
}

func TestRecommend_CorruptEntryIsMiss(t *testing.T) {
	inner := &mockRecommender{out: similarOutcome()}
	store := memory.NewStore(0)
	defer store.Close()
	c := New(inner, store, nil, nil).WithKeyPrefix("t:")
	snap := testSnapshot(t)
	ctx := context.Background()

	key := c.cacheKey(snap.Version(), "Red Shirt", 2)
	if !strings.HasPrefix(key, "t:"+snap.Version()+":2:") {
		t.Fatalf("unexpected key layout: %s", key)
	}
	if err := store.Set(ctx, key, []byte("{not json")); err != nil {
		t.Fatal(err)
	}

	out := c.Recommend(ctx, snap, "Red Shirt", 2)
	if inner.calls != 1 || out.Kind != recommendation.Similar {
		t.Errorf("corrupt entry should fall through to inner, calls=%d kind=%q", inner.calls, out.Kind)
	}
}
