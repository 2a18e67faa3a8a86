package recodex

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func price(v float64) *float64 { return &v }

func shirts() []Product {
	return []Product{
		{Name: "Red Shirt", Tags: "red cotton shirt", ActualPrice: price(499)},
		{Name: "Blue Shirt", Tags: "blue cotton shirt"},
		{Name: "Red Hat", Tags: "red wool hat"},
		{Name: "Green Mug", Tags: "ceramic kitchen mug"},
	}
}

func reverseSampler(n, k int) []int {
	out := make([]int, 0, k)
	for i := n - 1; i >= 0 && len(out) < k; i-- {
		out = append(out, i)
	}
	return out
}

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := New(context.Background(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func writeCSV(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestRecommend_Similar(t *testing.T) {
	c := newTestClient(t, WithProducts(shirts()...))

	rec := c.Recommend(context.Background(), "Red Shirt", 2)
	if rec.Kind != "similar" || rec.Fallback {
		t.Fatalf("expected similar, got %q fallback=%v", rec.Kind, rec.Fallback)
	}
	if rec.Target == nil || rec.Target.Name != "Red Shirt" {
		t.Fatalf("unexpected target: %+v", rec.Target)
	}
	if rec.Target.ActualPrice == nil || *rec.Target.ActualPrice != 499 {
		t.Errorf("expected target price 499, got %v", rec.Target.ActualPrice)
	}
	if len(rec.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(rec.Items))
	}
	if rec.Items[0].Name != "Blue Shirt" || rec.Items[1].Name != "Red Hat" {
		t.Errorf("unexpected order: %s, %s", rec.Items[0].Name, rec.Items[1].Name)
	}
	if rec.Items[0].Score <= rec.Items[1].Score {
		t.Errorf("expected strictly decreasing scores, got %v then %v", rec.Items[0].Score, rec.Items[1].Score)
	}
	if rec.Err != nil {
		t.Errorf("unexpected suppressed error: %v", rec.Err)
	}
}

func TestRecommend_FallbackOnNoMatch(t *testing.T) {
	c := newTestClient(t, WithProducts(shirts()...), WithSampler(reverseSampler), WithFallbackSize(2))

	rec := c.Recommend(context.Background(), "Toaster", 0)
	if !rec.Fallback || rec.Kind != "fallback" {
		t.Fatalf("expected fallback, got %q", rec.Kind)
	}
	if rec.Target != nil {
		t.Errorf("expected no target, got %+v", rec.Target)
	}
	if len(rec.Items) != 2 || rec.Items[0].Name != "Green Mug" || rec.Items[1].Name != "Red Hat" {
		t.Errorf("unexpected fallback items: %+v", rec.Items)
	}
	for _, it := range rec.Items {
		if it.Score != 0 {
			t.Errorf("fallback item %q has score %v", it.Name, it.Score)
		}
	}
}

func TestRecommend_EmptyWithoutCatalog(t *testing.T) {
	c := newTestClient(t)

	rec := c.Recommend(context.Background(), "Red Shirt", 5)
	if rec.Kind != "empty" || len(rec.Items) != 0 {
		t.Errorf("expected empty outcome, got %q with %d items", rec.Kind, len(rec.Items))
	}
	if c.Len() != 0 || c.Version() != "" {
		t.Errorf("expected absent catalog, got len=%d version=%q", c.Len(), c.Version())
	}
}

func TestRecommend_TopNBounds(t *testing.T) {
	c := newTestClient(t, WithProducts(shirts()...), WithTopN(1, 2))

	if got := len(c.Recommend(context.Background(), "Red Shirt", 0).Items); got != 1 {
		t.Errorf("default topN: expected 1 item, got %d", got)
	}
	if got := len(c.Recommend(context.Background(), "Red Shirt", 50).Items); got != 2 {
		t.Errorf("clamped topN: expected 2 items, got %d", got)
	}
}

func TestBrowse(t *testing.T) {
	c := newTestClient(t, WithProducts(shirts()...), WithSampler(reverseSampler))

	if got := c.Suggest("sh"); len(got) != 0 {
		t.Errorf("short partial: expected nothing, got %v", got)
	}
	if got := c.Suggest("SHI"); len(got) != 2 || got[0] != "Red Shirt" || got[1] != "Blue Shirt" {
		t.Errorf("unexpected suggestions: %v", got)
	}

	if got := c.Search("red", 0); len(got) != 2 || got[1].Name != "Red Hat" {
		t.Errorf("unexpected search result: %+v", got)
	}

	page := c.Products(1, 2)
	if page.Total != 4 || page.Offset != 1 || len(page.Items) != 2 || page.Items[0].Name != "Blue Shirt" {
		t.Errorf("unexpected page: %+v", page)
	}

	random := c.Random(3)
	if len(random) != 3 || random[0].Name != "Green Mug" {
		t.Errorf("unexpected random items: %+v", random)
	}
}

func TestTrending_InMemory(t *testing.T) {
	c := newTestClient(t, WithTrendingProducts(shirts()[:3]...))

	if got := c.Trending(0); len(got) != 3 {
		t.Errorf("expected all 3 trending items, got %d", len(got))
	}
	if got := c.Trending(1); len(got) != 1 || got[0].Name != "Red Shirt" {
		t.Errorf("unexpected trending: %+v", got)
	}
}

func TestNew_InvalidProduct(t *testing.T) {
	_, err := New(context.Background(), WithProducts(Product{Tags: "no name"}))
	if !errors.Is(err, ErrInvalidProduct) {
		t.Errorf("expected ErrInvalidProduct, got %v", err)
	}
}

func TestNew_ConflictingInput(t *testing.T) {
	_, err := New(context.Background(), WithProducts(shirts()...), WithCatalogFile("train_data.csv"))
	if !errors.Is(err, ErrConflictingInput) {
		t.Errorf("expected ErrConflictingInput, got %v", err)
	}
}

func TestFiles_LoadAndReload(t *testing.T) {
	dir := t.TempDir()
	catalogPath := writeCSV(t, dir, "train_data.csv",
		"product_name,tags,discounted_price,actual_price,discount_percentage,img_link,rating",
		"Red Shirt,red cotton shirt,₹399,₹499,20%,https://img/red.jpg,4.1",
		"Blue Shirt,blue cotton shirt,,,,,",
	)
	missing := filepath.Join(dir, "trending_items.csv")

	c := newTestClient(t, WithCatalogFile(catalogPath), WithTrendingFile(missing))
	if c.Len() != 2 {
		t.Fatalf("expected 2 products, got %d", c.Len())
	}
	if got := c.Trending(0); len(got) != 0 {
		t.Errorf("missing trending file: expected nothing, got %d", len(got))
	}
	first := c.Version()

	writeCSV(t, dir, "train_data.csv",
		"product_name,tags",
		"Red Shirt,red cotton shirt",
		"Blue Shirt,blue cotton shirt",
		"Red Hat,red wool hat",
	)
	results := c.Reload(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Table != TableCatalog || !results[0].Found || results[0].Loaded != 3 {
		t.Errorf("unexpected catalog result: %+v", results[0])
	}
	if results[1].Found || !errors.Is(results[1].Err, ErrSourceMissing) {
		t.Errorf("expected missing trending source, got %+v", results[1])
	}
	if c.Len() != 3 || c.Version() == first {
		t.Errorf("expected swapped catalog, got len=%d version=%q", c.Len(), c.Version())
	}

	if err := os.Remove(catalogPath); err != nil {
		t.Fatalf("remove: %v", err)
	}
	c.Reload(context.Background())
	if c.Len() != 3 {
		t.Errorf("expected previous catalog kept after failed reload, got %d", c.Len())
	}
}

func TestReload_InMemoryIsNoop(t *testing.T) {
	c := newTestClient(t, WithProducts(shirts()...))
	if got := c.Reload(context.Background()); got != nil {
		t.Errorf("expected nil results, got %+v", got)
	}
}

func TestObserver_MetricsAndLogs(t *testing.T) {
	reg := prometheus.NewRegistry()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c := newTestClient(t, WithProducts(shirts()...), WithPrometheus(reg), WithLogger(logger))
	c.Recommend(context.Background(), "Red Shirt", 1)
	c.Suggest("shirt")

	m, err := newSDKMetrics(reg)
	if err != nil {
		t.Fatalf("re-register: %v", err)
	}
	if got := testutil.ToFloat64(m.operations.WithLabelValues("recommend", "ok")); got != 1 {
		t.Errorf("expected 1 recommend op, got %v", got)
	}
	if got := testutil.ToFloat64(m.operations.WithLabelValues("suggest", "ok")); got != 1 {
		t.Errorf("expected 1 suggest op, got %v", got)
	}
	if !strings.Contains(buf.String(), "op=recommend") {
		t.Errorf("expected recommend log line, got %q", buf.String())
	}
}

func TestObserver_SuppressedErrorCountsAsFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := newTestClient(t, WithProducts(shirts()...), WithPrometheus(reg))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := c.Recommend(ctx, "Red Shirt", 1)
	if !rec.Fallback || !errors.Is(rec.Err, context.Canceled) {
		t.Fatalf("expected fallback with context.Canceled, got %q %v", rec.Kind, rec.Err)
	}

	m, err := newSDKMetrics(reg)
	if err != nil {
		t.Fatalf("re-register: %v", err)
	}
	if got := testutil.ToFloat64(m.operations.WithLabelValues("recommend", "error")); got != 1 {
		t.Errorf("expected 1 failed recommend op, got %v", got)
	}
}
