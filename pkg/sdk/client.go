package recodex

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	domcat "github.com/kailas-cloud/recodex/internal/domain/catalog"
	"github.com/kailas-cloud/recodex/internal/domain/product"
	"github.com/kailas-cloud/recodex/internal/domain/textvec"
	catrepo "github.com/kailas-cloud/recodex/internal/repository/catalog"
	"github.com/kailas-cloud/recodex/internal/usecase/browse"
	catalogu "github.com/kailas-cloud/recodex/internal/usecase/catalog"
	"github.com/kailas-cloud/recodex/internal/usecase/recommend"
	"github.com/kailas-cloud/recodex/internal/usecase/trending"
)

// Table names reported in LoadResult.
const (
	TableCatalog  = "catalog"
	TableTrending = "trending"
)

// inMemorySource is the snapshot source name for WithProducts catalogs.
const inMemorySource = "memory"

// Client answers catalog queries. It is safe for concurrent use.
type Client struct {
	catalog  *domcat.Holder
	trending *domcat.Holder
	files    *catalogu.Service // nil when no table is file-backed

	rec    *recommend.Service
	browse *browse.Service
	trend  *trending.Service
	obs    *observer
}

// New creates a Client and loads its tables. A missing data file is not an
// error: the table is served empty and reported by the observer.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	var cfg clientConfig
	for _, o := range opts {
		o.apply(&cfg)
	}
	if cfg.catalogPath != "" && len(cfg.products) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrConflictingInput, TableCatalog)
	}
	if cfg.trendingPath != "" && len(cfg.trending) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrConflictingInput, TableTrending)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	c := &Client{
		catalog:  domcat.NewHolder(nil),
		trending: domcat.NewHolder(nil),
		obs:      obs,
	}

	if len(cfg.products) > 0 {
		snap, err := snapshotOf(cfg.products)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", TableCatalog, err)
		}
		c.catalog.Swap(snap)
	}
	if len(cfg.trending) > 0 {
		snap, err := snapshotOf(cfg.trending)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", TableTrending, err)
		}
		c.trending.Swap(snap)
	}

	var tables []catalogu.Table
	if cfg.catalogPath != "" {
		tables = append(tables, catalogu.Table{Name: TableCatalog, Path: cfg.catalogPath, Holder: c.catalog})
	}
	if cfg.trendingPath != "" {
		tables = append(tables, catalogu.Table{Name: TableTrending, Path: cfg.trendingPath, Holder: c.trending})
	}
	if len(tables) > 0 {
		nop := zap.NewNop()
		c.files = catalogu.New(catrepo.NewLoader(nop), nop, tables...)
		c.observeLoad(c.files.Load(ctx))
	}

	c.rec = recommend.New(textvec.New(), zap.NewNop()).
		WithConfig(recommend.Config{
			DefaultTopN:  cfg.defaultTopN,
			MaxTopN:      cfg.maxTopN,
			FallbackSize: cfg.fallbackSize,
		}).
		WithSampler(cfg.sampler)
	c.browse = browse.New(browse.Config{}).WithSampler(cfg.sampler)
	c.trend = trending.New(c.trending)

	return c, nil
}

func snapshotOf(products []Product) (*domcat.Snapshot, error) {
	rows := make([]product.Product, 0, len(products))
	for i := range products {
		p, err := product.New(products[i].fields())
		if err != nil {
			return nil, fmt.Errorf("%w at %d: %w", ErrInvalidProduct, i, err)
		}
		rows = append(rows, p)
	}
	return domcat.New(inMemorySource, rows), nil
}

// Recommend returns up to topN products similar to the one query names.
// topN <= 0 means the default. It never fails: when nothing matches, or the
// ranking fails, Items is a random sample and Fallback is true.
func (c *Client) Recommend(ctx context.Context, query string, topN int) Recommendation {
	start := time.Now()
	out := c.rec.Recommend(ctx, c.catalog.Load(), query, topN)

	rec := Recommendation{
		Kind:     string(out.Kind),
		Fallback: out.IsFallback(),
		Items:    make([]ScoredItem, len(out.Items)),
		Err:      out.Suppressed,
	}
	if out.Target != nil {
		t := itemFromView(out.Target)
		rec.Target = &t
	}
	for i := range out.Items {
		rec.Items[i] = ScoredItem{Item: itemFromView(&out.Items[i].Product), Score: out.Items[i].Score}
	}

	c.obs.observe("recommend", start, out.Suppressed, "kind", rec.Kind, "items", len(rec.Items))
	return rec
}

// Suggest returns product names containing partial, for autocomplete.
// Partials shorter than three characters yield nothing.
func (c *Client) Suggest(partial string) []string {
	start := time.Now()
	names := c.browse.Suggest(c.catalog.Load(), partial)
	c.obs.observe("suggest", start, nil, "items", len(names))
	return names
}

// Search returns products whose name contains query, in catalog order.
func (c *Client) Search(query string, limit int) []Item {
	start := time.Now()
	items := itemsFromViews(c.browse.Search(c.catalog.Load(), query, limit))
	c.obs.observe("search", start, nil, "items", len(items))
	return items
}

// Products returns a window of the catalog in catalog order.
func (c *Client) Products(offset, limit int) Page {
	start := time.Now()
	p := c.browse.List(c.catalog.Load(), offset, limit)
	c.obs.observe("products", start, nil, "offset", p.Offset, "items", len(p.Items))
	return Page{Items: itemsFromViews(p.Items), Offset: p.Offset, Limit: p.Limit, Total: p.Total}
}

// Random returns up to n distinct products in random order.
func (c *Client) Random(n int) []Item {
	start := time.Now()
	items := itemsFromViews(c.browse.Random(c.catalog.Load(), n))
	c.obs.observe("random", start, nil, "items", len(items))
	return items
}

// Trending returns the first limit trending products, or all of them when
// limit <= 0.
func (c *Client) Trending(limit int) []Item {
	start := time.Now()
	items := itemsFromViews(c.trend.Top(limit))
	c.obs.observe("trending", start, nil, "items", len(items))
	return items
}

// Reload re-reads the file-backed tables. A table whose file has become
// unreadable keeps its previous contents. In-memory tables are not touched
// and Reload returns nil when no table is file-backed.
func (c *Client) Reload(ctx context.Context) []LoadResult {
	if c.files == nil {
		return nil
	}
	return c.observeLoad(c.files.Reload(ctx))
}

// Len returns the number of catalog products.
func (c *Client) Len() int { return c.catalog.Load().Len() }

// Version identifies the current catalog snapshot. It changes on every
// successful load and is empty while no catalog is loaded.
func (c *Client) Version() string { return c.catalog.Load().Version() }

func (c *Client) observeLoad(results []catalogu.Result) []LoadResult {
	out := make([]LoadResult, len(results))
	for i, r := range results {
		out[i] = LoadResult{
			Table:     r.Table,
			Source:    r.Report.Source,
			Found:     r.Report.Found(),
			Loaded:    r.Report.Loaded,
			Skipped:   r.Report.Skipped,
			Malformed: r.Report.Malformed,
			Version:   r.Version,
			Err:       r.Report.Err,
		}
		c.obs.observe("load", time.Now(), r.Report.Err,
			"table", r.Table, "source", r.Report.Source, "loaded", r.Report.Loaded)
	}
	return out
}
