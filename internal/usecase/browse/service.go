// Package browse implements the non-ranked read paths over a catalog
// snapshot: autosuggest, name search, paging and random listings.
package browse

import (
	"strings"
	"unicode/utf8"

	domcat "github.com/kailas-cloud/recodex/internal/domain/catalog"
	"github.com/kailas-cloud/recodex/internal/domain/product"
)

// Defaults for Config.
const (
	DefaultSuggestMinLength = 3
	DefaultSuggestLimit     = 10
	DefaultPageSize         = 20
	DefaultMaxPageSize      = 100
)

// Config bounds browse results.
type Config struct {
	SuggestMinLength int
	SuggestLimit     int
	PageSize         int
	MaxPageSize      int
}

func (c Config) withDefaults() Config {
	if c.SuggestMinLength <= 0 {
		c.SuggestMinLength = DefaultSuggestMinLength
	}
	if c.SuggestLimit <= 0 {
		c.SuggestLimit = DefaultSuggestLimit
	}
	if c.MaxPageSize <= 0 {
		c.MaxPageSize = DefaultMaxPageSize
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.PageSize > c.MaxPageSize {
		c.PageSize = c.MaxPageSize
	}
	return c
}

// Page is one window of the catalog in catalog order.
type Page struct {
	Items  []product.View
	Offset int
	Limit  int
	Total  int
}

// Service serves browse queries. It is stateless; every call reads only the
// snapshot it is given.
type Service struct {
	cfg    Config
	sample domcat.Sampler
}

// New creates a browse service.
func New(cfg Config) *Service {
	return &Service{cfg: cfg.withDefaults(), sample: domcat.RandomSampler}
}

// WithSampler overrides the random listing sampler.
func (s *Service) WithSampler(sample domcat.Sampler) *Service {
	if sample != nil {
		s.sample = sample
	}
	return s
}

// Limit normalizes a requested page size.
func (s *Service) Limit(requested int) int {
	if requested <= 0 {
		return s.cfg.PageSize
	}
	return min(requested, s.cfg.MaxPageSize)
}

// Suggest returns up to SuggestLimit names containing partial, case-insensitively,
// in catalog order. Queries shorter than SuggestMinLength characters yield nothing.
// Duplicate names are returned as they occur.
func (s *Service) Suggest(snap *domcat.Snapshot, partial string) []string {
	partial = strings.TrimSpace(partial)
	if utf8.RuneCountInString(partial) < s.cfg.SuggestMinLength {
		return []string{}
	}

	needle := strings.ToLower(partial)
	out := make([]string, 0, s.cfg.SuggestLimit)
	for _, p := range snap.All() {
		if strings.Contains(strings.ToLower(p.Name()), needle) {
			out = append(out, p.Name())
			if len(out) == s.cfg.SuggestLimit {
				break
			}
		}
	}
	return out
}

// Search returns up to limit products whose name contains query,
// case-insensitively, in catalog order. An empty query matches nothing.
func (s *Service) Search(snap *domcat.Snapshot, query string, limit int) []product.View {
	query = strings.TrimSpace(query)
	if query == "" {
		return []product.View{}
	}
	limit = s.Limit(limit)

	needle := strings.ToLower(query)
	out := make([]product.View, 0, min(limit, snap.Len()))
	for _, p := range snap.All() {
		if !strings.Contains(strings.ToLower(p.Name()), needle) {
			continue
		}
		out = append(out, p.View())
		if len(out) == limit {
			break
		}
	}
	return out
}

// List returns the catalog window [offset, offset+limit).
func (s *Service) List(snap *domcat.Snapshot, offset, limit int) Page {
	limit = s.Limit(limit)
	offset = max(offset, 0)
	total := snap.Len()

	page := Page{Items: []product.View{}, Offset: offset, Limit: limit, Total: total}
	if offset >= total {
		return page
	}

	end := min(offset+limit, total)
	page.Items = make([]product.View, 0, end-offset)
	for i := offset; i < end; i++ {
		p := snap.At(i)
		page.Items = append(page.Items, p.View())
	}
	return page
}

// Random returns up to n distinct products in random order.
func (s *Service) Random(snap *domcat.Snapshot, n int) []product.View {
	picked := snap.Sample(s.Limit(n), s.sample)
	out := make([]product.View, len(picked))
	for i := range picked {
		out[i] = picked[i].View()
	}
	return out
}
