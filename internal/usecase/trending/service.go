// Package trending serves the curated trending-items table.
package trending

import (
	domcat "github.com/kailas-cloud/recodex/internal/domain/catalog"
	"github.com/kailas-cloud/recodex/internal/domain/product"
)

// Source yields the current trending snapshot.
type Source interface {
	Load() *domcat.Snapshot
}

// Service returns trending items in source order.
type Service struct {
	src Source
}

// New creates a trending service.
func New(src Source) *Service {
	return &Service{src: src}
}

// Top returns the first limit items, or all of them when limit <= 0.
// An absent source yields an empty slice.
func (s *Service) Top(limit int) []product.View {
	snap := s.src.Load()
	n := snap.Len()
	if limit > 0 {
		n = min(n, limit)
	}

	out := make([]product.View, 0, n)
	for i, p := range snap.All() {
		if i == n {
			break
		}
		out = append(out, p.View())
	}
	return out
}
