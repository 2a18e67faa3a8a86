package chi

import (
	"context"

	domcat "github.com/kailas-cloud/recodex/internal/domain/catalog"
	"github.com/kailas-cloud/recodex/internal/domain/recommendation"
	catalogu "github.com/kailas-cloud/recodex/internal/usecase/catalog"
)

// CatalogSource yields the current product snapshot.
type CatalogSource interface {
	Load() *domcat.Snapshot
}

// Recommender serves similar-item queries (the plain engine or its cache).
type Recommender interface {
	Recommend(ctx context.Context, snap *domcat.Snapshot, query string, topN int) recommendation.Outcome
	TopN(requested int) int
}

// Reloader re-reads the data files.
type Reloader interface {
	Reload(ctx context.Context) []catalogu.Result
}
