package health

import (
	"context"

	domcat "github.com/kailas-cloud/recodex/internal/domain/catalog"
)

// CatalogSource yields the current catalog snapshot.
type CatalogSource interface {
	Load() *domcat.Snapshot
}

// CachePinger checks cache store availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}
