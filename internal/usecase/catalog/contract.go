package catalog

import (
	"context"

	domcat "github.com/kailas-cloud/recodex/internal/domain/catalog"
)

// Loader reads a tabular source into a snapshot.
type Loader interface {
	Load(ctx context.Context, path string) (*domcat.Snapshot, domcat.LoadReport)
}
