package recommend

import (
	"context"

	"github.com/kailas-cloud/recodex/internal/domain/textvec"
)

// Vectorizer turns the catalog's tag column into aligned term vectors.
type Vectorizer interface {
	Vectorize(ctx context.Context, docs []string) ([]textvec.Vector, *textvec.Vocabulary, error)
}
