// Package similarity ranks TF-IDF vectors by cosine similarity.
package similarity

import (
	"fmt"
	"sort"

	"github.com/kailas-cloud/recodex/internal/domain/textvec"
)

// Scored pairs a catalog index with its similarity to a target.
type Scored struct {
	Index int
	Score float64
}

// Cosine returns dot(a,b) / (|a| * |b|), clamped to [0,1].
// It is 0 when either vector has zero magnitude.
func Cosine(a, b textvec.Vector) float64 {
	if a.IsZero() || b.IsZero() {
		return 0
	}
	s := textvec.Dot(a, b) / (a.Norm() * b.Norm())
	switch {
	case s < 0:
		return 0
	case s > 1:
		return 1
	}
	return s
}

// Rank scores every vector against vectors[target] and orders the result by
// descending score, ties broken by ascending index. The target itself is
// included; callers drop it when building "similar items".
func Rank(vectors []textvec.Vector, target int) ([]Scored, error) {
	if target < 0 || target >= len(vectors) {
		return nil, fmt.Errorf("target index %d out of range [0,%d)", target, len(vectors))
	}

	t := vectors[target]
	ranked := make([]Scored, len(vectors))
	for i, v := range vectors {
		ranked[i] = Scored{Index: i, Score: Cosine(t, v)}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Index < ranked[j].Index
	})

	return ranked, nil
}
