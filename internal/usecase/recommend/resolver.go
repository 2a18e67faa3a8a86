package recommend

import (
	"strings"

	domcat "github.com/kailas-cloud/recodex/internal/domain/catalog"
	"github.com/kailas-cloud/recodex/internal/domain/recommendation"
)

// resolveTarget finds the product a query refers to: the first exact name
// match, otherwise the first product whose name contains the query
// case-insensitively. Both scans follow catalog order.
func resolveTarget(snap *domcat.Snapshot, query string) (int, recommendation.Match) {
	for i, p := range snap.All() {
		if p.Name() == query {
			return i, recommendation.MatchExact
		}
	}

	needle := strings.ToLower(query)
	for i, p := range snap.All() {
		if strings.Contains(strings.ToLower(p.Name()), needle) {
			return i, recommendation.MatchSubstring
		}
	}

	return -1, recommendation.MatchNone
}
