package chi

import (
	"github.com/kailas-cloud/recodex/internal/domain/product"
	"github.com/kailas-cloud/recodex/internal/domain/recommendation"
	catalogu "github.com/kailas-cloud/recodex/internal/usecase/catalog"
)

// ErrorCode is a machine-readable error code.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeNotFound         ErrorCode = "not_found"
	CodeRateLimited      ErrorCode = "rate_limited"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ProductListResponse is an unpaged product list.
type ProductListResponse struct {
	Items []product.View `json:"items"`
	Count int            `json:"count"`
}

// PageResponse is one page of the catalog.
type PageResponse struct {
	Items   []product.View `json:"items"`
	Offset  int            `json:"offset"`
	Limit   int            `json:"limit"`
	Total   int            `json:"total"`
	HasMore bool           `json:"has_more"`
}

// SuggestResponse lists matching product names.
type SuggestResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}

// RecommendationItem is a product with its similarity score. Score is
// omitted for fallback items.
type RecommendationItem struct {
	product.View
	Score *float64 `json:"score,omitempty"`
}

// RecommendationResponse is the reply of GET /api/v1/recommendations.
type RecommendationResponse struct {
	Kind     recommendation.Kind  `json:"kind"`
	Query    string               `json:"query"`
	Match    recommendation.Match `json:"match,omitempty"`
	Target   *product.View        `json:"target,omitempty"`
	Fallback bool                 `json:"fallback"`
	Items    []RecommendationItem `json:"items"`
}

// HealthResponse reports component status.
type HealthResponse struct {
	Status   string            `json:"status"`
	Checks   map[string]string `json:"checks"`
	Products int               `json:"products"`
	Snapshot string            `json:"snapshot,omitempty"`
	Version  string            `json:"version"`
}

// ReloadTable is the outcome of reloading one data file.
type ReloadTable struct {
	Table     string `json:"table"`
	Source    string `json:"source"`
	Format    string `json:"format"`
	Found     bool   `json:"found"`
	Swapped   bool   `json:"swapped"`
	Rows      int    `json:"rows"`
	Loaded    int    `json:"loaded"`
	Skipped   int    `json:"skipped"`
	Malformed int    `json:"malformed"`
	Snapshot  string `json:"snapshot,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ReloadResponse is the reply of POST /api/v1/admin/reload.
type ReloadResponse struct {
	Tables []ReloadTable `json:"tables"`
}

func recommendationToResponse(query string, out recommendation.Outcome) RecommendationResponse {
	resp := RecommendationResponse{
		Kind:     out.Kind,
		Query:    query,
		Match:    out.Match,
		Target:   out.Target,
		Fallback: out.IsFallback(),
		Items:    make([]RecommendationItem, len(out.Items)),
	}
	for i, it := range out.Items {
		item := RecommendationItem{View: it.Product}
		if out.Kind == recommendation.Similar {
			score := it.Score
			item.Score = &score
		}
		resp.Items[i] = item
	}
	return resp
}

func reloadToResponse(results []catalogu.Result) ReloadResponse {
	resp := ReloadResponse{Tables: make([]ReloadTable, len(results))}
	for i, r := range results {
		t := ReloadTable{
			Table:     r.Table,
			Source:    r.Report.Source,
			Format:    r.Report.Format,
			Found:     r.Report.Found(),
			Swapped:   r.Swapped,
			Rows:      r.Report.Rows,
			Loaded:    r.Report.Loaded,
			Skipped:   r.Report.Skipped,
			Malformed: r.Report.Malformed,
			Snapshot:  r.Version,
		}
		if r.Report.Err != nil {
			t.Error = r.Report.Err.Error()
		}
		resp.Tables[i] = t
	}
	return resp
}
