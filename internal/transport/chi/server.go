// Package chi is the HTTP transport: handlers, middleware and routing.
package chi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recodex/internal/domain"
	"github.com/kailas-cloud/recodex/internal/logger"
	browseuc "github.com/kailas-cloud/recodex/internal/usecase/browse"
	healthuc "github.com/kailas-cloud/recodex/internal/usecase/health"
	trendinguc "github.com/kailas-cloud/recodex/internal/usecase/trending"
	"github.com/kailas-cloud/recodex/internal/version"
)

// maxQueryLength bounds q parameters, in characters.
const maxQueryLength = 256

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers. Every handler reads the catalog snapshot
// once and serves the whole request from it.
type Server struct {
	catalog       CatalogSource
	browse        *browseuc.Service
	recommend     Recommender
	trending      *trendinguc.Service
	health        *healthuc.Service
	reload        Reloader
	trendingLimit int
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	catalog CatalogSource,
	browse *browseuc.Service,
	recommend Recommender,
	trending *trendinguc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		catalog:   catalog,
		browse:    browse,
		recommend: recommend,
		trending:  trending,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(errInvalidParameter, http.StatusBadRequest, CodeBadRequest),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, CodeValidationFailed),
	}
	return s
}

// WithReloader enables POST /api/v1/admin/reload.
func (s *Server) WithReloader(r Reloader) *Server {
	s.reload = r
	return s
}

// WithTrendingLimit sets the default number of trending items (0 = all).
func (s *Server) WithTrendingLimit(n int) *Server {
	s.trendingLimit = max(n, 0)
	return s
}

// ListTrending handles GET /api/v1/trending. A zero or missing limit uses
// the configured default.
func (s *Server) ListTrending(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if limit == 0 {
		limit = s.trendingLimit
	}

	items := s.trending.Top(limit)
	writeJSON(w, http.StatusOK, ProductListResponse{Items: items, Count: len(items)})
}

// ListProducts handles GET /api/v1/products.
func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request) {
	offset, err := intParam(r, "offset", 0)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	page := s.browse.List(s.catalog.Load(), offset, limit)
	writeJSON(w, http.StatusOK, PageResponse{
		Items:   page.Items,
		Offset:  page.Offset,
		Limit:   page.Limit,
		Total:   page.Total,
		HasMore: page.Offset+len(page.Items) < page.Total,
	})
}

// RandomProducts handles GET /api/v1/products/random.
func (s *Server) RandomProducts(w http.ResponseWriter, r *http.Request) {
	n, err := intParam(r, "n", 0)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := s.browse.Random(s.catalog.Load(), n)
	writeJSON(w, http.StatusOK, ProductListResponse{Items: items, Count: len(items)})
}

// Search handles GET /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	q, err := queryParam(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := s.browse.Search(s.catalog.Load(), q, limit)
	writeJSON(w, http.StatusOK, ProductListResponse{Items: items, Count: len(items)})
}

// Suggest handles GET /api/v1/suggest.
func (s *Server) Suggest(w http.ResponseWriter, r *http.Request) {
	q, err := queryParam(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SuggestResponse{
		Query:       q,
		Suggestions: s.browse.Suggest(s.catalog.Load(), q),
	})
}

// Recommendations handles GET /api/v1/recommendations.
func (s *Server) Recommendations(w http.ResponseWriter, r *http.Request) {
	q, err := queryParam(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	topN, err := intParam(r, "top_n", 0)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	out := s.recommend.Recommend(r.Context(), s.catalog.Load(), q, topN)

	w.Header().Set("X-Recommendation-Kind", string(out.Kind))
	writeJSON(w, http.StatusOK, recommendationToResponse(q, out))
}

// Reload handles POST /api/v1/admin/reload.
func (s *Server) Reload(w http.ResponseWriter, r *http.Request) {
	if s.reload == nil {
		writeError(w, http.StatusNotFound, CodeNotFound, "reload is not enabled")
		return
	}

	results := s.reload.Reload(r.Context())
	s.logger.Info("Catalog reloaded via API",
		zap.String("request_id", chiMiddleware.GetReqID(r.Context())),
		zap.Int("tables", len(results)),
	)
	writeJSON(w, http.StatusOK, reloadToResponse(results))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:   string(report.Status),
		Checks:   checks,
		Products: report.Products,
		Snapshot: report.Snapshot,
		Version:  version.Version,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// queryParam returns the trimmed q parameter.
func queryParam(r *http.Request) (string, error) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if !utf8.ValidString(q) {
		return "", fmt.Errorf("%w: q must be valid UTF-8", domain.ErrInvalidQuery)
	}
	if utf8.RuneCountInString(q) > maxQueryLength {
		return "", fmt.Errorf("%w: q must be at most %d characters", domain.ErrInvalidQuery, maxQueryLength)
	}
	return q, nil
}

// intParam parses a non-negative integer parameter, returning def when absent.
// errInvalidParameter marks a query parameter that is not a non-negative integer.
var errInvalidParameter = errors.New("invalid parameter")

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", errInvalidParameter, name)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative", errInvalidParameter, name)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-safe message. Validation errors are
// built from parameter names only, so their full text is safe to echo.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidQuery) || errors.Is(err, errInvalidParameter) {
		return err.Error()
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	log.Debug("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
