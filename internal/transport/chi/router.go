package chi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recodex/internal/metrics"
)

// RouterConfig holds the edge settings of the router.
type RouterConfig struct {
	CORSOrigins       []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool
	AdminKeys         []string
}

// NewRouter mounts the API on a chi router.
//
// Admin routes are mounted only when at least one non-empty admin key is
// configured.
func NewRouter(s *Server, cfg RouterConfig, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(jsonRecoverer(log))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(log))
	r.Use(metrics.Middleware())
	if len(cfg.CORSOrigins) > 0 {
		r.Use(corsMiddleware(cfg.CORSOrigins))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		if !cfg.RateLimitDisabled && cfg.RateLimitRequests > 0 && cfg.RateLimitWindow > 0 {
			r.Use(rateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
		}

		r.Get("/trending", s.ListTrending)
		r.Get("/products", s.ListProducts)
		r.Get("/products/random", s.RandomProducts)
		r.Get("/search", s.Search)
		r.Get("/suggest", s.Suggest)
		r.Get("/recommendations", s.Recommendations)

		if keys := nonEmpty(cfg.AdminKeys); len(keys) > 0 {
			r.Group(func(r chi.Router) {
				r.Use(BearerAuthMiddleware(keys))
				r.Post("/admin/reload", s.Reload)
			})
		}
	})

	return r
}

func nonEmpty(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}
