package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recodex/internal/config"
	"github.com/kailas-cloud/recodex/internal/db"
	"github.com/kailas-cloud/recodex/internal/db/memory"
	dbRedis "github.com/kailas-cloud/recodex/internal/db/redis"
	domcat "github.com/kailas-cloud/recodex/internal/domain/catalog"
	"github.com/kailas-cloud/recodex/internal/domain/textvec"
	logpkg "github.com/kailas-cloud/recodex/internal/logger"
	"github.com/kailas-cloud/recodex/internal/metrics"
	catrepo "github.com/kailas-cloud/recodex/internal/repository/catalog"
	"github.com/kailas-cloud/recodex/internal/repository/reccache"
	chiTransport "github.com/kailas-cloud/recodex/internal/transport/chi"
	"github.com/kailas-cloud/recodex/internal/usecase/browse"
	catalogu "github.com/kailas-cloud/recodex/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/recodex/internal/usecase/health"
	"github.com/kailas-cloud/recodex/internal/usecase/recommend"
	"github.com/kailas-cloud/recodex/internal/usecase/trending"
	"github.com/kailas-cloud/recodex/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting recodex API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog", cfg.Catalog.Path),
		zap.String("trending", cfg.Catalog.TrendingPath),
		zap.String("cache_driver", cfg.Cache.Driver),
	)

	// Registered explicitly; HTTP metrics register themselves.
	metrics.RegisterRecommendMetrics()

	ctx := context.Background()

	// Data files. Missing files are logged and served as empty tables.
	products := domcat.NewHolder(nil)
	trendingItems := domcat.NewHolder(nil)
	catalogSvc := catalogu.New(catrepo.NewLoader(logger), logger,
		catalogu.Table{Name: "catalog", Path: cfg.Catalog.Path, Holder: products},
		catalogu.Table{Name: "trending", Path: cfg.Catalog.TrendingPath, Holder: trendingItems},
	)
	catalogSvc.Load(ctx)

	// Recommendation engine, optionally behind the outcome cache.
	engine := recommend.New(textvec.New(), logger).WithConfig(recommend.Config{
		DefaultTopN:  cfg.Recommend.DefaultTopN,
		MaxTopN:      cfg.Recommend.MaxTopN,
		FallbackSize: cfg.Recommend.FallbackSize,
	})

	store := buildCacheStore(ctx, cfg.Cache, logger)
	var recommender chiTransport.Recommender = engine
	var cachePinger healthuc.CachePinger
	if store != nil {
		defer store.Close()
		recommender = reccache.New(engine, store, metrics.RecommendCacheTotal, logger).
			WithTTL(cfg.Cache.TTL()).
			WithKeyPrefix(cfg.Cache.KeyPrefix)
		cachePinger = store
	}

	browseSvc := browse.New(browse.Config{
		SuggestMinLength: cfg.Suggest.MinLength,
		SuggestLimit:     cfg.Suggest.MaxResults,
		PageSize:         cfg.Listing.DefaultPageSize,
		MaxPageSize:      cfg.Listing.MaxPageSize,
	})
	trendingSvc := trending.New(trendingItems)
	healthSvc := healthuc.New(products, cachePinger)

	server := chiTransport.NewServer(products, browseSvc, recommender, trendingSvc, healthSvc, logger).
		WithReloader(catalogSvc).
		WithTrendingLimit(cfg.Listing.TrendingLimit)

	router := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		CORSOrigins:       cfg.CORS.AllowedOrigins,
		RateLimitRequests: cfg.RateLimit.Requests,
		RateLimitWindow:   cfg.RateLimit.Window(),
		RateLimitDisabled: cfg.RateLimit.Disabled,
		AdminKeys:         cfg.Auth.AdminKeys,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	// Hot reload
	hup := make(chan os.Signal, 1)
	if cfg.Catalog.ReloadOnSignal {
		signal.Notify(hup, syscall.SIGHUP)
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	for running := true; running; {
		select {
		case <-hup:
			logger.Info("Received SIGHUP, reloading data files")
			catalogSvc.Reload(ctx)
		case <-quit:
			logger.Info("Received shutdown signal")
			running = false
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildCacheStore creates the recommendation cache store for the configured
// driver. It returns nil when caching is disabled or Redis is unreachable:
// the service then runs uncached.
func buildCacheStore(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) db.Store {
	switch cfg.Driver {
	case config.CacheMemory:
		logger.Info("Using in-memory recommendation cache", zap.Duration("ttl", cfg.TTL()))
		return memory.NewStore(time.Duration(cfg.SweepSec) * time.Second)

	case config.CacheRedis:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
		if err != nil {
			logger.Error("Failed to create cache store, running uncached", zap.Error(err))
			return nil
		}
		if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
			logger.Error("Cache store not ready, running uncached", zap.Strings("addrs", cfg.Addrs), zap.Error(err))
			store.Close()
			return nil
		}
		logger.Info("Connected to cache store", zap.Strings("addrs", cfg.Addrs), zap.Duration("ttl", cfg.TTL()))
		return store

	default:
		logger.Info("Recommendation cache disabled")
		return nil
	}
}
