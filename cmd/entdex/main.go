package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/entdex/internal/accessor"
	"github.com/kailas-cloud/entdex/internal/cache"
	cacheMemory "github.com/kailas-cloud/entdex/internal/cache/memory"
	cacheRedis "github.com/kailas-cloud/entdex/internal/cache/redis"
	"github.com/kailas-cloud/entdex/internal/config"
	"github.com/kailas-cloud/entdex/internal/domain/metadata"
	"github.com/kailas-cloud/entdex/internal/engine/es"
	idxpkg "github.com/kailas-cloud/entdex/internal/index"
	"github.com/kailas-cloud/entdex/internal/indexer"
	"github.com/kailas-cloud/entdex/internal/loader"
	logpkg "github.com/kailas-cloud/entdex/internal/logger"
	"github.com/kailas-cloud/entdex/internal/metrics"
	metaRepo "github.com/kailas-cloud/entdex/internal/repository/metadata"
	"github.com/kailas-cloud/entdex/internal/search"
	chiTransport "github.com/kailas-cloud/entdex/internal/transport/chi"
	"github.com/kailas-cloud/entdex/internal/version"
)

func main() {
	// Load configuration based on ENV
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

	logger.Info("Starting entdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("engine_addrs", cfg.Engine.Addresses),
		zap.String("cache_driver", cfg.Cache.Driver),
	)

	ctx := context.Background()

	// Create metadata cache store based on driver.
	// Pass nil interface (not typed nil pointer!) for the health probe
	// when the store has no connectivity to check.
	var store cache.Store
	var cachePing interface {
		Ping(ctx context.Context) error
	}
	switch cfg.Cache.Driver {
	case "redis":
		redisStore, err := cacheRedis.NewStore(cacheRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer redisStore.Close()

		timeout := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := redisStore.WaitForReady(ctx, timeout); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to cache")
		store = redisStore
		cachePing = redisStore
	case "memory":
		store = cacheMemory.NewStore()
	default:
		logger.Fatal("Unknown cache driver", zap.String("driver", cfg.Cache.Driver))
	}

	// Register engine metrics explicitly (no init())
	metrics.RegisterEngineMetrics()

	engineClient, err := es.NewClient(es.Config{
		Addresses: cfg.Engine.Addresses,
		Username:  cfg.Engine.Username,
		Password:  cfg.Engine.Password,
	}, logger, metrics.EngineRequestsTotal, metrics.EngineRequestDuration)
	if err != nil {
		logger.Fatal("Failed to create engine client", zap.Error(err))
	}

	languages, err := cfg.BuildLanguages()
	if err != nil {
		logger.Fatal("Invalid language configuration", zap.Error(err))
	}
	analyzers, err := cfg.BuildAnalysis()
	if err != nil {
		logger.Fatal("Invalid analysis configuration", zap.Error(err))
	}

	// Metadata registry, hydrated from the cache snapshot when present,
	// regenerated from the item definitions otherwise.
	registry := metaRepo.NewRegistry(ctx, store, logger)
	generator := metaRepo.NewGenerator(registry, func(context.Context) ([]*metadata.Item, error) {
		return cfg.BuildItems()
	}, logger)

	// Entity loaders. The static in-memory loader is the fallback;
	// embedding applications register their own loaders by name.
	loaders := loader.NewRegistry(loader.NewStatic())

	values := accessor.NewValues()

	idx := indexer.New(registry, engineClient, languages, values, nil, logger).
		WithMetrics(metrics.DocumentsIndexedTotal)
	mapping := idxpkg.NewMapping(registry, engineClient, languages, analyzers, logger)
	reindexer := idxpkg.NewReindexer(registry, generator, mapping, loaders, idx, logger)

	searchClient := search.NewClient(registry, engineClient, languages, loaders, generator, logger)
	searcher := search.NewInstrumentedSearcher(searchClient, metrics.SearchesTotal, metrics.SearchDuration)

	// Create chi server
	server := chiTransport.NewServer(searcher, reindexer, registry, engineClient, cachePing, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
