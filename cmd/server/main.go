package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ncaam/cbb-mcp/internal/cache"
	"github.com/ncaam/cbb-mcp/internal/config"
	"github.com/ncaam/cbb-mcp/internal/httpx"
	"github.com/ncaam/cbb-mcp/internal/mcpserver"
	"github.com/ncaam/cbb-mcp/internal/predictor"
	"github.com/ncaam/cbb-mcp/internal/ratelimit"
	"github.com/ncaam/cbb-mcp/internal/resolver"
	"github.com/ncaam/cbb-mcp/internal/scheduler"
	"github.com/ncaam/cbb-mcp/internal/services"
	"github.com/ncaam/cbb-mcp/internal/sources"
)

const userAgent = "cbb-mcp/1.0"

func main() {
	setupLogger()

	log.Info().Msg("Starting college basketball MCP server")

	cfg := config.MustLoad()
	log.Info().
		Str("env", cfg.AppEnv).
		Str("transport", cfg.Transport).
		Str("cache_backend", cfg.CacheBackend).
		Msg("Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	c := newCache(ctx, cfg)
	svc := services.New(newResolver(cfg), c)
	pred := predictor.NewClient(cfg.PredictorURL, cfg.PredictorTimeout)
	if pred.Enabled() {
		log.Info().Str("url", cfg.PredictorURL).Msg("Predictor service configured")
	}

	if cfg.EnableMetrics {
		go startMetricsServer(cfg.MetricsPort)
	}

	if cfg.EnableScheduler {
		sched := scheduler.NewScheduler(cfg, c, svc, nil)
		if err := sched.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
		defer sched.Stop()
	}

	server := mcpserver.New(svc, pred, cfg.MaxConcurrentCalls)

	var err error
	switch cfg.Transport {
	case "http":
		err = server.ServeHTTP(ctx, cfg.HTTPAddr, cfg.AuthToken)
	default:
		err = server.Run(ctx)
	}
	if err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("MCP server stopped")
	}

	log.Info().Msg("Server shutdown complete")
}

// newResolver wires the upstream sources in priority order behind the
// per-source limiter registry.
func newResolver(cfg *config.Config) *resolver.Resolver {
	client := httpx.NewClient(userAgent, httpx.WithTimeout(cfg.HTTPTimeout))
	limits := ratelimit.NewRegistry(cfg.DefaultRateLimit, cfg.RateLimits())
	return resolver.New(limits,
		sources.NewESPN(client),
		sources.NewNCAA(client),
		sources.NewESPNCore(client),
	)
}

// newCache builds the two-tier cache. A failed Redis connection falls back
// to disk instead of aborting startup.
func newCache(ctx context.Context, cfg *config.Config) *cache.Cache {
	if !cfg.CacheEnabled {
		log.Info().Msg("Cache disabled")
		return cache.New(nil, false)
	}

	if cfg.CacheBackend == "redis" {
		store, err := cache.NewRedisStore(ctx, cfg.RedisURL, "cbb")
		if err == nil {
			log.Info().Msg("Redis cache connected")
			return cache.New(store, true)
		}
		log.Warn().Err(err).Msg("Failed to connect to Redis, falling back to disk cache")
	}

	store, err := cache.NewDiskStore(cfg.CacheDir)
	if err != nil {
		log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("Disk cache unavailable, running without persistence")
		return cache.New(nil, true)
	}
	log.Info().Str("dir", cfg.CacheDir).Msg("Disk cache ready")
	return cache.New(store, true)
}

// setupLogger configures the zerolog logger
func setupLogger() {
	// Pretty console logging in development
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	// Set log level
	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsedLevel, err := zerolog.ParseLevel(lvl)
		if err == nil {
			level = parsedLevel
		}
	}
	zerolog.SetGlobalLevel(level)
}

// startMetricsServer serves Prometheus metrics and a liveness endpoint.
func startMetricsServer(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	addr := fmt.Sprintf(":%d", port)
	log.Info().Str("addr", addr).Msg("Metrics server listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("Metrics server stopped")
	}
}
