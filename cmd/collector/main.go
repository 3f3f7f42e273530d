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

	"github.com/ncaam/cbb-mcp/internal/archive"
	"github.com/ncaam/cbb-mcp/internal/cache"
	"github.com/ncaam/cbb-mcp/internal/config"
	"github.com/ncaam/cbb-mcp/internal/httpx"
	"github.com/ncaam/cbb-mcp/internal/ratelimit"
	"github.com/ncaam/cbb-mcp/internal/resolver"
	"github.com/ncaam/cbb-mcp/internal/scheduler"
	"github.com/ncaam/cbb-mcp/internal/services"
	"github.com/ncaam/cbb-mcp/internal/sources"
)

const userAgent = "cbb-collector/1.0"

func main() {
	setupLogger()

	log.Info().Msg("Starting college basketball archive collector")

	cfg := config.MustLoad()
	log.Info().
		Str("env", cfg.AppEnv).
		Str("database", cfg.DatabaseName).
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

	db, err := archive.NewDatabase(ctx, cfg.DatabaseDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to archive database")
	}
	defer db.Close()

	client := httpx.NewClient(userAgent, httpx.WithTimeout(cfg.HTTPTimeout))
	limits := ratelimit.NewRegistry(cfg.DefaultRateLimit, cfg.RateLimits())
	r := resolver.New(limits,
		sources.NewESPN(client),
		sources.NewNCAA(client),
		sources.NewESPNCore(client),
	)

	var store cache.Store
	if disk, err := cache.NewDiskStore(cfg.CacheDir); err != nil {
		log.Warn().Err(err).Msg("Disk cache unavailable, running without persistence")
	} else {
		store = disk
	}
	c := cache.New(store, cfg.CacheEnabled)
	svc := services.New(r, c)
	archiver := archive.NewArchiver(db, svc)

	if cfg.EnableMetrics {
		go startMetricsServer(cfg.MetricsPort)
	}

	// Archive today's slate once on startup so a fresh deployment is not
	// empty until the first tick.
	today := time.Now().Format("2006-01-02")
	if _, err := archiver.ArchiveDate(ctx, today); err != nil {
		log.Error().Err(err).Msg("Initial archive pass failed, continuing anyway...")
	}

	sched := scheduler.NewScheduler(cfg, c, svc, archiver)
	if err := sched.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	<-ctx.Done()

	log.Info().Msg("Shutting down scheduler...")
	sched.Stop()
	log.Info().Msg("Collector shutdown complete")
}

// setupLogger configures the zerolog logger
func setupLogger() {
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsedLevel, err := zerolog.ParseLevel(lvl)
		if err == nil {
			level = parsedLevel
		}
	}
	zerolog.SetGlobalLevel(level)
}

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
