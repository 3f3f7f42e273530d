// Package scheduler runs the background jobs: cache sweeps, rankings
// prefetch, and the collector's archive polling.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/ncaam/cbb-mcp/internal/archive"
	"github.com/ncaam/cbb-mcp/internal/cache"
	"github.com/ncaam/cbb-mcp/internal/config"
	"github.com/ncaam/cbb-mcp/internal/metrics"
	"github.com/ncaam/cbb-mcp/internal/services"
)

// Scheduler manages periodic background work. The archiver is optional; when
// nil only the cache and prefetch jobs run.
type Scheduler struct {
	cfg      *config.Config
	cache    *cache.Cache
	svc      *services.Service
	archiver *archive.Archiver
	cron     *cron.Cron
	ticker   *time.Ticker
	stopChan chan struct{}
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg *config.Config, c *cache.Cache, svc *services.Service, archiver *archive.Archiver) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		cache:    c,
		svc:      svc,
		archiver: archiver,
		cron:     cron.New(),
		stopChan: make(chan struct{}),
	}
}

// Start registers the cron jobs and starts the archive polling ticker.
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	if _, err := s.cron.AddFunc(s.cfg.CacheSweepCron, func() {
		s.sweepCache()
	}); err != nil {
		return fmt.Errorf("failed to schedule cache sweep: %w", err)
	}

	if _, err := s.cron.AddFunc(s.cfg.RankingsPrefetchCron, func() {
		s.prefetchRankings(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule rankings prefetch: %w", err)
	}

	if s.archiver != nil {
		if _, err := s.cron.AddFunc(s.cfg.TeamRefreshCron, func() {
			log.Info().Msg("Running nightly team refresh...")
			if err := s.archiver.RefreshTeams(ctx); err != nil {
				log.Error().Err(err).Msg("Team refresh failed")
			}
		}); err != nil {
			return fmt.Errorf("failed to schedule team refresh: %w", err)
		}
	}

	s.cron.Start()
	log.Info().
		Str("cache_sweep", s.cfg.CacheSweepCron).
		Str("rankings_prefetch", s.cfg.RankingsPrefetchCron).
		Msg("Cron jobs scheduled")

	if s.archiver != nil {
		interval := time.Duration(s.cfg.ActiveGamePollInterval) * time.Second
		s.ticker = time.NewTicker(interval)
		log.Info().Dur("interval", interval).Msg("Archive polling started")
		go s.pollArchive(ctx)
	}

	return nil
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")

	if s.cron != nil {
		s.cron.Stop()
	}
	if s.ticker != nil {
		s.ticker.Stop()
	}

	close(s.stopChan)
	log.Info().Msg("Scheduler stopped")
}

// pollArchive snapshots today's final games on every tick.
func (s *Scheduler) pollArchive(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Context cancelled, stopping archive polling")
			return
		case <-s.stopChan:
			log.Info().Msg("Stop signal received, stopping archive polling")
			return
		case <-s.ticker.C:
			date := time.Now().Format("2006-01-02")
			if _, err := s.archiver.ArchiveDate(ctx, date); err != nil {
				log.Error().Err(err).Str("date", date).Msg("Archive poll failed")
			}
		}
	}
}

// sweepCache drops expired entries from the in-memory tier.
func (s *Scheduler) sweepCache() {
	start := time.Now()
	removed := s.cache.Sweep()
	metrics.CacheSweepRemovedTotal.Add(float64(removed))
	log.Info().
		Int("removed", removed).
		Dur("duration", time.Since(start)).
		Msg("Cache sweep complete")
}

// prefetchRankings warms the rankings cache so poll lookups stay fast even
// right after expiry.
func (s *Scheduler) prefetchRankings(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for _, poll := range []string{"ap", "coaches"} {
		if _, err := s.svc.GetRankings(ctx, poll, 0, 0); err != nil {
			log.Warn().Err(err).Str("poll", poll).Msg("Rankings prefetch failed")
		}
	}
	log.Debug().Msg("Rankings prefetch complete")
}
