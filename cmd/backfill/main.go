// Command backfill archives final games for a date range in one shot. It is
// the manual counterpart of the collector's polling loop, for filling gaps
// after downtime.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ncaam/cbb-mcp/internal/archive"
	"github.com/ncaam/cbb-mcp/internal/cache"
	"github.com/ncaam/cbb-mcp/internal/config"
	"github.com/ncaam/cbb-mcp/internal/httpx"
	"github.com/ncaam/cbb-mcp/internal/ratelimit"
	"github.com/ncaam/cbb-mcp/internal/resolver"
	"github.com/ncaam/cbb-mcp/internal/services"
	"github.com/ncaam/cbb-mcp/internal/sources"
)

const dateLayout = "2006-01-02"

func main() {
	from := flag.String("from", "", "first date to archive (YYYY-MM-DD)")
	to := flag.String("to", "", "last date to archive (YYYY-MM-DD), defaults to -from")
	flag.Parse()

	start, err := time.Parse(dateLayout, *from)
	if err != nil {
		log.Fatal().Str("from", *from).Msg("A valid -from date is required")
	}
	end := start
	if *to != "" {
		end, err = time.Parse(dateLayout, *to)
		if err != nil {
			log.Fatal().Str("to", *to).Msg("Invalid -to date")
		}
	}
	if end.Before(start) {
		log.Fatal().Msg("-to must not be before -from")
	}

	ctx := context.Background()
	cfg := config.MustLoad()

	db, err := archive.NewDatabase(ctx, cfg.DatabaseDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to archive database")
	}
	defer db.Close()

	log.Info().Msg("Validating service health...")
	if err := db.Health(ctx); err != nil {
		log.Fatal().Err(err).Msg("Database health check failed")
	}

	client := httpx.NewClient("cbb-backfill/1.0", httpx.WithTimeout(cfg.HTTPTimeout))
	r := resolver.New(ratelimit.NewRegistry(cfg.DefaultRateLimit, cfg.RateLimits()),
		sources.NewESPN(client),
		sources.NewNCAA(client),
		sources.NewESPNCore(client),
	)
	svc := services.New(r, cache.New(nil, false))
	archiver := archive.NewArchiver(db, svc)

	total := 0
	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := d.Format(dateLayout)
		archived, err := archiver.ArchiveDate(ctx, date)
		if err != nil {
			log.Error().Err(err).Str("date", date).Msg("Skipping date")
			continue
		}
		total += archived
		days++
	}

	log.Info().
		Int("days", days).
		Int("games", total).
		Msg("Backfill complete")
}
