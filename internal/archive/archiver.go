package archive

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ncaam/cbb-mcp/internal/metrics"
	"github.com/ncaam/cbb-mcp/internal/services"
	"github.com/ncaam/cbb-mcp/internal/sources"
)

// Archiver snapshots final games and team metadata from the service layer
// into the archive database.
type Archiver struct {
	db  *Database
	svc *services.Service
}

// NewArchiver creates an archiver over the given database and service layer.
func NewArchiver(db *Database, svc *services.Service) *Archiver {
	return &Archiver{db: db, svc: svc}
}

// ArchiveDate snapshots every final game on a YYYY-MM-DD date and returns
// how many games were written.
func (a *Archiver) ArchiveDate(ctx context.Context, date string) (int, error) {
	games, err := a.svc.LiveScores(ctx, date, "", false)
	if err != nil {
		return 0, fmt.Errorf("fetching scores for %s: %w", date, err)
	}

	archived := 0
	for _, game := range games {
		if !game.IsFinal() {
			continue
		}
		if err := a.db.Games.Upsert(ctx, game, sources.CurrentSeason); err != nil {
			log.Error().Err(err).Str("game_id", game.ID).Msg("Failed to archive game")
			continue
		}
		metrics.GamesArchived.Inc()
		archived++
	}

	log.Info().
		Str("date", date).
		Int("games", len(games)).
		Int("archived", archived).
		Msg("Archive pass complete")
	return archived, nil
}

// RefreshTeams re-resolves every team name seen in the archive and updates
// its metadata row. Lookup failures skip the team rather than aborting the
// refresh.
func (a *Archiver) RefreshTeams(ctx context.Context) error {
	names, err := a.db.Games.TeamNames(ctx)
	if err != nil {
		return err
	}

	refreshed := 0
	for _, name := range names {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		team, err := a.svc.GetTeam(ctx, name)
		if err != nil {
			log.Warn().Err(err).Str("team", name).Msg("Skipping team refresh")
			continue
		}
		if err := a.db.Teams.Upsert(ctx, *team); err != nil {
			log.Error().Err(err).Str("team", name).Msg("Failed to archive team")
			continue
		}
		refreshed++
	}

	log.Info().Int("teams", len(names)).Int("refreshed", refreshed).Msg("Team refresh complete")
	return nil
}
