package archive

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ncaam/cbb-mcp/internal/metrics"
	"github.com/ncaam/cbb-mcp/internal/models"
)

// TeamRepository handles team archive operations.
type TeamRepository struct {
	db *Database
}

// Upsert inserts or updates one team.
func (r *TeamRepository) Upsert(ctx context.Context, team models.Team) error {
	query := `
		INSERT INTO teams (
			team_id, name, abbreviation, mascot, conference,
			wins, losses, conf_wins, conf_losses, venue_name
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (team_id) DO UPDATE SET
			name = EXCLUDED.name,
			abbreviation = EXCLUDED.abbreviation,
			mascot = EXCLUDED.mascot,
			conference = EXCLUDED.conference,
			wins = EXCLUDED.wins,
			losses = EXCLUDED.losses,
			conf_wins = EXCLUDED.conf_wins,
			conf_losses = EXCLUDED.conf_losses,
			venue_name = EXCLUDED.venue_name,
			updated_at = NOW()
	`

	start := time.Now()
	_, err := r.db.Pool.Exec(
		ctx, query,
		team.ID, team.Name, team.Abbreviation, team.Mascot, team.Conference,
		team.Record.Wins, team.Record.Losses,
		team.Record.ConferenceWins, team.Record.ConferenceLosses,
		team.Venue.Name,
	)
	metrics.ArchiveWriteDuration.WithLabelValues("teams").Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ArchiveWritesTotal.WithLabelValues("teams", "error").Inc()
		return fmt.Errorf("failed to upsert team %s: %w", team.ID, err)
	}
	metrics.ArchiveWritesTotal.WithLabelValues("teams", "ok").Inc()
	return nil
}

// GetByTeamID retrieves one archived team.
func (r *TeamRepository) GetByTeamID(ctx context.Context, teamID string) (*models.Team, error) {
	query := `
		SELECT team_id, name, abbreviation, mascot, conference,
		       wins, losses, conf_wins, conf_losses, venue_name
		FROM teams
		WHERE team_id = $1
	`

	var team models.Team
	err := r.db.Pool.QueryRow(ctx, query, teamID).Scan(
		&team.ID, &team.Name, &team.Abbreviation, &team.Mascot, &team.Conference,
		&team.Record.Wins, &team.Record.Losses,
		&team.Record.ConferenceWins, &team.Record.ConferenceLosses,
		&team.Venue.Name,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("team not found: %s", teamID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team %s: %w", teamID, err)
	}
	return &team, nil
}
