package archive

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/ncaam/cbb-mcp/internal/metrics"
	"github.com/ncaam/cbb-mcp/internal/models"
)

// GameRepository handles game archive operations.
type GameRepository struct {
	db *Database
}

// Upsert inserts or updates one game snapshot.
func (r *GameRepository) Upsert(ctx context.Context, game models.Game, season int) error {
	query := `
		INSERT INTO games (
			game_id, game_date, season, status, status_detail, venue,
			neutral_site, conference_game, notes,
			home_team_id, home_team_name, home_score, home_rank,
			away_team_id, away_team_name, away_score, away_rank
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (game_id) DO UPDATE SET
			game_date = EXCLUDED.game_date,
			season = EXCLUDED.season,
			status = EXCLUDED.status,
			status_detail = EXCLUDED.status_detail,
			venue = EXCLUDED.venue,
			neutral_site = EXCLUDED.neutral_site,
			conference_game = EXCLUDED.conference_game,
			notes = EXCLUDED.notes,
			home_team_id = EXCLUDED.home_team_id,
			home_team_name = EXCLUDED.home_team_name,
			home_score = EXCLUDED.home_score,
			home_rank = EXCLUDED.home_rank,
			away_team_id = EXCLUDED.away_team_id,
			away_team_name = EXCLUDED.away_team_name,
			away_score = EXCLUDED.away_score,
			away_rank = EXCLUDED.away_rank,
			updated_at = NOW()
	`

	start := time.Now()
	_, err := r.db.Pool.Exec(
		ctx, query,
		game.ID, game.Date, season, game.Status, game.StatusDetail, game.Venue,
		game.NeutralSite, game.ConferenceGame, game.Notes,
		game.Home.TeamID, game.Home.TeamName, game.Home.Score, game.Home.Rank,
		game.Away.TeamID, game.Away.TeamName, game.Away.Score, game.Away.Rank,
	)
	metrics.ArchiveWriteDuration.WithLabelValues("games").Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ArchiveWritesTotal.WithLabelValues("games", "error").Inc()
		return fmt.Errorf("failed to upsert game %s: %w", game.ID, err)
	}
	metrics.ArchiveWritesTotal.WithLabelValues("games", "ok").Inc()

	log.Debug().
		Str("game_id", game.ID).
		Str("home", game.Home.TeamName).
		Str("away", game.Away.TeamName).
		Msg("Game archived")
	return nil
}

// GetByGameID retrieves one archived game.
func (r *GameRepository) GetByGameID(ctx context.Context, gameID string) (*models.Game, error) {
	query := `
		SELECT game_id, game_date, status, status_detail, venue,
		       neutral_site, conference_game, notes,
		       home_team_id, home_team_name, home_score, home_rank,
		       away_team_id, away_team_name, away_score, away_rank
		FROM games
		WHERE game_id = $1
	`

	var game models.Game
	err := r.db.Pool.QueryRow(ctx, query, gameID).Scan(
		&game.ID, &game.Date, &game.Status, &game.StatusDetail, &game.Venue,
		&game.NeutralSite, &game.ConferenceGame, &game.Notes,
		&game.Home.TeamID, &game.Home.TeamName, &game.Home.Score, &game.Home.Rank,
		&game.Away.TeamID, &game.Away.TeamName, &game.Away.Score, &game.Away.Rank,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("game not found: %s", gameID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game %s: %w", gameID, err)
	}
	return &game, nil
}

// ListByDate returns archived games whose date starts with the given
// YYYY-MM-DD day.
func (r *GameRepository) ListByDate(ctx context.Context, date string) ([]models.Game, error) {
	query := `
		SELECT game_id, game_date, status, status_detail, venue,
		       neutral_site, conference_game, notes,
		       home_team_id, home_team_name, home_score, home_rank,
		       away_team_id, away_team_name, away_score, away_rank
		FROM games
		WHERE game_date LIKE $1 || '%'
		ORDER BY game_date, game_id
	`

	rows, err := r.db.Pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list games for %s: %w", date, err)
	}
	defer rows.Close()

	var games []models.Game
	for rows.Next() {
		var game models.Game
		if err := rows.Scan(
			&game.ID, &game.Date, &game.Status, &game.StatusDetail, &game.Venue,
			&game.NeutralSite, &game.ConferenceGame, &game.Notes,
			&game.Home.TeamID, &game.Home.TeamName, &game.Home.Score, &game.Home.Rank,
			&game.Away.TeamID, &game.Away.TeamName, &game.Away.Score, &game.Away.Rank,
		); err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read game rows: %w", err)
	}
	return games, nil
}

// TeamNames returns the distinct home and away team names seen in the
// archive, for the nightly team refresh.
func (r *GameRepository) TeamNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT home_team_name FROM games
		UNION
		SELECT away_team_name FROM games
		ORDER BY 1
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list team names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan team name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read team names: %w", err)
	}
	return names, nil
}
