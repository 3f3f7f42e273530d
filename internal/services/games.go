package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ncaam/cbb-mcp/internal/models"
	"github.com/ncaam/cbb-mcp/internal/sources"
)

// LiveScores returns the scoreboard for a date (YYYY-MM-DD), optionally
// filtered to a conference or to games with a ranked team.
func (s *Service) LiveScores(ctx context.Context, date, conference string, top25 bool) ([]models.Game, error) {
	args := []string{date, conference, strconv.FormatBool(top25)}
	return cached(ctx, s, "live_scores", args, func(ctx context.Context) ([]models.Game, error) {
		return s.resolver.LiveScores(ctx, date, conference, top25)
	})
}

// GameDetail returns a single game summary.
func (s *Service) GameDetail(ctx context.Context, gameID string) (*models.Game, error) {
	return cached(ctx, s, "game_detail", []string{gameID}, func(ctx context.Context) (*models.Game, error) {
		return s.resolver.GameDetail(ctx, gameID)
	})
}

// BoxScore returns full team and player statistics for a game.
func (s *Service) BoxScore(ctx context.Context, gameID string) (*models.BoxScore, error) {
	return cached(ctx, s, "box_score", []string{gameID}, func(ctx context.Context) (*models.BoxScore, error) {
		return s.resolver.BoxScore(ctx, gameID)
	})
}

// PlayByPlay returns the ordered play log for a game.
func (s *Service) PlayByPlay(ctx context.Context, gameID string) (*models.PlayByPlay, error) {
	return cached(ctx, s, "play_by_play", []string{gameID}, func(ctx context.Context) (*models.PlayByPlay, error) {
		return s.resolver.PlayByPlay(ctx, gameID)
	})
}

// Tournament returns NCAA tournament games for a season. The slate is
// pulled from the opening-round date and filtered to tournament notes; if
// nothing matches the full slate is returned.
func (s *Service) Tournament(ctx context.Context, season int) ([]models.Game, error) {
	if season == 0 {
		season = sources.CurrentSeason
	}
	args := []string{strconv.Itoa(season)}
	return cached(ctx, s, "tournament", args, func(ctx context.Context) ([]models.Game, error) {
		date := fmt.Sprintf("%d-03-18", season)
		games, err := s.resolver.LiveScores(ctx, date, "", false)
		if err != nil {
			return nil, err
		}

		var tournament []models.Game
		for _, g := range games {
			notes := strings.ToLower(g.Notes)
			if strings.Contains(notes, "ncaa") || strings.Contains(notes, "tournament") {
				tournament = append(tournament, g)
			}
		}
		if len(tournament) == 0 {
			tournament = games
		}
		return tournament, nil
	})
}
