package services

import (
	"context"

	"github.com/ncaam/cbb-mcp/internal/models"
)

// GetRankings returns a poll by type ("ap" or "coaches"). season and week
// of zero mean current.
func (s *Service) GetRankings(ctx context.Context, pollType string, season, week int) (*models.Poll, error) {
	args := []string{pollType, itoa(season), itoa(week)}
	return cached(ctx, s, "rankings", args, func(ctx context.Context) (*models.Poll, error) {
		return s.resolver.Rankings(ctx, pollType, season, week)
	})
}

// GetStandings returns conference standings; an empty conference means all
// of Division I.
func (s *Service) GetStandings(ctx context.Context, conference string) ([]models.ConferenceStandings, error) {
	return cached(ctx, s, "standings", []string{conference}, func(ctx context.Context) ([]models.ConferenceStandings, error) {
		return s.resolver.Standings(ctx, conference)
	})
}
