package services

import (
	"context"

	"github.com/ncaam/cbb-mcp/internal/models"
)

// GetTeamStats returns season statistics for a fuzzy-matched team.
func (s *Service) GetTeamStats(ctx context.Context, teamQuery string, season int) (*models.TeamStats, error) {
	team, err := s.teams.find(ctx, teamQuery)
	if err != nil {
		return nil, err
	}
	args := []string{team.ID, itoa(season)}
	return cached(ctx, s, "team_stats", args, func(ctx context.Context) (*models.TeamStats, error) {
		stats, err := s.resolver.TeamStats(ctx, team.ID, season)
		if err != nil {
			return nil, err
		}
		stats.TeamID = team.ID
		if stats.TeamName == "" {
			stats.TeamName = team.Name
		}
		return stats, nil
	})
}

// GetPlayerStats returns season averages for a team's players, highest
// scorers first. playerID restricts to a single player.
func (s *Service) GetPlayerStats(ctx context.Context, teamQuery, playerID string) ([]models.PlayerStats, error) {
	teamID := ""
	if teamQuery != "" {
		team, err := s.teams.find(ctx, teamQuery)
		if err != nil {
			return nil, err
		}
		teamID = team.ID
	}
	args := []string{teamID, playerID}
	return cached(ctx, s, "player_stats", args, func(ctx context.Context) ([]models.PlayerStats, error) {
		return s.resolver.PlayerStats(ctx, playerID, teamID)
	})
}

// GetStatLeaders returns the national leaders for a stat category.
func (s *Service) GetStatLeaders(ctx context.Context, category string, season int) ([]models.StatLeader, error) {
	args := []string{category, itoa(season)}
	return cached(ctx, s, "stat_leaders", args, func(ctx context.Context) ([]models.StatLeader, error) {
		return s.resolver.StatLeaders(ctx, category, season)
	})
}

type statComparison struct {
	label        string
	value        func(*models.TeamStats) float64
	higherBetter bool
}

var statComparisons = []statComparison{
	{"Points Per Game", func(t *models.TeamStats) float64 { return t.PPG }, true},
	{"Opp Points Per Game", func(t *models.TeamStats) float64 { return t.OppPPG }, false},
	{"FG%", func(t *models.TeamStats) float64 { return t.FGPct }, true},
	{"3PT%", func(t *models.TeamStats) float64 { return t.ThreePct }, true},
	{"FT%", func(t *models.TeamStats) float64 { return t.FTPct }, true},
	{"Rebounds Per Game", func(t *models.TeamStats) float64 { return t.RPG }, true},
	{"Assists Per Game", func(t *models.TeamStats) float64 { return t.APG }, true},
	{"Steals Per Game", func(t *models.TeamStats) float64 { return t.SPG }, true},
	{"Blocks Per Game", func(t *models.TeamStats) float64 { return t.BPG }, true},
	{"Turnovers Per Game", func(t *models.TeamStats) float64 { return t.TOPG }, false},
}

// CompareTeams builds a side-by-side comparison of two teams' season stats
// and marks which team holds the edge in each category.
func (s *Service) CompareTeams(ctx context.Context, team1Query, team2Query string) (*models.TeamComparison, error) {
	stats1, err := s.GetTeamStats(ctx, team1Query, 0)
	if err != nil {
		return nil, err
	}
	stats2, err := s.GetTeamStats(ctx, team2Query, 0)
	if err != nil {
		return nil, err
	}

	advantages := make(map[string]string, len(statComparisons))
	for _, cmp := range statComparisons {
		v1, v2 := cmp.value(stats1), cmp.value(stats2)
		switch {
		case v1 == v2:
			advantages[cmp.label] = "Even"
		case (v1 > v2) == cmp.higherBetter:
			advantages[cmp.label] = stats1.TeamName
		default:
			advantages[cmp.label] = stats2.TeamName
		}
	}

	return &models.TeamComparison{
		Team1:      *stats1,
		Team2:      *stats2,
		Advantages: advantages,
	}, nil
}
