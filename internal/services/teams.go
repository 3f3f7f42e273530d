package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/xrash/smetrics"

	"github.com/ncaam/cbb-mcp/internal/models"
	"github.com/ncaam/cbb-mcp/internal/resolver"
)

// fuzzyThreshold is the minimum token-sorted Jaro-Winkler similarity for a
// fuzzy team match.
const fuzzyThreshold = 0.8

// teamDirectory is a lazily built index of every team keyed by lowercased
// name, abbreviation and mascot, used for fuzzy lookups.
type teamDirectory struct {
	resolver *resolver.Resolver

	mu     sync.Mutex
	byName map[string]models.Team
}

func newTeamDirectory(r *resolver.Resolver) *teamDirectory {
	return &teamDirectory{resolver: r}
}

// ensure populates the directory on first use. A failed build is not
// cached; later lookups retry.
func (d *teamDirectory) ensure(ctx context.Context) map[string]models.Team {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.byName != nil {
		return d.byName
	}

	teams, err := d.resolver.SearchTeams(ctx, "", "")
	if err != nil {
		log.Debug().Err(err).Msg("Team directory build failed, falling back to direct lookups")
		return nil
	}

	index := make(map[string]models.Team, len(teams)*2)
	for _, t := range teams {
		index[strings.ToLower(t.Name)] = t
		if t.Abbreviation != "" {
			index[strings.ToLower(t.Abbreviation)] = t
		}
		if t.Mascot != "" {
			index[strings.ToLower(t.Mascot)] = t
		}
	}
	d.byName = index
	return index
}

// find resolves a query to a team: exact directory hit, then fuzzy match,
// then the search API.
func (d *teamDirectory) find(ctx context.Context, query string) (models.Team, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	index := d.ensure(ctx)

	if t, ok := index[q]; ok {
		return t, nil
	}

	if name, ok := bestFuzzyMatch(q, index); ok {
		return index[name], nil
	}

	teams, err := d.resolver.SearchTeams(ctx, query, "")
	if err == nil && len(teams) > 0 {
		return teams[0], nil
	}
	return models.Team{}, &TeamNotFoundError{Query: query}
}

// bestFuzzyMatch scores the query against every indexed name with
// token-sorted Jaro-Winkler, so "tar heels north carolina" still matches
// "north carolina tar heels".
func bestFuzzyMatch(query string, index map[string]models.Team) (string, bool) {
	sorted := tokenSort(query)
	best := ""
	bestScore := 0.0
	for name := range index {
		score := smetrics.JaroWinkler(sorted, tokenSort(name), 0.7, 4)
		if score > bestScore {
			best = name
			bestScore = score
		}
	}
	if bestScore >= fuzzyThreshold {
		return best, true
	}
	return "", false
}

func tokenSort(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// FindTeam resolves a free-form team query to a team via the fuzzy
// directory.
func (s *Service) FindTeam(ctx context.Context, query string) (models.Team, error) {
	return s.teams.find(ctx, query)
}

// GetTeam looks a team up by name and fills in full detail when the
// directory entry only carries identity fields.
func (s *Service) GetTeam(ctx context.Context, query string) (*models.Team, error) {
	args := []string{strings.ToLower(query)}
	return cached(ctx, s, "team_info", args, func(ctx context.Context) (*models.Team, error) {
		team, err := s.teams.find(ctx, query)
		if err != nil {
			return nil, err
		}
		if team.ID != "" && team.Record.Wins == 0 {
			if full, err := s.resolver.TeamInfo(ctx, team.ID); err == nil && full != nil {
				team = *full
			}
		}
		return &team, nil
	})
}

// SearchTeams searches by partial name, optionally restricted to a
// conference. Results are not cached; the directory already absorbs the
// common case.
func (s *Service) SearchTeams(ctx context.Context, query, conference string) ([]models.Team, error) {
	return s.resolver.SearchTeams(ctx, query, conference)
}

// GetRoster returns the matched team and its current roster.
func (s *Service) GetRoster(ctx context.Context, teamQuery string) (models.Team, []models.Player, error) {
	team, err := s.teams.find(ctx, teamQuery)
	if err != nil {
		return models.Team{}, nil, err
	}
	players, err := cached(ctx, s, "roster", []string{team.ID}, func(ctx context.Context) ([]models.Player, error) {
		return s.resolver.Roster(ctx, team.ID)
	})
	if err != nil {
		return models.Team{}, nil, err
	}
	return team, players, nil
}

// GetSchedule returns the matched team and its schedule for a season.
// season == 0 means the current season.
func (s *Service) GetSchedule(ctx context.Context, teamQuery string, season int) (models.Team, []models.Game, error) {
	team, err := s.teams.find(ctx, teamQuery)
	if err != nil {
		return models.Team{}, nil, err
	}
	args := []string{team.ID, itoa(season)}
	games, err := cached(ctx, s, "team_schedule", args, func(ctx context.Context) ([]models.Game, error) {
		return s.resolver.Schedule(ctx, team.ID, season)
	})
	if err != nil {
		return models.Team{}, nil, err
	}
	return team, games, nil
}
