package sources

import (
	"context"

	"github.com/ncaam/cbb-mcp/internal/models"
)

// Source is the common surface shared by all data providers. Lower priority
// values are tried first by the resolver.
type Source interface {
	Name() string
	Priority() int
	Capabilities() CapabilitySet
}

// The provider interfaces below are narrow views of a source, one per
// capability. A source implements only the interfaces matching its declared
// capability set; the resolver type-asserts against them when dispatching.

// ScoreboardProvider serves the scoreboard for a date, optionally filtered to
// a conference group and top-25 matchups. date is YYYYMMDD.
type ScoreboardProvider interface {
	LiveScores(ctx context.Context, date, conference string, top25 bool) ([]models.Game, error)
}

// TeamInfoProvider serves core team metadata by canonical team ID.
type TeamInfoProvider interface {
	TeamInfo(ctx context.Context, teamID string) (*models.Team, error)
}

// TeamSearchProvider searches teams by name, abbreviation, nickname or
// location. It is also used to build the fuzzy-lookup directory, where
// query is empty and every team is returned.
type TeamSearchProvider interface {
	SearchTeams(ctx context.Context, query, conference string) ([]models.Team, error)
}

// RosterProvider serves the current roster for a team.
type RosterProvider interface {
	Roster(ctx context.Context, teamID string) ([]models.Player, error)
}

// ScheduleProvider serves a team's schedule for a season. season == 0 means
// the current season.
type ScheduleProvider interface {
	Schedule(ctx context.Context, teamID string, season int) ([]models.Game, error)
}

// GameDetailProvider serves a single game summary by game ID.
type GameDetailProvider interface {
	GameDetail(ctx context.Context, gameID string) (*models.Game, error)
}

// BoxScoreProvider serves full team and player box scores for a game.
type BoxScoreProvider interface {
	BoxScore(ctx context.Context, gameID string) (*models.BoxScore, error)
}

// PlayByPlayProvider serves the play log for a game.
type PlayByPlayProvider interface {
	PlayByPlay(ctx context.Context, gameID string) (*models.PlayByPlay, error)
}

// RankingsProvider serves one poll by type ("ap", "coaches"). season == 0
// means the current season; week == 0 means the latest week.
type RankingsProvider interface {
	Rankings(ctx context.Context, pollType string, season, week int) (*models.Poll, error)
}

// StandingsProvider serves conference standings. conference is a shorthand
// such as "ACC"; empty means all of Division I.
type StandingsProvider interface {
	Standings(ctx context.Context, conference string) ([]models.ConferenceStandings, error)
}

// TeamStatsProvider serves season-level team statistics.
type TeamStatsProvider interface {
	TeamStats(ctx context.Context, teamID string, season int) (*models.TeamStats, error)
}

// PlayerStatsProvider serves season averages for a team's players. A
// non-empty playerID restricts the result to that player.
type PlayerStatsProvider interface {
	PlayerStats(ctx context.Context, playerID, teamID string) ([]models.PlayerStats, error)
}

// StatLeadersProvider serves national leaders for a stat category.
type StatLeadersProvider interface {
	StatLeaders(ctx context.Context, category string, season int) ([]models.StatLeader, error)
}
