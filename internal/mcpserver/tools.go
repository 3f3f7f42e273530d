package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"github.com/ncaam/cbb-mcp/internal/format"
	"github.com/ncaam/cbb-mcp/internal/metrics"
	"github.com/ncaam/cbb-mcp/internal/models"
	"github.com/ncaam/cbb-mcp/internal/services"
	"github.com/ncaam/cbb-mcp/internal/sources"
)

const (
	defaultLastPlays = 20
	maxLastPlays     = 500
)

type liveScoresInput struct {
	Date       string `json:"date,omitempty" jsonschema:"game date (YYYY-MM-DD, MM/DD/YYYY, MM-DD-YYYY, or YYYYMMDD); empty means today"`
	Conference string `json:"conference,omitempty" jsonschema:"restrict to one conference, e.g. ACC"`
	Top25      bool   `json:"top25,omitempty" jsonschema:"restrict to games involving ranked teams"`
}

type dateInput struct {
	Date       string `json:"date" jsonschema:"game date (YYYY-MM-DD, MM/DD/YYYY, MM-DD-YYYY, or YYYYMMDD)"`
	Conference string `json:"conference,omitempty" jsonschema:"restrict to one conference, e.g. ACC"`
}

type gameIDInput struct {
	GameID string `json:"game_id" jsonschema:"ESPN game identifier"`
}

type playByPlayInput struct {
	GameID    string `json:"game_id" jsonschema:"ESPN game identifier"`
	LastPlays *int   `json:"last_plays,omitempty" jsonschema:"number of most recent plays to show, 0 for all; default 20"`
}

type teamInput struct {
	Team string `json:"team" jsonschema:"team name, abbreviation, or mascot"`
}

type searchTeamsInput struct {
	Query      string `json:"query" jsonschema:"partial team name"`
	Conference string `json:"conference,omitempty" jsonschema:"restrict to one conference"`
}

type scheduleInput struct {
	Team   string `json:"team" jsonschema:"team name, abbreviation, or mascot"`
	Season int    `json:"season,omitempty" jsonschema:"season ending year; zero means current"`
}

type rankingsInput struct {
	Poll   string `json:"poll,omitempty" jsonschema:"poll type: ap or coaches, default ap"`
	Season int    `json:"season,omitempty" jsonschema:"season ending year; zero means current"`
	Week   int    `json:"week,omitempty" jsonschema:"poll week; zero means latest"`
}

type standingsInput struct {
	Conference string `json:"conference,omitempty" jsonschema:"conference name; empty means all of Division I"`
}

type playerStatsInput struct {
	Team     string `json:"team,omitempty" jsonschema:"team name, abbreviation, or mascot"`
	PlayerID string `json:"player_id,omitempty" jsonschema:"restrict to one player"`
}

type statLeadersInput struct {
	Category string `json:"category,omitempty" jsonschema:"stat category: scoring, rebounds, assists, steals, or blocks; default scoring"`
	Season   int    `json:"season,omitempty" jsonschema:"season ending year; zero means current"`
}

type compareTeamsInput struct {
	Team1 string `json:"team1" jsonschema:"first team name, abbreviation, or mascot"`
	Team2 string `json:"team2" jsonschema:"second team name, abbreviation, or mascot"`
}

type tournamentInput struct {
	Season int `json:"season,omitempty" jsonschema:"season ending year; zero means current"`
}

func (s *Server) registerTools() {
	addTool(s, "get_live_scores", "Get live and scheduled college basketball games for a date",
		func(ctx context.Context, in liveScoresInput) (string, error) {
			date, err := normalizeDate(in.Date)
			if err != nil {
				return "", err
			}
			if err := validateText("conference", in.Conference); err != nil {
				return "", err
			}
			games, err := s.svc.LiveScores(ctx, date, in.Conference, in.Top25)
			if err != nil {
				return "", err
			}
			header := "**College Basketball Scores — " + date + "**"
			if in.Conference != "" {
				header += " (" + in.Conference + ")"
			}
			if in.Top25 {
				header += " (Top 25 only)"
			}
			return header + "\n\n" + format.Scores(games), nil
		})

	addTool(s, "get_games_by_date", "Get all games played on a specific date",
		func(ctx context.Context, in dateInput) (string, error) {
			date, err := normalizeDate(in.Date)
			if err != nil {
				return "", err
			}
			if err := validateText("conference", in.Conference); err != nil {
				return "", err
			}
			games, err := s.svc.LiveScores(ctx, date, in.Conference, false)
			if err != nil {
				return "", err
			}
			if len(games) == 0 {
				return "No games scheduled for " + date + ".", nil
			}
			header := "**Games on " + date + "**"
			if in.Conference != "" {
				header += " (" + in.Conference + ")"
			}
			lines := []string{header, ""}
			for _, g := range games {
				line := format.Game(g)
				if g.Broadcast != "" {
					line += "  [TV: " + g.Broadcast + "]"
				}
				lines = append(lines, line)
			}
			return strings.Join(lines, "\n"), nil
		})

	addTool(s, "get_game_detail", "Get detail for a single game",
		func(ctx context.Context, in gameIDInput) (string, error) {
			if err := validateGameID(in.GameID); err != nil {
				return "", err
			}
			game, err := s.svc.GameDetail(ctx, in.GameID)
			if err != nil {
				return "", err
			}
			return format.Game(*game), nil
		})

	addTool(s, "get_box_score", "Get the full box score for a game",
		func(ctx context.Context, in gameIDInput) (string, error) {
			if err := validateGameID(in.GameID); err != nil {
				return "", err
			}
			box, err := s.svc.BoxScore(ctx, in.GameID)
			if err != nil {
				return "", err
			}
			return format.BoxScore(*box), nil
		})

	addTool(s, "get_play_by_play", "Get recent plays for a game",
		func(ctx context.Context, in playByPlayInput) (string, error) {
			if err := validateGameID(in.GameID); err != nil {
				return "", err
			}
			lastN := defaultLastPlays
			if in.LastPlays != nil {
				lastN = max(0, min(*in.LastPlays, maxLastPlays))
			}
			pbp, err := s.svc.PlayByPlay(ctx, in.GameID)
			if err != nil {
				return "", err
			}
			return format.PlayByPlay(*pbp, lastN), nil
		})

	addTool(s, "get_team", "Get information about a team",
		func(ctx context.Context, in teamInput) (string, error) {
			if err := validateText("team", in.Team); err != nil {
				return "", err
			}
			team, err := s.svc.GetTeam(ctx, in.Team)
			if err != nil {
				return "", err
			}
			return format.Team(*team), nil
		})

	addTool(s, "search_teams", "Search for teams by name",
		func(ctx context.Context, in searchTeamsInput) (string, error) {
			if err := validateText("query", in.Query); err != nil {
				return "", err
			}
			if err := validateText("conference", in.Conference); err != nil {
				return "", err
			}
			teams, err := s.svc.SearchTeams(ctx, in.Query, in.Conference)
			if err != nil {
				return "", err
			}
			return format.Teams(in.Query, teams), nil
		})

	addTool(s, "get_team_roster", "Get a team's current roster",
		func(ctx context.Context, in teamInput) (string, error) {
			if err := validateText("team", in.Team); err != nil {
				return "", err
			}
			team, players, err := s.svc.GetRoster(ctx, in.Team)
			if err != nil {
				return "", err
			}
			return format.Roster(team, players), nil
		})

	addTool(s, "get_team_schedule", "Get a team's schedule and results",
		func(ctx context.Context, in scheduleInput) (string, error) {
			if err := validateText("team", in.Team); err != nil {
				return "", err
			}
			if err := validateSeason(in.Season); err != nil {
				return "", err
			}
			team, games, err := s.svc.GetSchedule(ctx, in.Team, in.Season)
			if err != nil {
				return "", err
			}
			return format.Schedule(team, games), nil
		})

	addTool(s, "get_rankings", "Get the current top 25 poll",
		func(ctx context.Context, in rankingsInput) (string, error) {
			poll := strings.ToLower(in.Poll)
			if poll == "" {
				poll = "ap"
			}
			if poll != "ap" && poll != "coaches" {
				return "", &services.ValidationError{Message: "poll must be ap or coaches"}
			}
			if err := validateSeason(in.Season); err != nil {
				return "", err
			}
			ranked, err := s.svc.GetRankings(ctx, poll, in.Season, in.Week)
			if err != nil {
				return "", err
			}
			return format.Rankings(*ranked), nil
		})

	addTool(s, "get_standings", "Get conference standings",
		func(ctx context.Context, in standingsInput) (string, error) {
			if err := validateText("conference", in.Conference); err != nil {
				return "", err
			}
			standings, err := s.svc.GetStandings(ctx, in.Conference)
			if err != nil {
				return "", err
			}
			return format.Standings(standings), nil
		})

	addTool(s, "get_team_stats", "Get a team's season statistics",
		func(ctx context.Context, in scheduleInput) (string, error) {
			if err := validateText("team", in.Team); err != nil {
				return "", err
			}
			if err := validateSeason(in.Season); err != nil {
				return "", err
			}
			stats, err := s.svc.GetTeamStats(ctx, in.Team, in.Season)
			if err != nil {
				return "", err
			}
			return format.TeamStats(*stats), nil
		})

	addTool(s, "get_player_stats", "Get player season averages for a team",
		func(ctx context.Context, in playerStatsInput) (string, error) {
			if err := validateText("team", in.Team); err != nil {
				return "", err
			}
			if in.PlayerID != "" {
				if err := validateGameID(in.PlayerID); err != nil {
					return "", &services.ValidationError{Message: "player_id must be 1-30 alphanumeric characters, dashes, or underscores"}
				}
			}
			players, err := s.svc.GetPlayerStats(ctx, in.Team, in.PlayerID)
			if err != nil {
				return "", err
			}
			return format.PlayerStats(players), nil
		})

	addTool(s, "get_stat_leaders", "Get national statistical leaders",
		func(ctx context.Context, in statLeadersInput) (string, error) {
			category := strings.ToLower(in.Category)
			if category == "" {
				category = "scoring"
			}
			if err := validateText("category", category); err != nil {
				return "", err
			}
			if err := validateSeason(in.Season); err != nil {
				return "", err
			}
			leaders, err := s.svc.GetStatLeaders(ctx, category, in.Season)
			if err != nil {
				return "", err
			}
			return format.StatLeaders(leaders), nil
		})

	addTool(s, "compare_teams", "Compare two teams' season statistics",
		func(ctx context.Context, in compareTeamsInput) (string, error) {
			if err := validateText("team1", in.Team1); err != nil {
				return "", err
			}
			if err := validateText("team2", in.Team2); err != nil {
				return "", err
			}
			comp, err := s.svc.CompareTeams(ctx, in.Team1, in.Team2)
			if err != nil {
				return "", err
			}
			return format.Comparison(*comp), nil
		})

	addTool(s, "get_tournament_bracket", "Get NCAA tournament games for a season",
		func(ctx context.Context, in tournamentInput) (string, error) {
			if err := validateSeason(in.Season); err != nil {
				return "", err
			}
			season := in.Season
			if season == 0 {
				season = sources.CurrentSeason
			}
			games, err := s.svc.Tournament(ctx, season)
			if err != nil {
				return "", err
			}
			if len(games) == 0 {
				return fmt.Sprintf("No tournament data available for the %d season yet. The NCAA Tournament typically begins in mid-March.", season), nil
			}
			lines := []string{fmt.Sprintf("**%d NCAA Tournament**\n", season)}
			for _, g := range games {
				round := g.Notes
				if round == "" {
					round = "Tournament"
				}
				lines = append(lines, round+": "+format.Game(g))
			}
			return strings.Join(lines, "\n"), nil
		})

	addTool(s, "get_win_probability", "Get the model's live win probability for a game",
		func(ctx context.Context, in gameIDInput) (string, error) {
			if err := validateGameID(in.GameID); err != nil {
				return "", err
			}
			return s.winProbability(ctx, in.GameID)
		})

	addTool(s, "explain_win_probability", "Explain which factors favor which team in a game",
		func(ctx context.Context, in gameIDInput) (string, error) {
			if err := validateGameID(in.GameID); err != nil {
				return "", err
			}
			game, err := s.svc.GameDetail(ctx, in.GameID)
			if err != nil {
				return "", err
			}
			return explainFactors(*game), nil
		})
}

// explainFactors builds a narrative of the signals the model weighs for a
// game, without calling the model itself.
func explainFactors(game models.Game) string {
	home := game.Home.TeamName
	away := game.Away.TeamName
	diff := game.Home.Score - game.Away.Score

	var factors []string
	switch {
	case diff > 0:
		factors = append(factors, fmt.Sprintf("- %s leads by %d points (advantage %s)", home, diff, home))
	case diff < 0:
		factors = append(factors, fmt.Sprintf("- %s leads by %d points (advantage %s)", away, -diff, away))
	default:
		factors = append(factors, "- Game is tied (neutral)")
	}

	if game.Home.Rank != nil && game.Away.Rank != nil {
		if *game.Home.Rank < *game.Away.Rank {
			factors = append(factors, fmt.Sprintf("- %s is ranked #%d vs #%d (advantage %s)", home, *game.Home.Rank, *game.Away.Rank, home))
		} else {
			factors = append(factors, fmt.Sprintf("- %s is ranked #%d vs #%d (advantage %s)", away, *game.Away.Rank, *game.Home.Rank, away))
		}
	}

	switch game.Status {
	case models.StatusPre:
		factors = append(factors, "- Game has not started yet")
	case models.StatusIn:
		period := max(game.Period, 1)
		clock := game.Clock
		if clock == "" {
			clock = "20:00"
		}
		factors = append(factors, fmt.Sprintf("- Game in progress: period %d, %s", period, clock))
	case models.StatusPost:
		factors = append(factors, "- Game completed")
	}

	return fmt.Sprintf(
		"**Factors Affecting %s vs %s:**\n\n%s\n\nThe model combines these factors with recent game momentum trends to produce the win probability forecast.",
		home, away, strings.Join(factors, "\n"))
}

// winProbability fetches the game and its play log, then asks the external
// model for the home side's chances.
func (s *Server) winProbability(ctx context.Context, gameID string) (string, error) {
	game, err := s.svc.GameDetail(ctx, gameID)
	if err != nil {
		return "", err
	}

	var pbp *models.PlayByPlay
	if game.IsLive() {
		pbp, err = s.svc.PlayByPlay(ctx, gameID)
		if err != nil {
			// Momentum is a refinement, not a requirement.
			log.Debug().Err(err).Str("game_id", gameID).Msg("No play log for win probability")
			pbp = nil
		}
	}

	prob, ok := s.pred.WinProbability(ctx, *game, pbp)
	if !ok {
		return "Win probability is unavailable for this game. The model service may be offline.", nil
	}

	home := game.Home.DisplayName()
	away := game.Away.DisplayName()
	return fmt.Sprintf(
		"**Win Probability: %s at %s**\n\n"+
			"%s: %.1f%%\n%s: %.1f%%\n\n"+
			"Based on score differential, momentum, team strength, and time remaining.",
		away, home, home, prob*100, away, (1-prob)*100), nil
}

// addTool registers one text-producing tool with concurrency capping,
// metrics, and error mapping.
func addTool[In any](s *Server, name, description string, fn func(context.Context, In) (string, error)) {
	handler := func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
		if err := s.acquire(ctx); err != nil {
			return nil, nil, err
		}
		defer s.release()

		metrics.ToolCallsInFlight.Inc()
		defer metrics.ToolCallsInFlight.Dec()

		start := time.Now()
		text, err := fn(ctx, in)
		metrics.ToolCallDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

		if err != nil {
			metrics.ToolCallsTotal.WithLabelValues(name, "error").Inc()
			return errorResult(name, err), nil, nil
		}
		metrics.ToolCallsTotal.WithLabelValues(name, "ok").Inc()
		return textResult(text), nil, nil
	}
	mcp.AddTool(s.mcp, &mcp.Tool{Name: name, Description: description}, handler)
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// errorResult maps domain errors to concise tool-facing messages. Anything
// unexpected is logged and replaced with a generic message.
func errorResult(tool string, err error) *mcp.CallToolResult {
	var (
		validation *services.ValidationError
		noTeam     *services.TeamNotFoundError
		noGame     *services.GameNotFoundError
		exhausted  *sources.AllSourcesFailedError
	)

	var message string
	switch {
	case errors.As(err, &validation):
		message = validation.Error()
	case errors.As(err, &noTeam):
		message = noTeam.Error()
	case errors.As(err, &noGame):
		message = noGame.Error()
	case errors.As(err, &exhausted):
		log.Warn().Err(err).Str("tool", tool).Msg("All data sources failed")
		message = "No data source could satisfy this request right now. Try again shortly."
	default:
		log.Error().Err(err).Str("tool", tool).Msg("Tool call failed")
		message = "An unexpected error occurred while handling this request."
	}

	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: message}},
	}
}
