package sources

import (
	"context"
	"strings"

	"github.com/ncaam/cbb-mcp/internal/httpx"
	"github.com/ncaam/cbb-mcp/internal/models"
)

// NCAASource adapts the community NCAA API (ncaa-api.henrygd.me). It backs
// up ESPN for scoreboards and rankings.
type NCAASource struct {
	http *httpx.Client
	base string
}

// NewNCAA builds the NCAA adapter on the production API base.
func NewNCAA(client *httpx.Client) *NCAASource {
	return &NCAASource{http: client, base: NCAAAPIBase}
}

func (s *NCAASource) Name() string  { return "ncaa" }
func (s *NCAASource) Priority() int { return 2 }

func (s *NCAASource) Capabilities() CapabilitySet {
	return NewCapabilitySet(LiveScores, Rankings)
}

type ncaaScoreboard struct {
	Games []struct {
		Game ncaaGame `json:"game"`
	} `json:"games"`
}

type ncaaGame struct {
	GameID        flexString `json:"gameID"`
	StartDate     string     `json:"startDate"`
	GameState     string     `json:"gameState"`
	CurrentPeriod string     `json:"currentPeriod"`
	ContestClock  string     `json:"contestClock"`
	Network       string     `json:"network"`
	Home          ncaaSide   `json:"home"`
	Away          ncaaSide   `json:"away"`

	Venue struct {
		Name string `json:"name"`
	} `json:"venue"`
}

type ncaaSide struct {
	TeamID flexString `json:"teamId"`
	Score  flexInt    `json:"score"`
	Rank   flexInt    `json:"rank"`

	Names struct {
		Full  string `json:"full"`
		Short string `json:"short"`
		SEO   string `json:"seo"`
	} `json:"names"`

	School struct {
		TeamID flexString `json:"teamId"`
	} `json:"school"`
}

type ncaaRankings struct {
	Rankings []struct {
		PollName string `json:"pollName"`
		Ranks    []struct {
			Rank         flexInt    `json:"rank"`
			Conference   string     `json:"conference"`
			Record       string     `json:"record"`
			Votes        flexInt    `json:"votes"`
			Points       flexInt    `json:"points"`
			PreviousRank flexInt    `json:"previousRank"`
			School       ncaaSchool `json:"school"`
		} `json:"ranks"`
	} `json:"rankings"`
}

type ncaaSchool struct {
	TeamID   flexString `json:"teamId"`
	Name     string     `json:"name"`
	FullName string     `json:"fullName"`
}

func (s *NCAASource) LiveScores(ctx context.Context, date, conference string, top25 bool) ([]models.Game, error) {
	// NCAA API wants YYYY/MM/DD in the path.
	formatted := strings.ReplaceAll(date, "-", "/")
	var sb ncaaScoreboard
	url := s.base + "/scoreboard/basketball-men/d1/" + formatted
	if err := s.http.FetchJSON(ctx, url, nil, &sb); err != nil {
		return nil, &SourceError{Source: s.Name(), Message: "failed to fetch scores: " + err.Error(), Err: err}
	}

	var games []models.Game
	for _, wrapper := range sb.Games {
		game := parseNCAAGame(wrapper.Game)
		if top25 && game.Home.Rank == nil && game.Away.Rank == nil {
			continue
		}
		games = append(games, game)
	}
	return games, nil
}

func parseNCAAGame(g ncaaGame) models.Game {
	period := 0
	if p := strings.TrimSpace(g.CurrentPeriod); p != "" {
		if n := atoiSafe(p); n > 0 {
			period = n
		}
	}
	detail := g.CurrentPeriod
	if detail == "" {
		detail = g.GameState
	}

	return models.Game{
		ID:           g.GameID.String(),
		Date:         g.StartDate,
		Status:       mapNCAAStatus(g.GameState),
		StatusDetail: detail,
		Period:       period,
		Clock:        g.ContestClock,
		Venue:        g.Venue.Name,
		Broadcast:    g.Network,
		Home:         parseNCAASide(g.Home),
		Away:         parseNCAASide(g.Away),
	}
}

func parseNCAASide(side ncaaSide) models.TeamScore {
	teamID := side.TeamID.String()
	if teamID == "" {
		teamID = side.School.TeamID.String()
	}
	name := side.Names.Full
	if name == "" {
		name = side.Names.Short
	}
	abbr := side.Names.SEO
	if abbr == "" {
		abbr = side.Names.Short
	}
	if len(abbr) > 6 {
		abbr = abbr[:6]
	}

	var rank *int
	if r := side.Rank.Int(); r >= 1 && r <= 25 {
		rank = &r
	}

	return models.TeamScore{
		TeamID:       teamID,
		TeamName:     name,
		Abbreviation: abbr,
		Score:        side.Score.Int(),
		Rank:         rank,
	}
}

func mapNCAAStatus(state string) string {
	switch state {
	case "pre":
		return models.StatusPre
	case "live":
		return models.StatusIn
	case "final", "F":
		return models.StatusPost
	}
	return state
}

func (s *NCAASource) Rankings(ctx context.Context, pollType string, season, week int) (*models.Poll, error) {
	if season == 0 {
		season = CurrentSeason
	}
	pollName := map[string]string{"ap": "AP", "coaches": "coaches", "net": "NET"}[strings.ToLower(pollType)]
	if pollName == "" {
		pollName = "AP"
	}

	var resp ncaaRankings
	if err := s.http.FetchJSON(ctx, s.base+"/rankings/basketball-men/d1", nil, &resp); err != nil {
		return nil, &SourceError{Source: s.Name(), Message: "failed to fetch rankings: " + err.Error(), Err: err}
	}

	idx := -1
	for i, poll := range resp.Rankings {
		if strings.Contains(strings.ToLower(poll.PollName), strings.ToLower(pollName)) {
			idx = i
			break
		}
	}
	if idx < 0 {
		if len(resp.Rankings) == 0 {
			return &models.Poll{Name: pollType, Season: season, Week: week}, nil
		}
		idx = 0
	}

	target := resp.Rankings[idx]
	teams := make([]models.RankedTeam, 0, len(target.Ranks))
	for _, entry := range target.Ranks {
		name := entry.School.Name
		if name == "" {
			name = entry.School.FullName
		}
		points := entry.Votes.Int()
		if points == 0 {
			points = entry.Points.Int()
		}
		teams = append(teams, models.RankedTeam{
			Rank:         entry.Rank.Int(),
			TeamID:       entry.School.TeamID.String(),
			TeamName:     name,
			Conference:   entry.Conference,
			Record:       entry.Record,
			Points:       points,
			PreviousRank: entry.PreviousRank.Int(),
			Trend:        models.RankTrend(entry.Rank.Int(), entry.PreviousRank.Int()),
		})
	}

	return &models.Poll{
		Name:   target.PollName,
		Season: season,
		Week:   week,
		Teams:  teams,
	}, nil
}
