package sources

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/ncaam/cbb-mcp/internal/httpx"
	"github.com/ncaam/cbb-mcp/internal/models"
)

// ESPN's scoreboard tags each competitor with a conferenceId that uses a
// different numbering than the groups URL parameter. The map below covers
// the conferences where the two diverge; it was built by checking known
// teams against the team detail endpoint.
var scoreboardConfIDs = map[string]string{
	"ACC":           "2",
	"Big 12":        "8",
	"Big East":      "4",
	"Big Ten":       "7",
	"SEC":           "23",
	"WCC":           "29",
	"A-10":          "3",
	"Mountain West": "44",
	"Ivy":           "12",
	"MAAC":          "13",
	"C-USA":         "11",
	"Big West":      "9",
	"Horizon":       "45",
}

// ESPNSource adapts ESPN's site, web and core APIs. It is the primary
// source and covers every capability except the tournament bracket.
type ESPNSource struct {
	http     *httpx.Client
	apiBase  string
	webBase  string
	coreBase string
}

// NewESPN builds the ESPN adapter on the production API bases.
func NewESPN(client *httpx.Client) *ESPNSource {
	return &ESPNSource{
		http:     client,
		apiBase:  ESPNAPIBase,
		webBase:  ESPNWebBase,
		coreBase: ESPNCoreBase,
	}
}

func (s *ESPNSource) Name() string  { return "espn" }
func (s *ESPNSource) Priority() int { return 1 }

func (s *ESPNSource) Capabilities() CapabilitySet {
	return NewCapabilitySet(
		LiveScores, TeamInfo, TeamSearch, Roster, Schedule,
		GameDetail, BoxScore, PlayByPlay, Rankings, Standings,
		TeamStats, PlayerStats, StatLeaders,
	)
}

func (s *ESPNSource) fail(format string, args ...any) *SourceError {
	msg := fmt.Sprintf(format, args...)
	var wrapped error
	if n := len(args); n > 0 {
		if err, ok := args[n-1].(error); ok {
			wrapped = err
		}
	}
	return &SourceError{Source: s.Name(), Message: msg, Err: wrapped}
}

// LiveScores always fetches the full slate; ESPN's server-side groups
// filter is unreliable, so conference filtering happens client-side against
// competitor conferenceId tags.
func (s *ESPNSource) LiveScores(ctx context.Context, date, conference string, top25 bool) ([]models.Game, error) {
	params := map[string]string{
		"dates": strings.ReplaceAll(date, "-", ""),
		"limit": "200",
	}
	var sb espnScoreboard
	if err := s.http.FetchJSON(ctx, s.apiBase+"/scoreboard", params, &sb); err != nil {
		return nil, s.fail("failed to fetch scores: %v", err)
	}

	confID := ""
	if conference != "" {
		confID = scoreboardConfIDs[conference]
		if confID == "" {
			log.Debug().Str("conference", conference).Msg("No scoreboard ID known for conference, skipping filter")
		}
	}

	var games []models.Game
	for _, event := range sb.Events {
		if confID != "" && !eventHasConference(event, confID) {
			continue
		}
		game := parseEvent(event)
		if top25 && game.Home.Rank == nil && game.Away.Rank == nil {
			continue
		}
		games = append(games, game)
	}
	return games, nil
}

func eventHasConference(event espnEvent, confID string) bool {
	if len(event.Competitions) == 0 {
		return false
	}
	for _, c := range event.Competitions[0].Competitors {
		if c.Team.ConferenceID.String() == confID {
			return true
		}
	}
	return false
}

func (s *ESPNSource) TeamInfo(ctx context.Context, teamID string) (*models.Team, error) {
	var resp espnTeamResponse
	if err := s.http.FetchJSON(ctx, s.apiBase+"/teams/"+teamID, nil, &resp); err != nil {
		return nil, s.fail("failed to fetch team %s: %v", teamID, err)
	}
	if resp.Team.ID.String() == "" {
		return nil, s.fail("team %s not found", teamID)
	}
	team := parseTeamDetail(resp.Team)
	return &team, nil
}

func (s *ESPNSource) SearchTeams(ctx context.Context, query, conference string) ([]models.Team, error) {
	var resp espnTeamListResponse
	if err := s.http.FetchJSON(ctx, s.apiBase+"/teams", map[string]string{"limit": "400"}, &resp); err != nil {
		return nil, s.fail("failed to search teams: %v", err)
	}

	q := strings.ToLower(query)
	var teams []models.Team
	for _, sport := range resp.Sports {
		for _, league := range sport.Leagues {
			for _, entry := range league.Teams {
				t := entry.Team
				if q != "" && !teamMatches(t, q) {
					continue
				}
				team := parseTeamDetail(t)
				if conference != "" && !strings.EqualFold(team.Conference, conference) {
					continue
				}
				teams = append(teams, team)
			}
		}
	}
	return teams, nil
}

func teamMatches(t espnTeam, q string) bool {
	return strings.Contains(strings.ToLower(t.DisplayName), q) ||
		strings.Contains(strings.ToLower(t.Abbreviation), q) ||
		strings.Contains(strings.ToLower(t.Nickname), q) ||
		strings.Contains(strings.ToLower(t.Location), q)
}

func (s *ESPNSource) Roster(ctx context.Context, teamID string) ([]models.Player, error) {
	var resp espnRosterResponse
	if err := s.http.FetchJSON(ctx, s.apiBase+"/teams/"+teamID+"/roster", nil, &resp); err != nil {
		return nil, s.fail("failed to fetch roster: %v", err)
	}

	var players []models.Player
	for _, group := range resp.Athletes {
		if len(group.Items) > 0 {
			for _, a := range group.Items {
				players = append(players, parseRosterAthlete(a))
			}
			continue
		}
		if group.DisplayName != "" {
			players = append(players, parseRosterAthlete(group.espnAthlete))
		}
	}
	return players, nil
}

func (s *ESPNSource) Schedule(ctx context.Context, teamID string, season int) ([]models.Game, error) {
	if season == 0 {
		season = CurrentSeason
	}
	var resp espnScoreboard
	url := s.apiBase + "/teams/" + teamID + "/schedule"
	if err := s.http.FetchJSON(ctx, url, map[string]string{"season": itoa(season)}, &resp); err != nil {
		return nil, s.fail("failed to fetch schedule: %v", err)
	}

	games := make([]models.Game, 0, len(resp.Events))
	for _, event := range resp.Events {
		games = append(games, parseEvent(event))
	}
	return games, nil
}

func (s *ESPNSource) summary(ctx context.Context, gameID string) (*espnSummaryResponse, error) {
	var resp espnSummaryResponse
	if err := s.http.FetchJSON(ctx, s.apiBase+"/summary", map[string]string{"event": gameID}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Header.Competitions) == 0 {
		return nil, fmt.Errorf("game %s not found", gameID)
	}
	return &resp, nil
}

func (s *ESPNSource) GameDetail(ctx context.Context, gameID string) (*models.Game, error) {
	resp, err := s.summary(ctx, gameID)
	if err != nil {
		return nil, s.fail("failed to fetch game %s: %v", gameID, err)
	}
	game := parseSummaryGame(resp.Header)
	return &game, nil
}

// BoxScore maps boxscore.players positionally: ESPN lists the away team
// first.
func (s *ESPNSource) BoxScore(ctx context.Context, gameID string) (*models.BoxScore, error) {
	resp, err := s.summary(ctx, gameID)
	if err != nil {
		return nil, s.fail("failed to fetch box score: %v", err)
	}

	box := models.BoxScore{Game: parseSummaryGame(resp.Header)}
	for i, teamBox := range resp.Boxscore.Players {
		if i == 0 {
			box.Away = parseTeamBox(teamBox)
		} else {
			box.Home = parseTeamBox(teamBox)
		}
	}
	return &box, nil
}

func (s *ESPNSource) PlayByPlay(ctx context.Context, gameID string) (*models.PlayByPlay, error) {
	resp, err := s.summary(ctx, gameID)
	if err != nil {
		return nil, s.fail("failed to fetch play-by-play: %v", err)
	}

	pbp := models.PlayByPlay{
		Game:  parseSummaryGame(resp.Header),
		Plays: make([]models.Play, 0, len(resp.Plays)),
	}
	for seq, p := range resp.Plays {
		pbp.Plays = append(pbp.Plays, parsePlay(seq, p))
	}
	return &pbp, nil
}

func (s *ESPNSource) Rankings(ctx context.Context, pollType string, season, week int) (*models.Poll, error) {
	if season == 0 {
		season = CurrentSeason
	}
	params := map[string]string{"season": itoa(season)}
	if week > 0 {
		params["week"] = itoa(week)
	}

	var resp espnRankingsResponse
	if err := s.http.FetchJSON(ctx, s.apiBase+"/rankings", params, &resp); err != nil {
		return nil, s.fail("failed to fetch rankings: %v", err)
	}
	if len(resp.Rankings) == 0 {
		return &models.Poll{Name: pollType, Season: season}, nil
	}

	// AP is first, Coaches second.
	idx := 0
	if strings.EqualFold(pollType, "coaches") && len(resp.Rankings) > 1 {
		idx = 1
	}
	data := resp.Rankings[idx]

	teams := make([]models.RankedTeam, 0, len(data.Ranks))
	for _, entry := range data.Ranks {
		name := entry.Team.Nickname
		if name == "" {
			name = entry.Team.Name
		}
		teams = append(teams, models.RankedTeam{
			Rank:         entry.Current,
			TeamID:       entry.Team.ID.String(),
			TeamName:     name,
			Record:       entry.RecordSummary,
			Points:       entry.Points.Int(),
			PreviousRank: entry.Previous,
			Trend:        models.RankTrend(entry.Current, entry.Previous),
		})
	}

	pollWeek := data.Week.Int()
	if pollWeek == 0 {
		pollWeek = week
	}
	return &models.Poll{
		Name:   data.Name,
		Season: season,
		Week:   pollWeek,
		Date:   data.Date,
		Teams:  teams,
	}, nil
}

func (s *ESPNSource) Standings(ctx context.Context, conference string) ([]models.ConferenceStandings, error) {
	params := map[string]string{"season": itoa(CurrentSeason)}
	if conference != "" {
		if conf, ok := ESPNConferences[conference]; ok {
			params["group"] = conf.ID
		}
	}

	var resp espnStandingsResponse
	if err := s.http.FetchJSON(ctx, s.webBase+"/standings", params, &resp); err != nil {
		return nil, s.fail("failed to fetch standings: %v", err)
	}

	var blocks []espnStandingsBlock
	switch {
	case len(resp.Children) > 0:
		blocks = resp.Children
	case resp.Standings != nil:
		blocks = []espnStandingsBlock{{
			Name:         resp.Name,
			Abbreviation: resp.Abbreviation,
			Standings:    *resp.Standings,
		}}
	}

	standings := make([]models.ConferenceStandings, 0, len(blocks))
	for _, block := range blocks {
		name := block.Name
		if name == "" {
			name = block.Abbreviation
		}
		entries := make([]models.StandingsEntry, 0, len(block.Standings.Entries))
		for i, row := range block.Standings.Entries {
			stats := make(map[string]string, len(row.Stats))
			for _, st := range row.Stats {
				v := st.Summary
				if v == "" {
					v = st.DisplayValue
				}
				stats[st.Type] = v
			}
			entries = append(entries, models.StandingsEntry{
				TeamID:           row.Team.ID.String(),
				TeamName:         teamDisplayName(row.Team),
				ConferenceRank:   i + 1,
				OverallRecord:    stats["total"],
				ConferenceRecord: stats["vsconf"],
				Streak:           stats["streak"],
			})
		}
		standings = append(standings, models.ConferenceStandings{
			Conference: name,
			Season:     CurrentSeason,
			Teams:      entries,
		})
	}
	return standings, nil
}

func (s *ESPNSource) TeamStats(ctx context.Context, teamID string, season int) (*models.TeamStats, error) {
	if season == 0 {
		season = CurrentSeason
	}
	var resp espnTeamStatsResponse
	url := s.apiBase + "/teams/" + teamID + "/statistics"
	if err := s.http.FetchJSON(ctx, url, map[string]string{"season": itoa(season)}, &resp); err != nil {
		return nil, s.fail("failed to fetch team stats: %v", err)
	}

	stats := map[string]float64{}
	for _, category := range resp.Results.Stats.Categories {
		for _, st := range category.Stats {
			stats[st.Name] = st.Value.Float()
		}
	}

	return &models.TeamStats{
		TeamID:       teamID,
		TeamName:     teamDisplayName(resp.Team),
		Season:       season,
		GamesPlayed:  int(stats["gamesPlayed"]),
		PPG:          statValue(stats, "avgPoints", "points"),
		OppPPG:       stats["avgPointsAgainst"],
		FGPct:        stats["fieldGoalPct"],
		ThreePct:     stats["threePointFieldGoalPct"],
		FTPct:        stats["freeThrowPct"],
		RPG:          statValue(stats, "avgRebounds", "rebounds"),
		OffensiveRPG: stats["avgOffensiveRebounds"],
		DefensiveRPG: stats["avgDefensiveRebounds"],
		APG:          statValue(stats, "avgAssists", "assists"),
		SPG:          statValue(stats, "avgSteals", "steals"),
		BPG:          statValue(stats, "avgBlocks", "blocks"),
		TOPG:         statValue(stats, "avgTurnovers", "turnovers"),
	}, nil
}

func statValue(stats map[string]float64, key, fallback string) float64 {
	if v, ok := stats[key]; ok {
		return v
	}
	return stats[fallback]
}

// PlayerStats walks the core API: the team's athlete refs, then each
// athlete's profile and season statistics.
func (s *ESPNSource) PlayerStats(ctx context.Context, playerID, teamID string) ([]models.PlayerStats, error) {
	if teamID == "" {
		return nil, nil
	}
	season := CurrentSeason

	var refs espnRefList
	url := fmt.Sprintf("%s/seasons/%d/teams/%s/athletes", s.coreBase, season, teamID)
	if err := s.http.FetchJSON(ctx, url, map[string]string{"limit": "50"}, &refs); err != nil {
		return nil, s.fail("failed to fetch athlete list: %v", err)
	}

	athleteRefs := make([]string, 0, len(refs.Items))
	for _, item := range refs.Items {
		if item.Ref != "" {
			athleteRefs = append(athleteRefs, item.Ref)
		}
	}

	athletes := fetchEach[espnCoreEntity](ctx, s.http, athleteRefs)

	statRefs := make([]string, len(athletes))
	for i, a := range athletes {
		if a != nil && a.ID.String() != "" {
			statRefs[i] = fmt.Sprintf("%s/seasons/%d/types/2/athletes/%s/statistics/0",
				s.coreBase, season, a.ID.String())
		}
	}
	statResults := fetchEach[espnCoreStats](ctx, s.http, statRefs)

	teamName := ""
	var players []models.PlayerStats
	for i, a := range athletes {
		if a == nil || a.ID.String() == "" {
			continue
		}
		pid := a.ID.String()
		if playerID != "" && pid != playerID {
			continue
		}

		stats := map[string]float64{}
		if i < len(statResults) && statResults[i] != nil {
			for _, category := range statResults[i].Splits.Categories {
				for _, st := range category.Stats {
					stats[st.Name] = st.Value.Float()
				}
			}
		}

		if teamName == "" {
			teamName = a.Team.DisplayName
		}

		players = append(players, models.PlayerStats{
			PlayerID:       pid,
			Name:           a.DisplayName,
			Team:           teamName,
			Position:       a.Position.Abbreviation,
			GamesPlayed:    int(stats["gamesPlayed"]),
			MinutesPerGame: stats["avgMinutes"],
			PPG:            stats["avgPoints"],
			RPG:            stats["avgRebounds"],
			APG:            stats["avgAssists"],
			SPG:            stats["avgSteals"],
			BPG:            stats["avgBlocks"],
			TOPG:           stats["avgTurnovers"],
			FGPct:          stats["fieldGoalPct"],
			ThreePct:       stats["threePointFieldGoalPct"],
			FTPct:          stats["freeThrowPct"],
		})
	}

	sort.Slice(players, func(i, j int) bool { return players[i].PPG > players[j].PPG })
	return players, nil
}

var leaderCategories = map[string]string{
	"scoring":         "pointsPerGame",
	"rebounds":        "reboundsPerGame",
	"assists":         "assistsPerGame",
	"steals":          "stealsPerGame",
	"blocks":          "blocksPerGame",
	"field_goal_pct":  "fieldGoalPct",
	"three_point_pct": "threePointFieldGoalPct",
	"free_throw_pct":  "freeThrowPct",
}

// StatLeaders uses the core API; the site API 404s on leaders.
func (s *ESPNSource) StatLeaders(ctx context.Context, category string, season int) ([]models.StatLeader, error) {
	if season == 0 {
		season = CurrentSeason
	}
	statName, ok := leaderCategories[strings.ToLower(category)]
	if !ok {
		statName = "pointsPerGame"
	}

	var resp espnLeadersResponse
	url := fmt.Sprintf("%s/seasons/%d/types/2/leaders", s.coreBase, season)
	if err := s.http.FetchJSON(ctx, url, map[string]string{"limit": "20"}, &resp); err != nil {
		return nil, s.fail("failed to fetch leaders: %v", err)
	}

	var entries []struct {
		Value   float64
		Athlete string
		Team    string
	}
	for _, cat := range resp.Categories {
		if cat.Name != statName {
			continue
		}
		for _, l := range cat.Leaders {
			entries = append(entries, struct {
				Value   float64
				Athlete string
				Team    string
			}{l.Value, l.Athlete.Ref, l.Team.Ref})
			if len(entries) == 20 {
				break
			}
		}
		break
	}
	if len(entries) == 0 {
		return nil, nil
	}

	athleteRefs := make([]string, len(entries))
	teamRefs := make([]string, len(entries))
	for i, e := range entries {
		athleteRefs[i] = e.Athlete
		teamRefs[i] = e.Team
	}
	athletes := fetchEach[espnCoreEntity](ctx, s.http, athleteRefs)
	teams := fetchEach[espnCoreEntity](ctx, s.http, teamRefs)

	leaders := make([]models.StatLeader, 0, len(entries))
	for i, e := range entries {
		leader := models.StatLeader{
			Rank:         i + 1,
			Name:         "Unknown",
			Value:        e.Value,
			StatCategory: category,
		}
		if a := athletes[i]; a != nil {
			leader.PlayerID = a.ID.String()
			if a.DisplayName != "" {
				leader.Name = a.DisplayName
			}
		}
		if t := teams[i]; t != nil {
			if t.DisplayName != "" {
				leader.Team = t.DisplayName
			} else {
				leader.Team = t.Name
			}
		}
		leaders = append(leaders, leader)
	}
	return leaders, nil
}

// fetchEach resolves a list of URLs concurrently, keeping result order.
// Failed or empty refs yield nil entries.
func fetchEach[T any](ctx context.Context, client *httpx.Client, refs []string) []*T {
	results := make([]*T, len(refs))
	var wg sync.WaitGroup
	for i, ref := range refs {
		if ref == "" {
			continue
		}
		wg.Add(1)
		go func(i int, ref string) {
			defer wg.Done()
			var v T
			if err := client.FetchJSON(ctx, ref, nil, &v); err != nil {
				log.Debug().Err(err).Str("url", ref).Msg("Reference fetch failed")
				return
			}
			results[i] = &v
		}(i, ref)
	}
	wg.Wait()
	return results
}

func itoa(n int) string { return strconv.Itoa(n) }
