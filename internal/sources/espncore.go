package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/ncaam/cbb-mcp/internal/httpx"
	"github.com/ncaam/cbb-mcp/internal/models"
)

// ESPNCoreSource is a last-resort adapter over ESPN's CDN gamepackage
// endpoints and the core API. The CDN surface serves the same document
// shapes as the site API but through separate infrastructure, so it often
// stays up when the site API degrades.
type ESPNCoreSource struct {
	http     *httpx.Client
	cdnBase  string
	coreBase string
}

// NewESPNCore builds the adapter on the production bases.
func NewESPNCore(client *httpx.Client) *ESPNCoreSource {
	return &ESPNCoreSource{http: client, cdnBase: ESPNCDNBase, coreBase: ESPNCoreBase}
}

func (s *ESPNCoreSource) Name() string  { return "espncore" }
func (s *ESPNCoreSource) Priority() int { return 3 }

func (s *ESPNCoreSource) Capabilities() CapabilitySet {
	return NewCapabilitySet(LiveScores, TeamInfo, GameDetail, BoxScore, PlayByPlay)
}

type cdnScoreboardResponse struct {
	Content struct {
		SBData espnScoreboard `json:"sbData"`
	} `json:"content"`
}

type cdnGameResponse struct {
	GamepackageJSON espnSummaryResponse `json:"gamepackageJSON"`
}

func (s *ESPNCoreSource) LiveScores(ctx context.Context, date, conference string, top25 bool) ([]models.Game, error) {
	params := map[string]string{
		"xhr":  "1",
		"date": strings.ReplaceAll(date, "-", ""),
	}
	var resp cdnScoreboardResponse
	if err := s.http.FetchJSON(ctx, s.cdnBase+"/scoreboard", params, &resp); err != nil {
		return nil, &SourceError{Source: s.Name(), Message: "failed to fetch scores: " + err.Error(), Err: err}
	}

	var games []models.Game
	for _, event := range resp.Content.SBData.Events {
		game := parseEvent(event)
		if top25 && game.Home.Rank == nil && game.Away.Rank == nil {
			continue
		}
		games = append(games, game)
	}
	return games, nil
}

func (s *ESPNCoreSource) gamepackage(ctx context.Context, gameID string) (*espnSummaryResponse, error) {
	params := map[string]string{"xhr": "1", "gameId": gameID}
	var resp cdnGameResponse
	if err := s.http.FetchJSON(ctx, s.cdnBase+"/game", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.GamepackageJSON.Header.Competitions) == 0 {
		return nil, fmt.Errorf("game %s not found", gameID)
	}
	return &resp.GamepackageJSON, nil
}

func (s *ESPNCoreSource) GameDetail(ctx context.Context, gameID string) (*models.Game, error) {
	pkg, err := s.gamepackage(ctx, gameID)
	if err != nil {
		return nil, &SourceError{Source: s.Name(), Message: "failed to fetch game: " + err.Error(), Err: err}
	}
	game := parseSummaryGame(pkg.Header)
	return &game, nil
}

func (s *ESPNCoreSource) BoxScore(ctx context.Context, gameID string) (*models.BoxScore, error) {
	pkg, err := s.gamepackage(ctx, gameID)
	if err != nil {
		return nil, &SourceError{Source: s.Name(), Message: "failed to fetch box score: " + err.Error(), Err: err}
	}

	box := models.BoxScore{Game: parseSummaryGame(pkg.Header)}
	for i, teamBox := range pkg.Boxscore.Players {
		if i == 0 {
			box.Away = parseTeamBox(teamBox)
		} else {
			box.Home = parseTeamBox(teamBox)
		}
	}
	return &box, nil
}

func (s *ESPNCoreSource) PlayByPlay(ctx context.Context, gameID string) (*models.PlayByPlay, error) {
	pkg, err := s.gamepackage(ctx, gameID)
	if err != nil {
		return nil, &SourceError{Source: s.Name(), Message: "failed to fetch play-by-play: " + err.Error(), Err: err}
	}

	pbp := models.PlayByPlay{
		Game:  parseSummaryGame(pkg.Header),
		Plays: make([]models.Play, 0, len(pkg.Plays)),
	}
	for seq, p := range pkg.Plays {
		pbp.Plays = append(pbp.Plays, parsePlay(seq, p))
	}
	return &pbp, nil
}

// TeamInfo serves a reduced team record from the core API. Records and
// venue live behind separate $ref links there and are not resolved.
func (s *ESPNCoreSource) TeamInfo(ctx context.Context, teamID string) (*models.Team, error) {
	var t espnTeam
	url := fmt.Sprintf("%s/seasons/%d/teams/%s", s.coreBase, CurrentSeason, teamID)
	if err := s.http.FetchJSON(ctx, url, nil, &t); err != nil {
		return nil, &SourceError{Source: s.Name(), Message: "failed to fetch team: " + err.Error(), Err: err}
	}
	if t.ID.String() == "" {
		return nil, &SourceError{Source: s.Name(), Message: "team " + teamID + " not found"}
	}
	team := parseTeamDetail(t)
	return &team, nil
}
