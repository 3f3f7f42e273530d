package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncaam/cbb-mcp/internal/httpx"
)

const scoreboardFixture = `{
  "events": [
    {
      "id": "401636890",
      "date": "2025-02-09T17:00Z",
      "competitions": [
        {
          "status": {"type": {"state": "in", "detail": "2nd Half"}, "period": 2, "displayClock": "12:34"},
          "venue": {"fullName": "Cameron Indoor Stadium"},
          "broadcasts": [{"names": ["ESPN"]}],
          "conferenceCompetition": true,
          "competitors": [
            {
              "homeAway": "home",
              "team": {"id": "150", "displayName": "Duke Blue Devils", "abbreviation": "DUKE", "conferenceId": "2"},
              "score": "85",
              "curatedRank": {"current": 5},
              "records": [{"summary": "21-3"}],
              "linescores": [{"value": 40}, {"value": 45}]
            },
            {
              "homeAway": "away",
              "team": {"id": "153", "displayName": "North Carolina Tar Heels", "abbreviation": "UNC", "conferenceId": "2"},
              "score": "72",
              "curatedRank": {"current": 12},
              "records": [{"summary": "18-6"}]
            }
          ]
        }
      ]
    },
    {
      "id": "401636891",
      "date": "2025-02-09T19:00Z",
      "competitions": [
        {
          "status": {"type": {"state": "pre", "detail": "7:00 PM ET"}},
          "competitors": [
            {"homeAway": "home", "team": {"id": "96", "displayName": "Kentucky Wildcats", "conferenceId": "23"}, "score": {"value": 0}, "curatedRank": {"current": 99}},
            {"homeAway": "away", "team": {"id": "333", "displayName": "Alabama Crimson Tide", "conferenceId": "23"}, "score": {"value": 0}, "curatedRank": {"current": 99}}
          ]
        }
      ]
    }
  ]
}`

const summaryFixture = `{
  "header": {
    "id": "401636890",
    "competitions": [
      {
        "date": "2025-02-09T17:00Z",
        "status": {"type": {"state": "post", "detail": "Final"}, "period": 2},
        "competitors": [
          {
            "homeAway": "home",
            "team": {"id": "150", "displayName": "Duke Blue Devils", "abbreviation": "DUKE"},
            "score": "85",
            "ranks": [{"current": 5}],
            "record": [{"type": "total", "displayValue": "21-3"}],
            "linescores": [{"displayValue": "40"}, {"displayValue": "45"}]
          },
          {
            "homeAway": "away",
            "team": {"id": "153", "displayName": "North Carolina Tar Heels", "abbreviation": "UNC"},
            "score": "72",
            "ranks": [{"current": 12}],
            "record": [{"type": "total", "displayValue": "18-6"}]
          }
        ]
      }
    ]
  },
  "boxscore": {
    "players": [
      {
        "team": {"id": "153", "displayName": "North Carolina Tar Heels"},
        "statistics": [
          {
            "labels": ["MIN", "FG", "3PT", "FT", "OREB", "DREB", "REB", "AST", "STL", "BLK", "TO", "PF", "PTS"],
            "athletes": [
              {
                "athlete": {"id": "4433145", "displayName": "RJ Davis", "position": {"abbreviation": "G"}},
                "stats": ["36", "8-17", "3-8", "4-4", "1", "3", "4", "5", "2", "0", "1", "2", "23"]
              }
            ]
          }
        ]
      },
      {
        "team": {"id": "150", "displayName": "Duke Blue Devils"},
        "statistics": [
          {
            "labels": ["MIN", "FG", "3PT", "FT", "OREB", "DREB", "REB", "AST", "STL", "BLK", "TO", "PF", "PTS"],
            "athletes": [
              {
                "athlete": {"id": "5105556", "displayName": "Cooper Flagg", "position": {"abbreviation": "F"}},
                "stats": ["34", "10-16", "2-5", "6-7", "2", "9", "11", "4", "1", "3", "2", "1", "28"]
              }
            ]
          }
        ]
      }
    ]
  },
  "plays": [
    {
      "id": "1",
      "period": {"number": 1},
      "clock": {"displayValue": "19:42"},
      "text": "Cooper Flagg made Dunk",
      "team": {"id": "150"},
      "homeScore": 2,
      "awayScore": 0,
      "scoringPlay": true,
      "type": {"text": "Dunk"},
      "coordinate": {"x": 25.0, "y": 3.5}
    },
    {
      "id": "2",
      "period": {"number": 1},
      "clock": {"displayValue": "19:20"},
      "text": "RJ Davis missed Three Point Jumper",
      "team": {"id": "153"},
      "homeScore": 2,
      "awayScore": 0,
      "scoringPlay": false
    }
  ]
}`

const teamFixture = `{
  "team": {
    "id": "150",
    "displayName": "Duke Blue Devils",
    "abbreviation": "DUKE",
    "nickname": "Blue Devils",
    "location": "Duke",
    "color": "001A57",
    "rank": 5,
    "logos": [{"href": "https://a.espncdn.com/i/teamlogos/ncaa/500/150.png"}],
    "record": {"items": [
      {"type": "total", "summary": "21-3"},
      {"type": "vsconf", "summary": "12-1"}
    ]},
    "groups": {"id": "2", "name": "Atlantic Coast Conference"},
    "franchiseVenue": {
      "fullName": "Cameron Indoor Stadium",
      "address": {"city": "Durham", "state": "NC"},
      "capacity": 9314
    }
  }
}`

const rankingsFixture = `{
  "rankings": [
    {
      "name": "AP Top 25",
      "week": {"number": 15},
      "date": "2025-02-09",
      "ranks": [
        {"current": 1, "previous": 1, "points": 1525, "recordSummary": "23-1", "team": {"id": "2509", "nickname": "Auburn"}},
        {"current": 2, "previous": 4, "points": 1488, "recordSummary": "21-3", "team": {"id": "150", "nickname": "Duke"}},
        {"current": 25, "previous": 0, "points": 102, "recordSummary": "19-5", "team": {"id": "2440", "nickname": "Nevada"}}
      ]
    },
    {"name": "Coaches Poll", "ranks": []}
  ]
}`

func espnTestSource(t *testing.T, handler http.Handler) (*ESPNSource, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	client := httpx.NewClient("cbb-mcp-test/1.0", httpx.WithBackoff(time.Millisecond))
	src := &ESPNSource{http: client, apiBase: srv.URL, webBase: srv.URL, coreBase: srv.URL}
	return src, srv.Close
}

func TestESPNLiveScores(t *testing.T) {
	src, done := espnTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/scoreboard", r.URL.Path)
		assert.Equal(t, "20250209", r.URL.Query().Get("dates"))
		w.Write([]byte(scoreboardFixture))
	}))
	defer done()

	games, err := src.LiveScores(context.Background(), "2025-02-09", "", false)
	require.NoError(t, err)
	require.Len(t, games, 2)

	g := games[0]
	assert.Equal(t, "401636890", g.ID)
	assert.Equal(t, "in", g.Status)
	assert.Equal(t, 2, g.Period)
	assert.Equal(t, "12:34", g.Clock)
	assert.Equal(t, "Cameron Indoor Stadium", g.Venue)
	assert.Equal(t, "ESPN", g.Broadcast)
	assert.True(t, g.ConferenceGame)
	assert.True(t, g.IsLive())

	assert.Equal(t, 85, g.Home.Score)
	require.NotNil(t, g.Home.Rank)
	assert.Equal(t, 5, *g.Home.Rank)
	assert.Equal(t, "#5 Duke Blue Devils", g.Home.DisplayName())
	assert.Equal(t, []int{40, 45}, g.Home.LineScores)
	assert.Equal(t, "21-3", g.Home.Record)

	require.NotNil(t, g.Away.Rank)
	assert.Equal(t, 12, *g.Away.Rank)

	// curatedRank 99 means unranked
	assert.Nil(t, games[1].Home.Rank)
	assert.Equal(t, 0, games[1].Home.Score, "object-form score decodes to its value")
}

func TestESPNLiveScoresTop25Filter(t *testing.T) {
	src, done := espnTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(scoreboardFixture))
	}))
	defer done()

	games, err := src.LiveScores(context.Background(), "2025-02-09", "", true)
	require.NoError(t, err)
	require.Len(t, games, 1, "only the ranked matchup should survive the top25 filter")
	assert.Equal(t, "401636890", games[0].ID)
}

func TestESPNLiveScoresConferenceFilter(t *testing.T) {
	src, done := espnTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(scoreboardFixture))
	}))
	defer done()

	games, err := src.LiveScores(context.Background(), "2025-02-09", "ACC", false)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "Duke Blue Devils", games[0].Home.TeamName)

	games, err = src.LiveScores(context.Background(), "2025-02-09", "SEC", false)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "Kentucky Wildcats", games[0].Home.TeamName)
}

func TestESPNGameDetail(t *testing.T) {
	src, done := espnTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/summary", r.URL.Path)
		assert.Equal(t, "401636890", r.URL.Query().Get("event"))
		w.Write([]byte(summaryFixture))
	}))
	defer done()

	game, err := src.GameDetail(context.Background(), "401636890")
	require.NoError(t, err)
	assert.Equal(t, "401636890", game.ID)
	assert.True(t, game.IsFinal())
	assert.Equal(t, "21-3", game.Home.Record)
	assert.Equal(t, []int{40, 45}, game.Home.LineScores)
}

func TestESPNBoxScore(t *testing.T) {
	src, done := espnTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(summaryFixture))
	}))
	defer done()

	box, err := src.BoxScore(context.Background(), "401636890")
	require.NoError(t, err)

	assert.Equal(t, "Duke Blue Devils", box.Home.TeamName, "second boxscore entry is the home team")
	assert.Equal(t, "North Carolina Tar Heels", box.Away.TeamName)

	require.Len(t, box.Home.Players, 1)
	p := box.Home.Players[0]
	assert.Equal(t, "Cooper Flagg", p.Name)
	assert.Equal(t, 28, p.Points)
	assert.Equal(t, 10, p.FGM)
	assert.Equal(t, 16, p.FGA)
	assert.Equal(t, 11, p.Rebounds)

	assert.Equal(t, 28, box.Home.Totals.Points)
	assert.InDelta(t, 62.5, box.Home.Totals.FGPct, 0.01, "totals recompute percentages from makes and attempts")
}

func TestESPNPlayByPlay(t *testing.T) {
	src, done := espnTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(summaryFixture))
	}))
	defer done()

	pbp, err := src.PlayByPlay(context.Background(), "401636890")
	require.NoError(t, err)
	require.Len(t, pbp.Plays, 2)

	first := pbp.Plays[0]
	assert.Equal(t, 0, first.Sequence)
	assert.Equal(t, "Cooper Flagg made Dunk", first.Description)
	assert.True(t, first.ScoringPlay)
	require.NotNil(t, first.CoordinateX)
	assert.Equal(t, 25.0, *first.CoordinateX)

	assert.Nil(t, pbp.Plays[1].CoordinateX)
	assert.Equal(t, 1, pbp.Plays[1].Sequence)
}

func TestESPNGameNotFound(t *testing.T) {
	src, done := espnTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"header": {"competitions": []}}`))
	}))
	defer done()

	_, err := src.GameDetail(context.Background(), "999")
	require.Error(t, err)

	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, "espn", srcErr.Source)
}

func TestESPNTeamInfo(t *testing.T) {
	src, done := espnTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/teams/150", r.URL.Path)
		w.Write([]byte(teamFixture))
	}))
	defer done()

	team, err := src.TeamInfo(context.Background(), "150")
	require.NoError(t, err)

	assert.Equal(t, "Duke Blue Devils", team.Name)
	assert.Equal(t, "Blue Devils", team.Mascot)
	assert.Equal(t, "Atlantic Coast Conference", team.Conference)
	assert.Equal(t, 21, team.Record.Wins)
	assert.Equal(t, "12-1", team.Record.Conference())
	require.NotNil(t, team.Rank)
	assert.Equal(t, 5, *team.Rank)
	assert.Equal(t, "Durham", team.Venue.City)
	assert.Equal(t, 9314, team.Venue.Capacity)
}

func TestESPNRankings(t *testing.T) {
	src, done := espnTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rankings", r.URL.Path)
		w.Write([]byte(rankingsFixture))
	}))
	defer done()

	poll, err := src.Rankings(context.Background(), "ap", 0, 0)
	require.NoError(t, err)

	assert.Equal(t, "AP Top 25", poll.Name)
	assert.Equal(t, CurrentSeason, poll.Season)
	assert.Equal(t, 15, poll.Week)
	require.Len(t, poll.Teams, 3)

	assert.Equal(t, "same", poll.Teams[0].Trend)
	assert.Equal(t, "up", poll.Teams[1].Trend, "moving from 4 to 2 is up")
	assert.Equal(t, "new", poll.Teams[2].Trend)
	assert.Equal(t, 1525, poll.Teams[0].Points)
}
