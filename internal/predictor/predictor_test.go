package predictor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncaam/cbb-mcp/internal/models"
)

func rankPtr(r int) *int { return &r }

func liveGame() models.Game {
	return models.Game{
		ID:     "401636890",
		Status: models.StatusIn,
		Period: 2,
		Clock:  "12:34",
		Away:   models.TeamScore{TeamName: "North Carolina", Score: 72, Rank: rankPtr(12), Record: "15-8"},
		Home:   models.TeamScore{TeamName: "Duke", Score: 85, Rank: rankPtr(5), Record: "21-2"},
	}
}

func TestDeriveFeaturesLive(t *testing.T) {
	f := DeriveFeatures(liveGame(), nil)

	assert.Equal(t, 13.0, f.ScoreDiff)
	assert.Equal(t, 12.0, f.MinsRemaining, "second half clock counts alone")
	assert.Equal(t, 12.0/40.0, f.TimeRatio)
	assert.Equal(t, 2.0, f.Period)
	assert.Equal(t, 0.0, f.Momentum, "no play log means no momentum")
	assert.InDelta(t, (12.0-5.0)/4.0, f.StrengthDiff, 1e-9, "in-game strength is ranking only")
}

func TestDeriveFeaturesFirstHalf(t *testing.T) {
	g := liveGame()
	g.Period = 1
	g.Clock = "08:00"
	f := DeriveFeatures(g, nil)
	assert.Equal(t, 28.0, f.MinsRemaining, "first half adds the second half")
}

func TestDeriveFeaturesPregame(t *testing.T) {
	g := liveGame()
	g.Status = models.StatusPre
	g.Home.Score = 0
	g.Away.Score = 0
	f := DeriveFeatures(g, nil)

	assert.Equal(t, 40.0, f.MinsRemaining)
	assert.Equal(t, 1.0, f.TimeRatio)

	ranking := (12.0 - 5.0) / 4.0
	record := (21.0/23.0 - 15.0/23.0) * 10
	assert.InDelta(t, ranking*0.6+record*0.4, f.StrengthDiff, 1e-9,
		"pre-game strength blends rankings with records")
}

func TestDeriveFeaturesUnranked(t *testing.T) {
	g := liveGame()
	g.Home.Rank = nil
	f := DeriveFeatures(g, nil)
	assert.InDelta(t, (12.0-50.0)/4.0, f.StrengthDiff, 1e-9, "unranked teams anchor at 50")
}

func TestDeriveFeaturesMomentum(t *testing.T) {
	g := liveGame()
	pbp := &models.PlayByPlay{Game: g}
	// Pad plays so only the last 20 count. The 20th-from-last play had the
	// game at 70-60 home, so the current 85-72 is a +3 home swing.
	for i := 0; i < 30; i++ {
		pbp.Plays = append(pbp.Plays, models.Play{ScoreHome: 50, ScoreAway: 50})
	}
	pbp.Plays = append(pbp.Plays, models.Play{ScoreHome: 70, ScoreAway: 60})
	for i := 0; i < 19; i++ {
		pbp.Plays = append(pbp.Plays, models.Play{ScoreHome: 85, ScoreAway: 72})
	}

	f := DeriveFeatures(g, pbp)
	assert.Equal(t, 3.0, f.Momentum)
}

func TestClockMinutes(t *testing.T) {
	assert.Equal(t, 12, clockMinutes("12:34"))
	assert.Equal(t, 0, clockMinutes("0:45.3"))
	assert.Equal(t, 20, clockMinutes(""), "missing clock reads as a fresh half")
	assert.Equal(t, 10, clockMinutes("half:time"))
}

func TestWinPct(t *testing.T) {
	assert.InDelta(t, 0.75, winPct("15-5"), 1e-9)
	assert.Equal(t, 0.5, winPct(""))
	assert.Equal(t, 0.5, winPct("0-0"))
	assert.Equal(t, 0.5, winPct("garbage"))
}

func TestPredictPostsFeatures(t *testing.T) {
	var got Features
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/predict", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"probability": 0.82}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	prob, ok, err := c.Predict(context.Background(), Features{ScoreDiff: 13, Period: 2})

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0.82, prob)
	assert.Equal(t, 13.0, got.ScoreDiff, "features travel in the request body")
}

func TestPredictDisabled(t *testing.T) {
	c := NewClient("", time.Second)
	_, ok, err := c.Predict(context.Background(), Features{})
	require.NoError(t, err)
	assert.False(t, ok, "no base URL means no prediction")
}

func TestPredictBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, ok, err := c.Predict(context.Background(), Features{})
	require.Error(t, err)
	assert.False(t, ok)
}

func TestPredictOutOfRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"probability": 1.7}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, _, err := c.Predict(context.Background(), Features{})
	require.Error(t, err)
}

func TestWinProbabilityFinalGame(t *testing.T) {
	g := liveGame()
	g.Status = models.StatusPost

	c := NewClient("", time.Second)
	prob, ok := c.WinProbability(context.Background(), g, nil)
	require.True(t, ok, "finished games resolve without the model")
	assert.Equal(t, 1.0, prob)

	g.Home.Score, g.Away.Score = 60, 75
	prob, ok = c.WinProbability(context.Background(), g, nil)
	require.True(t, ok)
	assert.Equal(t, 0.0, prob)
}

func TestWinProbabilityHomeCourtBump(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"probability": 0.60}`))
	}))
	defer srv.Close()
	c := NewClient(srv.URL, time.Second)

	g := liveGame()
	g.Status = models.StatusPre
	prob, ok := c.WinProbability(context.Background(), g, nil)
	require.True(t, ok)
	assert.InDelta(t, 0.63, prob, 1e-9, "home court bump applies pre-game")

	g.NeutralSite = true
	prob, _ = c.WinProbability(context.Background(), g, nil)
	assert.InDelta(t, 0.60, prob, 1e-9, "no bump on neutral courts")
}

func TestWinProbabilityUnavailable(t *testing.T) {
	c := NewClient("", time.Second)
	_, ok := c.WinProbability(context.Background(), liveGame(), nil)
	assert.False(t, ok)
}
