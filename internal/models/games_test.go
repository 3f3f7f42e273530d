package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotals(t *testing.T) {
	players := []PlayerBoxScore{
		{Points: 20, Rebounds: 5, Assists: 3, FGM: 8, FGA: 14, TPM: 2, TPA: 5, FTM: 2, FTA: 2},
		{Points: 15, Rebounds: 8, Assists: 1, FGM: 6, FGA: 13, TPM: 1, TPA: 4, FTM: 2, FTA: 4},
		{Points: 7, Rebounds: 2, Assists: 6, FGM: 3, FGA: 9, TPM: 0, TPA: 2, FTM: 1, FTA: 2},
	}

	totals := ComputeTotals(players)

	assert.Equal(t, 42, totals.Points, "Points should sum across players")
	assert.Equal(t, 15, totals.Rebounds, "Rebounds should sum across players")
	assert.Equal(t, 10, totals.Assists, "Assists should sum across players")
	assert.Equal(t, 17, totals.FGM, "Field goals made should sum")
	assert.Equal(t, 36, totals.FGA, "Field goals attempted should sum")

	// Percentages are recomputed from summed makes/attempts, not averaged.
	assert.InDelta(t, 47.2, totals.FGPct, 0.001, "FG pct should be round(17/36*100, 1)")
	assert.InDelta(t, 27.3, totals.TPPct, 0.001, "3PT pct should be round(3/11*100, 1)")
	assert.InDelta(t, 62.5, totals.FTPct, 0.001, "FT pct should be round(5/8*100, 1)")
}

func TestComputeTotals_NoAttempts(t *testing.T) {
	totals := ComputeTotals([]PlayerBoxScore{{Points: 0}})
	assert.Zero(t, totals.FGPct, "Zero attempts should yield zero percentage")
	assert.Zero(t, totals.FTPct, "Zero attempts should yield zero percentage")
}

func TestTeamScoreDisplayName(t *testing.T) {
	rank := 5
	ranked := TeamScore{TeamName: "Duke Blue Devils", Rank: &rank}
	assert.Equal(t, "#5 Duke Blue Devils", ranked.DisplayName())

	unranked := TeamScore{TeamName: "Wofford Terriers"}
	assert.Equal(t, "Wofford Terriers", unranked.DisplayName())
}

func TestGameStatus(t *testing.T) {
	g := Game{Status: StatusIn}
	assert.True(t, g.IsLive())
	assert.False(t, g.IsFinal())

	g.Status = StatusPost
	assert.False(t, g.IsLive())
	assert.True(t, g.IsFinal())
}
