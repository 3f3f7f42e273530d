// Package predictor derives live-game features and talks to the external
// win-probability model service.
package predictor

import (
	"strconv"
	"strings"

	"github.com/ncaam/cbb-mcp/internal/models"
)

// Features is the model input vector. Field names match the feature names
// the model service was trained with.
type Features struct {
	ScoreDiff     float64 `json:"score_diff"`
	Momentum      float64 `json:"momentum"`
	StrengthDiff  float64 `json:"strength_diff"`
	TimeRatio     float64 `json:"time_ratio"`
	MinsRemaining float64 `json:"mins_remaining"`
	Period        float64 `json:"period"`
}

const (
	regulationMinutes = 40
	halfMinutes       = 20
	momentumWindow    = 20
	unrankedAnchor    = 50
)

// DeriveFeatures computes the model input from a game's current state. All
// features are from the home team's perspective. pbp may be nil; momentum is
// zero without it.
func DeriveFeatures(game models.Game, pbp *models.PlayByPlay) Features {
	scoreDiff := float64(game.Home.Score - game.Away.Score)

	period := game.Period
	if period < 1 {
		period = 1
	}

	minsLeft := clockMinutes(game.Clock)
	totalMins := minsLeft
	if period < 2 {
		totalMins += halfMinutes
	}
	if game.Status == models.StatusPre {
		totalMins = regulationMinutes
	}

	momentum := 0.0
	if pbp != nil && len(pbp.Plays) > 0 {
		recent := pbp.Plays
		if len(recent) > momentumWindow {
			recent = recent[len(recent)-momentumWindow:]
		}
		oldDiff := float64(recent[0].ScoreHome - recent[0].ScoreAway)
		momentum = scoreDiff - oldDiff
	}

	rankingDiff := float64(rankOr(game.Away.Rank)-rankOr(game.Home.Rank)) / 4.0
	strengthDiff := rankingDiff
	if game.Status == models.StatusPre {
		// Rankings alone are a weak pre-game signal. Blend in the win
		// percentage difference from each side's record.
		recordDiff := (winPct(game.Home.Record) - winPct(game.Away.Record)) * 10
		strengthDiff = rankingDiff*0.6 + recordDiff*0.4
	}

	return Features{
		ScoreDiff:     scoreDiff,
		Momentum:      momentum,
		StrengthDiff:  strengthDiff,
		TimeRatio:     float64(totalMins) / regulationMinutes,
		MinsRemaining: float64(totalMins),
		Period:        float64(period),
	}
}

// clockMinutes extracts the minutes component of a "MM:SS" clock. A missing
// clock reads as a fresh half, an unparseable one as mid-half.
func clockMinutes(clock string) int {
	if !strings.Contains(clock, ":") {
		return halfMinutes
	}
	mins, err := strconv.Atoi(strings.SplitN(clock, ":", 2)[0])
	if err != nil {
		return 10
	}
	return mins
}

func rankOr(rank *int) int {
	if rank == nil || *rank <= 0 {
		return unrankedAnchor
	}
	return *rank
}

// winPct parses a "W-L" record into a win fraction, 0.5 when unknown.
func winPct(record string) float64 {
	parts := strings.SplitN(record, "-", 2)
	if len(parts) != 2 {
		return 0.5
	}
	wins, err1 := strconv.Atoi(parts[0])
	losses, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || wins+losses == 0 {
		return 0.5
	}
	return float64(wins) / float64(wins+losses)
}
