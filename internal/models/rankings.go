package models

// Ranking trend values.
const (
	TrendUp   = "up"
	TrendDown = "down"
	TrendSame = "same"
	TrendNew  = "new"
)

// RankedTeam is one entry in a poll.
type RankedTeam struct {
	Rank         int    `json:"rank"`
	TeamID       string `json:"team_id"`
	TeamName     string `json:"team_name"`
	Conference   string `json:"conference"`
	Record       string `json:"record"`
	Points       int    `json:"points"`
	PreviousRank int    `json:"previous_rank"`
	Trend        string `json:"trend"`
}

// Poll is a named ranking poll (AP Top 25, Coaches Poll) for a season/week.
type Poll struct {
	Name   string       `json:"name"`
	Season int          `json:"season"`
	Week   int          `json:"week"`
	Date   string       `json:"date"`
	Teams  []RankedTeam `json:"teams"`
}

// RankTrend derives a movement indicator from current and previous rank.
// Teams new to the poll carry a previous rank of zero.
func RankTrend(current, previous int) string {
	switch {
	case previous == 0:
		return TrendNew
	case current < previous:
		return TrendUp
	case current > previous:
		return TrendDown
	default:
		return TrendSame
	}
}

// StandingsEntry is one team's row in a conference standings table.
type StandingsEntry struct {
	TeamID           string `json:"team_id"`
	TeamName         string `json:"team_name"`
	ConferenceRank   int    `json:"conference_rank"`
	OverallRecord    string `json:"overall_record"`
	ConferenceRecord string `json:"conference_record"`
	Streak           string `json:"streak"` // "W3", "L1"
	LastTen          string `json:"last_10"`
}

// ConferenceStandings is the ordered standings for one conference.
type ConferenceStandings struct {
	Conference string           `json:"conference"`
	Season     int              `json:"season"`
	Teams      []StandingsEntry `json:"teams"`
}
