package models

// Game status values, in lifecycle order. A game only moves forward:
// pre -> in -> post.
const (
	StatusPre  = "pre"
	StatusIn   = "in"
	StatusPost = "post"
)

// TeamScore represents one side of a game: team identity plus its current
// score, rank (nil when unranked), and per-period line scores.
type TeamScore struct {
	TeamID       string `json:"team_id"`
	TeamName     string `json:"team_name"`
	Abbreviation string `json:"abbreviation"`
	Score        int    `json:"score"`
	Rank         *int   `json:"rank,omitempty"`
	Record       string `json:"record"`
	LogoURL      string `json:"logo_url"`
	LineScores   []int  `json:"line_scores,omitempty"`
}

// DisplayName returns the team name prefixed with its rank when ranked.
func (ts TeamScore) DisplayName() string {
	if ts.Rank != nil && *ts.Rank > 0 {
		return "#" + itoa(*ts.Rank) + " " + ts.TeamName
	}
	return ts.TeamName
}

// Game represents a single college basketball game.
type Game struct {
	ID             string    `json:"id"`
	Date           string    `json:"date"` // ISO datetime string
	Status         string    `json:"status"`
	StatusDetail   string    `json:"status_detail"` // e.g. "Final", "2nd Half 12:34"
	Period         int       `json:"period"`
	Clock          string    `json:"clock"`
	Venue          string    `json:"venue"`
	Broadcast      string    `json:"broadcast"`
	ConferenceGame bool      `json:"conference_game"`
	NeutralSite    bool      `json:"neutral_site"`
	Home           TeamScore `json:"home"`
	Away           TeamScore `json:"away"`
	Notes          string    `json:"notes"` // tournament round info, etc.
}

// IsLive returns true if the game is currently in progress.
func (g *Game) IsLive() bool {
	return g.Status == StatusIn
}

// IsFinal returns true if the game is completed.
func (g *Game) IsFinal() bool {
	return g.Status == StatusPost
}

// PlayerBoxScore holds one player's line in a box score. The same type is
// reused for the team totals row.
type PlayerBoxScore struct {
	PlayerID          string  `json:"player_id"`
	Name              string  `json:"name"`
	Position          string  `json:"position"`
	Minutes           string  `json:"minutes"`
	Points            int     `json:"points"`
	Rebounds          int     `json:"rebounds"`
	Assists           int     `json:"assists"`
	Steals            int     `json:"steals"`
	Blocks            int     `json:"blocks"`
	Turnovers         int     `json:"turnovers"`
	Fouls             int     `json:"fouls"`
	FGM               int     `json:"fgm"`
	FGA               int     `json:"fga"`
	FGPct             float64 `json:"fg_pct"`
	TPM               int     `json:"tpm"`
	TPA               int     `json:"tpa"`
	TPPct             float64 `json:"tp_pct"`
	FTM               int     `json:"ftm"`
	FTA               int     `json:"fta"`
	FTPct             float64 `json:"ft_pct"`
	OffensiveRebounds int     `json:"offensive_rebounds"`
	DefensiveRebounds int     `json:"defensive_rebounds"`
}

// TeamBoxScore is one team's half of a box score.
type TeamBoxScore struct {
	TeamID   string           `json:"team_id"`
	TeamName string           `json:"team_name"`
	Players  []PlayerBoxScore `json:"players"`
	Totals   PlayerBoxScore   `json:"totals"`
}

// BoxScore wraps a game with both teams' detailed statistics.
type BoxScore struct {
	Game Game         `json:"game"`
	Home TeamBoxScore `json:"home"`
	Away TeamBoxScore `json:"away"`
}

// ComputeTotals sums the counting stats across players and recomputes
// shooting percentages from the summed makes and attempts. Percentages are
// never averaged across players.
func ComputeTotals(players []PlayerBoxScore) PlayerBoxScore {
	totals := PlayerBoxScore{Name: "TOTALS"}
	for _, p := range players {
		totals.Points += p.Points
		totals.Rebounds += p.Rebounds
		totals.Assists += p.Assists
		totals.Steals += p.Steals
		totals.Blocks += p.Blocks
		totals.Turnovers += p.Turnovers
		totals.Fouls += p.Fouls
		totals.FGM += p.FGM
		totals.FGA += p.FGA
		totals.TPM += p.TPM
		totals.TPA += p.TPA
		totals.FTM += p.FTM
		totals.FTA += p.FTA
		totals.OffensiveRebounds += p.OffensiveRebounds
		totals.DefensiveRebounds += p.DefensiveRebounds
	}
	totals.FGPct = shootingPct(totals.FGM, totals.FGA)
	totals.TPPct = shootingPct(totals.TPM, totals.TPA)
	totals.FTPct = shootingPct(totals.FTM, totals.FTA)
	return totals
}

// shootingPct returns made/attempted as a percentage rounded to one decimal.
func shootingPct(made, attempted int) float64 {
	if attempted == 0 {
		return 0
	}
	return round1(float64(made) / float64(attempted) * 100)
}

// Play is a single play-by-play entry. Plays are ordered by Sequence,
// ascending in game time.
type Play struct {
	ID          string   `json:"id"`
	Sequence    int      `json:"sequence"`
	Period      int      `json:"period"`
	Clock       string   `json:"clock"` // "MM:SS"
	Description string   `json:"description"`
	TeamID      string   `json:"team_id"`
	ScoreHome   int      `json:"score_home"`
	ScoreAway   int      `json:"score_away"`
	ScoringPlay bool     `json:"scoring_play"`
	ShotType    string   `json:"shot_type"`
	CoordinateX *float64 `json:"coordinate_x,omitempty"`
	CoordinateY *float64 `json:"coordinate_y,omitempty"`
}

// PlayByPlay wraps a game with its full ordered play log.
type PlayByPlay struct {
	Game  Game   `json:"game"`
	Plays []Play `json:"plays"`
}
