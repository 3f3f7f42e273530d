package models

// TeamStats holds a team's season aggregate statistics.
type TeamStats struct {
	TeamID       string  `json:"team_id"`
	TeamName     string  `json:"team_name"`
	Season       int     `json:"season"`
	GamesPlayed  int     `json:"games_played"`
	PPG          float64 `json:"ppg"`
	OppPPG       float64 `json:"opp_ppg"`
	FGPct        float64 `json:"fg_pct"`
	ThreePct     float64 `json:"three_pct"`
	FTPct        float64 `json:"ft_pct"`
	RPG          float64 `json:"rpg"`
	APG          float64 `json:"apg"`
	SPG          float64 `json:"spg"`
	BPG          float64 `json:"bpg"`
	TOPG         float64 `json:"topg"`
	OffensiveRPG float64 `json:"offensive_rpg"`
	DefensiveRPG float64 `json:"defensive_rpg"`
}

// PlayerStats holds a player's season aggregate statistics.
type PlayerStats struct {
	PlayerID       string  `json:"player_id"`
	Name           string  `json:"name"`
	Team           string  `json:"team"`
	Position       string  `json:"position"`
	GamesPlayed    int     `json:"games_played"`
	MinutesPerGame float64 `json:"minutes_per_game"`
	PPG            float64 `json:"ppg"`
	RPG            float64 `json:"rpg"`
	APG            float64 `json:"apg"`
	SPG            float64 `json:"spg"`
	BPG            float64 `json:"bpg"`
	TOPG           float64 `json:"topg"`
	FGPct          float64 `json:"fg_pct"`
	ThreePct       float64 `json:"three_pct"`
	FTPct          float64 `json:"ft_pct"`
}

// StatLeader is one entry in a national statistical leaderboard.
type StatLeader struct {
	Rank         int     `json:"rank"`
	PlayerID     string  `json:"player_id"`
	Name         string  `json:"name"`
	Team         string  `json:"team"`
	Value        float64 `json:"value"`
	StatCategory string  `json:"stat_category"`
}

// TeamComparison is a side-by-side stat comparison of two teams. Advantages
// maps a stat label to the name of the team that holds the edge, or "Even".
type TeamComparison struct {
	Team1      TeamStats         `json:"team1"`
	Team2      TeamStats         `json:"team2"`
	Advantages map[string]string `json:"advantages"`
}
