package models

import (
	"math"
	"strconv"
)

// Record holds a team's overall and conference win/loss counts.
type Record struct {
	Wins             int `json:"wins"`
	Losses           int `json:"losses"`
	ConferenceWins   int `json:"conference_wins"`
	ConferenceLosses int `json:"conference_losses"`
}

// Overall returns the record as "W-L".
func (r Record) Overall() string {
	return itoa(r.Wins) + "-" + itoa(r.Losses)
}

// Conference returns the conference record as "W-L".
func (r Record) Conference() string {
	return itoa(r.ConferenceWins) + "-" + itoa(r.ConferenceLosses)
}

// Venue describes a team's home arena.
type Venue struct {
	Name     string `json:"name"`
	City     string `json:"city"`
	State    string `json:"state"`
	Capacity int    `json:"capacity"`
}

// Team represents a college basketball team.
type Team struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	Mascot       string `json:"mascot"`
	Conference   string `json:"conference"`
	LogoURL      string `json:"logo_url"`
	Color        string `json:"color"`
	Record       Record `json:"record"`
	Rank         *int   `json:"rank,omitempty"`
	Venue        Venue  `json:"venue"`
}

// DisplayName returns the team name prefixed with its rank when ranked.
func (t Team) DisplayName() string {
	if t.Rank != nil && *t.Rank > 0 {
		return "#" + itoa(*t.Rank) + " " + t.Name
	}
	return t.Name
}

// Player is a roster entry.
type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Jersey   string `json:"jersey"`
	Position string `json:"position"`
	Height   string `json:"height"`
	Weight   string `json:"weight"`
	Year     string `json:"year"` // Fr, So, Jr, Sr
	Hometown string `json:"hometown"`
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
