package sources

import "strings"

// API base URLs.
const (
	ESPNAPIBase  = "https://site.api.espn.com/apis/site/v2/sports/basketball/mens-college-basketball"
	ESPNCoreBase = "https://sports.core.api.espn.com/v2/sports/basketball/leagues/mens-college-basketball"
	ESPNWebBase  = "https://site.web.api.espn.com/apis/v2/sports/basketball/mens-college-basketball"
	ESPNCDNBase  = "https://cdn.espn.com/core/mens-college-basketball"
	NCAAAPIBase  = "https://ncaa-api.henrygd.me"
)

// CurrentSeason is the ending year of the season in progress.
const CurrentSeason = 2025

// Conference holds an ESPN group ID and display name.
type Conference struct {
	ID   string
	Name string
}

// ESPNConferences maps common conference shorthands to ESPN group IDs.
var ESPNConferences = map[string]Conference{
	"ACC":           {ID: "2", Name: "Atlantic Coast Conference"},
	"Big 12":        {ID: "8", Name: "Big 12 Conference"},
	"Big East":      {ID: "4", Name: "Big East Conference"},
	"Big Ten":       {ID: "7", Name: "Big Ten Conference"},
	"SEC":           {ID: "3", Name: "Southeastern Conference"},
	"Pac-12":        {ID: "21", Name: "Pac-12 Conference"},
	"AAC":           {ID: "62", Name: "American Athletic Conference"},
	"A-10":          {ID: "6", Name: "Atlantic 10 Conference"},
	"Mountain West": {ID: "44", Name: "Mountain West Conference"},
	"WCC":           {ID: "5", Name: "West Coast Conference"},
	"MVC":           {ID: "9", Name: "Missouri Valley Conference"},
	"C-USA":         {ID: "11", Name: "Conference USA"},
	"MAC":           {ID: "12", Name: "Mid-American Conference"},
	"Sun Belt":      {ID: "37", Name: "Sun Belt Conference"},
	"CAA":           {ID: "10", Name: "Colonial Athletic Association"},
	"Ivy":           {ID: "22", Name: "Ivy League"},
	"MAAC":          {ID: "13", Name: "Metro Atlantic Athletic Conference"},
	"Horizon":       {ID: "45", Name: "Horizon League"},
	"WAC":           {ID: "23", Name: "Western Athletic Conference"},
	"Southern":      {ID: "24", Name: "Southern Conference"},
	"Big South":     {ID: "40", Name: "Big South Conference"},
	"OVC":           {ID: "16", Name: "Ohio Valley Conference"},
	"Summit":        {ID: "49", Name: "Summit League"},
	"Patriot":       {ID: "15", Name: "Patriot League"},
	"NEC":           {ID: "18", Name: "Northeast Conference"},
	"SWAC":          {ID: "26", Name: "Southwestern Athletic Conference"},
	"MEAC":          {ID: "17", Name: "Mid-Eastern Athletic Conference"},
	"Southland":     {ID: "25", Name: "Southland Conference"},
	"Big Sky":       {ID: "20", Name: "Big Sky Conference"},
	"Big West":      {ID: "19", Name: "Big West Conference"},
	"America East":  {ID: "14", Name: "America East Conference"},
	"ASUN":          {ID: "27", Name: "Atlantic Sun Conference"},
}

// ConferenceGroupID resolves a user-supplied conference name to an ESPN group
// ID, matching case-insensitively. Returns "" when unknown.
func ConferenceGroupID(name string) string {
	if name == "" {
		return ""
	}
	for key, conf := range ESPNConferences {
		if strings.EqualFold(key, name) || strings.EqualFold(conf.Name, name) {
			return conf.ID
		}
	}
	return ""
}
