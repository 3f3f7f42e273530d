package sources

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ESPN payloads are loosely typed: IDs and scores arrive as numbers, strings
// or small objects depending on endpoint and game state. The flex types
// below absorb those variations; unparseable values decode to the zero
// value rather than failing the whole document.

type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(b)
	return nil
}

func (f flexString) String() string { return string(f) }

type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexInt(int(v))
	case '{':
		var obj struct {
			Value  float64 `json:"value"`
			Number float64 `json:"number"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		if obj.Value != 0 {
			*f = flexInt(int(obj.Value))
		} else {
			*f = flexInt(int(obj.Number))
		}
	default:
		var v float64
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = flexInt(int(v))
	}
	return nil
}

func (f flexInt) Int() int { return int(f) }

type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

func (f flexFloat) Float() float64 { return float64(f) }

// Scoreboard and schedule shapes.

type espnScoreboard struct {
	Events []espnEvent `json:"events"`
}

type espnEvent struct {
	ID           flexString        `json:"id"`
	Date         string            `json:"date"`
	Status       espnStatus        `json:"status"`
	Competitions []espnCompetition `json:"competitions"`
}

type espnCompetition struct {
	Date                  string           `json:"date"`
	Status                espnStatus       `json:"status"`
	Competitors           []espnCompetitor `json:"competitors"`
	Broadcasts            []espnBroadcast  `json:"broadcasts"`
	Notes                 []espnNote       `json:"notes"`
	Venue                 espnVenue        `json:"venue"`
	ConferenceCompetition bool             `json:"conferenceCompetition"`
	NeutralSite           bool             `json:"neutralSite"`
}

type espnStatus struct {
	Type struct {
		State       string `json:"state"`
		Detail      string `json:"detail"`
		ShortDetail string `json:"shortDetail"`
	} `json:"type"`
	Period       int    `json:"period"`
	DisplayClock string `json:"displayClock"`
}

type espnCompetitor struct {
	HomeAway string     `json:"homeAway"`
	Team     espnTeam   `json:"team"`
	Score    flexInt    `json:"score"`
	Ranks    []espnRank `json:"ranks"`

	CuratedRank struct {
		Current int `json:"current"`
	} `json:"curatedRank"`

	// Scoreboard events carry "records", summary headers carry "record".
	Records    []espnRecordItem `json:"records"`
	RecordList []espnRecordItem `json:"record"`

	Linescores []espnLinescore `json:"linescores"`
}

type espnRank struct {
	Current int `json:"current"`
}

type espnRecordItem struct {
	Type         string `json:"type"`
	Summary      string `json:"summary"`
	DisplayValue string `json:"displayValue"`
}

type espnLinescore struct {
	Value        flexInt `json:"value"`
	DisplayValue flexInt `json:"displayValue"`
}

type espnBroadcast struct {
	Names []string `json:"names"`
}

type espnNote struct {
	Headline string `json:"headline"`
}

type espnVenue struct {
	FullName string `json:"fullName"`
	Address  struct {
		City  string `json:"city"`
		State string `json:"state"`
	} `json:"address"`
	Capacity int `json:"capacity"`
}

// Team shapes.

type espnTeam struct {
	ID           flexString `json:"id"`
	DisplayName  string     `json:"displayName"`
	Name         string     `json:"name"`
	Nickname     string     `json:"nickname"`
	Location     string     `json:"location"`
	Abbreviation string     `json:"abbreviation"`
	Color        string     `json:"color"`
	Logo         string     `json:"logo"`
	ConferenceID flexString `json:"conferenceId"`
	Rank         flexInt    `json:"rank"`

	Logos []struct {
		Href string `json:"href"`
	} `json:"logos"`

	Record struct {
		Items []espnRecordItem `json:"items"`
	} `json:"record"`

	Groups         espnGroups `json:"groups"`
	Venue          *espnVenue `json:"venue"`
	FranchiseVenue *espnVenue `json:"franchiseVenue"`
}

// espnGroups is a {"id","name"} object on team detail but a list on some
// list endpoints.
type espnGroups struct {
	ID   string
	Name string
}

func (g *espnGroups) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	type group struct {
		ID   flexString `json:"id"`
		Name string     `json:"name"`
	}
	if b[0] == '[' {
		var list []group
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		if len(list) > 0 {
			g.ID = list[0].ID.String()
			g.Name = list[0].Name
		}
		return nil
	}
	var one group
	if err := json.Unmarshal(b, &one); err != nil {
		return err
	}
	g.ID = one.ID.String()
	g.Name = one.Name
	return nil
}

type espnTeamResponse struct {
	Team espnTeam `json:"team"`
}

type espnTeamListResponse struct {
	Sports []struct {
		Leagues []struct {
			Teams []struct {
				Team espnTeam `json:"team"`
			} `json:"teams"`
		} `json:"leagues"`
	} `json:"sports"`
}

// Roster shapes. The athletes array is either flat athlete objects or
// grouped {position, items: [...]} blocks; the embedded espnAthlete covers
// the flat case.

type espnRosterResponse struct {
	Athletes []espnRosterGroup `json:"athletes"`
}

type espnRosterGroup struct {
	Items []espnAthlete `json:"items"`
	espnAthlete
}

type espnAthlete struct {
	ID            flexString `json:"id"`
	DisplayName   string     `json:"displayName"`
	Jersey        string     `json:"jersey"`
	DisplayHeight string     `json:"displayHeight"`
	DisplayWeight flexString `json:"displayWeight"`

	Position struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"position"`

	Experience struct {
		DisplayValue string `json:"displayValue"`
	} `json:"experience"`

	BirthPlace struct {
		City string `json:"city"`
	} `json:"birthPlace"`

	Team struct {
		DisplayName string `json:"displayName"`
	} `json:"team"`
}

// Game summary shapes.

type espnSummaryResponse struct {
	Header   espnSummaryHeader `json:"header"`
	Boxscore espnBoxscore      `json:"boxscore"`
	Plays    []espnPlay        `json:"plays"`
}

type espnSummaryHeader struct {
	ID           flexString        `json:"id"`
	Competitions []espnCompetition `json:"competitions"`
}

type espnBoxscore struct {
	Players []espnTeamBox `json:"players"`
}

type espnTeamBox struct {
	Team       espnTeam        `json:"team"`
	Statistics []espnStatGroup `json:"statistics"`
}

type espnStatGroup struct {
	Labels   []string         `json:"labels"`
	Athletes []espnBoxAthlete `json:"athletes"`
	Stats    []espnNamedStat  `json:"stats"`
}

type espnBoxAthlete struct {
	Athlete espnAthlete `json:"athlete"`
	Stats   []string    `json:"stats"`
}

type espnNamedStat struct {
	Name  string    `json:"name"`
	Value flexFloat `json:"value"`
}

type espnPlay struct {
	ID   flexString `json:"id"`
	Text string     `json:"text"`

	Period struct {
		Number int `json:"number"`
	} `json:"period"`

	Clock struct {
		DisplayValue string `json:"displayValue"`
	} `json:"clock"`

	Team struct {
		ID flexString `json:"id"`
	} `json:"team"`

	Type struct {
		Text string `json:"text"`
	} `json:"type"`

	HomeScore   int  `json:"homeScore"`
	AwayScore   int  `json:"awayScore"`
	ScoringPlay bool `json:"scoringPlay"`

	Coordinate *struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	} `json:"coordinate"`
}

// Rankings shapes.

type espnRankingsResponse struct {
	Rankings []espnPollData `json:"rankings"`
}

type espnPollData struct {
	Name  string          `json:"name"`
	Week  flexInt         `json:"week"`
	Date  string          `json:"date"`
	Ranks []espnRankEntry `json:"ranks"`
}

type espnRankEntry struct {
	Current       int      `json:"current"`
	Previous      int      `json:"previous"`
	Points        flexInt  `json:"points"`
	RecordSummary string   `json:"recordSummary"`
	Team          espnTeam `json:"team"`
}

// Standings shapes (web API). A single-conference response carries the
// table at top level; multi-conference responses nest under children.

type espnStandingsResponse struct {
	Name         string               `json:"name"`
	Abbreviation string               `json:"abbreviation"`
	Children     []espnStandingsBlock `json:"children"`
	Standings    *espnStandingsTable  `json:"standings"`
}

type espnStandingsBlock struct {
	Name         string             `json:"name"`
	Abbreviation string             `json:"abbreviation"`
	Standings    espnStandingsTable `json:"standings"`
}

type espnStandingsTable struct {
	Entries []espnStandingsRow `json:"entries"`
}

type espnStandingsRow struct {
	Team  espnTeam           `json:"team"`
	Stats []espnStandingStat `json:"stats"`
}

type espnStandingStat struct {
	Type         string `json:"type"`
	Summary      string `json:"summary"`
	DisplayValue string `json:"displayValue"`
}

// Team statistics shape (site API).

type espnTeamStatsResponse struct {
	Team    espnTeam `json:"team"`
	Results struct {
		Stats struct {
			Categories []espnStatGroup `json:"categories"`
		} `json:"stats"`
	} `json:"results"`
}

// Core API shapes: collections of $ref links plus per-athlete statistics.

type espnRef struct {
	Ref string `json:"$ref"`
}

type espnRefList struct {
	Items []espnRef `json:"items"`
}

type espnCoreStats struct {
	Splits struct {
		Categories []struct {
			Stats []espnNamedStat `json:"stats"`
		} `json:"categories"`
	} `json:"splits"`
}

type espnLeadersResponse struct {
	Categories []struct {
		Name    string `json:"name"`
		Leaders []struct {
			Value   float64 `json:"value"`
			Athlete espnRef `json:"athlete"`
			Team    espnRef `json:"team"`
		} `json:"leaders"`
	} `json:"categories"`
}

type espnCoreEntity struct {
	ID          flexString `json:"id"`
	DisplayName string     `json:"displayName"`
	Name        string     `json:"name"`
	Position    struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"position"`
	Team struct {
		DisplayName string `json:"displayName"`
	} `json:"team"`
}
