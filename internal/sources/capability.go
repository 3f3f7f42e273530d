package sources

// Capability identifies one kind of fetchable data. Every source declares a
// fixed set of capabilities at construction; the resolver never queries a
// source for a capability it did not declare.
type Capability int

const (
	LiveScores Capability = iota
	TeamInfo
	TeamSearch
	Roster
	Schedule
	GameDetail
	BoxScore
	PlayByPlay
	Rankings
	Standings
	TeamStats
	PlayerStats
	StatLeaders
	Tournament
)

var capabilityNames = map[Capability]string{
	LiveScores:  "live_scores",
	TeamInfo:    "team_info",
	TeamSearch:  "team_search",
	Roster:      "roster",
	Schedule:    "schedule",
	GameDetail:  "game_detail",
	BoxScore:    "box_score",
	PlayByPlay:  "play_by_play",
	Rankings:    "rankings",
	Standings:   "standings",
	TeamStats:   "team_stats",
	PlayerStats: "player_stats",
	StatLeaders: "stat_leaders",
	Tournament:  "tournament",
}

func (c Capability) String() string {
	if name, ok := capabilityNames[c]; ok {
		return name
	}
	return "unknown"
}

// CapabilitySet is an immutable set of capabilities.
type CapabilitySet map[Capability]struct{}

// NewCapabilitySet builds a set from the given capabilities.
func NewCapabilitySet(caps ...Capability) CapabilitySet {
	set := make(CapabilitySet, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

// Has reports whether the set contains c.
func (s CapabilitySet) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}
