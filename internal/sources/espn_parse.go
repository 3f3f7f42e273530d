package sources

import (
	"strconv"
	"strings"

	"github.com/ncaam/cbb-mcp/internal/models"
)

func parseEvent(event espnEvent) models.Game {
	var comp espnCompetition
	if len(event.Competitions) > 0 {
		comp = event.Competitions[0]
	}
	status := comp.Status
	if status.Type.State == "" {
		status = event.Status
	}

	var home, away espnCompetitor
	for _, c := range comp.Competitors {
		if c.HomeAway == "home" {
			home = c
		} else {
			away = c
		}
	}

	detail := status.Type.Detail
	if detail == "" {
		detail = status.Type.ShortDetail
	}

	return models.Game{
		ID:             event.ID.String(),
		Date:           event.Date,
		Status:         status.Type.State,
		StatusDetail:   detail,
		Period:         status.Period,
		Clock:          status.DisplayClock,
		Venue:          comp.Venue.FullName,
		Broadcast:      broadcastName(comp.Broadcasts),
		ConferenceGame: comp.ConferenceCompetition,
		NeutralSite:    comp.NeutralSite,
		Home:           parseCompetitor(home),
		Away:           parseCompetitor(away),
		Notes:          noteHeadline(comp.Notes),
	}
}

// parseCompetitor handles scoreboard competitors, which carry curatedRank
// and a "records" list.
func parseCompetitor(c espnCompetitor) models.TeamScore {
	var record string
	if len(c.Records) > 0 {
		record = c.Records[0].Summary
	}

	var rank *int
	if r := c.CuratedRank.Current; r >= 1 && r <= 25 {
		rank = &r
	}

	lineScores := make([]int, 0, len(c.Linescores))
	for _, ls := range c.Linescores {
		lineScores = append(lineScores, ls.Value.Int())
	}

	return models.TeamScore{
		TeamID:       c.Team.ID.String(),
		TeamName:     teamDisplayName(c.Team),
		Abbreviation: c.Team.Abbreviation,
		Score:        c.Score.Int(),
		Rank:         rank,
		Record:       record,
		LogoURL:      c.Team.Logo,
		LineScores:   lineScores,
	}
}

// parseSummaryGame handles the /summary header, where competitors carry
// "ranks" and a "record" list instead of the scoreboard fields.
func parseSummaryGame(header espnSummaryHeader) models.Game {
	var comp espnCompetition
	if len(header.Competitions) > 0 {
		comp = header.Competitions[0]
	}

	var home, away espnCompetitor
	for _, c := range comp.Competitors {
		if c.HomeAway == "home" {
			home = c
		} else {
			away = c
		}
	}

	return models.Game{
		ID:             header.ID.String(),
		Date:           comp.Date,
		Status:         comp.Status.Type.State,
		StatusDetail:   comp.Status.Type.Detail,
		Period:         comp.Status.Period,
		Clock:          comp.Status.DisplayClock,
		Venue:          comp.Venue.FullName,
		Broadcast:      broadcastName(comp.Broadcasts),
		ConferenceGame: comp.ConferenceCompetition,
		NeutralSite:    comp.NeutralSite,
		Home:           parseSummaryCompetitor(home),
		Away:           parseSummaryCompetitor(away),
		Notes:          noteHeadline(comp.Notes),
	}
}

func parseSummaryCompetitor(c espnCompetitor) models.TeamScore {
	var rank *int
	if len(c.Ranks) > 0 {
		if r := c.Ranks[0].Current; r >= 1 && r <= 25 {
			rank = &r
		}
	}

	var record string
	for _, r := range c.RecordList {
		if r.Type == "total" {
			record = r.DisplayValue
			break
		}
	}
	if record == "" && len(c.RecordList) > 0 {
		record = c.RecordList[0].DisplayValue
	}

	lineScores := make([]int, 0, len(c.Linescores))
	for _, ls := range c.Linescores {
		lineScores = append(lineScores, ls.DisplayValue.Int())
	}

	return models.TeamScore{
		TeamID:       c.Team.ID.String(),
		TeamName:     teamDisplayName(c.Team),
		Abbreviation: c.Team.Abbreviation,
		Score:        c.Score.Int(),
		Rank:         rank,
		Record:       record,
		LogoURL:      c.Team.Logo,
		LineScores:   lineScores,
	}
}

func parseTeamDetail(t espnTeam) models.Team {
	var record models.Record
	for _, item := range t.Record.Items {
		w, l, ok := splitRecord(item.Summary)
		if !ok {
			continue
		}
		switch item.Type {
		case "total":
			record.Wins, record.Losses = w, l
		case "vsconf":
			record.ConferenceWins, record.ConferenceLosses = w, l
		}
	}

	var rank *int
	if r := t.Rank.Int(); r >= 1 && r <= 25 {
		rank = &r
	}

	var venue models.Venue
	vd := t.Venue
	if vd == nil {
		vd = t.FranchiseVenue
	}
	if vd != nil {
		venue = models.Venue{
			Name:     vd.FullName,
			City:     vd.Address.City,
			State:    vd.Address.State,
			Capacity: vd.Capacity,
		}
	}

	var logo string
	if len(t.Logos) > 0 {
		logo = t.Logos[0].Href
	}

	return models.Team{
		ID:           t.ID.String(),
		Name:         teamDisplayName(t),
		Abbreviation: t.Abbreviation,
		Mascot:       t.Nickname,
		Conference:   t.Groups.Name,
		LogoURL:      logo,
		Color:        t.Color,
		Record:       record,
		Rank:         rank,
		Venue:        venue,
	}
}

func parseRosterAthlete(a espnAthlete) models.Player {
	return models.Player{
		ID:       a.ID.String(),
		Name:     a.DisplayName,
		Jersey:   a.Jersey,
		Position: a.Position.Abbreviation,
		Height:   a.DisplayHeight,
		Weight:   a.DisplayWeight.String(),
		Year:     a.Experience.DisplayValue,
		Hometown: a.BirthPlace.City,
	}
}

// parseTeamBox flattens the label-indexed stat rows of one team's box score.
func parseTeamBox(box espnTeamBox) models.TeamBoxScore {
	var players []models.PlayerBoxScore
	for _, group := range box.Statistics {
		labels := make([]string, len(group.Labels))
		for i, l := range group.Labels {
			labels[i] = strings.ToLower(l)
		}
		for _, athlete := range group.Athletes {
			stats := make(map[string]string, len(labels))
			for i, label := range labels {
				if i < len(athlete.Stats) {
					stats[label] = athlete.Stats[i]
				}
			}

			fgm, fga := splitMadeAttempted(stats["fg"])
			tpm, tpa := splitMadeAttempted(stats["3pt"])
			ftm, fta := splitMadeAttempted(stats["ft"])

			players = append(players, models.PlayerBoxScore{
				PlayerID:          athlete.Athlete.ID.String(),
				Name:              athlete.Athlete.DisplayName,
				Position:          athlete.Athlete.Position.Abbreviation,
				Minutes:           statOr(stats, "min", "0"),
				Points:            atoiSafe(stats["pts"]),
				Rebounds:          atoiSafe(stats["reb"]),
				Assists:           atoiSafe(stats["ast"]),
				Steals:            atoiSafe(stats["stl"]),
				Blocks:            atoiSafe(stats["blk"]),
				Turnovers:         atoiSafe(stats["to"]),
				Fouls:             atoiSafe(stats["pf"]),
				FGM:               fgm,
				FGA:               fga,
				FGPct:             atofSafe(stats["fg%"]),
				TPM:               tpm,
				TPA:               tpa,
				TPPct:             atofSafe(stats["3pt%"]),
				FTM:               ftm,
				FTA:               fta,
				FTPct:             atofSafe(stats["ft%"]),
				OffensiveRebounds: atoiSafe(stats["oreb"]),
				DefensiveRebounds: atoiSafe(stats["dreb"]),
			})
		}
	}

	return models.TeamBoxScore{
		TeamID:   box.Team.ID.String(),
		TeamName: teamDisplayName(box.Team),
		Players:  players,
		Totals:   models.ComputeTotals(players),
	}
}

func parsePlay(seq int, p espnPlay) models.Play {
	play := models.Play{
		ID:          p.ID.String(),
		Sequence:    seq,
		Period:      p.Period.Number,
		Clock:       p.Clock.DisplayValue,
		Description: p.Text,
		TeamID:      p.Team.ID.String(),
		ScoreHome:   p.HomeScore,
		ScoreAway:   p.AwayScore,
		ScoringPlay: p.ScoringPlay,
		ShotType:    p.Type.Text,
	}
	if p.Coordinate != nil {
		x, y := p.Coordinate.X, p.Coordinate.Y
		play.CoordinateX = &x
		play.CoordinateY = &y
	}
	return play
}

func teamDisplayName(t espnTeam) string {
	if t.DisplayName != "" {
		return t.DisplayName
	}
	return t.Name
}

func broadcastName(broadcasts []espnBroadcast) string {
	if len(broadcasts) > 0 && len(broadcasts[0].Names) > 0 {
		return broadcasts[0].Names[0]
	}
	return ""
}

func noteHeadline(notes []espnNote) string {
	if len(notes) > 0 {
		return notes[0].Headline
	}
	return ""
}

func splitRecord(summary string) (wins, losses int, ok bool) {
	parts := strings.Split(summary, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	w, err1 := strconv.Atoi(parts[0])
	l, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return w, l, true
}

func splitMadeAttempted(v string) (made, attempted int) {
	parts := strings.Split(v, "-")
	if len(parts) != 2 {
		return 0, 0
	}
	return atoiSafe(parts[0]), atoiSafe(parts[1])
}

func statOr(stats map[string]string, key, fallback string) string {
	if v, ok := stats[key]; ok && v != "" {
		return v
	}
	return fallback
}

func atoiSafe(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0
	}
	return n
}

func atofSafe(v string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}
	return f
}
