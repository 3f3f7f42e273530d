// Package format renders domain models as chat-friendly text for tool
// responses.
package format

import (
	"fmt"
	"strings"

	"github.com/ncaam/cbb-mcp/internal/models"
)

// Game renders one game as a single line (or two for upcoming games with a
// broadcast).
func Game(g models.Game) string {
	away := g.Away.DisplayName()
	home := g.Home.DisplayName()

	if g.Status == models.StatusPre {
		line := fmt.Sprintf("%s at %s — %s", away, home, g.StatusDetail)
		if g.Broadcast != "" {
			line += "\n  TV: " + g.Broadcast
		}
		return line
	}

	status := g.StatusDetail
	if status == "" {
		if g.Status == models.StatusPost {
			status = "Final"
		} else {
			status = "In Progress"
		}
	}
	return fmt.Sprintf("%s %d - %s %d  (%s)", away, g.Away.Score, home, g.Home.Score, status)
}

// Scores renders a scoreboard.
func Scores(games []models.Game) string {
	if len(games) == 0 {
		return "No games found for this date."
	}
	lines := make([]string, len(games))
	for i, g := range games {
		lines[i] = Game(g)
	}
	return strings.Join(lines, "\n")
}

// Team renders team info.
func Team(t models.Team) string {
	parts := []string{"**" + t.DisplayName() + "**"}
	if t.Conference != "" {
		parts = append(parts, "Conference: "+t.Conference)
	}
	if t.Record.Wins > 0 || t.Record.Losses > 0 {
		parts = append(parts, "Record: "+t.Record.Overall())
		if t.Record.ConferenceWins > 0 || t.Record.ConferenceLosses > 0 {
			parts = append(parts, "Conference: "+t.Record.Conference())
		}
	}
	if t.Venue.Name != "" {
		parts = append(parts, "Arena: "+t.Venue.Name)
	}
	return strings.Join(parts, "\n")
}

// Teams renders search results, one team per line.
func Teams(query string, teams []models.Team) string {
	if len(teams) == 0 {
		return fmt.Sprintf("No teams found matching '%s'.", query)
	}
	lines := []string{fmt.Sprintf("Found %d team(s):\n", len(teams))}
	if len(teams) > 20 {
		teams = teams[:20]
	}
	for _, t := range teams {
		rank := ""
		if t.Rank != nil && *t.Rank > 0 {
			rank = fmt.Sprintf("#%d ", *t.Rank)
		}
		lines = append(lines, fmt.Sprintf("  %s%s (%s) — %s", rank, t.Name, t.Abbreviation, t.Conference))
	}
	return strings.Join(lines, "\n")
}

// Roster renders a team's roster.
func Roster(t models.Team, players []models.Player) string {
	if len(players) == 0 {
		return fmt.Sprintf("No roster data available for %s.", t.Name)
	}
	lines := []string{fmt.Sprintf("**%s Roster**\n", t.DisplayName())}
	for _, p := range players {
		line := fmt.Sprintf("#%s %s", p.Jersey, p.Name)
		var details []string
		if p.Position != "" {
			details = append(details, p.Position)
		}
		if p.Height != "" {
			details = append(details, p.Height)
		}
		if p.Year != "" {
			details = append(details, p.Year)
		}
		if len(details) > 0 {
			line += " (" + strings.Join(details, ", ") + ")"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// Schedule renders a team's schedule with W/L results for finished games.
func Schedule(t models.Team, games []models.Game) string {
	if len(games) == 0 {
		return fmt.Sprintf("No schedule data available for %s.", t.Name)
	}
	lines := []string{fmt.Sprintf("**%s Schedule**\n", t.DisplayName())}
	for _, g := range games {
		isHome := g.Home.TeamID == t.ID
		opponent := g.Home
		teamSide := g.Away
		prefix := "@"
		if isHome {
			opponent = g.Away
			teamSide = g.Home
			prefix = "vs"
		}

		date := g.Date
		if len(date) > 10 {
			date = date[:10]
		}

		switch g.Status {
		case models.StatusPost:
			result := "L"
			if teamSide.Score > opponent.Score {
				result = "W"
			}
			lines = append(lines, fmt.Sprintf("%s  %s %s %s  %d-%d",
				date, result, prefix, opponent.DisplayName(), teamSide.Score, opponent.Score))
		case models.StatusIn:
			lines = append(lines, fmt.Sprintf("%s  LIVE %s %s  %d-%d (%s)",
				date, prefix, opponent.DisplayName(), teamSide.Score, opponent.Score, g.StatusDetail))
		default:
			lines = append(lines, fmt.Sprintf("%s  %s %s  %s",
				date, prefix, opponent.DisplayName(), g.StatusDetail))
		}
	}
	return strings.Join(lines, "\n")
}

// BoxScore renders both teams' box score tables.
func BoxScore(box models.BoxScore) string {
	lines := []string{Game(box.Game), ""}

	sides := []struct {
		label string
		team  models.TeamBoxScore
	}{
		{"Away", box.Away},
		{"Home", box.Home},
	}
	for _, side := range sides {
		name := side.team.TeamName
		if name == "" {
			name = side.label
		}
		lines = append(lines,
			"**"+name+"**",
			fmt.Sprintf("%-22s %4s %4s %4s %4s %4s %4s %7s", "Player", "MIN", "PTS", "REB", "AST", "STL", "BLK", "FG"),
			strings.Repeat("-", 65),
		)
		for _, p := range side.team.Players {
			fg := "-"
			if p.FGA > 0 {
				fg = fmt.Sprintf("%d-%d", p.FGM, p.FGA)
			}
			lines = append(lines, fmt.Sprintf("%-22s %4s %4d %4d %4d %4d %4d %7s",
				p.Name, p.Minutes, p.Points, p.Rebounds, p.Assists, p.Steals, p.Blocks, fg))
		}
		t := side.team.Totals
		lines = append(lines,
			strings.Repeat("-", 65),
			fmt.Sprintf("%-22s %4s %4d %4d %4d %4d %4d %7s",
				"TOTALS", "", t.Points, t.Rebounds, t.Assists, t.Steals, t.Blocks,
				fmt.Sprintf("%d-%d", t.FGM, t.FGA)),
			"",
		)
	}
	return strings.Join(lines, "\n")
}

// PlayByPlay renders the last lastN plays (all plays when lastN is zero).
func PlayByPlay(pbp models.PlayByPlay, lastN int) string {
	lines := []string{Game(pbp.Game), ""}

	plays := pbp.Plays
	truncated := false
	if lastN > 0 && len(plays) > lastN {
		plays = plays[len(plays)-lastN:]
		truncated = true
	}

	for _, p := range plays {
		score := fmt.Sprintf("[%d-%d]", p.ScoreAway, p.ScoreHome)
		marker := " "
		if p.ScoringPlay {
			marker = "*"
		}
		lines = append(lines, fmt.Sprintf("P%d %6s  %9s %s %s", p.Period, p.Clock, score, marker, p.Description))
	}

	if truncated {
		head := []string{lines[0], lines[1], fmt.Sprintf("(Showing last %d of %d plays)\n", lastN, len(pbp.Plays))}
		lines = append(head, lines[2:]...)
	}
	return strings.Join(lines, "\n")
}

// Rankings renders a poll with movement annotations.
func Rankings(poll models.Poll) string {
	lines := []string{fmt.Sprintf("**%s** (Week %d)\n", poll.Name, poll.Week)}
	for _, t := range poll.Teams {
		trend := ""
		switch t.Trend {
		case models.TrendUp:
			trend = fmt.Sprintf(" (+%d)", t.PreviousRank-t.Rank)
		case models.TrendDown:
			trend = fmt.Sprintf(" (-%d)", t.Rank-t.PreviousRank)
		case models.TrendNew:
			trend = " (NEW)"
		}
		lines = append(lines, fmt.Sprintf("%3d. %-26s %-8s %5d pts%s",
			t.Rank, t.TeamName, t.Record, t.Points, trend))
	}
	return strings.Join(lines, "\n")
}

// Standings renders one table per conference.
func Standings(standings []models.ConferenceStandings) string {
	if len(standings) == 0 {
		return "No standings data available."
	}
	var lines []string
	for _, s := range standings {
		lines = append(lines,
			"**"+s.Conference+"**",
			fmt.Sprintf("%3s  %-28s %-10s %-10s %-8s", "#", "Team", "Overall", "Conf", "Streak"),
			strings.Repeat("-", 65),
		)
		for _, t := range s.Teams {
			lines = append(lines, fmt.Sprintf("%3d  %-28s %-10s %-10s %-8s",
				t.ConferenceRank, t.TeamName, t.OverallRecord, t.ConferenceRecord, t.Streak))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// TeamStats renders a team's season stat line.
func TeamStats(stats models.TeamStats) string {
	return fmt.Sprintf(
		"**%s** Season Stats\n"+
			"PPG: %.1f | Opp PPG: %.1f\n"+
			"FG%%: %.1f | 3PT%%: %.1f | FT%%: %.1f\n"+
			"RPG: %.1f | APG: %.1f\n"+
			"SPG: %.1f | BPG: %.1f | TOPG: %.1f",
		stats.TeamName,
		stats.PPG, stats.OppPPG,
		stats.FGPct, stats.ThreePct, stats.FTPct,
		stats.RPG, stats.APG,
		stats.SPG, stats.BPG, stats.TOPG,
	)
}

// PlayerStats renders a table of player season averages.
func PlayerStats(players []models.PlayerStats) string {
	if len(players) == 0 {
		return "No player stats available."
	}
	lines := []string{
		fmt.Sprintf("%-24s %4s %3s %5s %5s %5s %5s %5s", "Player", "Pos", "GP", "PPG", "RPG", "APG", "FG%", "3P%"),
		strings.Repeat("-", 65),
	}
	for _, p := range players {
		lines = append(lines, fmt.Sprintf("%-24s %4s %3d %5.1f %5.1f %5.1f %5.1f %5.1f",
			p.Name, p.Position, p.GamesPlayed, p.PPG, p.RPG, p.APG, p.FGPct, p.ThreePct))
	}
	return strings.Join(lines, "\n")
}

// StatLeaders renders a national leaderboard.
func StatLeaders(leaders []models.StatLeader) string {
	if len(leaders) == 0 {
		return "No stat leader data available."
	}
	title := leaders[0].StatCategory
	if title != "" {
		title = strings.ToUpper(title[:1]) + title[1:]
	}
	lines := []string{fmt.Sprintf("**National %s Leaders**\n", title)}
	for _, l := range leaders {
		lines = append(lines, fmt.Sprintf("%3d. %-24s %-20s %.1f", l.Rank, l.Name, l.Team, l.Value))
	}
	return strings.Join(lines, "\n")
}

// Comparison renders two teams' stats side by side with advantages.
func Comparison(comp models.TeamComparison) string {
	lines := []string{
		fmt.Sprintf("**%s vs %s**\n", comp.Team1.TeamName, comp.Team2.TeamName),
		fmt.Sprintf("%-24s %14s %14s %14s", "Stat", comp.Team1.TeamName, comp.Team2.TeamName, "Advantage"),
		strings.Repeat("-", 70),
	}

	rows := []struct {
		label string
		key   string
		v1    float64
		v2    float64
	}{
		{"PPG", "Points Per Game", comp.Team1.PPG, comp.Team2.PPG},
		{"Opp PPG", "Opp Points Per Game", comp.Team1.OppPPG, comp.Team2.OppPPG},
		{"FG%", "FG%", comp.Team1.FGPct, comp.Team2.FGPct},
		{"3PT%", "3PT%", comp.Team1.ThreePct, comp.Team2.ThreePct},
		{"FT%", "FT%", comp.Team1.FTPct, comp.Team2.FTPct},
		{"RPG", "Rebounds Per Game", comp.Team1.RPG, comp.Team2.RPG},
		{"APG", "Assists Per Game", comp.Team1.APG, comp.Team2.APG},
		{"SPG", "Steals Per Game", comp.Team1.SPG, comp.Team2.SPG},
		{"BPG", "Blocks Per Game", comp.Team1.BPG, comp.Team2.BPG},
		{"TOPG", "Turnovers Per Game", comp.Team1.TOPG, comp.Team2.TOPG},
	}
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%-24s %14.1f %14.1f %14s",
			row.label, row.v1, row.v2, comp.Advantages[row.key]))
	}
	return strings.Join(lines, "\n")
}
