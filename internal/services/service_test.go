package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncaam/cbb-mcp/internal/cache"
	"github.com/ncaam/cbb-mcp/internal/models"
	"github.com/ncaam/cbb-mcp/internal/ratelimit"
	"github.com/ncaam/cbb-mcp/internal/resolver"
	"github.com/ncaam/cbb-mcp/internal/sources"
)

// fakeSource serves canned data and counts upstream calls.
type fakeSource struct {
	name     string
	priority int
	caps     sources.CapabilitySet

	games      []models.Game
	gamesErr   error
	teams      []models.Team
	teamDetail *models.Team
	stats      map[string]*models.TeamStats

	scoreCalls  int
	searchCalls int
}

func (f *fakeSource) Name() string                        { return f.name }
func (f *fakeSource) Priority() int                       { return f.priority }
func (f *fakeSource) Capabilities() sources.CapabilitySet { return f.caps }

func (f *fakeSource) LiveScores(ctx context.Context, date, conference string, top25 bool) ([]models.Game, error) {
	f.scoreCalls++
	return f.games, f.gamesErr
}

func (f *fakeSource) SearchTeams(ctx context.Context, query, conference string) ([]models.Team, error) {
	f.searchCalls++
	return f.teams, nil
}

func (f *fakeSource) TeamInfo(ctx context.Context, teamID string) (*models.Team, error) {
	return f.teamDetail, nil
}

func (f *fakeSource) TeamStats(ctx context.Context, teamID string, season int) (*models.TeamStats, error) {
	if st, ok := f.stats[teamID]; ok {
		return st, nil
	}
	return &models.TeamStats{TeamID: teamID}, nil
}

func intPtr(n int) *int { return &n }

func dukeUNCGame() models.Game {
	return models.Game{
		ID:     "401636890",
		Date:   "2025-02-09T17:00Z",
		Status: models.StatusPost,
		Home:   models.TeamScore{TeamID: "150", TeamName: "Duke Blue Devils", Score: 85, Rank: intPtr(5)},
		Away:   models.TeamScore{TeamID: "153", TeamName: "North Carolina Tar Heels", Score: 72, Rank: intPtr(12)},
	}
}

func newTestService(t *testing.T, srcs ...sources.Source) *Service {
	t.Helper()
	store, err := cache.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	r := resolver.New(ratelimit.NewRegistry(1000, nil), srcs...)
	return New(r, cache.New(store, true))
}

func TestLiveScoresCachesResult(t *testing.T) {
	src := &fakeSource{
		name: "espn", priority: 1,
		caps:  sources.NewCapabilitySet(sources.LiveScores),
		games: []models.Game{dukeUNCGame()},
	}
	svc := newTestService(t, src)
	ctx := context.Background()

	games, err := svc.LiveScores(ctx, "2025-02-09", "", false)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, 85, games[0].Home.Score)
	assert.Equal(t, "#5 Duke Blue Devils", games[0].Home.DisplayName())

	// second call is served from cache
	games, err = svc.LiveScores(ctx, "2025-02-09", "", false)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, 1, src.scoreCalls, "second request must hit the cache")

	// different args are a different cache entry
	_, err = svc.LiveScores(ctx, "2025-02-09", "", true)
	require.NoError(t, err)
	assert.Equal(t, 2, src.scoreCalls)
}

func TestLiveScoresFallsBackAcrossSources(t *testing.T) {
	primary := &fakeSource{
		name: "espn", priority: 1,
		caps:     sources.NewCapabilitySet(sources.LiveScores),
		gamesErr: &sources.SourceError{Source: "espn", Message: "down"},
	}
	secondary := &fakeSource{
		name: "ncaa", priority: 2,
		caps:  sources.NewCapabilitySet(sources.LiveScores),
		games: []models.Game{dukeUNCGame()},
	}
	svc := newTestService(t, primary, secondary)

	games, err := svc.LiveScores(context.Background(), "2025-02-09", "", false)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, 1, primary.scoreCalls)
	assert.Equal(t, 1, secondary.scoreCalls)
}

func TestTournamentFiltersToTournamentGames(t *testing.T) {
	marchGames := []models.Game{
		{ID: "1", Notes: "NCAA Tournament - First Round"},
		{ID: "2", Notes: "NIT First Round"},
		{ID: "3", Notes: "Men's Basketball Tournament"},
	}
	src := &fakeSource{
		name: "espn", priority: 1,
		caps:  sources.NewCapabilitySet(sources.LiveScores),
		games: marchGames,
	}
	svc := newTestService(t, src)

	games, err := svc.Tournament(context.Background(), 2025)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "1", games[0].ID)
	assert.Equal(t, "3", games[1].ID)
}

func TestCompareTeams(t *testing.T) {
	src := &fakeSource{
		name: "espn", priority: 1,
		caps: sources.NewCapabilitySet(sources.LiveScores, sources.TeamSearch, sources.TeamStats),
		teams: []models.Team{
			{ID: "150", Name: "Duke Blue Devils", Abbreviation: "DUKE", Mascot: "Blue Devils"},
			{ID: "153", Name: "North Carolina Tar Heels", Abbreviation: "UNC", Mascot: "Tar Heels"},
		},
		stats: map[string]*models.TeamStats{
			"150": {TeamID: "150", TeamName: "Duke", PPG: 84.2, OppPPG: 62.1, FGPct: 48.9, TOPG: 10.1},
			"153": {TeamID: "153", TeamName: "UNC", PPG: 81.0, OppPPG: 70.3, FGPct: 48.9, TOPG: 11.8},
		},
	}
	svc := newTestService(t, src)

	cmp, err := svc.CompareTeams(context.Background(), "duke", "unc")
	require.NoError(t, err)

	assert.Equal(t, "Duke", cmp.Advantages["Points Per Game"])
	assert.Equal(t, "Duke", cmp.Advantages["Opp Points Per Game"], "lower opponent scoring wins")
	assert.Equal(t, "Even", cmp.Advantages["FG%"])
	assert.Equal(t, "Duke", cmp.Advantages["Turnovers Per Game"], "fewer turnovers wins")
}

func TestTTLFor(t *testing.T) {
	assert.Equal(t, 30*time.Second, TTLFor("live_scores"))
	assert.Equal(t, 24*time.Hour, TTLFor("team_info"))
	assert.Equal(t, 5*time.Minute, TTLFor("tournament"))
	assert.Equal(t, time.Minute, TTLFor("unknown_namespace"))
}
