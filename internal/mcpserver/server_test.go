package mcpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncaam/cbb-mcp/internal/cache"
	"github.com/ncaam/cbb-mcp/internal/models"
	"github.com/ncaam/cbb-mcp/internal/predictor"
	"github.com/ncaam/cbb-mcp/internal/ratelimit"
	"github.com/ncaam/cbb-mcp/internal/resolver"
	"github.com/ncaam/cbb-mcp/internal/services"
	"github.com/ncaam/cbb-mcp/internal/sources"
)

// fakeSource serves one canned game for the capabilities it declares.
type fakeSource struct {
	game models.Game
	caps sources.CapabilitySet
}

func (f *fakeSource) Name() string                        { return "fake" }
func (f *fakeSource) Priority() int                       { return 1 }
func (f *fakeSource) Capabilities() sources.CapabilitySet { return f.caps }

func (f *fakeSource) GameDetail(ctx context.Context, gameID string) (*models.Game, error) {
	g := f.game
	return &g, nil
}

func intPtr(n int) *int { return &n }

func newTestServer(t *testing.T, src sources.Source, pred *predictor.Client) *Server {
	t.Helper()
	store, err := cache.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	svc := services.New(resolver.New(ratelimit.NewRegistry(1000, nil), src), cache.New(store, true))
	return New(svc, pred, 0)
}

func finalGame() models.Game {
	return models.Game{
		ID:     "401636890",
		Status: models.StatusPost,
		Home:   models.TeamScore{TeamID: "150", TeamName: "Duke", Score: 85, Rank: intPtr(5)},
		Away:   models.TeamScore{TeamID: "153", TeamName: "North Carolina", Score: 72, Rank: intPtr(12)},
	}
}

func TestWinProbabilityFinalGameText(t *testing.T) {
	src := &fakeSource{game: finalGame(), caps: sources.NewCapabilitySet(sources.GameDetail)}
	s := newTestServer(t, src, predictor.NewClient("", time.Second))

	out, err := s.winProbability(context.Background(), "401636890")
	require.NoError(t, err)
	assert.Contains(t, out, "#5 Duke: 100.0%")
	assert.Contains(t, out, "#12 North Carolina: 0.0%")
}

func TestWinProbabilityModelOffline(t *testing.T) {
	g := finalGame()
	g.Status = models.StatusPre
	src := &fakeSource{game: g, caps: sources.NewCapabilitySet(sources.GameDetail)}
	s := newTestServer(t, src, predictor.NewClient("", time.Second))

	out, err := s.winProbability(context.Background(), "401636890")
	require.NoError(t, err)
	assert.Contains(t, out, "unavailable", "missing model degrades to a message, not an error")
}

func TestErrorResultMapping(t *testing.T) {
	res := errorResult("get_team", &services.TeamNotFoundError{Query: "dook"})
	require.True(t, res.IsError)
	text := res.Content[0].(*mcp.TextContent).Text
	assert.Contains(t, text, "dook")

	res = errorResult("get_live_scores", &sources.AllSourcesFailedError{Capability: sources.LiveScores})
	text = res.Content[0].(*mcp.TextContent).Text
	assert.Contains(t, text, "Try again shortly")

	res = errorResult("get_live_scores", errors.New("pq: connection refused"))
	text = res.Content[0].(*mcp.TextContent).Text
	assert.NotContains(t, text, "pq:", "internal errors never reach tool output")
}

func TestBearerAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := bearerAuth("sekrit", next)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "missing token is rejected")

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBearerAuthDisabled(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rec := httptest.NewRecorder()
	bearerAuth("", next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code, "empty token disables auth")
}

func TestLocalhostBind(t *testing.T) {
	assert.True(t, localhostBind("localhost:8080"))
	assert.True(t, localhostBind("127.0.0.1:8080"))
	assert.False(t, localhostBind("0.0.0.0:8080"))
	assert.False(t, localhostBind("10.1.2.3:8080"))
}

func TestAcquireRespectsContext(t *testing.T) {
	src := &fakeSource{caps: sources.NewCapabilitySet(sources.GameDetail)}
	s := newTestServer(t, src, nil)

	// Fill the semaphore so the next acquire must block.
	for i := 0; i < cap(s.sem); i++ {
		require.NoError(t, s.acquire(context.Background()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := s.acquire(ctx)
	require.Error(t, err, "a saturated server sheds load instead of queueing forever")

	s.release()
	require.NoError(t, s.acquire(context.Background()))
}

func TestConferencesResource(t *testing.T) {
	res, err := conferencesHandler(context.Background(), &mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Equal(t, conferencesURI, res.Contents[0].URI)
	assert.Contains(t, res.Contents[0].Text, "**NCAA D1 Conferences**")
	assert.Contains(t, res.Contents[0].Text, "Atlantic Coast Conference")
	assert.Regexp(t, `(?m)^  ACC\s+Atlantic Coast Conference$`, res.Contents[0].Text)
}

func TestGamePreviewPrompt(t *testing.T) {
	res, err := gamePreviewHandler(context.Background(), &mcp.GetPromptRequest{
		Params: &mcp.GetPromptParams{Arguments: map[string]string{"team1": "Duke", "team2": "Kansas"}},
	})
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)
	text := res.Messages[0].Content.(*mcp.TextContent).Text
	assert.Contains(t, text, "game preview for Duke vs Kansas")
	assert.Contains(t, text, "compare_teams", "prompt directs the client at the comparison tool")
}

func TestSeasonRecapPrompt(t *testing.T) {
	res, err := seasonRecapHandler(context.Background(), &mcp.GetPromptRequest{
		Params: &mcp.GetPromptParams{Arguments: map[string]string{"team_name": "Gonzaga"}},
	})
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)
	text := res.Messages[0].Content.(*mcp.TextContent).Text
	assert.Contains(t, text, "season recap for Gonzaga")
	assert.Contains(t, text, "get_standings")
}

func TestExplainFactors(t *testing.T) {
	g := finalGame()
	g.Status = models.StatusIn
	g.Period = 2
	g.Clock = "12:34"

	out := explainFactors(g)
	assert.Contains(t, out, "Factors Affecting Duke vs North Carolina")
	assert.Contains(t, out, "Duke leads by 13 points (advantage Duke)")
	assert.Contains(t, out, "Duke is ranked #5 vs #12 (advantage Duke)")
	assert.Contains(t, out, "period 2, 12:34")

	g.Home.Score = 0
	g.Away.Score = 0
	g.Status = models.StatusPre
	out = explainFactors(g)
	assert.Contains(t, out, "Game is tied (neutral)")
	assert.Contains(t, out, "has not started yet")
}
