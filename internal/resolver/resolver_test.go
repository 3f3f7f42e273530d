package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncaam/cbb-mcp/internal/models"
	"github.com/ncaam/cbb-mcp/internal/ratelimit"
	"github.com/ncaam/cbb-mcp/internal/sources"
)

// fakeSource scripts scoreboard and game-detail behavior per test.
type fakeSource struct {
	name     string
	priority int
	caps     sources.CapabilitySet

	scores    []models.Game
	scoresErr error
	calls     int
}

func (f *fakeSource) Name() string                        { return f.name }
func (f *fakeSource) Priority() int                       { return f.priority }
func (f *fakeSource) Capabilities() sources.CapabilitySet { return f.caps }

func (f *fakeSource) LiveScores(ctx context.Context, date, conference string, top25 bool) ([]models.Game, error) {
	f.calls++
	if f.scoresErr != nil {
		return nil, f.scoresErr
	}
	return f.scores, nil
}

func testRegistry() *ratelimit.Registry {
	return ratelimit.NewRegistry(1000, nil)
}

func TestPriorityOrderShortCircuits(t *testing.T) {
	primary := &fakeSource{
		name: "espn", priority: 1,
		caps:   sources.NewCapabilitySet(sources.LiveScores),
		scores: []models.Game{{ID: "1"}},
	}
	secondary := &fakeSource{
		name: "ncaa", priority: 2,
		caps:   sources.NewCapabilitySet(sources.LiveScores),
		scores: []models.Game{{ID: "2"}},
	}

	// registration order should not matter
	r := New(testRegistry(), secondary, primary)
	games, err := r.LiveScores(context.Background(), "2025-02-09", "", false)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "1", games[0].ID)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, secondary.calls, "lower-priority source must not be touched on success")
}

func TestFallbackOnFailure(t *testing.T) {
	primary := &fakeSource{
		name: "espn", priority: 1,
		caps:      sources.NewCapabilitySet(sources.LiveScores),
		scoresErr: &sources.SourceError{Source: "espn", Message: "upstream 503"},
	}
	secondary := &fakeSource{
		name: "ncaa", priority: 2,
		caps:   sources.NewCapabilitySet(sources.LiveScores),
		scores: []models.Game{{ID: "fallback"}},
	}

	r := New(testRegistry(), primary, secondary)
	games, err := r.LiveScores(context.Background(), "2025-02-09", "", false)
	require.NoError(t, err)
	assert.Equal(t, "fallback", games[0].ID)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestAllSourcesFailedAggregatesErrors(t *testing.T) {
	first := &fakeSource{
		name: "espn", priority: 1,
		caps:      sources.NewCapabilitySet(sources.LiveScores),
		scoresErr: &sources.SourceError{Source: "espn", Message: "timeout"},
	}
	second := &fakeSource{
		name: "ncaa", priority: 2,
		caps:      sources.NewCapabilitySet(sources.LiveScores),
		scoresErr: errors.New("bad gateway"),
	}

	r := New(testRegistry(), first, second)
	_, err := r.LiveScores(context.Background(), "2025-02-09", "", false)
	require.Error(t, err)

	var allFailed *sources.AllSourcesFailedError
	require.ErrorAs(t, err, &allFailed)
	assert.Equal(t, sources.LiveScores, allFailed.Capability)
	require.Len(t, allFailed.Errors, 2)
	assert.Equal(t, "espn", allFailed.Errors[0].Source)
	assert.Equal(t, "ncaa", allFailed.Errors[1].Source, "plain errors are wrapped with the source name")
	assert.Contains(t, err.Error(), "timeout")
	assert.Contains(t, err.Error(), "bad gateway")
}

func TestCapabilityFiltering(t *testing.T) {
	scoreless := &fakeSource{
		name: "rankings-only", priority: 1,
		caps:   sources.NewCapabilitySet(sources.Rankings),
		scores: []models.Game{{ID: "should-not-appear"}},
	}
	scorer := &fakeSource{
		name: "espn", priority: 2,
		caps:   sources.NewCapabilitySet(sources.LiveScores),
		scores: []models.Game{{ID: "1"}},
	}

	r := New(testRegistry(), scoreless, scorer)
	games, err := r.LiveScores(context.Background(), "2025-02-09", "", false)
	require.NoError(t, err)
	assert.Equal(t, "1", games[0].ID)
	assert.Equal(t, 0, scoreless.calls, "sources without the capability are never invoked")
}

func TestNoCapableSources(t *testing.T) {
	r := New(testRegistry(), &fakeSource{
		name: "espn", priority: 1,
		caps: sources.NewCapabilitySet(sources.LiveScores),
	})

	_, err := r.Rankings(context.Background(), "ap", 0, 0)
	require.Error(t, err)

	var allFailed *sources.AllSourcesFailedError
	require.ErrorAs(t, err, &allFailed)
	assert.Empty(t, allFailed.Errors)
}

func TestSourcesFor(t *testing.T) {
	a := &fakeSource{name: "a", priority: 3, caps: sources.NewCapabilitySet(sources.LiveScores)}
	b := &fakeSource{name: "b", priority: 1, caps: sources.NewCapabilitySet(sources.LiveScores)}
	c := &fakeSource{name: "c", priority: 2, caps: sources.NewCapabilitySet(sources.Rankings)}

	r := New(testRegistry(), a, b, c)
	capable := r.SourcesFor(sources.LiveScores)
	require.Len(t, capable, 2)
	assert.Equal(t, "b", capable[0].Name())
	assert.Equal(t, "a", capable[1].Name())
}
