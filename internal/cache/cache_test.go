package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDiskCache(t *testing.T) *Cache {
	t.Helper()
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)
	return New(store, true)
}

func TestKeyDeterministic(t *testing.T) {
	k1 := Key("live_scores", "2025-02-09", "", "false")
	k2 := Key("live_scores", "2025-02-09", "", "false")
	k3 := Key("live_scores", "2025-02-10", "", "false")

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.Len(t, k1, 64, "keys are hex-encoded SHA-256 digests")
}

func TestRoundTrip(t *testing.T) {
	c := newDiskCache(t)
	ctx := context.Background()
	key := Key("team_info", "150")

	PutTyped(ctx, c, key, map[string]string{"name": "Duke"}, time.Minute)

	got, ok := GetTyped[map[string]string](ctx, c, key)
	require.True(t, ok)
	assert.Equal(t, "Duke", got["name"])
}

func TestPersistentTierSurvivesMemoryLoss(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	require.NoError(t, err)

	ctx := context.Background()
	key := Key("rankings")
	c1 := New(store, true)
	c1.Put(ctx, key, json.RawMessage(`[1,2,3]`), time.Minute)

	// fresh cache over the same directory simulates a process restart
	c2 := New(store, true)
	got, ok := c2.Get(ctx, key)
	require.True(t, ok)
	assert.JSONEq(t, `[1,2,3]`, string(got))
}

func TestExpiry(t *testing.T) {
	c := newDiskCache(t)
	ctx := context.Background()
	key := Key("live_scores", "2025-02-09")

	now := time.Now()
	c.now = func() time.Time { return now }
	c.Put(ctx, key, json.RawMessage(`{}`), 30*time.Second)

	_, ok := c.Get(ctx, key)
	assert.True(t, ok)

	c.now = func() time.Time { return now.Add(31 * time.Second) }
	_, ok = c.Get(ctx, key)
	assert.False(t, ok, "entry should expire after its TTL")
}

func TestZeroTTLNotStored(t *testing.T) {
	c := newDiskCache(t)
	ctx := context.Background()
	key := Key("noop")

	c.Put(ctx, key, json.RawMessage(`{}`), 0)
	_, ok := c.Get(ctx, key)
	assert.False(t, ok)
}

func TestDisabledCacheBypasses(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)
	c := New(store, false)
	ctx := context.Background()
	key := Key("team_info", "150")

	c.Put(ctx, key, json.RawMessage(`{}`), time.Minute)
	_, ok := c.Get(ctx, key)
	assert.False(t, ok)
}

func TestCorruptFileIsDroppedAndDeleted(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	require.NoError(t, err)
	c := New(store, true)

	key := Key("box_score", "401636890")
	path := filepath.Join(dir, key+".json")
	require.NoError(t, os.WriteFile(path, []byte("not json{"), 0o644))

	_, ok := c.Get(context.Background(), key)
	assert.False(t, ok)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "corrupt entry should be removed")
}

func TestSweep(t *testing.T) {
	c := New(nil, true)
	ctx := context.Background()

	now := time.Now()
	c.now = func() time.Time { return now }
	c.Put(ctx, Key("a"), json.RawMessage(`1`), 10*time.Second)
	c.Put(ctx, Key("b"), json.RawMessage(`2`), time.Hour)

	c.now = func() time.Time { return now.Add(time.Minute) }
	assert.Equal(t, 1, c.Sweep())

	_, ok := c.Get(ctx, Key("b"))
	assert.True(t, ok, "unexpired entry should survive the sweep")
}

func TestTypedMismatchInvalidates(t *testing.T) {
	c := New(nil, true)
	ctx := context.Background()
	key := Key("shape")

	c.Put(ctx, key, json.RawMessage(`"a string"`), time.Minute)
	_, ok := GetTyped[int](ctx, c, key)
	assert.False(t, ok)

	_, ok = c.Get(ctx, key)
	assert.False(t, ok, "mismatched entry should be invalidated")
}

func TestClearEmptiesBothTiers(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	key := Key("standings")
	c := New(store, true)
	c.Put(ctx, key, json.RawMessage(`{}`), time.Minute)

	c.Clear(ctx)
	_, ok := c.Get(ctx, key)
	assert.False(t, ok, "cleared entry should miss")

	// fresh cache over the same directory proves the disk tier is gone too
	_, ok = New(store, true).Get(ctx, key)
	assert.False(t, ok)
}
