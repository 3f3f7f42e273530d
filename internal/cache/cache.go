// Package cache implements a two-tier TTL cache: an in-process map backed by
// a persistent store that survives restarts.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Store is the persistent tier. Get returns (nil, nil) on a miss.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// entry is the stored envelope. Expire is a unix timestamp in seconds.
type entry struct {
	Expire float64         `json:"expire"`
	Data   json.RawMessage `json:"data"`
}

func (e entry) expired(now time.Time) bool {
	return float64(now.UnixNano())/1e9 >= e.Expire
}

// Cache is safe for concurrent use. A nil store disables the persistent
// tier; a disabled cache misses on every Get and drops every Put.
type Cache struct {
	mu      sync.RWMutex
	mem     map[string]entry
	store   Store
	enabled bool
	now     func() time.Time
}

// New builds a Cache over the given persistent store. store may be nil.
func New(store Store, enabled bool) *Cache {
	return &Cache{
		mem:     make(map[string]entry),
		store:   store,
		enabled: enabled,
		now:     time.Now,
	}
}

// Key derives the cache key for a namespace and its arguments.
func Key(namespace string, args ...string) string {
	raw := namespace + ":" + strings.Join(args, "|")
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached payload for key, or (nil, false) on a miss or
// expired entry. A persistent-tier hit is promoted into memory.
func (c *Cache) Get(ctx context.Context, key string) (json.RawMessage, bool) {
	if !c.enabled {
		return nil, false
	}

	c.mu.RLock()
	e, ok := c.mem[key]
	c.mu.RUnlock()
	if ok {
		if !e.expired(c.now()) {
			return e.Data, true
		}
		c.mu.Lock()
		delete(c.mem, key)
		c.mu.Unlock()
	}

	if c.store == nil {
		return nil, false
	}
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache store read failed, continuing without cache")
		return nil, false
	}
	if raw == nil {
		return nil, false
	}

	var stored entry
	if err := json.Unmarshal(raw, &stored); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Dropping corrupt cache entry")
		_ = c.store.Delete(ctx, key)
		return nil, false
	}
	if stored.expired(c.now()) {
		_ = c.store.Delete(ctx, key)
		return nil, false
	}

	c.mu.Lock()
	c.mem[key] = stored
	c.mu.Unlock()
	return stored.Data, true
}

// Put stores data under key for ttl. A non-positive ttl stores nothing.
func (c *Cache) Put(ctx context.Context, key string, data json.RawMessage, ttl time.Duration) {
	if !c.enabled || ttl <= 0 {
		return
	}

	e := entry{
		Expire: float64(c.now().Add(ttl).UnixNano()) / 1e9,
		Data:   data,
	}
	c.mu.Lock()
	c.mem[key] = e
	c.mu.Unlock()

	if c.store == nil {
		return
	}
	raw, err := json.Marshal(e)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to encode cache entry")
		return
	}
	if err := c.store.Set(ctx, key, raw, ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache store write failed, continuing without cache")
	}
}

// Invalidate removes key from both tiers.
func (c *Cache) Invalidate(ctx context.Context, key string) {
	c.mu.Lock()
	delete(c.mem, key)
	c.mu.Unlock()
	if c.store != nil {
		_ = c.store.Delete(ctx, key)
	}
}

// Clear empties both tiers.
func (c *Cache) Clear(ctx context.Context) {
	c.mu.Lock()
	c.mem = make(map[string]entry)
	c.mu.Unlock()
	if c.store == nil {
		return
	}
	if err := c.store.Clear(ctx); err != nil {
		log.Warn().Err(err).Msg("Cache store clear failed")
	}
}

// Sweep drops expired entries from the memory tier and returns how many were
// removed.
func (c *Cache) Sweep() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.mem {
		if e.expired(now) {
			delete(c.mem, key)
			removed++
		}
	}
	return removed
}

// GetTyped decodes a cached payload into T.
func GetTyped[T any](ctx context.Context, c *Cache, key string) (T, bool) {
	var v T
	raw, ok := c.Get(ctx, key)
	if !ok {
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cached payload does not match expected shape")
		c.Invalidate(ctx, key)
		var zero T
		return zero, false
	}
	return v, true
}

// PutTyped encodes v and stores it under key for ttl.
func PutTyped[T any](ctx context.Context, c *Cache, key string, v T, ttl time.Duration) {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to encode value for cache")
		return
	}
	c.Put(ctx, key, raw, ttl)
}
