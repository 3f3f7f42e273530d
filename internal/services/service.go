// Package services is the cached, team-name-aware layer between the tool
// surface and the source resolver.
package services

import (
	"context"
	"strconv"
	"time"

	"github.com/ncaam/cbb-mcp/internal/cache"
	"github.com/ncaam/cbb-mcp/internal/metrics"
	"github.com/ncaam/cbb-mcp/internal/resolver"
)

// Cache TTLs by namespace. Live data turns over in seconds, reference data
// in hours or days.
var ttls = map[string]time.Duration{
	"live_scores":   30 * time.Second,
	"game_detail":   time.Minute,
	"box_score":     time.Minute,
	"play_by_play":  2 * time.Minute,
	"rankings":      time.Hour,
	"standings":     time.Hour,
	"team_info":     24 * time.Hour,
	"team_schedule": time.Hour,
	"roster":        24 * time.Hour,
	"team_stats":    time.Hour,
	"player_stats":  time.Hour,
	"stat_leaders":  time.Hour,
	"conferences":   24 * time.Hour,
	"tournament":    5 * time.Minute,
}

// TTLFor returns the cache TTL for a namespace; unknown namespaces get a
// conservative one minute.
func TTLFor(namespace string) time.Duration {
	if ttl, ok := ttls[namespace]; ok {
		return ttl
	}
	return time.Minute
}

// Service bundles the resolver with the response cache and the fuzzy team
// directory.
type Service struct {
	resolver *resolver.Resolver
	cache    *cache.Cache
	teams    *teamDirectory
}

// New builds a Service.
func New(r *resolver.Resolver, c *cache.Cache) *Service {
	return &Service{
		resolver: r,
		cache:    c,
		teams:    newTeamDirectory(r),
	}
}

// cached wraps a fetch with the namespace's cache: typed hit short-circuits,
// a successful fetch is stored for the namespace TTL.
func cached[T any](ctx context.Context, s *Service, namespace string, args []string, fetch func(context.Context) (T, error)) (T, error) {
	key := cache.Key(namespace, args...)
	if v, ok := cache.GetTyped[T](ctx, s.cache, key); ok {
		metrics.CacheHitsTotal.WithLabelValues(namespace).Inc()
		return v, nil
	}
	metrics.CacheMissesTotal.WithLabelValues(namespace).Inc()

	v, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	cache.PutTyped(ctx, s.cache, key, v, TTLFor(namespace))
	return v, nil
}

func itoa(n int) string { return strconv.Itoa(n) }
