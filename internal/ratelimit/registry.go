// Package ratelimit provides per-source request throttling.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Registry hands out one token-bucket limiter per source name. Unknown
// sources get the default rate on first use.
type Registry struct {
	mu          sync.Mutex
	limiters    map[string]*rate.Limiter
	defaultRate float64
	rates       map[string]float64
}

// NewRegistry builds a Registry. rates maps source names to requests per
// second; sources absent from the map use defaultRate.
func NewRegistry(defaultRate float64, rates map[string]float64) *Registry {
	return &Registry{
		limiters:    make(map[string]*rate.Limiter),
		defaultRate: defaultRate,
		rates:       rates,
	}
}

// Wait blocks until the named source may issue a request, or until ctx is
// done.
func (r *Registry) Wait(ctx context.Context, source string) error {
	return r.limiter(source).Wait(ctx)
}

// Allow reports whether the named source may issue a request right now
// without blocking.
func (r *Registry) Allow(source string) bool {
	return r.limiter(source).Allow()
}

func (r *Registry) limiter(source string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if lim, ok := r.limiters[source]; ok {
		return lim
	}
	rps := r.defaultRate
	if v, ok := r.rates[source]; ok && v > 0 {
		rps = v
	}
	burst := int(2 * rps)
	if burst < 1 {
		burst = 1
	}
	lim := rate.NewLimiter(rate.Limit(rps), burst)
	r.limiters[source] = lim
	return lim
}
