// Package resolver dispatches data requests across sources in priority
// order, falling back to the next source on failure.
package resolver

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ncaam/cbb-mcp/internal/metrics"
	"github.com/ncaam/cbb-mcp/internal/models"
	"github.com/ncaam/cbb-mcp/internal/ratelimit"
	"github.com/ncaam/cbb-mcp/internal/sources"
)

// Resolver holds the registered sources sorted by priority and the
// per-source rate limiters applied before every upstream call.
type Resolver struct {
	sources []sources.Source
	limits  *ratelimit.Registry
}

// New builds a Resolver. Sources are sorted by ascending priority; the
// registration order breaks ties.
func New(limits *ratelimit.Registry, srcs ...sources.Source) *Resolver {
	sorted := make([]sources.Source, len(srcs))
	copy(sorted, srcs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() < sorted[j].Priority()
	})
	return &Resolver{sources: sorted, limits: limits}
}

// SourcesFor returns the sources declaring a capability, in priority order.
func (r *Resolver) SourcesFor(c sources.Capability) []sources.Source {
	var out []sources.Source
	for _, s := range r.sources {
		if s.Capabilities().Has(c) {
			out = append(out, s)
		}
	}
	return out
}

// resolve tries each capable source in priority order. call returns
// (result, supported, error); sources whose concrete type does not carry
// the needed provider interface report supported=false and are skipped
// without counting as failures.
func resolve[T any](ctx context.Context, r *Resolver, c sources.Capability, call func(context.Context, sources.Source) (T, bool, error)) (T, error) {
	var zero T

	capable := r.SourcesFor(c)
	if len(capable) == 0 {
		metrics.ResolverExhaustedTotal.WithLabelValues(c.String()).Inc()
		return zero, &sources.AllSourcesFailedError{Capability: c}
	}

	var errs []*sources.SourceError
	for _, src := range capable {
		if err := r.limits.Wait(ctx, src.Name()); err != nil {
			return zero, err
		}

		metrics.SourceAttemptsTotal.WithLabelValues(src.Name(), c.String()).Inc()
		start := time.Now()
		result, supported, err := call(ctx, src)
		if !supported {
			continue
		}
		metrics.SourceLatency.WithLabelValues(src.Name(), c.String()).Observe(time.Since(start).Seconds())

		if err == nil {
			log.Debug().
				Str("source", src.Name()).
				Str("capability", c.String()).
				Msg("Source resolved request")
			return result, nil
		}

		srcErr, ok := err.(*sources.SourceError)
		if !ok {
			srcErr = &sources.SourceError{Source: src.Name(), Message: err.Error(), Err: err}
		}
		log.Warn().
			Str("source", src.Name()).
			Str("capability", c.String()).
			Err(err).
			Msg("Source failed, trying next")
		metrics.SourceFailuresTotal.WithLabelValues(src.Name(), c.String()).Inc()
		errs = append(errs, srcErr)

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
	}

	metrics.ResolverExhaustedTotal.WithLabelValues(c.String()).Inc()
	return zero, &sources.AllSourcesFailedError{Capability: c, Errors: errs}
}

func (r *Resolver) LiveScores(ctx context.Context, date, conference string, top25 bool) ([]models.Game, error) {
	return resolve(ctx, r, sources.LiveScores, func(ctx context.Context, s sources.Source) ([]models.Game, bool, error) {
		p, ok := s.(sources.ScoreboardProvider)
		if !ok {
			return nil, false, nil
		}
		games, err := p.LiveScores(ctx, date, conference, top25)
		return games, true, err
	})
}

func (r *Resolver) TeamInfo(ctx context.Context, teamID string) (*models.Team, error) {
	return resolve(ctx, r, sources.TeamInfo, func(ctx context.Context, s sources.Source) (*models.Team, bool, error) {
		p, ok := s.(sources.TeamInfoProvider)
		if !ok {
			return nil, false, nil
		}
		team, err := p.TeamInfo(ctx, teamID)
		return team, true, err
	})
}

func (r *Resolver) SearchTeams(ctx context.Context, query, conference string) ([]models.Team, error) {
	return resolve(ctx, r, sources.TeamSearch, func(ctx context.Context, s sources.Source) ([]models.Team, bool, error) {
		p, ok := s.(sources.TeamSearchProvider)
		if !ok {
			return nil, false, nil
		}
		teams, err := p.SearchTeams(ctx, query, conference)
		return teams, true, err
	})
}

func (r *Resolver) Roster(ctx context.Context, teamID string) ([]models.Player, error) {
	return resolve(ctx, r, sources.Roster, func(ctx context.Context, s sources.Source) ([]models.Player, bool, error) {
		p, ok := s.(sources.RosterProvider)
		if !ok {
			return nil, false, nil
		}
		players, err := p.Roster(ctx, teamID)
		return players, true, err
	})
}

func (r *Resolver) Schedule(ctx context.Context, teamID string, season int) ([]models.Game, error) {
	return resolve(ctx, r, sources.Schedule, func(ctx context.Context, s sources.Source) ([]models.Game, bool, error) {
		p, ok := s.(sources.ScheduleProvider)
		if !ok {
			return nil, false, nil
		}
		games, err := p.Schedule(ctx, teamID, season)
		return games, true, err
	})
}

func (r *Resolver) GameDetail(ctx context.Context, gameID string) (*models.Game, error) {
	return resolve(ctx, r, sources.GameDetail, func(ctx context.Context, s sources.Source) (*models.Game, bool, error) {
		p, ok := s.(sources.GameDetailProvider)
		if !ok {
			return nil, false, nil
		}
		game, err := p.GameDetail(ctx, gameID)
		return game, true, err
	})
}

func (r *Resolver) BoxScore(ctx context.Context, gameID string) (*models.BoxScore, error) {
	return resolve(ctx, r, sources.BoxScore, func(ctx context.Context, s sources.Source) (*models.BoxScore, bool, error) {
		p, ok := s.(sources.BoxScoreProvider)
		if !ok {
			return nil, false, nil
		}
		box, err := p.BoxScore(ctx, gameID)
		return box, true, err
	})
}

func (r *Resolver) PlayByPlay(ctx context.Context, gameID string) (*models.PlayByPlay, error) {
	return resolve(ctx, r, sources.PlayByPlay, func(ctx context.Context, s sources.Source) (*models.PlayByPlay, bool, error) {
		p, ok := s.(sources.PlayByPlayProvider)
		if !ok {
			return nil, false, nil
		}
		pbp, err := p.PlayByPlay(ctx, gameID)
		return pbp, true, err
	})
}

func (r *Resolver) Rankings(ctx context.Context, pollType string, season, week int) (*models.Poll, error) {
	return resolve(ctx, r, sources.Rankings, func(ctx context.Context, s sources.Source) (*models.Poll, bool, error) {
		p, ok := s.(sources.RankingsProvider)
		if !ok {
			return nil, false, nil
		}
		poll, err := p.Rankings(ctx, pollType, season, week)
		return poll, true, err
	})
}

func (r *Resolver) Standings(ctx context.Context, conference string) ([]models.ConferenceStandings, error) {
	return resolve(ctx, r, sources.Standings, func(ctx context.Context, s sources.Source) ([]models.ConferenceStandings, bool, error) {
		p, ok := s.(sources.StandingsProvider)
		if !ok {
			return nil, false, nil
		}
		standings, err := p.Standings(ctx, conference)
		return standings, true, err
	})
}

func (r *Resolver) TeamStats(ctx context.Context, teamID string, season int) (*models.TeamStats, error) {
	return resolve(ctx, r, sources.TeamStats, func(ctx context.Context, s sources.Source) (*models.TeamStats, bool, error) {
		p, ok := s.(sources.TeamStatsProvider)
		if !ok {
			return nil, false, nil
		}
		stats, err := p.TeamStats(ctx, teamID, season)
		return stats, true, err
	})
}

func (r *Resolver) PlayerStats(ctx context.Context, playerID, teamID string) ([]models.PlayerStats, error) {
	return resolve(ctx, r, sources.PlayerStats, func(ctx context.Context, s sources.Source) ([]models.PlayerStats, bool, error) {
		p, ok := s.(sources.PlayerStatsProvider)
		if !ok {
			return nil, false, nil
		}
		stats, err := p.PlayerStats(ctx, playerID, teamID)
		return stats, true, err
	})
}

func (r *Resolver) StatLeaders(ctx context.Context, category string, season int) ([]models.StatLeader, error) {
	return resolve(ctx, r, sources.StatLeaders, func(ctx context.Context, s sources.Source) ([]models.StatLeader, bool, error) {
		p, ok := s.(sources.StatLeadersProvider)
		if !ok {
			return nil, false, nil
		}
		leaders, err := p.StatLeaders(ctx, category, season)
		return leaders, true, err
	})
}
