package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tennis-oracle/internal/cache"
	"github.com/mauv0809/tennis-oracle/internal/metrics"
	"github.com/mauv0809/tennis-oracle/internal/tennis"
)

// Resolver answers statistical queries through the result cache.
type Resolver struct {
	store   Store
	cache   Cache
	metrics metrics.Metrics
}

// New creates a new Resolver.
func New(store Store, cache Cache, metrics metrics.Metrics) *Resolver {
	return &Resolver{
		store:   store,
		cache:   cache,
		metrics: metrics,
	}
}

// resolve serves fp from the cache or computes and caches it.
func (r *Resolver) resolve(ctx context.Context, kind Kind, fp string, compute func(ctx context.Context) (any, error)) (Result, error) {
	start := time.Now()
	defer func() {
		r.metrics.ObserveQueryDuration(string(kind), time.Since(start).Seconds())
	}()

	if e, ok := r.cache.Get(fp); ok {
		r.metrics.IncCacheHit()
		log.Debug("Query served from cache", "fingerprint", fp, "hits", e.HitCount)
		return Result{Kind: kind, Fingerprint: fp, Cached: true, ComputedAt: e.ComputedAt, Data: e.Payload}, nil
	}
	r.metrics.IncCacheMiss()

	// A sync that commits while compute runs bumps the generation, so the
	// result is returned but not cached.
	gen := r.cache.Generation()
	data, err := compute(ctx)
	if err != nil {
		if errors.Is(err, tennis.ErrNotFound) {
			return Result{}, fmt.Errorf("%s: %w", kind, ErrNotFound)
		}
		log.Error("Query failed", "fingerprint", fp, "error", err)
		return Result{}, fmt.Errorf("%s: %w", kind, err)
	}

	e, _ := r.cache.PutIfGeneration(fp, data, gen)
	r.metrics.SetCacheSize(r.cache.Len())
	return Result{Kind: kind, Fingerprint: fp, Cached: false, ComputedAt: e.ComputedAt, Data: data}, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func validYear(year int) error {
	if year < 1000 || year > 9999 {
		return invalid("year %d is out of range", year)
	}
	return nil
}

func parseTour(tour string) (tennis.Tour, error) {
	if strings.TrimSpace(tour) == "" {
		return tennis.TourATP, nil
	}
	t, err := tennis.ParseTour(tour)
	if err != nil {
		return "", invalid("%v", err)
	}
	return t, nil
}

func clampLimit(limit int) (int, error) {
	if limit <= 0 {
		return 0, invalid("limit must be a positive integer, got %d", limit)
	}
	if limit > MaxLimit {
		return MaxLimit, nil
	}
	return limit, nil
}

// TournamentWinner returns the winner of the final of the named tournament.
// The name is matched case-insensitively as a substring.
func (r *Resolver) TournamentWinner(ctx context.Context, tournament string, year int) (Result, error) {
	name := normalize(tournament)
	if name == "" {
		return Result{}, invalid("tournament name is required")
	}
	if err := validYear(year); err != nil {
		return Result{}, err
	}

	fp := fingerprint(KindTournamentWinner, name, itoa(year))
	return r.resolve(ctx, KindTournamentWinner, fp, func(ctx context.Context) (any, error) {
		m, err := r.store.FinalMatch(ctx, name, year)
		if err != nil {
			return nil, err
		}
		return TournamentWinner{
			Tournament:    m.TournamentName,
			Year:          m.Season,
			Tour:          string(m.Tour),
			Winner:        m.Winner,
			WinnerCountry: m.WinnerCountry,
			RunnerUp:      m.Loser,
			Score:         m.Score,
			Date:          m.Date,
		}, nil
	})
}

// HeadToHead returns the record between two players, oriented to playerA.
func (r *Resolver) HeadToHead(ctx context.Context, playerA, playerB string) (Result, error) {
	a, b := normalize(playerA), normalize(playerB)
	if a == "" || b == "" {
		return Result{}, invalid("two player names are required")
	}
	first, second, swapped := sortedPair(a, b)

	fp := fingerprint(KindHeadToHead, first, second)
	res, err := r.resolve(ctx, KindHeadToHead, fp, func(ctx context.Context) (any, error) {
		h2h, err := r.store.HeadToHead(ctx, first, second)
		if err != nil {
			return nil, err
		}
		return *h2h, nil
	})
	if err != nil {
		return Result{}, err
	}
	if swapped {
		res.Data = res.Data.(tennis.HeadToHead).Swap()
	}
	return res, nil
}

// PlayerCareerStats aggregates every recorded match of a player.
func (r *Resolver) PlayerCareerStats(ctx context.Context, player string) (Result, error) {
	name := normalize(player)
	if name == "" {
		return Result{}, invalid("player name is required")
	}

	fp := fingerprint(KindCareerStats, name)
	return r.resolve(ctx, KindCareerStats, fp, func(ctx context.Context) (any, error) {
		stats, err := r.store.CareerStats(ctx, name)
		if err != nil {
			return nil, err
		}
		return *stats, nil
	})
}

// GrandSlamWinners returns the champion of each major in year, in calendar
// order. Majors without data are left out.
func (r *Resolver) GrandSlamWinners(ctx context.Context, year int, tour string) (Result, error) {
	if err := validYear(year); err != nil {
		return Result{}, err
	}
	t, err := parseTour(tour)
	if err != nil {
		return Result{}, err
	}

	fp := fingerprint(KindGrandSlamWinners, itoa(year), strings.ToLower(string(t)))
	return r.resolve(ctx, KindGrandSlamWinners, fp, func(ctx context.Context) (any, error) {
		finals, err := r.store.GrandSlamFinals(ctx, year, t)
		if err != nil {
			return nil, err
		}

		byMajor := make([]*SlamWinner, len(majors))
		for _, m := range finals {
			i, ok := majorIndex(m.TournamentName)
			if !ok {
				continue
			}
			byMajor[i] = &SlamWinner{
				Major:      majors[i].name,
				Tournament: m.TournamentName,
				Winner:     m.Winner,
				RunnerUp:   m.Loser,
				Score:      m.Score,
				Date:       m.Date,
			}
		}

		winners := make([]SlamWinner, 0, len(majors))
		for _, w := range byMajor {
			if w != nil {
				winners = append(winners, *w)
			}
		}
		return winners, nil
	})
}

// MostSuccessfulPlayers ranks players by recorded match wins.
func (r *Resolver) MostSuccessfulPlayers(ctx context.Context, limit int) (Result, error) {
	limit, err := clampLimit(limit)
	if err != nil {
		return Result{}, err
	}

	fp := fingerprint(KindMostSuccessful, itoa(limit))
	return r.resolve(ctx, KindMostSuccessful, fp, func(ctx context.Context) (any, error) {
		players, err := r.store.MostWins(ctx, limit)
		if err != nil {
			return nil, err
		}
		if players == nil {
			players = []tennis.PlayerWins{}
		}
		return players, nil
	})
}

// TopRankedPlayers returns the head of the latest ranking snapshot for a tour.
func (r *Resolver) TopRankedPlayers(ctx context.Context, tour string, limit int) (Result, error) {
	t, err := parseTour(tour)
	if err != nil {
		return Result{}, err
	}
	limit, err = clampLimit(limit)
	if err != nil {
		return Result{}, err
	}

	fp := fingerprint(KindTopRanked, strings.ToLower(string(t)), itoa(limit))
	return r.resolve(ctx, KindTopRanked, fp, func(ctx context.Context) (any, error) {
		rankings, err := r.store.TopRanked(ctx, t, limit)
		if err != nil {
			return nil, err
		}
		if rankings == nil {
			rankings = []tennis.Ranking{}
		}
		return rankings, nil
	})
}

// CacheStats reports the state of the result cache.
func (r *Resolver) CacheStats() cache.Stats {
	return r.cache.Stats()
}

// Resolve dispatches a typed query.
func (r *Resolver) Resolve(ctx context.Context, q Query) (Result, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(string(q.Kind)))) {
	case KindTournamentWinner:
		return r.TournamentWinner(ctx, q.Tournament, q.Year)
	case KindHeadToHead:
		return r.HeadToHead(ctx, q.PlayerA, q.PlayerB)
	case KindCareerStats:
		return r.PlayerCareerStats(ctx, q.Player)
	case KindGrandSlamWinners:
		return r.GrandSlamWinners(ctx, q.Year, q.Tour)
	case KindMostSuccessful:
		return r.MostSuccessfulPlayers(ctx, q.Limit)
	case KindTopRanked:
		return r.TopRankedPlayers(ctx, q.Tour, q.Limit)
	default:
		return Result{}, invalid("unknown query kind %q", q.Kind)
	}
}
