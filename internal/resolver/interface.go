package resolver

import (
	"context"

	"github.com/mauv0809/tennis-oracle/internal/cache"
	"github.com/mauv0809/tennis-oracle/internal/tennis"
)

// Store is the read-only slice of tennis.Store the resolver needs.
type Store interface {
	FinalMatch(ctx context.Context, tournament string, season int) (*tennis.Match, error)
	HeadToHead(ctx context.Context, playerA, playerB string) (*tennis.HeadToHead, error)
	CareerStats(ctx context.Context, player string) (*tennis.CareerStats, error)
	GrandSlamFinals(ctx context.Context, season int, tour tennis.Tour) ([]tennis.Match, error)
	MostWins(ctx context.Context, limit int) ([]tennis.PlayerWins, error)
	TopRanked(ctx context.Context, tour tennis.Tour, limit int) ([]tennis.Ranking, error)
}

// Cache is the result cache consulted before the store.
type Cache interface {
	Get(fingerprint string) (cache.Entry, bool)
	Generation() uint64
	PutIfGeneration(fingerprint string, payload any, gen uint64) (cache.Entry, bool)
	Len() int
	Stats() cache.Stats
}
