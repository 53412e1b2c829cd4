package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tennis-oracle/internal/resolver"
)

// defaultListLimit applies when a list endpoint is called without ?limit.
const defaultListLimit = 10

// queryBuilder turns request parameters into a typed query.
type queryBuilder func(r *http.Request) (resolver.Query, error)

func apiQueryHandler(res QueryResolver, kind resolver.Kind, build queryBuilder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := build(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		q.Kind = kind
		log.Debug("Resolving query", "kind", kind, "query", q)
		result, err := res.Resolve(r.Context(), q)
		writeQueryResult(w, result, err)
	}
}

// TournamentWinnerHandler serves GET /api/tournament-winner?tournament=&year=.
func TournamentWinnerHandler(res QueryResolver) http.HandlerFunc {
	return apiQueryHandler(res, resolver.KindTournamentWinner, func(r *http.Request) (resolver.Query, error) {
		year, err := intParam(r, "year", 0)
		if err != nil {
			return resolver.Query{}, err
		}
		return resolver.Query{Tournament: r.URL.Query().Get("tournament"), Year: year}, nil
	})
}

// HeadToHeadHandler serves GET /api/head-to-head?player_a=&player_b=.
func HeadToHeadHandler(res QueryResolver) http.HandlerFunc {
	return apiQueryHandler(res, resolver.KindHeadToHead, func(r *http.Request) (resolver.Query, error) {
		return resolver.Query{PlayerA: r.URL.Query().Get("player_a"), PlayerB: r.URL.Query().Get("player_b")}, nil
	})
}

// CareerStatsHandler serves GET /api/career?player=.
func CareerStatsHandler(res QueryResolver) http.HandlerFunc {
	return apiQueryHandler(res, resolver.KindCareerStats, func(r *http.Request) (resolver.Query, error) {
		return resolver.Query{Player: r.URL.Query().Get("player")}, nil
	})
}

// GrandSlamsHandler serves GET /api/grand-slams?year=&tour=.
func GrandSlamsHandler(res QueryResolver) http.HandlerFunc {
	return apiQueryHandler(res, resolver.KindGrandSlamWinners, func(r *http.Request) (resolver.Query, error) {
		year, err := intParam(r, "year", 0)
		if err != nil {
			return resolver.Query{}, err
		}
		return resolver.Query{Year: year, Tour: r.URL.Query().Get("tour")}, nil
	})
}

// MostSuccessfulHandler serves GET /api/most-successful?limit=.
func MostSuccessfulHandler(res QueryResolver) http.HandlerFunc {
	return apiQueryHandler(res, resolver.KindMostSuccessful, func(r *http.Request) (resolver.Query, error) {
		limit, err := intParam(r, "limit", defaultListLimit)
		if err != nil {
			return resolver.Query{}, err
		}
		return resolver.Query{Limit: limit}, nil
	})
}

// RankingsHandler serves GET /api/rankings?tour=&limit=.
func RankingsHandler(res QueryResolver) http.HandlerFunc {
	return apiQueryHandler(res, resolver.KindTopRanked, func(r *http.Request) (resolver.Query, error) {
		limit, err := intParam(r, "limit", defaultListLimit)
		if err != nil {
			return resolver.Query{}, err
		}
		return resolver.Query{Tour: r.URL.Query().Get("tour"), Limit: limit}, nil
	})
}

// QueryHandler serves POST /query with a JSON encoded resolver.Query.
func QueryHandler(res QueryResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q resolver.Query
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			log.Warn("Failed to decode query", "error", err)
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}
		result, err := res.Resolve(r.Context(), q)
		writeQueryResult(w, result, err)
	}
}

// CacheStatsHandler serves GET /cache/stats.
func CacheStatsHandler(res QueryResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, res.CacheStats())
	}
}
