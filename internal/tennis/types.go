package tennis

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// store handles all database operations for canonical tennis records.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// ErrNotFound is returned by read queries that match no rows.
var ErrNotFound = errors.New("not found")

// Tour identifies a professional tour.
type Tour string

const (
	TourATP Tour = "ATP"
	TourWTA Tour = "WTA"
)

// ParseTour normalizes a tour name. Unknown values are rejected.
func ParseTour(s string) (Tour, error) {
	switch Tour(strings.ToUpper(strings.TrimSpace(s))) {
	case TourATP:
		return TourATP, nil
	case TourWTA:
		return TourWTA, nil
	default:
		return "", fmt.Errorf("unknown tour %q", s)
	}
}

// RoundFinal is the round code stored for finals.
const RoundFinal = "F"

// LevelGrandSlam is the normalized tournament level for the four majors.
const LevelGrandSlam = "grand_slam"

// Ranking is one row of a ranking snapshot.
type Ranking struct {
	Tour       Tour   `json:"tour"`
	PlayerName string `json:"player_name"`
	Country    string `json:"country"`
	Rank       int    `json:"rank"`
	Points     int    `json:"points"`
	AsOfDate   string `json:"as_of_date"`
}

// Tournament is a single edition of a tournament.
type Tournament struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Tour      Tour   `json:"tour"`
	Season    int    `json:"season"`
	Level     string `json:"level"`
	Surface   string `json:"surface"`
	StartDate string `json:"start_date"`
}

// ServiceStats are per-player serve totals for a match or a career.
type ServiceStats struct {
	Aces             int `json:"aces"`
	DoubleFaults     int `json:"double_faults"`
	ServePoints      int `json:"serve_points"`
	FirstServeIn     int `json:"first_serve_in"`
	FirstServeWon    int `json:"first_serve_won"`
	SecondServeWon   int `json:"second_serve_won"`
	BreakPointsSaved int `json:"break_points_saved"`
	BreakPointsFaced int `json:"break_points_faced"`
}

// Match is a completed singles match keyed by the provider's match id.
type Match struct {
	ID             string       `json:"id"`
	TournamentID   string       `json:"tournament_id"`
	TournamentName string       `json:"tournament_name,omitempty"`
	Season         int          `json:"season,omitempty"`
	Tour           Tour         `json:"tour,omitempty"`
	Round          string       `json:"round"`
	Date           string       `json:"date"`
	Winner         string       `json:"winner"`
	WinnerCountry  string       `json:"winner_country,omitempty"`
	Loser          string       `json:"loser"`
	LoserCountry   string       `json:"loser_country,omitempty"`
	Score          string       `json:"score"`
	WinnerStats    ServiceStats `json:"winner_stats"`
	LoserStats     ServiceStats `json:"loser_stats"`
}

// Batch is everything ingested for one tour in one sync. It is applied atomically.
type Batch struct {
	Tour        Tour
	Rankings    []Ranking
	Tournaments []Tournament
	Matches     []Match
}

// Counts holds per-entity record counts.
type Counts struct {
	Players     int `json:"players"`
	Rankings    int `json:"rankings"`
	Tournaments int `json:"tournaments"`
	Matches     int `json:"matches"`
}

// Add returns the element-wise sum of two counts.
func (c Counts) Add(o Counts) Counts {
	return Counts{
		Players:     c.Players + o.Players,
		Rankings:    c.Rankings + o.Rankings,
		Tournaments: c.Tournaments + o.Tournaments,
		Matches:     c.Matches + o.Matches,
	}
}

// HeadToHead aggregates every match between two players, oriented to PlayerA.
type HeadToHead struct {
	PlayerA string  `json:"player_a"`
	PlayerB string  `json:"player_b"`
	WinsA   int     `json:"wins_a"`
	WinsB   int     `json:"wins_b"`
	Matches []Match `json:"matches"`
}

// Swap returns the same record seen from PlayerB's side.
func (h HeadToHead) Swap() HeadToHead {
	return HeadToHead{
		PlayerA: h.PlayerB,
		PlayerB: h.PlayerA,
		WinsA:   h.WinsB,
		WinsB:   h.WinsA,
		Matches: h.Matches,
	}
}

// CareerStats represents a player's aggregate record across all stored matches.
type CareerStats struct {
	PlayerName          string       `json:"player_name"`
	Country             string       `json:"country"`
	CurrentRank         *int         `json:"current_rank,omitempty"`
	MatchesPlayed       int          `json:"matches_played"`
	MatchesWon          int          `json:"matches_won"`
	MatchesLost         int          `json:"matches_lost"`
	Titles              int          `json:"titles"`
	WinPercentage       float64      `json:"win_percentage"`
	Service             ServiceStats `json:"service"`
	FirstServePct       float64      `json:"first_serve_pct"`
	FirstServeWonPct    float64      `json:"first_serve_won_pct"`
	SecondServeWonPct   float64      `json:"second_serve_won_pct"`
	BreakPointsSavedPct float64      `json:"break_points_saved_pct"`
}

// PlayerWins is one row of the most-successful-players table.
type PlayerWins struct {
	PlayerName string `json:"player_name"`
	Country    string `json:"country"`
	Wins       int    `json:"wins"`
}

// SyncRun is the persisted record of one sync attempt.
type SyncRun struct {
	ID         string    `json:"id"`
	Trigger    string    `json:"trigger"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	Counts     Counts    `json:"counts"`
}

// StoreWriteError aborts the ingestion batch it occurred in.
type StoreWriteError struct {
	Tour   Tour
	Entity string
	Key    string
	Err    error
}

func (e *StoreWriteError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("store write failed for %s %s %q: %v", e.Tour, e.Entity, e.Key, e.Err)
	}
	return fmt.Sprintf("store write failed for %s %s: %v", e.Tour, e.Entity, e.Err)
}

func (e *StoreWriteError) Unwrap() error {
	return e.Err
}
