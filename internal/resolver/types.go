package resolver

import (
	"errors"
	"time"

	"github.com/mauv0809/tennis-oracle/internal/tennis"
)

var (
	// ErrNotFound means the store holds no data for the query.
	ErrNotFound = tennis.ErrNotFound
	// ErrInvalidArgument means the query was rejected before touching the store.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Kind names a statistical query.
type Kind string

const (
	KindTournamentWinner Kind = "tournament_winner"
	KindHeadToHead       Kind = "head_to_head"
	KindCareerStats      Kind = "career_stats"
	KindGrandSlamWinners Kind = "grand_slam_winners"
	KindMostSuccessful   Kind = "most_successful_players"
	KindTopRanked        Kind = "top_ranked_players"
)

// MaxLimit caps list queries.
const MaxLimit = 100

// Query is a typed statistical request. Which fields apply depends on Kind.
type Query struct {
	Kind       Kind   `json:"kind"`
	Tournament string `json:"tournament,omitempty"`
	Year       int    `json:"year,omitempty"`
	Player     string `json:"player,omitempty"`
	PlayerA    string `json:"player_a,omitempty"`
	PlayerB    string `json:"player_b,omitempty"`
	Tour       string `json:"tour,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

// Result is the answer to a query.
type Result struct {
	Kind        Kind      `json:"kind"`
	Fingerprint string    `json:"fingerprint"`
	Cached      bool      `json:"cached"`
	ComputedAt  time.Time `json:"computed_at"`
	Data        any       `json:"data"`
}

// TournamentWinner is the outcome of a tournament final.
type TournamentWinner struct {
	Tournament    string `json:"tournament"`
	Year          int    `json:"year"`
	Tour          string `json:"tour"`
	Winner        string `json:"winner"`
	WinnerCountry string `json:"winner_country,omitempty"`
	RunnerUp      string `json:"runner_up"`
	Score         string `json:"score"`
	Date          string `json:"date"`
}

// SlamWinner is the champion of one major.
type SlamWinner struct {
	Major      string `json:"major"`
	Tournament string `json:"tournament"`
	Winner     string `json:"winner"`
	RunnerUp   string `json:"runner_up"`
	Score      string `json:"score"`
	Date       string `json:"date"`
}
