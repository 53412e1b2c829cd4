package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tennis-oracle/internal/config"
)

const maxErrorBody = 512

// APIClient talks to the sports-data provider over HTTPS.
type APIClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a new provider client. A zero timeout falls back to 15 seconds.
func NewClient(baseURL, apiKey string, timeout time.Duration) *APIClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &APIClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     strings.TrimSpace(apiKey),
	}
}

// Ensure APIClient implements the Client interface.
var _ Client = (*APIClient)(nil)

// IsConfigured reports whether a real API key is present.
func (c *APIClient) IsConfigured() bool {
	return config.IsUsableCredential(c.apiKey)
}

// GetRankings fetches the current ranking snapshot for a tour.
func (c *APIClient) GetRankings(ctx context.Context, tour string) ([]RankingSnapshot, error) {
	q := url.Values{}
	q.Set("tour", tour)

	var body rankingsResponse
	if err := c.get(ctx, "rankings", "/v1/rankings", q, &body); err != nil {
		return nil, err
	}

	asOf := body.AsOfDate
	if asOf == "" {
		asOf = time.Now().UTC().Format(time.DateOnly)
	}
	respTour := strings.ToUpper(body.Tour)
	if respTour == "" {
		respTour = strings.ToUpper(tour)
	}

	snapshots := make([]RankingSnapshot, 0, len(body.Rankings))
	for _, r := range body.Rankings {
		snapshots = append(snapshots, RankingSnapshot{
			Tour:       respTour,
			PlayerName: strings.TrimSpace(r.Player.Name),
			Country:    r.Player.Country,
			Rank:       r.Rank,
			Points:     r.Points,
			AsOfDate:   asOf,
		})
	}
	log.Debug("Fetched rankings", "tour", respTour, "as_of", asOf, "count", len(snapshots))
	return snapshots, nil
}

// GetTournaments fetches a season's tournaments with their completed matches.
func (c *APIClient) GetTournaments(ctx context.Context, tour string, season int) ([]TournamentSnapshot, error) {
	q := url.Values{}
	q.Set("tour", tour)
	q.Set("season", strconv.Itoa(season))

	var body tournamentsResponse
	if err := c.get(ctx, "tournaments", "/v1/tournaments", q, &body); err != nil {
		return nil, err
	}

	snapshots := make([]TournamentSnapshot, 0, len(body.Tournaments))
	for _, t := range body.Tournaments {
		ts := TournamentSnapshot{
			ID:        t.ID,
			Name:      strings.TrimSpace(t.Name),
			Tour:      strings.ToUpper(t.Tour),
			Season:    t.Season,
			Level:     t.Level,
			Surface:   t.Surface,
			StartDate: t.StartDate,
		}
		if ts.Tour == "" {
			ts.Tour = strings.ToUpper(tour)
		}
		if ts.Season == 0 {
			ts.Season = season
		}
		for _, m := range t.Matches {
			ts.Matches = append(ts.Matches, MatchSnapshot{
				ID:          m.ID,
				Round:       m.Round,
				Date:        m.Date,
				Winner:      m.Winner,
				Loser:       m.Loser,
				Score:       m.Score,
				WinnerStats: m.Stats.Winner,
				LoserStats:  m.Stats.Loser,
			})
		}
		snapshots = append(snapshots, ts)
	}
	log.Debug("Fetched tournaments", "tour", tour, "season", season, "count", len(snapshots))
	return snapshots, nil
}

// get performs an authenticated GET and decodes the JSON body into out.
func (c *APIClient) get(ctx context.Context, op, path string, query url.Values, out any) error {
	if !c.IsConfigured() {
		return ErrProviderUnavailable
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &ProviderError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "tennis-oracle/1.0")

	log.Debug("Requesting provider", "op", op, "url", endpoint)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w: %s after %s", ErrProviderTimeout, op, c.httpClient.Timeout)
		}
		return &ProviderError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Error("Received non-OK HTTP status from provider", "op", op, "status", resp.StatusCode, "body", string(body))
		return &ProviderError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w: reading %s", ErrProviderTimeout, op)
		}
		return &ProviderError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
