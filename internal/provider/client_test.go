package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRankings(t *testing.T) {
	mockJSONResponse := `{
		"tour": "atp",
		"as_of_date": "2019-07-15",
		"rankings": [
			{ "rank": 1, "points": 12415, "player": { "name": "Novak Djokovic", "country": "SRB" } },
			{ "rank": 2, "points": 7945, "player": { "name": " Rafael Nadal ", "country": "ESP" } }
		]
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/rankings", r.URL.Path)
		assert.Equal(t, "ATP", r.URL.Query().Get("tour"))
		assert.Equal(t, "Bearer secret-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, mockJSONResponse)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret-key", time.Second)
	rankings, err := client.GetRankings(context.Background(), "ATP")
	require.NoError(t, err)
	require.Len(t, rankings, 2)

	assert.Equal(t, RankingSnapshot{
		Tour: "ATP", PlayerName: "Novak Djokovic", Country: "SRB", Rank: 1, Points: 12415, AsOfDate: "2019-07-15",
	}, rankings[0])
	assert.Equal(t, "Rafael Nadal", rankings[1].PlayerName)
}

func TestGetTournaments(t *testing.T) {
	mockJSONResponse := `{
		"tournaments": [{
			"id": "2019-540",
			"name": "Wimbledon",
			"level": "G",
			"surface": "Grass",
			"start_date": "2019-07-01",
			"matches": [{
				"id": "2019-540-F",
				"round": "F",
				"date": "2019-07-14",
				"winner": { "name": "Novak Djokovic", "country": "SRB" },
				"loser": { "name": "Roger Federer", "country": "SUI" },
				"score": "7-6 1-6 7-6 4-6 13-12",
				"stats": {
					"winner": { "aces": 10, "serve_points": 200 },
					"loser": { "aces": 25, "serve_points": 220 }
				}
			}]
		}]
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/tournaments", r.URL.Path)
		assert.Equal(t, "2019", r.URL.Query().Get("season"))
		fmt.Fprintln(w, mockJSONResponse)
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "secret-key", time.Second)
	tournaments, err := client.GetTournaments(context.Background(), "atp", 2019)
	require.NoError(t, err)
	require.Len(t, tournaments, 1)

	wimbledon := tournaments[0]
	assert.Equal(t, "ATP", wimbledon.Tour, "tour defaults to the requested one")
	assert.Equal(t, 2019, wimbledon.Season, "season defaults to the requested one")
	require.Len(t, wimbledon.Matches, 1)
	assert.Equal(t, "Novak Djokovic", wimbledon.Matches[0].Winner.Name)
	assert.Equal(t, 25, wimbledon.Matches[0].LoserStats.Aces)
	assert.Equal(t, 200, wimbledon.Matches[0].WinnerStats.ServePoints)
}

func TestClientErrors(t *testing.T) {
	t.Run("unconfigured client never calls out", func(t *testing.T) {
		called := false
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer server.Close()

		for _, key := range []string{"", "changeme", "<api-key>", "xxxxxx"} {
			client := NewClient(server.URL, key, time.Second)
			assert.False(t, client.IsConfigured(), "key %q", key)
			_, err := client.GetRankings(context.Background(), "ATP")
			assert.ErrorIs(t, err, ErrProviderUnavailable)
		}
		assert.False(t, called)
	})

	t.Run("non-2xx becomes ProviderError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream exploded", http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := NewClient(server.URL, "secret-key", time.Second).GetRankings(context.Background(), "ATP")
		var pErr *ProviderError
		require.ErrorAs(t, err, &pErr)
		assert.Equal(t, http.StatusBadGateway, pErr.StatusCode)
		assert.Contains(t, pErr.Error(), "upstream exploded")
		assert.True(t, IsRetryable(err))
	})

	t.Run("client errors are not retryable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		_, err := NewClient(server.URL, "secret-key", time.Second).GetRankings(context.Background(), "ATP")
		require.Error(t, err)
		assert.False(t, IsRetryable(err))
	})

	t.Run("malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"rankings": [`)
		}))
		defer server.Close()

		_, err := NewClient(server.URL, "secret-key", time.Second).GetRankings(context.Background(), "ATP")
		var pErr *ProviderError
		require.ErrorAs(t, err, &pErr)
		assert.Contains(t, err.Error(), "failed to decode response")
	})

	t.Run("slow provider times out", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer server.Close()
		defer close(release)

		_, err := NewClient(server.URL, "secret-key", 50*time.Millisecond).GetRankings(context.Background(), "ATP")
		assert.ErrorIs(t, err, ErrProviderTimeout)
		assert.True(t, IsRetryable(err))
	})
}
