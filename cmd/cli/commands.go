package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	asyncFlag bool
	runsLimit int
	slamsTour string
	mostLimit int
	topTour   string
	topLimit  int
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(cacheStatsCmd)
	rootCmd.AddCommand(usageCmd)
	rootCmd.AddCommand(winnerCmd)
	rootCmd.AddCommand(h2hCmd)
	rootCmd.AddCommand(careerCmd)
	rootCmd.AddCommand(slamsCmd)
	rootCmd.AddCommand(mostCmd)
	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(queryCmd)

	syncCmd.Flags().BoolVar(&asyncFlag, "async", false, "Return as soon as the sync has started")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Number of runs to list")
	slamsCmd.Flags().StringVar(&slamsTour, "tour", "ATP", "Tour (ATP or WTA)")
	mostCmd.Flags().IntVar(&mostLimit, "limit", 10, "Number of players to list")
	topCmd.Flags().StringVar(&topTour, "tour", "ATP", "Tour (ATP or WTA)")
	topCmd.Flags().IntVar(&topLimit, "limit", 10, "Number of players to list")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil, nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil, nil)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the sync engine status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/sync/status", nil, nil)
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Force a data sync from the provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := url.Values{}
		if asyncFlag {
			params.Set("async", "true")
		}
		return performRequest(http.MethodPost, "/sync", params, nil)
	},
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent sync runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/sync/runs", url.Values{"limit": {strconv.Itoa(runsLimit)}}, nil)
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "cache-stats",
	Short: "Show query cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/cache/stats", nil, nil)
	},
}

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show endpoint usage counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/stats/usage", nil, nil)
	},
}

var winnerCmd = &cobra.Command{
	Use:   "winner <tournament> <year>",
	Short: "Show who won a tournament in a given year",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		year := args[len(args)-1]
		if _, err := strconv.Atoi(year); err != nil {
			return fmt.Errorf("year must be a number: %q", year)
		}
		params := url.Values{
			"tournament": {strings.Join(args[:len(args)-1], " ")},
			"year":       {year},
		}
		return performRequest(http.MethodGet, "/api/tournament-winner", params, nil)
	},
}

var h2hCmd = &cobra.Command{
	Use:   "h2h <player> <player>",
	Short: "Show the head-to-head record between two players",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := url.Values{"player_a": {args[0]}, "player_b": {args[1]}}
		return performRequest(http.MethodGet, "/api/head-to-head", params, nil)
	},
}

var careerCmd = &cobra.Command{
	Use:   "career <player>",
	Short: "Show a player's career statistics",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/api/career", url.Values{"player": {strings.Join(args, " ")}}, nil)
	},
}

var slamsCmd = &cobra.Command{
	Use:   "slams <year>",
	Short: "Show the Grand Slam winners of a season",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := url.Values{"year": {args[0]}, "tour": {slamsTour}}
		return performRequest(http.MethodGet, "/api/grand-slams", params, nil)
	},
}

var mostCmd = &cobra.Command{
	Use:   "most",
	Short: "Show the players with the most titles",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/api/most-successful", url.Values{"limit": {strconv.Itoa(mostLimit)}}, nil)
	},
}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the top of the latest ranking",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := url.Values{"tour": {topTour}, "limit": {strconv.Itoa(topLimit)}}
		return performRequest(http.MethodGet, "/api/rankings", params, nil)
	},
}

var queryCmd = &cobra.Command{
	Use:   "query <json>",
	Short: "Send a typed query, e.g. '{\"kind\":\"career_stats\",\"player\":\"Federer\"}'",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var q map[string]any
		if err := json.Unmarshal([]byte(args[0]), &q); err != nil {
			return fmt.Errorf("query must be a JSON object: %w", err)
		}
		return performRequest(http.MethodPost, "/query", nil, q)
	},
}

func performRequest(method, endpoint string, params url.Values, payload any) error {
	if params == nil {
		params = url.Values{}
	}
	if verbose {
		params.Set("verbose", "true")
	}
	target := host + endpoint
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	fmt.Printf("Making request to %s\n", target)

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, target, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(prettyJSON(respBody))

	return nil
}

// prettyJSON indents JSON bodies and returns anything else unchanged.
func prettyJSON(body []byte) string {
	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "  "); err != nil {
		return string(body)
	}
	return out.String()
}
