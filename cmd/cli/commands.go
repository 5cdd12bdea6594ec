package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/spf13/cobra"
)

var (
	matchDate    string
	matchStatus  string
	conflictEnd  string
	excludeMatch string
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(rankingCmd)
	rootCmd.AddCommand(recomputeCmd)
	rootCmd.AddCommand(conflictCmd)
	rootCmd.AddCommand(metricsCmd)

	rankingCmd.AddCommand(rankingStatusCmd)

	matchesCmd.Flags().StringVar(&matchDate, "date", "", "Only matches starting on this UTC day (YYYY-MM-DD)")
	matchesCmd.Flags().StringVar(&matchStatus, "status", "", "Only matches in this status (upcoming, ongoing, completed)")

	conflictCmd.Flags().StringVar(&conflictEnd, "end", "", "End of the window (RFC 3339). Defaults to one hour after start")
	conflictCmd.Flags().StringVar(&excludeMatch, "exclude", "", "Match id to ignore, e.g. the match being rescheduled")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil)
	},
}

var playersCmd = &cobra.Command{
	Use:   "players [id]",
	Short: "List the players, or show one player",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return performRequest(http.MethodGet, "/api/players/"+url.PathEscape(args[0]), nil)
		}
		return performRequest(http.MethodGet, "/api/players", nil)
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches [id]",
	Short: "List matches, or show one match",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return performRequest(http.MethodGet, "/api/matches/"+url.PathEscape(args[0]), nil)
		}
		q := url.Values{}
		if matchDate != "" {
			q.Set("date", matchDate)
		}
		if matchStatus != "" {
			q.Set("status", matchStatus)
		}
		return performRequest(http.MethodGet, "/api/matches", q)
	},
}

var rankingCmd = &cobra.Command{
	Use:   "ranking",
	Short: "Show the league ranking",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/api/ranking", nil)
	},
}

var rankingStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the scheduled ranking recompute",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/api/ranking/status", nil)
	},
}

var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Rebuild the ranking from the full match history",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/api/ranking/recalculate", nil)
	},
}

var conflictCmd = &cobra.Command{
	Use:   "conflict <playerId> <start>",
	Short: "Check whether a player is booked during a window",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := time.Parse(time.RFC3339, args[1]); err != nil {
			return fmt.Errorf("start must be an RFC 3339 timestamp: %w", err)
		}
		q := url.Values{"playerId": {args[0]}, "start": {args[1]}}
		if conflictEnd != "" {
			q.Set("end", conflictEnd)
		}
		if excludeMatch != "" {
			q.Set("excludeMatchId", excludeMatch)
		}
		return performRequest(http.MethodGet, "/api/matches/conflicts", q)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil)
	},
}

func buildURL(endpoint string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	if dryRun {
		query.Set("dry_run", "true")
	}
	u := host + endpoint
	if encoded := query.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

func performRequest(method, endpoint string, query url.Values) error {
	target := buildURL(endpoint, query)
	fmt.Printf("Making request to %s %s\n", method, target)

	req, err := http.NewRequest(method, target, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
