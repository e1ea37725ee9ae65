package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(withdrawCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(teamsCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health", nil)
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches [state]",
	Short: "List matches, optionally filtered by state",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := url.Values{}
		if len(args) == 1 {
			params.Set("state", strings.ToUpper(args[0]))
		}
		return performGetRequest("/matches", params)
	},
}

var joinCmd = &cobra.Command{
	Use:   "join <matchID> <playerID>",
	Short: "Request to join a match",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := url.Values{}
		params.Set("matchID", args[0])
		params.Set("playerID", args[1])
		return performPostRequest("/matches/join", params)
	},
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw <participationID>",
	Short: "Withdraw a participation from a match",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := url.Values{}
		params.Set("participationID", args[0])
		return performPostRequest("/matches/withdraw", params)
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Trigger a deadline sweep",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/sweep", nil)
	},
}

var teamsCmd = &cobra.Command{
	Use:   "teams <matchID>",
	Short: "Show the generated teams for a match",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := url.Values{}
		params.Set("matchID", args[0])
		return performGetRequest("/matches/teams", params)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics", nil)
	},
}

func performGetRequest(endpoint string, params url.Values) error {
	return performRequest(http.MethodGet, endpoint, params)
}

func performPostRequest(endpoint string, params url.Values) error {
	return performRequest(http.MethodPost, endpoint, params)
}

func performRequest(method, endpoint string, params url.Values) error {
	reqURL := host + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	fmt.Printf("Making request to %s\n", reqURL)

	req, err := http.NewRequest(method, reqURL, nil)
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
