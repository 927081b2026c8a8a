// Package main implements brandctl, the operator CLI for the brandkit API.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "brandctl",
	Short:         "Operate the brandkit content service",
	Long:          "brandctl stores provider API keys, mints development tokens, and drives avatar video jobs against a running brandkit API.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	apiBaseURL string
	apiToken   string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&apiBaseURL, "api", envOr("BRANDKIT_API_URL", "http://localhost:8080"), "Base URL of the brandkit API")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", os.Getenv("BRANDKIT_TOKEN"), "Bearer token sent to the API")
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
