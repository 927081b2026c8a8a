package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"brandkit/internal/middleware"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a development bearer token signed with JWT_SECRET",
	RunE:  runToken,
}

var (
	tokenSubject string
	tokenLocale  string
	tokenTTL     time.Duration
	tokenSecret  string
)

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "sub", "", "User id placed in the token subject (required)")
	tokenCmd.Flags().StringVar(&tokenLocale, "locale", "", "Optional locale claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
	tokenCmd.Flags().StringVar(&tokenSecret, "secret", "", "Signing secret (defaults to JWT_SECRET)")
	_ = tokenCmd.MarkFlagRequired("sub")

	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	secret := strings.TrimSpace(tokenSecret)
	if secret == "" {
		secret = strings.TrimSpace(os.Getenv("JWT_SECRET"))
	}
	if secret == "" {
		return errors.New("JWT_SECRET is required via --secret or environment")
	}
	token, err := middleware.SignToken(secret, tokenSubject, tokenLocale, tokenTTL, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
