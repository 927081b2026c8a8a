package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"brandkit/internal/infra"
	"brandkit/internal/infra/credentials"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage stored provider API keys",
}

var keysSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store an API key for heygen, openai or gemini",
	Long:  "Stores a provider API key in integration_tokens. Environment variables still take precedence at runtime; the stored key is used when they are empty.",
	RunE:  runKeysSet,
}

var (
	keysProvider    string
	keysKey         string
	keysDatabaseURL string
)

// envKeys names the environment variable read when --key is omitted.
var envKeys = map[string]string{
	credentials.ProviderHeyGen: "HEYGEN_API_KEY",
	credentials.ProviderOpenAI: "OPENAI_API_KEY",
	credentials.ProviderGemini: "GEMINI_API_KEY",
}

func init() {
	keysSetCmd.Flags().StringVar(&keysProvider, "provider", credentials.ProviderHeyGen, "Provider to configure (heygen, openai, gemini)")
	keysSetCmd.Flags().StringVar(&keysKey, "key", "", "API key (defaults to the provider's environment variable)")
	keysSetCmd.Flags().StringVar(&keysDatabaseURL, "db-url", "", "Database URL (defaults to DATABASE_URL)")

	keysCmd.AddCommand(keysSetCmd)
	rootCmd.AddCommand(keysCmd)
}

func runKeysSet(cmd *cobra.Command, _ []string) error {
	provider := strings.ToLower(strings.TrimSpace(keysProvider))
	envName, ok := envKeys[provider]
	if !ok {
		return fmt.Errorf("unsupported provider %q", keysProvider)
	}
	key := strings.TrimSpace(keysKey)
	if key == "" {
		key = strings.TrimSpace(os.Getenv(envName))
	}
	if key == "" {
		return fmt.Errorf("%s API key is required via --key or %s", strings.ToUpper(provider), envName)
	}

	cfg := &infra.Config{DatabaseURL: strings.TrimSpace(keysDatabaseURL), DBMaxConns: 2}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	logger := infra.NewLogger("cli", "brandctl").With().Str("cmd", "keys set").Str("provider", provider).Logger()
	store := credentials.NewStore(infra.NewSQLRunner(pool, logger))
	if err := store.Set(ctx, provider, key); err != nil {
		return fmt.Errorf("persist %s api key: %w", provider, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s API key stored in integration_tokens\n", provider)
	return nil
}
