package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"brandkit/internal/infra"
	"brandkit/internal/sqlinline"
)

const (
	ProviderHeyGen = "heygen"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Providers lists every provider whose API key can be stored.
var Providers = []string{ProviderHeyGen, ProviderOpenAI, ProviderGemini}

// Store persists provider API keys in integration_tokens.
type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

func (s *Store) HeyGenAPIKey(ctx context.Context) (string, error) {
	return s.Token(ctx, ProviderHeyGen)
}

func (s *Store) OpenAIAPIKey(ctx context.Context) (string, error) {
	return s.Token(ctx, ProviderOpenAI)
}

func (s *Store) GeminiAPIKey(ctx context.Context) (string, error) {
	return s.Token(ctx, ProviderGemini)
}

// Token returns the stored key for provider, or "" when none is stored.
func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectIntegrationToken, provider)
	var token string
	if err := row.Scan(&token); err != nil {
		if infra.IsNoRows(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(token), nil
}

// Resolve prefers the environment value and falls back to the stored key.
func (s *Store) Resolve(ctx context.Context, provider, envValue string) (string, error) {
	if v := strings.TrimSpace(envValue); v != "" {
		return v, nil
	}
	if s == nil {
		return "", nil
	}
	return s.Token(ctx, provider)
}

// Set stores key for provider, replacing any previous value.
func (s *Store) Set(ctx context.Context, provider, key string) error {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if !known(provider) {
		return fmt.Errorf("unknown provider %q", provider)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%s api key is required", provider)
	}
	return s.upsert(ctx, provider, key, map[string]any{"source": "brandctl"})
}

func known(provider string) bool {
	for _, p := range Providers {
		if p == provider {
			return true
		}
	}
	return false
}

func (s *Store) upsert(ctx context.Context, provider, token string, props map[string]any) error {
	payload := props
	if payload == nil {
		payload = map[string]any{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = s.sql.Exec(ctx, sqlinline.QUpsertIntegrationToken, provider, token, raw)
	return err
}
