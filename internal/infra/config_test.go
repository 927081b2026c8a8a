package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("HEYGEN_BASE_URL", "")
	t.Setenv("HEYGEN_SUBMIT_ATTEMPTS", "")
	t.Setenv("HEYGEN_STATUS_ATTEMPTS", "")
	t.Setenv("SUPPORTED_LOCALES", "")
	t.Setenv("CONTENT_PROVIDER", "")
	t.Setenv("DB_MAX_CONNS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.HeyGenBaseURL != "https://api.heygen.com" {
		t.Fatalf("HeyGenBaseURL mismatch: got %q", cfg.HeyGenBaseURL)
	}
	if cfg.HeyGenSubmitAttempts != 3 || cfg.HeyGenSubmitBaseDelay != 2*time.Second {
		t.Fatalf("submit policy mismatch: %d %s", cfg.HeyGenSubmitAttempts, cfg.HeyGenSubmitBaseDelay)
	}
	if cfg.HeyGenStatusAttempts != 4 || cfg.HeyGenStatusBaseDelay != time.Second {
		t.Fatalf("status policy mismatch: %d %s", cfg.HeyGenStatusAttempts, cfg.HeyGenStatusBaseDelay)
	}
	if cfg.ContentProvider != "openai" {
		t.Fatalf("ContentProvider mismatch: got %q", cfg.ContentProvider)
	}
	if len(cfg.SupportedLocales) != 6 || cfg.SupportedLocales[0] != "en" {
		t.Fatalf("SupportedLocales mismatch: %#v", cfg.SupportedLocales)
	}
	if cfg.DBMaxConns != 10 {
		t.Fatalf("DBMaxConns mismatch: got %d", cfg.DBMaxConns)
	}
	if cfg.AuthEnabled() {
		t.Fatalf("expected auth disabled without JWT_SECRET")
	}
}

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error without DATABASE_URL")
	}
}

func TestLoadConfigRejectsUnknownContentProvider(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("CONTENT_PROVIDER", "qwen")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for unknown content provider")
	}
}

func TestLoadConfigParsesOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("HEYGEN_BASE_URL", "http://heygen.local/")
	t.Setenv("HEYGEN_SUBMIT_ATTEMPTS", "5")
	t.Setenv("HEYGEN_STATUS_BASE_DELAY_MS", "250")
	t.Setenv("SUPPORTED_LOCALES", " en , id ,,")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com")
	t.Setenv("CONTENT_PROVIDER", "Gemini")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.HeyGenBaseURL != "http://heygen.local" {
		t.Fatalf("HeyGenBaseURL mismatch: got %q", cfg.HeyGenBaseURL)
	}
	if cfg.HeyGenSubmitAttempts != 5 {
		t.Fatalf("HeyGenSubmitAttempts mismatch: got %d", cfg.HeyGenSubmitAttempts)
	}
	if cfg.HeyGenStatusBaseDelay != 250*time.Millisecond {
		t.Fatalf("HeyGenStatusBaseDelay mismatch: got %s", cfg.HeyGenStatusBaseDelay)
	}
	expected := []string{"en", "id"}
	if len(cfg.SupportedLocales) != len(expected) {
		t.Fatalf("SupportedLocales mismatch: got %#v want %#v", cfg.SupportedLocales, expected)
	}
	for i, loc := range expected {
		if cfg.SupportedLocales[i] != loc {
			t.Fatalf("SupportedLocales[%d] = %q, want %q", i, cfg.SupportedLocales[i], loc)
		}
	}
	if len(cfg.CORSAllowedOrigins) != 1 {
		t.Fatalf("CORSAllowedOrigins mismatch: %#v", cfg.CORSAllowedOrigins)
	}
	if cfg.ContentProvider != "gemini" {
		t.Fatalf("ContentProvider mismatch: got %q", cfg.ContentProvider)
	}
	if !cfg.AuthEnabled() {
		t.Fatalf("expected auth enabled with JWT_SECRET")
	}
}
