package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	DBMaxConns         int
	JWTSecret          string
	GeoIPDBPath        string
	DefaultLocale      string
	SupportedLocales   []string
	CORSAllowedOrigins []string

	HeyGenAPIKey          string
	HeyGenBaseURL         string
	HeyGenSubmitAttempts  int
	HeyGenSubmitBaseDelay time.Duration
	HeyGenStatusAttempts  int
	HeyGenStatusBaseDelay time.Duration
	ContentProvider       string
	OpenAIAPIKey          string
	OpenAIModel           string
	OpenAIBaseURL         string
	OpenAIOrg             string
	GeminiAPIKey          string
	GeminiModel           string
	HTTPReadTimeout       time.Duration
	HTTPWriteTimeout      time.Duration
	HTTPIdleTimeout       time.Duration
	RateLimitPerMin       int
	WorkerSweepInterval   time.Duration
	WorkerStaleAfter      time.Duration
	WorkerBatchSize       int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:                getEnv("APP_ENV", "development"),
		Port:                  getEnv("PORT", "8080"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		DBMaxConns:            getEnvInt("DB_MAX_CONNS", 10),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		GeoIPDBPath:           os.Getenv("GEOIP_DB_PATH"),
		DefaultLocale:         getEnv("DEFAULT_LOCALE", "en"),
		SupportedLocales:      getEnvList("SUPPORTED_LOCALES", []string{"en", "id", "es", "fr", "de", "pt"}),
		CORSAllowedOrigins:    getEnvList("CORS_ALLOWED_ORIGINS", nil),
		HeyGenAPIKey:          os.Getenv("HEYGEN_API_KEY"),
		HeyGenBaseURL:         strings.TrimRight(getEnv("HEYGEN_BASE_URL", "https://api.heygen.com"), "/"),
		HeyGenSubmitAttempts:  getEnvInt("HEYGEN_SUBMIT_ATTEMPTS", 3),
		HeyGenSubmitBaseDelay: time.Millisecond * time.Duration(getEnvInt("HEYGEN_SUBMIT_BASE_DELAY_MS", 2000)),
		HeyGenStatusAttempts:  getEnvInt("HEYGEN_STATUS_ATTEMPTS", 4),
		HeyGenStatusBaseDelay: time.Millisecond * time.Duration(getEnvInt("HEYGEN_STATUS_BASE_DELAY_MS", 1000)),
		ContentProvider:       strings.ToLower(getEnv("CONTENT_PROVIDER", "openai")),
		OpenAIAPIKey:          os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:           getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:         getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIOrg:             os.Getenv("OPENAI_ORG"),
		GeminiAPIKey:          os.Getenv("GEMINI_API_KEY"),
		GeminiModel:           getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		HTTPReadTimeout:       time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:      time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 60)),
		HTTPIdleTimeout:       time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:       getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		WorkerSweepInterval:   time.Second * time.Duration(getEnvInt("WORKER_SWEEP_INTERVAL_SECONDS", 30)),
		WorkerStaleAfter:      time.Second * time.Duration(getEnvInt("WORKER_STALE_AFTER_SECONDS", 20)),
		WorkerBatchSize:       getEnvInt("WORKER_BATCH_SIZE", 25),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	switch cfg.ContentProvider {
	case "openai", "gemini", "static":
	default:
		return nil, fmt.Errorf("CONTENT_PROVIDER must be one of openai, gemini, static (got %q)", cfg.ContentProvider)
	}

	if cfg.HeyGenSubmitAttempts < 1 || cfg.HeyGenStatusAttempts < 1 {
		return nil, fmt.Errorf("HEYGEN_*_ATTEMPTS must be at least 1")
	}

	return cfg, nil
}

// AuthEnabled reports whether bearer tokens are verified on requests.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
