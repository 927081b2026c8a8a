package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"brandkit/internal/adapter/repo"
	"brandkit/internal/db"
	"brandkit/internal/http/handlers"
	httpapi "brandkit/internal/http/httpapi"
	"brandkit/internal/infra"
	"brandkit/internal/infra/credentials"
	"brandkit/internal/infra/geoip"
	"brandkit/internal/middleware"
	"brandkit/internal/providers/content"
	"brandkit/internal/providers/video"
	"brandkit/internal/videojob"
	"brandkit/pkg/httpretry"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to apply migrations")
	}

	runner := infra.NewSQLRunner(pool, logger)
	creds := credentials.NewStore(runner)

	heygen := video.NewHeyGen(video.HeyGenOptions{
		APIKey:    cfg.HeyGenAPIKey,
		KeySource: creds.HeyGenAPIKey,
		BaseURL:   cfg.HeyGenBaseURL,
		Logger:    logger.With().Str("provider", "heygen").Logger(),
		SubmitPolicy: httpretry.Policy{
			MaxAttempts: cfg.HeyGenSubmitAttempts,
			BaseDelay:   cfg.HeyGenSubmitBaseDelay,
		},
		StatusPolicy: httpretry.Policy{
			MaxAttempts: cfg.HeyGenStatusAttempts,
			BaseDelay:   cfg.HeyGenStatusBaseDelay,
		},
	})

	generator, closeGenerator := newContentGenerator(ctx, cfg, creds, logger)
	defer closeGenerator()

	templates := repo.NewTemplateRepository(runner)
	controller := videojob.New(videojob.Options{
		Jobs:     repo.NewVideoJobRepository(runner),
		Scripts:  templates,
		Provider: heygen,
		Logger:   logger.With().Str("component", "videojob").Logger(),
	})

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.GeoIPDBPath).Msg("geoip database unavailable, country lookup disabled")
	}
	if resolver != nil {
		defer resolver.Close()
	}

	app := handlers.NewApp(handlers.App{
		Logger:      logger,
		Videos:      controller,
		Provider:    heygen,
		Catalog:     heygen,
		Profiles:    repo.NewProfileRepository(runner),
		Topics:      repo.NewTopicRepository(runner),
		Templates:   templates,
		Schedule:    repo.NewScheduleRepository(runner),
		Preferences: repo.NewPreferencesRepository(runner),
		Stats:       repo.NewStatsRepository(runner),
		Content:     generator,
		AuthEnabled: cfg.AuthEnabled(),
		Ping:        pool.Ping,
	})

	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		JWTSecret:       cfg.JWTSecret,
		RateLimitPerMin: cfg.RateLimitPerMin,
		Locales:         middleware.NewLocales(cfg.DefaultLocale, cfg.SupportedLocales),
		CountryLookup:   resolver.Lookup(),
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Bool("auth", cfg.AuthEnabled()).Msg("API listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

// newContentGenerator picks the configured LLM backend. API keys are
// resolved per call, environment first, then the credentials store. Every
// backend falls back to static content when the model call fails.
func newContentGenerator(ctx context.Context, cfg *infra.Config, creds *credentials.Store, logger infra.Logger) (content.Generator, func()) {
	static := content.NewStaticGenerator()
	onFallback := func(reason string, err error) {
		logger.Warn().Err(err).Str("reason", reason).Str("provider", cfg.ContentProvider).Msg("content generation fell back to static")
	}
	noop := func() {}

	keySource := func(provider, envValue string) content.KeySource {
		return func(ctx context.Context) (string, error) {
			return creds.Resolve(ctx, provider, envValue)
		}
	}

	switch cfg.ContentProvider {
	case "gemini":
		gen, err := content.NewGeminiGenerator(ctx, content.GeminiOptions{
			KeySource:  keySource(credentials.ProviderGemini, cfg.GeminiAPIKey),
			Model:      cfg.GeminiModel,
			Fallback:   static,
			OnFallback: onFallback,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("gemini client unavailable, using static content")
			return static, noop
		}
		return gen, func() { _ = gen.Close() }
	case "openai":
		gen := content.NewOpenAIGenerator(content.OpenAIOptions{
			KeySource:    keySource(credentials.ProviderOpenAI, cfg.OpenAIAPIKey),
			Model:        cfg.OpenAIModel,
			BaseURL:      cfg.OpenAIBaseURL,
			Organization: cfg.OpenAIOrg,
			HTTPClient:   &http.Client{Timeout: 60 * time.Second},
			Retry:        httpretry.Policy{MaxAttempts: 3, BaseDelay: time.Second},
			Fallback:     static,
			OnFallback:   onFallback,
			OnWarning: func(reason, detail string) {
				logger.Warn().Str("reason", reason).Str("detail", detail).Msg("openai model normalized")
			},
		})
		return gen, noop
	default:
		return static, noop
	}
}
