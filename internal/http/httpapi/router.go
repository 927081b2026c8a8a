package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"brandkit/internal/http/handlers"
	"brandkit/internal/infra"
	"brandkit/internal/middleware"
)

type Options struct {
	Logger          infra.Logger
	AllowedOrigins  []string
	JWTSecret       string
	RateLimitPerMin int
	Locales         *middleware.Locales
	CountryLookup   middleware.CountryLookup
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.RequestID,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.AllowedOrigins),
	)

	// Public
	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)

	locales := opts.Locales
	if locales == nil {
		locales = middleware.NewLocales("en", nil)
	}

	r.Group(func(r chi.Router) {
		r.Use(
			middleware.RateLimit(opts.RateLimitPerMin, time.Minute),
			middleware.AuthJWT(opts.JWTSecret),
			middleware.I18N(locales, opts.CountryLookup),
		)

		r.Get("/me", app.Me)

		r.Route("/video", func(r chi.Router) {
			r.Post("/generate", app.VideoGenerate)
			r.Get("/status", app.VideoStatus)
			r.Post("/record/upsert", app.VideoRecordUpsert)
			r.Get("/jobs", app.VideoList)
			r.Post("/cancel", app.VideoCancel)
		})

		r.Route("/heygen", func(r chi.Router) {
			r.Get("/avatars", app.HeyGenAvatars)
			r.Get("/voices", app.HeyGenVoices)
		})

		r.Get("/preferences", app.PreferencesGet)
		r.Put("/preferences", app.PreferencesPut)

		r.Route("/profiles", func(r chi.Router) {
			r.Post("/", app.ProfileCreate)
			r.Get("/", app.ProfileGet)
			r.Patch("/", app.ProfileUpdate)
		})

		r.Route("/topics", func(r chi.Router) {
			r.Post("/", app.TopicCreate)
			r.Get("/", app.TopicsList)
			r.Post("/generate", app.TopicsGenerate)
			r.Get("/count", app.TopicsCount)
			r.Patch("/{id}", app.TopicUpdate)
			r.Post("/{id}/approve", app.TopicApprove)
			r.Post("/{id}/improve", app.TopicImprove)
		})

		r.Route("/content-templates", func(r chi.Router) {
			r.Get("/", app.TemplatesList)
			r.Post("/generate", app.TemplateGenerate)
			r.Get("/export", app.TemplatesExport)
			r.Patch("/{id}", app.TemplateUpdate)
		})

		r.Route("/schedule", func(r chi.Router) {
			r.Post("/", app.ScheduleCreate)
			r.Get("/", app.ScheduleList)
			r.Patch("/{id}", app.ScheduleUpdate)
			r.Delete("/{id}", app.ScheduleDelete)
		})

		r.Get("/stats/summary", app.StatsSummary)
	})

	return r
}
