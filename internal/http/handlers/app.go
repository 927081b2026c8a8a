package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"brandkit/internal/domain"
	"brandkit/internal/infra"
	"brandkit/internal/middleware"
	"brandkit/internal/providers/content"
	"brandkit/internal/providers/video"
	"brandkit/internal/videojob"
)

const maxBodyBytes = 1 << 20

// VideoJobs is the lifecycle controller surface the video routes drive.
type VideoJobs interface {
	Submit(ctx context.Context, owner, subject, characterID, voiceID string) (domain.VideoJob, error)
	CheckStatus(ctx context.Context, owner, subject string) (videojob.StatusReport, error)
	Cancel(ctx context.Context, owner, subject string) (domain.VideoJob, error)
	Record(ctx context.Context, in videojob.RecordInput) (domain.VideoJob, error)
	List(ctx context.Context, owner string) ([]domain.VideoJob, error)
}

type App struct {
	Logger      infra.Logger
	Videos      VideoJobs
	Provider    video.Provider
	Catalog     video.Catalog
	Profiles    domain.ProfileRepository
	Topics      domain.TopicRepository
	Templates   domain.TemplateRepository
	Schedule    domain.ScheduleRepository
	Preferences domain.PreferencesRepository
	Stats       domain.StatsRepository
	Content     content.Generator
	// AuthEnabled makes a verified token subject mandatory for owner routes.
	AuthEnabled bool
	Ping        func(ctx context.Context) error
	Now         func() time.Time

	validate *validator.Validate
}

// NewApp finishes wiring a zero-value-safe App.
func NewApp(a App) *App {
	if a.Now == nil {
		a.Now = func() time.Time { return time.Now().UTC() }
	}
	if a.Content == nil {
		a.Content = content.NewStaticGenerator()
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	a.validate = v
	return &a
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.errorDetails(w, status, code, message, nil)
}

func (a *App) errorDetails(w http.ResponseWriter, status int, code, message string, details any) {
	body := map[string]any{"code": code, "message": message}
	if details != nil {
		body["details"] = details
	}
	a.json(w, status, map[string]any{"error": body})
}

// fail maps domain errors onto the error envelope.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr     *domain.ValidationError
		fieldErr validator.ValidationErrors
		stateErr *domain.InvalidStateError
		provErr  *domain.ProviderRequestError
	)
	switch {
	case errors.As(err, &verr):
		a.errorDetails(w, http.StatusBadRequest, "bad_request", verr.Field+" "+verr.Message, map[string]string{"field": verr.Field})
	case errors.As(err, &fieldErr):
		fe := fieldErr[0]
		a.errorDetails(w, http.StatusBadRequest, "bad_request", describeField(fe), map[string]string{"field": fe.Field()})
	case errors.Is(err, domain.ErrValidation):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrContentNotFound):
		a.error(w, http.StatusNotFound, "content_not_found", domain.ErrContentNotFound.Error())
	case errors.Is(err, domain.ErrJobNotFound):
		a.error(w, http.StatusNotFound, "job_not_found", "Video not found")
	case errors.Is(err, domain.ErrProfileNotFound):
		a.error(w, http.StatusNotFound, "profile_not_found", domain.ErrProfileNotFound.Error())
	case errors.Is(err, domain.ErrTopicImproved):
		a.error(w, http.StatusConflict, "already_improved", domain.ErrTopicImproved.Error())
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.As(err, &stateErr):
		a.errorDetails(w, http.StatusConflict, "invalid_state", stateErr.Error(), map[string]string{"current": string(stateErr.Current)})
	case errors.As(err, &provErr):
		status := http.StatusBadGateway
		if provErr.StatusCode >= 400 && provErr.StatusCode < 500 {
			status = provErr.StatusCode
		}
		msg := provErr.Detail
		if msg == "" {
			msg = provErr.Error()
		}
		a.errorDetails(w, status, "provider_error", msg, map[string]any{
			"op":       provErr.Op,
			"status":   provErr.StatusCode,
			"attempts": provErr.Attempts,
		})
	case errors.Is(err, domain.ErrMissingAPIKey):
		a.error(w, http.StatusInternalServerError, "missing_api_key", domain.ErrMissingAPIKey.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
	case errors.Is(err, domain.ErrForbidden):
		a.error(w, http.StatusForbidden, "forbidden", "ownerId does not match the authenticated user")
	case errors.Is(err, context.DeadlineExceeded):
		a.error(w, http.StatusGatewayTimeout, "timeout", "request timed out")
	default:
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Str("request_id", middleware.RequestIDFromContext(r.Context())).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func describeField(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	}
	return fe.Field() + " is invalid"
}

// owner resolves whose data a request touches. A verified token subject
// wins; an explicit ownerId must then match it.
func (a *App) owner(r *http.Request, explicit string) (string, error) {
	explicit = strings.TrimSpace(explicit)
	if sub := middleware.UserIDFromContext(r.Context()); sub != "" {
		if explicit != "" && explicit != sub {
			return "", domain.ErrForbidden
		}
		return sub, nil
	}
	if a.AuthEnabled {
		return "", domain.ErrUnauthorized
	}
	if explicit == "" {
		return "", &domain.ValidationError{Field: "ownerId", Message: "is required"}
	}
	return explicit, nil
}

// queryOwner resolves the owner from the ownerId query parameter.
func (a *App) queryOwner(r *http.Request) (string, error) {
	return a.owner(r, r.URL.Query().Get("ownerId"))
}

// decode reads a JSON body into dst and runs its validate tags.
func (a *App) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return &domain.ValidationError{Field: "body", Message: "is required"}
		}
		return &domain.ValidationError{Field: "body", Message: "invalid payload"}
	}
	return a.validate.Struct(dst)
}

// decodeOptional is decode for routes whose body may be omitted.
func (a *App) decodeOptional(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return a.validate.Struct(dst)
	}
	return a.decode(r, dst)
}
