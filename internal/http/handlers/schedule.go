package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"brandkit/internal/domain"
)

type scheduleCreateRequest struct {
	OwnerID     string          `json:"ownerId"`
	TemplateID  string          `json:"templateId"`
	Platform    domain.Platform `json:"platform" validate:"required,oneof=instagram linkedin x"`
	Content     string          `json:"content" validate:"required"`
	ScheduledAt time.Time       `json:"scheduledAt" validate:"required"`
}

func (a *App) ScheduleCreate(w http.ResponseWriter, r *http.Request) {
	var req scheduleCreateRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	owner, err := a.owner(r, req.OwnerID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		a.fail(w, r, &domain.ValidationError{Field: "content", Message: "is required"})
		return
	}
	if !req.ScheduledAt.After(a.Now()) {
		a.fail(w, r, &domain.ValidationError{Field: "scheduledAt", Message: "must be in the future"})
		return
	}
	post, err := a.Schedule.Create(r.Context(), domain.ScheduledPost{
		UserID:      owner,
		TemplateID:  req.TemplateID,
		Platform:    req.Platform,
		Content:     req.Content,
		ScheduledAt: req.ScheduledAt.UTC(),
		Status:      domain.PostScheduled,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, post)
}

func (a *App) ScheduleList(w http.ResponseWriter, r *http.Request) {
	owner, err := a.queryOwner(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	posts, err := a.Schedule.List(r.Context(), owner)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if posts == nil {
		posts = []domain.ScheduledPost{}
	}
	a.json(w, http.StatusOK, map[string]any{"posts": posts})
}

type scheduleUpdateRequest struct {
	OwnerID     string             `json:"ownerId"`
	Content     *string            `json:"content"`
	ScheduledAt *time.Time         `json:"scheduledAt"`
	Status      *domain.PostStatus `json:"status" validate:"omitempty,oneof=scheduled published cancelled"`
}

// ScheduleUpdate applies the same future-time rule as creation when the
// publish time moves.
func (a *App) ScheduleUpdate(w http.ResponseWriter, r *http.Request) {
	var req scheduleUpdateRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	owner, err := a.owner(r, req.OwnerID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if req.Content != nil && strings.TrimSpace(*req.Content) == "" {
		a.fail(w, r, &domain.ValidationError{Field: "content", Message: "is required"})
		return
	}
	if req.ScheduledAt != nil {
		if !req.ScheduledAt.After(a.Now()) {
			a.fail(w, r, &domain.ValidationError{Field: "scheduledAt", Message: "must be in the future"})
			return
		}
		at := req.ScheduledAt.UTC()
		req.ScheduledAt = &at
	}
	post, err := a.Schedule.Patch(r.Context(), chi.URLParam(r, "id"), owner, domain.PostPatch{
		Content:     req.Content,
		ScheduledAt: req.ScheduledAt,
		Status:      req.Status,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, post)
}

func (a *App) ScheduleDelete(w http.ResponseWriter, r *http.Request) {
	owner, err := a.queryOwner(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.Schedule.Delete(r.Context(), chi.URLParam(r, "id"), owner); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
