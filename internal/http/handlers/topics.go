package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"brandkit/internal/domain"
	"brandkit/internal/middleware"
	"brandkit/internal/providers/content"
)

type topicsGenerateRequest struct {
	OwnerID string `json:"ownerId"`
	Count   int    `json:"count" validate:"min=0,max=20"`
}

// TopicsGenerate drafts fresh topic ideas from the owner's profile.
func (a *App) TopicsGenerate(w http.ResponseWriter, r *http.Request) {
	var req topicsGenerateRequest
	if err := a.decodeOptional(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	owner, err := a.owner(r, req.OwnerID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	profile, err := a.Profiles.Get(r.Context(), owner)
	if err != nil {
		a.fail(w, r, profileErr(err))
		return
	}
	ideas, err := a.Content.Topics(r.Context(), content.TopicRequest{
		Profile: profile,
		Locale:  middleware.LocaleFromContext(r.Context()),
		Count:   req.Count,
	})
	if err != nil {
		a.Logger.Error().Err(err).Str("owner", owner).Msg("topic generation failed")
		a.error(w, http.StatusBadGateway, "provider_error", "Failed to generate topics")
		return
	}
	topics := make([]domain.Topic, 0, len(ideas))
	for _, idea := range ideas {
		t, err := a.Topics.Create(r.Context(), owner, idea, domain.TopicDraft)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		topics = append(topics, t)
	}
	a.json(w, http.StatusCreated, map[string]any{"topics": topics})
}

type topicCreateRequest struct {
	OwnerID string `json:"ownerId"`
	Topic   string `json:"topic" validate:"required,max=500"`
}

func (a *App) TopicCreate(w http.ResponseWriter, r *http.Request) {
	var req topicCreateRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	owner, err := a.owner(r, req.OwnerID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	text := strings.TrimSpace(req.Topic)
	if text == "" {
		a.fail(w, r, &domain.ValidationError{Field: "topic", Message: "is required"})
		return
	}
	t, err := a.Topics.Create(r.Context(), owner, text, domain.TopicDraft)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, t)
}

func (a *App) TopicsList(w http.ResponseWriter, r *http.Request) {
	owner, err := a.queryOwner(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	statuses, err := parseTopicStatuses(r.URL.Query().Get("status"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	topics, err := a.Topics.List(r.Context(), owner, statuses...)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if topics == nil {
		topics = []domain.Topic{}
	}
	a.json(w, http.StatusOK, map[string]any{"topics": topics})
}

// parseTopicStatuses reads a status filter: empty, "active", or a
// comma-separated list of statuses.
func parseTopicStatuses(raw string) ([]domain.TopicStatus, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if strings.EqualFold(raw, "active") {
		return domain.ActiveTopicStatuses, nil
	}
	var out []domain.TopicStatus
	for _, part := range strings.Split(raw, ",") {
		s := domain.TopicStatus(strings.TrimSpace(part))
		if s == "" {
			continue
		}
		if !s.Valid() {
			return nil, &domain.ValidationError{Field: "status", Message: "is not a known topic status"}
		}
		out = append(out, s)
	}
	return out, nil
}

type topicUpdateRequest struct {
	OwnerID string             `json:"ownerId"`
	Status  domain.TopicStatus `json:"status" validate:"required,oneof=draft approved rejected done templates_generated"`
}

func (a *App) TopicUpdate(w http.ResponseWriter, r *http.Request) {
	var req topicUpdateRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	owner, err := a.owner(r, req.OwnerID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	t, err := a.Topics.UpdateStatus(r.Context(), chi.URLParam(r, "id"), owner, req.Status)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, t)
}

func (a *App) TopicsCount(w http.ResponseWriter, r *http.Request) {
	owner, err := a.queryOwner(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	counts, err := a.Topics.CountByStatus(r.Context(), owner)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	a.json(w, http.StatusOK, map[string]any{"total": total, "by_status": counts})
}

type topicImproveRequest struct {
	OwnerID        string `json:"ownerId"`
	Feedback       string `json:"feedback" validate:"max=1000"`
	TargetAudience string `json:"targetAudience" validate:"max=200"`
	Tone           string `json:"tone" validate:"max=100"`
}

// TopicImprove rewrites a topic from the caller's feedback, audience or tone.
// A topic can be improved once.
func (a *App) TopicImprove(w http.ResponseWriter, r *http.Request) {
	var req topicImproveRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	owner, err := a.owner(r, req.OwnerID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	feedback := strings.TrimSpace(req.Feedback)
	audience := strings.TrimSpace(req.TargetAudience)
	tone := strings.TrimSpace(req.Tone)
	if feedback == "" && audience == "" && tone == "" {
		a.fail(w, r, &domain.ValidationError{Field: "feedback", Message: "or targetAudience or tone is required"})
		return
	}
	ctx := r.Context()
	topic, err := a.Topics.Get(ctx, chi.URLParam(r, "id"), owner)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if topic.Improved() {
		a.fail(w, r, domain.ErrTopicImproved)
		return
	}
	profile, err := a.optionalProfile(ctx, owner)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	text, err := a.Content.ImproveTopic(ctx, content.ImproveRequest{
		Topic:    topic.Topic,
		Feedback: feedback,
		Audience: audience,
		Tone:     tone,
		Profile:  profile,
		Locale:   middleware.LocaleFromContext(ctx),
	})
	if err != nil {
		a.Logger.Error().Err(err).Str("owner", owner).Str("topic_id", topic.ID).Msg("topic improvement failed")
		a.error(w, http.StatusBadGateway, "provider_error", "Failed to improve topic")
		return
	}
	improved, applied, err := a.Topics.Improve(ctx, topic.ID, owner, domain.TopicRewrite{
		Topic:          coalesce(text, topic.Topic),
		TargetAudience: audience,
		Tone:           tone,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if !applied {
		a.fail(w, r, domain.ErrTopicImproved)
		return
	}
	a.json(w, http.StatusOK, improved)
}

type ownerRequest struct {
	OwnerID string `json:"ownerId"`
}

type fallbackNote struct {
	Platform domain.Platform `json:"platform"`
	Reason   string          `json:"reason"`
}

// TopicApprove writes templates for every platform and marks the topic as
// expanded. A platform whose generation fails gets placeholder content.
func (a *App) TopicApprove(w http.ResponseWriter, r *http.Request) {
	var req ownerRequest
	if err := a.decodeOptional(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	owner, err := a.owner(r, coalesce(req.OwnerID, r.URL.Query().Get("ownerId")))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	ctx := r.Context()
	topic, err := a.Topics.Get(ctx, chi.URLParam(r, "id"), owner)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	profile, err := a.optionalProfile(ctx, owner)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	results, err := content.GenerateAll(ctx, a.Content, topic.Topic, profile, middleware.LocaleFromContext(ctx))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	templates := make([]domain.ContentTemplate, 0, len(results))
	var fallbacks []fallbackNote
	for _, res := range results {
		saved, err := a.Templates.Create(ctx, templateRecord(owner, topic.ID, res.Platform, res.Template))
		if err != nil {
			a.fail(w, r, err)
			return
		}
		templates = append(templates, saved)
		if reason := fallbackReason(res); reason != "" {
			fallbacks = append(fallbacks, fallbackNote{Platform: res.Platform, Reason: reason})
		}
	}
	updated, err := a.Topics.UpdateStatus(ctx, topic.ID, owner, domain.TopicTemplatesGenerated)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if len(fallbacks) > 0 {
		a.Logger.Warn().Str("owner", owner).Str("topic_id", topic.ID).Int("fallbacks", len(fallbacks)).Msg("topic approved with fallback templates")
	}
	a.json(w, http.StatusOK, map[string]any{
		"topic":     updated,
		"templates": templates,
		"fallbacks": fallbacks,
	})
}

func (a *App) optionalProfile(ctx context.Context, owner string) (*domain.Profile, error) {
	p, err := a.Profiles.Get(ctx, owner)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func fallbackReason(res content.PlatformResult) string {
	if res.Err != nil {
		return res.Err.Error()
	}
	if res.Template != nil {
		return res.Template.FallbackReason
	}
	return ""
}

func templateRecord(owner, topicID string, platform domain.Platform, tpl *content.Template) domain.ContentTemplate {
	return domain.ContentTemplate{
		UserID:   owner,
		TopicID:  topicID,
		Platform: platform,
		Title:    tpl.Title,
		Content:  tpl.Content,
		Tags:     tpl.Tags,
		Status:   domain.TemplateDraft,
	}
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
