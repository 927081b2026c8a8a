package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"brandkit/internal/domain"
	"brandkit/internal/middleware"
	"brandkit/internal/providers/content"
	"brandkit/pkg/zip"
)

type templateGenerateRequest struct {
	OwnerID  string          `json:"ownerId"`
	TopicID  string          `json:"topicId" validate:"required"`
	Platform domain.Platform `json:"platform" validate:"required,oneof=instagram linkedin x"`
}

// TemplateGenerate writes one platform's template for a topic.
func (a *App) TemplateGenerate(w http.ResponseWriter, r *http.Request) {
	var req templateGenerateRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	owner, err := a.owner(r, req.OwnerID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	ctx := r.Context()
	topic, err := a.Topics.Get(ctx, req.TopicID, owner)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	profile, err := a.optionalProfile(ctx, owner)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	tpl, err := a.Content.Template(ctx, content.TemplateRequest{
		Topic:    topic.Topic,
		Platform: req.Platform,
		Profile:  profile,
		Locale:   middleware.LocaleFromContext(ctx),
	})
	if err != nil || tpl == nil {
		a.Logger.Error().Err(err).Str("owner", owner).Str("platform", string(req.Platform)).Msg("template generation failed")
		a.error(w, http.StatusBadGateway, "provider_error", "Failed to generate content template")
		return
	}
	saved, err := a.Templates.Create(ctx, templateRecord(owner, topic.ID, req.Platform, tpl))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"template":        saved,
		"provider":        tpl.Provider,
		"fallback_reason": tpl.FallbackReason,
	})
}

func (a *App) TemplatesList(w http.ResponseWriter, r *http.Request) {
	owner, err := a.queryOwner(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	templates, err := a.Templates.List(r.Context(), owner, strings.TrimSpace(r.URL.Query().Get("topicId")))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if templates == nil {
		templates = []domain.ContentTemplate{}
	}
	a.json(w, http.StatusOK, map[string]any{"templates": templates})
}

type templateUpdateRequest struct {
	OwnerID string                 `json:"ownerId"`
	Title   *string                `json:"title" validate:"omitempty,max=300"`
	Content *string                `json:"content"`
	Tags    []string               `json:"tags"`
	Status  *domain.TemplateStatus `json:"status" validate:"omitempty,oneof=draft approved published"`
}

func (a *App) TemplateUpdate(w http.ResponseWriter, r *http.Request) {
	var req templateUpdateRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	owner, err := a.owner(r, req.OwnerID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	t, err := a.Templates.Patch(r.Context(), chi.URLParam(r, "id"), owner, domain.TemplatePatch{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
		Status:  req.Status,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, t)
}

// TemplatesExport downloads the owner's templates as markdown files in a zip.
func (a *App) TemplatesExport(w http.ResponseWriter, r *http.Request) {
	owner, err := a.queryOwner(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	templates, err := a.Templates.List(r.Context(), owner, strings.TrimSpace(r.URL.Query().Get("topicId")))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if len(templates) == 0 {
		a.fail(w, r, domain.ErrNotFound)
		return
	}
	entries := make([]zip.Entry, 0, len(templates))
	for _, t := range templates {
		entries = append(entries, zip.Entry{
			Filename: fmt.Sprintf("%s-%s.md", t.Platform, slug(t.Title)),
			Data:     renderMarkdown(t),
			Modified: t.UpdatedAt,
		})
	}
	var buf bytes.Buffer
	if err := zip.Write(&buf, entries); err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="content-templates.zip"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func renderMarkdown(t domain.ContentTemplate) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", t.Title)
	b.WriteString(strings.TrimSpace(t.Content))
	b.WriteString("\n")
	if len(t.Tags) > 0 {
		b.WriteString("\n")
		for i, tag := range t.Tags {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString("#" + tag)
		}
		b.WriteString("\n")
	}
	return []byte(b.String())
}

func slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
		if b.Len() >= 60 {
			break
		}
	}
	s := strings.Trim(b.String(), "-")
	if s == "" {
		return "template"
	}
	return s
}
