package repo

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"brandkit/internal/domain"
	"brandkit/internal/infra"
	"brandkit/internal/sqlinline"
)

// TemplateRepository implements domain.TemplateRepository on content_templates.
type TemplateRepository struct {
	sql infra.SQLExecutor
}

func NewTemplateRepository(sql infra.SQLExecutor) *TemplateRepository {
	return &TemplateRepository{sql: sql}
}

func (r *TemplateRepository) Create(ctx context.Context, t domain.ContentTemplate) (domain.ContentTemplate, error) {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertContentTemplate, t.UserID, t.TopicID, string(t.Platform), t.Title, t.Content, tags)
	return scanTemplate(row)
}

// List returns templates newest first, narrowed to topicID when it is set.
func (r *TemplateRepository) List(ctx context.Context, userID, topicID string) ([]domain.ContentTemplate, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListContentTemplates, userID, topicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.ContentTemplate{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TemplateRepository) Get(ctx context.Context, id, userID string) (domain.ContentTemplate, error) {
	return scanTemplate(r.sql.QueryRow(ctx, sqlinline.QSelectContentTemplate, id, userID))
}

func (r *TemplateRepository) Patch(ctx context.Context, id, userID string, patch domain.TemplatePatch) (domain.ContentTemplate, error) {
	var status *string
	if patch.Status != nil {
		s := string(*patch.Status)
		status = &s
	}
	row := r.sql.QueryRow(ctx, sqlinline.QPatchContentTemplate, id, userID, patch.Title, patch.Content, patch.Tags, status)
	return scanTemplate(row)
}

// VideoScript returns the X template body of the subject topic, or
// domain.ErrContentNotFound when there is none.
func (r *TemplateRepository) VideoScript(ctx context.Context, owner, subject string) (string, error) {
	var content string
	if err := r.sql.QueryRow(ctx, sqlinline.QSelectVideoScript, owner, subject).Scan(&content); err != nil {
		if infra.IsNoRows(err) {
			return "", domain.ErrContentNotFound
		}
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		return "", domain.ErrContentNotFound
	}
	return content, nil
}

func scanTemplate(row pgx.Row) (domain.ContentTemplate, error) {
	var t domain.ContentTemplate
	if err := row.Scan(&t.ID, &t.UserID, &t.TopicID, &t.Platform, &t.Title, &t.Content, &t.Tags, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if infra.IsNoRows(err) {
			return domain.ContentTemplate{}, domain.ErrNotFound
		}
		return domain.ContentTemplate{}, err
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return t, nil
}

var _ domain.TemplateRepository = (*TemplateRepository)(nil)
