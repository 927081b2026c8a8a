package repo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"brandkit/internal/domain"
	"brandkit/internal/infra"
	"brandkit/internal/sqlinline"
)

// ScheduleRepository implements domain.ScheduleRepository on scheduled_posts.
type ScheduleRepository struct {
	sql infra.SQLExecutor
}

func NewScheduleRepository(sql infra.SQLExecutor) *ScheduleRepository {
	return &ScheduleRepository{sql: sql}
}

func (r *ScheduleRepository) Create(ctx context.Context, p domain.ScheduledPost) (domain.ScheduledPost, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertScheduledPost, p.UserID, p.TemplateID, string(p.Platform), p.Content, p.ScheduledAt)
	return scanPost(row)
}

// List returns the user's posts in publish order.
func (r *ScheduleRepository) List(ctx context.Context, userID string) ([]domain.ScheduledPost, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListScheduledPosts, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []domain.ScheduledPost{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *ScheduleRepository) Patch(ctx context.Context, id, userID string, patch domain.PostPatch) (domain.ScheduledPost, error) {
	var status *string
	if patch.Status != nil {
		s := string(*patch.Status)
		status = &s
	}
	row := r.sql.QueryRow(ctx, sqlinline.QPatchScheduledPost, id, userID, patch.Content, patch.ScheduledAt, status)
	return scanPost(row)
}

func (r *ScheduleRepository) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QDeleteScheduledPost, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanPost(row pgx.Row) (domain.ScheduledPost, error) {
	var p domain.ScheduledPost
	if err := row.Scan(&p.ID, &p.UserID, &p.TemplateID, &p.Platform, &p.Content, &p.ScheduledAt, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if infra.IsNoRows(err) {
			return domain.ScheduledPost{}, domain.ErrNotFound
		}
		return domain.ScheduledPost{}, err
	}
	return p, nil
}

var _ domain.ScheduleRepository = (*ScheduleRepository)(nil)
