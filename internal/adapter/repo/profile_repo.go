package repo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"brandkit/internal/domain"
	"brandkit/internal/infra"
	"brandkit/internal/sqlinline"
)

// ProfileRepository implements domain.ProfileRepository.
type ProfileRepository struct {
	sql infra.SQLExecutor
}

func NewProfileRepository(sql infra.SQLExecutor) *ProfileRepository {
	return &ProfileRepository{sql: sql}
}

func (r *ProfileRepository) Upsert(ctx context.Context, p domain.Profile) (domain.Profile, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QUpsertProfile, p.UserID, p.FullName, p.Profession, p.Audience, p.Tone)
	return scanProfile(row)
}

// Patch updates the non-empty fields of p. domain.ErrNotFound means the
// user has not onboarded yet.
func (r *ProfileRepository) Patch(ctx context.Context, p domain.Profile) (domain.Profile, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QPatchProfile, p.UserID, p.FullName, p.Profession, p.Audience, p.Tone)
	return scanProfile(row)
}

func (r *ProfileRepository) Get(ctx context.Context, userID string) (domain.Profile, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectProfile, userID)
	return scanProfile(row)
}

func scanProfile(row pgx.Row) (domain.Profile, error) {
	var p domain.Profile
	if err := row.Scan(&p.UserID, &p.FullName, &p.Profession, &p.Audience, &p.Tone, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if infra.IsNoRows(err) {
			return domain.Profile{}, domain.ErrNotFound
		}
		return domain.Profile{}, err
	}
	return p, nil
}

var _ domain.ProfileRepository = (*ProfileRepository)(nil)
