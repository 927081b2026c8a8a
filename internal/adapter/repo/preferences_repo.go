package repo

import (
	"context"

	"brandkit/internal/domain"
	"brandkit/internal/infra"
	"brandkit/internal/sqlinline"
)

// PreferencesRepository implements domain.PreferencesRepository on ai_preferences.
type PreferencesRepository struct {
	sql infra.SQLExecutor
}

func NewPreferencesRepository(sql infra.SQLExecutor) *PreferencesRepository {
	return &PreferencesRepository{sql: sql}
}

// Get returns empty preferences when the user has not chosen any.
func (r *PreferencesRepository) Get(ctx context.Context, userID string) (domain.AIPreferences, error) {
	var p domain.AIPreferences
	err := r.sql.QueryRow(ctx, sqlinline.QSelectAIPreferences, userID).Scan(&p.UserID, &p.HeyGenAvatarID, &p.HeyGenVoiceID, &p.UpdatedAt)
	if err != nil {
		if infra.IsNoRows(err) {
			return domain.AIPreferences{UserID: userID}, nil
		}
		return domain.AIPreferences{}, err
	}
	return p, nil
}

func (r *PreferencesRepository) Upsert(ctx context.Context, p domain.AIPreferences) (domain.AIPreferences, error) {
	var out domain.AIPreferences
	err := r.sql.QueryRow(ctx, sqlinline.QUpsertAIPreferences, p.UserID, p.HeyGenAvatarID, p.HeyGenVoiceID).
		Scan(&out.UserID, &out.HeyGenAvatarID, &out.HeyGenVoiceID, &out.UpdatedAt)
	if err != nil {
		return domain.AIPreferences{}, err
	}
	return out, nil
}

var _ domain.PreferencesRepository = (*PreferencesRepository)(nil)
