package repo

import (
	"context"

	"brandkit/internal/domain"
	"brandkit/internal/infra"
	"brandkit/internal/sqlinline"
)

// StatsRepository reads dashboard counters.
type StatsRepository struct {
	sql infra.SQLExecutor
}

func NewStatsRepository(sql infra.SQLExecutor) *StatsRepository {
	return &StatsRepository{sql: sql}
}

func (r *StatsRepository) Summary(ctx context.Context, userID string) (domain.StatsSummary, error) {
	var s domain.StatsSummary
	err := r.sql.QueryRow(ctx, sqlinline.QStatsSummary, userID).Scan(
		&s.TopicsTotal,
		&s.TopicsExpanded,
		&s.TemplatesTotal,
		&s.PostsUpcoming,
		&s.VideosInProgress,
		&s.VideosCompleted,
		&s.VideosFailed,
	)
	return s, err
}

var _ domain.StatsRepository = (*StatsRepository)(nil)
