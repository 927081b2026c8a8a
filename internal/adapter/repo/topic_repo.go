package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"brandkit/internal/domain"
	"brandkit/internal/infra"
	"brandkit/internal/sqlinline"
)

// TopicRepository implements domain.TopicRepository on content_topics.
type TopicRepository struct {
	sql infra.SQLExecutor
}

func NewTopicRepository(sql infra.SQLExecutor) *TopicRepository {
	return &TopicRepository{sql: sql}
}

func (r *TopicRepository) Create(ctx context.Context, userID, topic string, status domain.TopicStatus) (domain.Topic, error) {
	if status == "" {
		status = domain.TopicDraft
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertTopic, userID, topic, string(status))
	return scanTopic(row)
}

// List returns the user's topics newest first, limited to statuses when any
// are given.
func (r *TopicRepository) List(ctx context.Context, userID string, statuses ...domain.TopicStatus) ([]domain.Topic, error) {
	filter := make([]string, 0, len(statuses))
	for _, s := range statuses {
		if s != "" {
			filter = append(filter, string(s))
		}
	}
	rows, err := r.sql.Query(ctx, sqlinline.QListTopics, userID, filter)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	topics := []domain.Topic{}
	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

func (r *TopicRepository) Get(ctx context.Context, id, userID string) (domain.Topic, error) {
	return scanTopic(r.sql.QueryRow(ctx, sqlinline.QSelectTopic, id, userID))
}

func (r *TopicRepository) UpdateStatus(ctx context.Context, id, userID string, status domain.TopicStatus) (domain.Topic, error) {
	return scanTopic(r.sql.QueryRow(ctx, sqlinline.QUpdateTopicStatus, id, userID, string(status)))
}

func (r *TopicRepository) Improve(ctx context.Context, id, userID string, rw domain.TopicRewrite) (domain.Topic, bool, error) {
	t, err := scanTopic(r.sql.QueryRow(ctx, sqlinline.QImproveTopic, id, userID, rw.Topic, rw.TargetAudience, rw.Tone))
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Topic{}, false, nil
	}
	if err != nil {
		return domain.Topic{}, false, err
	}
	return t, true, nil
}

func (r *TopicRepository) CountByStatus(ctx context.Context, userID string) (map[domain.TopicStatus]int, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QCountTopicsByStatus, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[domain.TopicStatus]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[domain.TopicStatus(status)] = n
	}
	return counts, rows.Err()
}

func scanTopic(row pgx.Row) (domain.Topic, error) {
	var t domain.Topic
	if err := row.Scan(&t.ID, &t.UserID, &t.Topic, &t.Status, &t.TargetAudience, &t.Tone, &t.ImprovedAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if infra.IsNoRows(err) {
			return domain.Topic{}, domain.ErrNotFound
		}
		return domain.Topic{}, err
	}
	return t, nil
}

var _ domain.TopicRepository = (*TopicRepository)(nil)
