package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"brandkit/internal/domain"
	"brandkit/internal/infra"
	"brandkit/internal/sqlinline"
)

// VideoJobRepository implements domain.VideoJobRepository on video_jobs.
type VideoJobRepository struct {
	sql infra.SQLExecutor
}

func NewVideoJobRepository(sql infra.SQLExecutor) *VideoJobRepository {
	return &VideoJobRepository{sql: sql}
}

// Upsert inserts or replaces the job for (owner, subject). An empty
// ProviderJobID keeps the one already stored.
func (r *VideoJobRepository) Upsert(ctx context.Context, job domain.VideoJob) (domain.VideoJob, error) {
	if err := checkJob(job); err != nil {
		return domain.VideoJob{}, err
	}
	row := r.sql.QueryRow(ctx, sqlinline.QUpsertVideoJob, jobArgs(job)...)
	stored, err := scanVideoJob(row)
	if err != nil {
		return domain.VideoJob{}, fmt.Errorf("upsert video job: %w", err)
	}
	return stored, nil
}

// UpsertIfInProgress writes job only if the stored record is still in progress
// for expectedProviderJobID.
func (r *VideoJobRepository) UpsertIfInProgress(ctx context.Context, job domain.VideoJob, expectedProviderJobID string) (domain.VideoJob, bool, error) {
	if err := checkJob(job); err != nil {
		return domain.VideoJob{}, false, err
	}
	args := append(jobArgs(job), expectedProviderJobID)
	row := r.sql.QueryRow(ctx, sqlinline.QUpsertVideoJobIfInProgress, args...)
	stored, err := scanVideoJob(row)
	if err != nil {
		if infra.IsNoRows(err) {
			return domain.VideoJob{}, false, nil
		}
		return domain.VideoJob{}, false, fmt.Errorf("guarded upsert video job: %w", err)
	}
	return stored, true, nil
}

// Find returns domain.ErrNotFound when no job exists for the pair.
func (r *VideoJobRepository) Find(ctx context.Context, owner, subject string) (domain.VideoJob, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectVideoJob, owner, subject)
	job, err := scanVideoJob(row)
	if err != nil {
		if infra.IsNoRows(err) {
			return domain.VideoJob{}, domain.ErrNotFound
		}
		return domain.VideoJob{}, err
	}
	return job, nil
}

// ListByOwner returns the owner's jobs newest first with their topic names.
func (r *VideoJobRepository) ListByOwner(ctx context.Context, owner string) ([]domain.VideoJob, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListVideoJobsByOwner, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []domain.VideoJob{}
	for rows.Next() {
		var job domain.VideoJob
		dest := append(jobDest(&job), &job.SubjectName)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// ListInProgress returns in-progress jobs neither updated nor checked since
// olderThan, least recently checked first.
func (r *VideoJobRepository) ListInProgress(ctx context.Context, olderThan time.Time, limit int) ([]domain.VideoJob, error) {
	if limit <= 0 {
		limit = 25
	}
	rows, err := r.sql.Query(ctx, sqlinline.QListStaleVideoJobs, olderThan, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []domain.VideoJob
	for rows.Next() {
		var job domain.VideoJob
		if err := rows.Scan(jobDest(&job)...); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (r *VideoJobRepository) MarkChecked(ctx context.Context, owner, subject string, at time.Time) error {
	_, err := r.sql.Exec(ctx, sqlinline.QMarkVideoJobChecked, owner, subject, at)
	return err
}

func checkJob(job domain.VideoJob) error {
	if job.OwnerID == "" || job.SubjectID == "" {
		return &domain.ValidationError{Field: "owner/subject", Message: "are required"}
	}
	if !job.Consistent() {
		return &domain.ValidationError{Field: "phase", Message: fmt.Sprintf("result/failure fields do not match phase %q", job.Phase)}
	}
	return nil
}

func jobArgs(job domain.VideoJob) []any {
	var submitted *time.Time
	if !job.SubmittedAt.IsZero() {
		t := job.SubmittedAt
		submitted = &t
	}
	return []any{
		job.OwnerID,
		job.SubjectID,
		job.ProviderJobID,
		string(job.Phase),
		job.ResultURI,
		job.FailureReason,
		submitted,
		job.FinishedAt,
	}
}

func jobDest(job *domain.VideoJob) []any {
	return []any{
		&job.OwnerID,
		&job.SubjectID,
		&job.ProviderJobID,
		&job.Phase,
		&job.ResultURI,
		&job.FailureReason,
		&job.SubmittedAt,
		&job.FinishedAt,
		&job.UpdatedAt,
	}
}

func scanVideoJob(row pgx.Row) (domain.VideoJob, error) {
	var job domain.VideoJob
	if err := row.Scan(jobDest(&job)...); err != nil {
		return domain.VideoJob{}, err
	}
	return job, nil
}

var _ domain.VideoJobRepository = (*VideoJobRepository)(nil)
