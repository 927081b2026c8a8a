package videojob

import (
	"context"
	"sort"
	"sync"
	"time"

	"brandkit/internal/domain"
	"brandkit/internal/providers/video"
)

type key struct{ owner, subject string }

// memoryJobs mirrors the SQL upsert semantics of the Postgres repository.
type memoryJobs struct {
	mu      sync.Mutex
	jobs    map[key]domain.VideoJob
	checked map[key]time.Time
	writes  int
	// beforeGuard runs inside UpsertIfInProgress before the guard is evaluated.
	beforeGuard func(m *memoryJobs)
}

func newMemoryJobs() *memoryJobs {
	return &memoryJobs{jobs: map[key]domain.VideoJob{}, checked: map[key]time.Time{}}
}

func (m *memoryJobs) Upsert(ctx context.Context, job domain.VideoJob) (domain.VideoJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upsertLocked(job), nil
}

func (m *memoryJobs) upsertLocked(job domain.VideoJob) domain.VideoJob {
	k := key{job.OwnerID, job.SubjectID}
	if prev, ok := m.jobs[k]; ok && job.ProviderJobID == "" {
		job.ProviderJobID = prev.ProviderJobID
	}
	job.UpdatedAt = job.SubmittedAt
	job.SubjectName = ""
	m.jobs[k] = job
	delete(m.checked, k)
	m.writes++
	return job
}

func (m *memoryJobs) UpsertIfInProgress(ctx context.Context, job domain.VideoJob, expected string) (domain.VideoJob, bool, error) {
	if m.beforeGuard != nil {
		hook := m.beforeGuard
		m.beforeGuard = nil
		hook(m)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.jobs[key{job.OwnerID, job.SubjectID}]; ok {
		if prev.Phase != domain.PhaseInProgress || prev.ProviderJobID != expected {
			return domain.VideoJob{}, false, nil
		}
	}
	return m.upsertLocked(job), true, nil
}

func (m *memoryJobs) Find(ctx context.Context, owner, subject string) (domain.VideoJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[key{owner, subject}]
	if !ok {
		return domain.VideoJob{}, domain.ErrNotFound
	}
	return job, nil
}

func (m *memoryJobs) ListByOwner(ctx context.Context, owner string) ([]domain.VideoJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.VideoJob
	for k, job := range m.jobs {
		if k.owner == owner {
			job.SubjectName = "Unknown Topic"
			out = append(out, job)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (m *memoryJobs) ListInProgress(ctx context.Context, olderThan time.Time, limit int) ([]domain.VideoJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lastTouch := func(job domain.VideoJob) time.Time {
		if at, ok := m.checked[key{job.OwnerID, job.SubjectID}]; ok {
			return at
		}
		return job.UpdatedAt
	}
	var out []domain.VideoJob
	for _, job := range m.jobs {
		if job.Phase == domain.PhaseInProgress && job.ProviderJobID != "" && lastTouch(job).Before(olderThan) {
			out = append(out, job)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := lastTouch(out[i]), lastTouch(out[j])
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return out[i].SubjectID < out[j].SubjectID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryJobs) MarkChecked(ctx context.Context, owner, subject string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key{owner, subject}
	if job, ok := m.jobs[k]; ok && job.Phase == domain.PhaseInProgress {
		m.checked[k] = at
	}
	return nil
}

func (m *memoryJobs) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}

type scripts map[key]string

func (s scripts) VideoScript(ctx context.Context, owner, subject string) (string, error) {
	v, ok := s[key{owner, subject}]
	if !ok {
		return "", domain.ErrContentNotFound
	}
	return v, nil
}

// fakeProvider returns queued status results per provider job id.
type fakeProvider struct {
	mu         sync.Mutex
	nextID     string
	submitErr  error
	submits    []string
	statuses   map[string][]video.StatusResult
	statusErr  map[string]error
	statusHits int
}

func newFakeProvider(id string) *fakeProvider {
	return &fakeProvider{nextID: id, statuses: map[string][]video.StatusResult{}, statusErr: map[string]error{}}
}

func (f *fakeProvider) Submit(ctx context.Context, script, characterID, voiceID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submits = append(f.submits, script)
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return f.nextID, nil
}

func (f *fakeProvider) Status(ctx context.Context, id string) (video.StatusResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusHits++
	if err := f.statusErr[id]; err != nil {
		return video.StatusResult{}, err
	}
	queue := f.statuses[id]
	if len(queue) == 0 {
		return video.StatusResult{Phase: "processing"}, nil
	}
	res := queue[0]
	if len(queue) > 1 {
		f.statuses[id] = queue[1:]
	}
	return res, nil
}
