// Package videojob drives the lifecycle of avatar video jobs: submission to the
// provider, status reconciliation, cancellation, and stale-job sweeps.
package videojob

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"brandkit/internal/domain"
	"brandkit/internal/providers/video"
)

// Clock returns the current time.
type Clock func() time.Time

type Options struct {
	Jobs     domain.VideoJobRepository
	Scripts  domain.ScriptSource
	Provider video.Provider
	Logger   zerolog.Logger
	Clock    Clock
}

// Controller owns every state transition of a video job.
type Controller struct {
	jobs     domain.VideoJobRepository
	scripts  domain.ScriptSource
	provider video.Provider
	logger   zerolog.Logger
	now      Clock
}

func New(opts Options) *Controller {
	now := opts.Clock
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Controller{
		jobs:     opts.Jobs,
		scripts:  opts.Scripts,
		provider: opts.Provider,
		logger:   opts.Logger,
		now:      now,
	}
}

// StatusReport is the outcome of one status check.
type StatusReport struct {
	Job domain.VideoJob `json:"job"`
	// ProviderPhase is the provider's raw phase, or the stored phase when the
	// job was already terminal and the provider was not asked.
	ProviderPhase string `json:"providerPhase"`
	// Changed is true when this check moved the job to a terminal phase.
	Changed bool `json:"changed"`
	// Superseded is true when a concurrent cancel or resubmission won the write.
	Superseded bool `json:"superseded,omitempty"`
}

// Submit starts a video for (owner, subject) narrating the subject's X
// template. Nothing is written unless the provider accepted the job.
func (c *Controller) Submit(ctx context.Context, owner, subject, characterID, voiceID string) (domain.VideoJob, error) {
	if err := requireIDs(owner, subject); err != nil {
		return domain.VideoJob{}, err
	}
	if strings.TrimSpace(characterID) == "" || strings.TrimSpace(voiceID) == "" {
		return domain.VideoJob{}, &domain.ValidationError{Field: "characterId/voiceId", Message: "are required"}
	}
	script, err := c.scripts.VideoScript(ctx, owner, subject)
	if err != nil {
		return domain.VideoJob{}, err
	}
	providerJobID, err := c.provider.Submit(ctx, script, characterID, voiceID)
	if err != nil {
		c.logger.Warn().Err(err).Str("owner", owner).Str("subject", subject).Msg("video submit failed")
		return domain.VideoJob{}, err
	}
	job, err := c.jobs.Upsert(ctx, domain.NewInProgressJob(owner, subject, providerJobID, c.now()))
	if err != nil {
		return domain.VideoJob{}, fmt.Errorf("record submitted job %s: %w", providerJobID, err)
	}
	c.logger.Info().Str("owner", owner).Str("subject", subject).Str("provider_job_id", providerJobID).Msg("video job submitted")
	return job, nil
}

// CheckStatus asks the provider about the job and records a terminal outcome.
// Non-terminal provider phases leave the record untouched.
func (c *Controller) CheckStatus(ctx context.Context, owner, subject string) (StatusReport, error) {
	job, err := c.find(ctx, owner, subject)
	if err != nil {
		return StatusReport{}, err
	}
	if job.ProviderJobID == "" {
		return StatusReport{}, domain.ErrJobNotFound
	}
	if job.Phase.Terminal() {
		return StatusReport{Job: job, ProviderPhase: string(job.Phase)}, nil
	}

	st, err := c.provider.Status(ctx, job.ProviderJobID)
	if err != nil {
		return StatusReport{}, err
	}

	var next domain.VideoJob
	switch {
	case st.Phase == video.PhaseCompleted && st.ResultURI != "":
		next = job.Completed(st.ResultURI, c.now())
	case st.Phase == video.PhaseFailed:
		next = job.Failed(st.ErrorDetail, c.now())
	default:
		return StatusReport{Job: job, ProviderPhase: st.Phase}, nil
	}

	stored, applied, err := c.jobs.UpsertIfInProgress(ctx, next, job.ProviderJobID)
	if err != nil {
		return StatusReport{}, err
	}
	if !applied {
		current, err := c.find(ctx, owner, subject)
		if err != nil {
			return StatusReport{}, err
		}
		c.logger.Info().Str("owner", owner).Str("subject", subject).Str("provider_phase", st.Phase).Msg("video status superseded by concurrent write")
		return StatusReport{Job: current, ProviderPhase: st.Phase, Superseded: true}, nil
	}
	c.logger.Info().Str("owner", owner).Str("subject", subject).Str("phase", string(stored.Phase)).Msg("video job finished")
	return StatusReport{Job: stored, ProviderPhase: st.Phase, Changed: true}, nil
}

// Cancel marks an in-progress job failed locally. The provider is not told.
func (c *Controller) Cancel(ctx context.Context, owner, subject string) (domain.VideoJob, error) {
	// A concurrent resubmission can swap the provider job between the read
	// and the guarded write; one more round cancels the new job.
	for round := 0; round < 2; round++ {
		job, err := c.find(ctx, owner, subject)
		if err != nil {
			return domain.VideoJob{}, err
		}
		if job.Phase != domain.PhaseInProgress {
			return domain.VideoJob{}, &domain.InvalidStateError{Current: job.Phase}
		}
		stored, applied, err := c.jobs.UpsertIfInProgress(ctx, job.Failed(domain.FailureCancelled, c.now()), job.ProviderJobID)
		if err != nil {
			return domain.VideoJob{}, err
		}
		if applied {
			c.logger.Info().Str("owner", owner).Str("subject", subject).Msg("video job cancelled")
			return stored, nil
		}
	}
	job, err := c.find(ctx, owner, subject)
	if err != nil {
		return domain.VideoJob{}, err
	}
	return domain.VideoJob{}, &domain.InvalidStateError{Current: job.Phase}
}

// RecordInput is a caller-reported phase for a job.
type RecordInput struct {
	OwnerID       string
	SubjectID     string
	Phase         domain.Phase
	ResultURI     string
	FailureReason string
}

// Record writes a caller-reported phase, keeping the phase and field coupling:
// completed needs a result URI and failed always carries a reason.
func (c *Controller) Record(ctx context.Context, in RecordInput) (domain.VideoJob, error) {
	if err := requireIDs(in.OwnerID, in.SubjectID); err != nil {
		return domain.VideoJob{}, err
	}
	if !in.Phase.Valid() {
		return domain.VideoJob{}, &domain.ValidationError{Field: "phase", Message: fmt.Sprintf("unknown phase %q", in.Phase)}
	}

	prior, err := c.jobs.Find(ctx, in.OwnerID, in.SubjectID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		prior = domain.VideoJob{OwnerID: in.OwnerID, SubjectID: in.SubjectID, SubmittedAt: c.now()}
	case err != nil:
		return domain.VideoJob{}, err
	}

	now := c.now()
	var next domain.VideoJob
	switch in.Phase {
	case domain.PhaseCompleted:
		uri := strings.TrimSpace(in.ResultURI)
		if uri == "" {
			return domain.VideoJob{}, &domain.ValidationError{Field: "resultUri", Message: "is required when phase is completed"}
		}
		next = prior.Completed(uri, now)
	case domain.PhaseFailed:
		next = prior.Failed(strings.TrimSpace(in.FailureReason), now)
	default:
		next = prior
		next.Phase = domain.PhaseInProgress
		next.ResultURI = nil
		next.FailureReason = nil
		next.FinishedAt = nil
	}
	return c.jobs.Upsert(ctx, next)
}

// List returns the owner's jobs newest first.
func (c *Controller) List(ctx context.Context, owner string) ([]domain.VideoJob, error) {
	if strings.TrimSpace(owner) == "" {
		return nil, &domain.ValidationError{Field: "ownerId", Message: "is required"}
	}
	return c.jobs.ListByOwner(ctx, owner)
}

func (c *Controller) find(ctx context.Context, owner, subject string) (domain.VideoJob, error) {
	if err := requireIDs(owner, subject); err != nil {
		return domain.VideoJob{}, err
	}
	job, err := c.jobs.Find(ctx, owner, subject)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.VideoJob{}, domain.ErrJobNotFound
	}
	return job, err
}

func requireIDs(owner, subject string) error {
	if strings.TrimSpace(owner) == "" {
		return &domain.ValidationError{Field: "ownerId", Message: "is required"}
	}
	if strings.TrimSpace(subject) == "" {
		return &domain.ValidationError{Field: "subjectId", Message: "is required"}
	}
	return nil
}
