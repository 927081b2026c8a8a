package domain

import "time"

// Phase enumerates the lifecycle states of a video job.
type Phase string

const (
	PhaseInProgress Phase = "in_progress"
	PhaseCompleted  Phase = "completed"
	PhaseFailed     Phase = "failed"
)

// Terminal reports whether no further provider transitions are expected.
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseFailed
}

// Valid reports whether p is one of the known phases.
func (p Phase) Valid() bool {
	switch p {
	case PhaseInProgress, PhaseCompleted, PhaseFailed:
		return true
	}
	return false
}

const (
	// FailureGeneric is recorded when the provider reports failure without detail.
	FailureGeneric = "Generation failed"
	// FailureCancelled is recorded when the user abandons an in-progress job.
	FailureCancelled = "Cancelled by user"
)

// VideoJob is the persisted state of one avatar video generation, unique per
// (OwnerID, SubjectID). A new submission for the same pair replaces it.
type VideoJob struct {
	OwnerID       string     `json:"owner_id"`
	SubjectID     string     `json:"subject_id"`
	ProviderJobID string     `json:"provider_job_id,omitempty"`
	Phase         Phase      `json:"phase"`
	ResultURI     *string    `json:"result_uri"`
	FailureReason *string    `json:"failure_reason"`
	SubmittedAt   time.Time  `json:"submitted_at"`
	FinishedAt    *time.Time `json:"finished_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// SubjectName is resolved by the store for dashboard listings only.
	SubjectName string `json:"subject_name,omitempty"`
}

// NewInProgressJob builds the record written right after a successful submit.
func NewInProgressJob(owner, subject, providerJobID string, now time.Time) VideoJob {
	return VideoJob{
		OwnerID:       owner,
		SubjectID:     subject,
		ProviderJobID: providerJobID,
		Phase:         PhaseInProgress,
		SubmittedAt:   now,
	}
}

// Completed returns a copy of j moved to the completed phase.
func (j VideoJob) Completed(uri string, now time.Time) VideoJob {
	j.Phase = PhaseCompleted
	j.ResultURI = &uri
	j.FailureReason = nil
	j.FinishedAt = &now
	return j
}

// Failed returns a copy of j moved to the failed phase.
func (j VideoJob) Failed(reason string, now time.Time) VideoJob {
	if reason == "" {
		reason = FailureGeneric
	}
	j.Phase = PhaseFailed
	j.ResultURI = nil
	j.FailureReason = &reason
	j.FinishedAt = &now
	return j
}

// Consistent checks the phase/field coupling that every stored record keeps.
func (j VideoJob) Consistent() bool {
	if (j.ResultURI != nil) != (j.Phase == PhaseCompleted) {
		return false
	}
	if (j.FailureReason != nil) != (j.Phase == PhaseFailed) {
		return false
	}
	return j.Phase.Valid()
}
