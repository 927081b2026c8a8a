package domain

import (
	"context"
	"time"
)

// VideoJobRepository persists video jobs keyed by (owner, subject).
type VideoJobRepository interface {
	Upsert(ctx context.Context, job VideoJob) (VideoJob, error)
	// UpsertIfInProgress writes job only while the stored record is still in
	// progress for expectedProviderJobID. applied is false when it was not.
	UpsertIfInProgress(ctx context.Context, job VideoJob, expectedProviderJobID string) (stored VideoJob, applied bool, err error)
	Find(ctx context.Context, owner, subject string) (VideoJob, error)
	ListByOwner(ctx context.Context, owner string) ([]VideoJob, error)
	ListInProgress(ctx context.Context, olderThan time.Time, limit int) ([]VideoJob, error)
	// MarkChecked records a status check that left the job in progress.
	MarkChecked(ctx context.Context, owner, subject string, at time.Time) error
}

// ScriptSource resolves the narration text for a subject.
type ScriptSource interface {
	VideoScript(ctx context.Context, owner, subject string) (string, error)
}

// ProfileRepository stores onboarding profiles.
type ProfileRepository interface {
	Upsert(ctx context.Context, p Profile) (Profile, error)
	Patch(ctx context.Context, p Profile) (Profile, error)
	Get(ctx context.Context, userID string) (Profile, error)
}

// TopicRepository stores content topics.
type TopicRepository interface {
	Create(ctx context.Context, userID, topic string, status TopicStatus) (Topic, error)
	// List returns topics in any of statuses; no statuses lists all.
	List(ctx context.Context, userID string, statuses ...TopicStatus) ([]Topic, error)
	Get(ctx context.Context, id, userID string) (Topic, error)
	UpdateStatus(ctx context.Context, id, userID string, status TopicStatus) (Topic, error)
	// Improve applies rw once. applied is false when the topic was improved
	// before or does not exist.
	Improve(ctx context.Context, id, userID string, rw TopicRewrite) (topic Topic, applied bool, err error)
	CountByStatus(ctx context.Context, userID string) (map[TopicStatus]int, error)
}

// TemplateRepository stores generated content templates.
type TemplateRepository interface {
	ScriptSource
	Create(ctx context.Context, t ContentTemplate) (ContentTemplate, error)
	List(ctx context.Context, userID, topicID string) ([]ContentTemplate, error)
	Get(ctx context.Context, id, userID string) (ContentTemplate, error)
	Patch(ctx context.Context, id, userID string, patch TemplatePatch) (ContentTemplate, error)
}

// ScheduleRepository stores scheduled posts.
type ScheduleRepository interface {
	Create(ctx context.Context, p ScheduledPost) (ScheduledPost, error)
	List(ctx context.Context, userID string) ([]ScheduledPost, error)
	Patch(ctx context.Context, id, userID string, patch PostPatch) (ScheduledPost, error)
	Delete(ctx context.Context, id, userID string) error
}

// PreferencesRepository stores avatar and voice choices.
type PreferencesRepository interface {
	Get(ctx context.Context, userID string) (AIPreferences, error)
	Upsert(ctx context.Context, p AIPreferences) (AIPreferences, error)
}

// StatsRepository reads dashboard counters.
type StatsRepository interface {
	Summary(ctx context.Context, userID string) (StatsSummary, error)
}
