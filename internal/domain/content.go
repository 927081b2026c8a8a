package domain

import "time"

// TopicStatus enumerates the review states of a content topic.
type TopicStatus string

const (
	TopicDraft              TopicStatus = "draft"
	TopicApproved           TopicStatus = "approved"
	TopicRejected           TopicStatus = "rejected"
	TopicDone               TopicStatus = "done"
	TopicTemplatesGenerated TopicStatus = "templates_generated"
)

// Valid reports whether s is a known topic status.
func (s TopicStatus) Valid() bool {
	switch s {
	case TopicDraft, TopicApproved, TopicRejected, TopicDone, TopicTemplatesGenerated:
		return true
	}
	return false
}

// ActiveTopicStatuses are the statuses still worked on; rejected and
// expanded topics are excluded.
var ActiveTopicStatuses = []TopicStatus{TopicDraft, TopicApproved, TopicDone}

// Topic is one content idea owned by a user. TargetAudience and Tone are set
// when the topic was improved for a specific audience or voice.
type Topic struct {
	ID             string      `json:"id"`
	UserID         string      `json:"user_id"`
	Topic          string      `json:"topic"`
	Status         TopicStatus `json:"status"`
	TargetAudience *string     `json:"target_audience"`
	Tone           *string     `json:"tone"`
	ImprovedAt     *time.Time  `json:"improved_at"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Improved reports whether the topic has used its one rewrite.
func (t Topic) Improved() bool { return t.ImprovedAt != nil }

// TopicRewrite is the replacement text for a topic plus the audience and tone
// it was written for. Empty audience or tone keeps the stored value.
type TopicRewrite struct {
	Topic          string
	TargetAudience string
	Tone           string
}

// Platform is a social network a template is written for.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformX         Platform = "x"
)

// Platforms lists every supported platform in display order.
var Platforms = []Platform{PlatformInstagram, PlatformLinkedIn, PlatformX}

func (p Platform) Valid() bool {
	switch p {
	case PlatformInstagram, PlatformLinkedIn, PlatformX:
		return true
	}
	return false
}

// TemplateStatus enumerates the editorial states of a content template.
type TemplateStatus string

const (
	TemplateDraft     TemplateStatus = "draft"
	TemplateApproved  TemplateStatus = "approved"
	TemplatePublished TemplateStatus = "published"
)

func (s TemplateStatus) Valid() bool {
	switch s {
	case TemplateDraft, TemplateApproved, TemplatePublished:
		return true
	}
	return false
}

// ContentTemplate is a platform-specific post generated for a topic. The X
// template of a topic doubles as the script of its avatar video.
type ContentTemplate struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	TopicID   string         `json:"topic_id"`
	Platform  Platform       `json:"platform"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Tags      []string       `json:"tags"`
	Status    TemplateStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TemplatePatch carries optional edits; nil fields are left unchanged.
type TemplatePatch struct {
	Title   *string
	Content *string
	Tags    []string
	Status  *TemplateStatus
}

// PostStatus enumerates scheduled post states.
type PostStatus string

const (
	PostScheduled PostStatus = "scheduled"
	PostPublished PostStatus = "published"
	PostCancelled PostStatus = "cancelled"
)

func (s PostStatus) Valid() bool {
	switch s {
	case PostScheduled, PostPublished, PostCancelled:
		return true
	}
	return false
}

// ScheduledPost is a post queued for a future publish time.
type ScheduledPost struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	TemplateID  string     `json:"template_id,omitempty"`
	Platform    Platform   `json:"platform"`
	Content     string     `json:"content"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	Status      PostStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// PostPatch carries optional edits to a scheduled post.
type PostPatch struct {
	Content     *string
	ScheduledAt *time.Time
	Status      *PostStatus
}

// StatsSummary are the dashboard counters of one user.
type StatsSummary struct {
	TopicsTotal      int `json:"topics_total"`
	TopicsExpanded   int `json:"topics_expanded"`
	TemplatesTotal   int `json:"templates_total"`
	PostsUpcoming    int `json:"posts_upcoming"`
	VideosInProgress int `json:"videos_in_progress"`
	VideosCompleted  int `json:"videos_completed"`
	VideosFailed     int `json:"videos_failed"`
}
