package domain

import "time"

// Profile is the onboarding answers that steer content generation.
type Profile struct {
	UserID     string    `json:"user_id"`
	FullName   string    `json:"full_name"`
	Profession string    `json:"profession"`
	Audience   string    `json:"audience"`
	Tone       string    `json:"tone"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AIPreferences holds the avatar and voice a user picked for videos.
type AIPreferences struct {
	UserID         string    `json:"user_id"`
	HeyGenAvatarID string    `json:"heygen_avatar_id"`
	HeyGenVoiceID  string    `json:"heygen_voice_id"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Avatar is a selectable HeyGen presenter.
type Avatar struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Voice is a selectable HeyGen voice.
type Voice struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language,omitempty"`
}
