package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrValidation      = errors.New("validation failed")
	ErrMissingAPIKey   = errors.New("HeyGen API key not configured")
	ErrContentNotFound = errors.New("X platform content template not found for this topic")
	ErrJobNotFound     = errors.New("video job not found")
	ErrProfileNotFound = errors.New("User profile not found. Please complete onboarding first.")
	// ErrTopicImproved is returned when a topic was already rewritten once.
	ErrTopicImproved = errors.New("This topic has already been improved")
)

// ProviderRequestError reports that the remote video provider could not be
// reached, rejected the request, or kept failing after every retry.
type ProviderRequestError struct {
	Op         string
	StatusCode int
	Attempts   int
	Detail     string
	Err        error
}

func (e *ProviderRequestError) Error() string {
	var sb strings.Builder
	sb.WriteString("provider ")
	sb.WriteString(e.Op)
	sb.WriteString(" failed")
	if e.StatusCode > 0 {
		fmt.Fprintf(&sb, " (status %d", e.StatusCode)
		if e.Attempts > 1 {
			fmt.Fprintf(&sb, ", %d attempts", e.Attempts)
		}
		sb.WriteString(")")
	}
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	} else if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *ProviderRequestError) Unwrap() error { return e.Err }

// Retryable reports whether the failure came from a transient status class.
func (e *ProviderRequestError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

// InvalidStateError is returned when an operation requires a phase the job is
// not currently in.
type InvalidStateError struct {
	Current Phase
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("Video is not in generating status (current: %s)", e.Current)
}

// ValidationError names the offending field of a rejected input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
