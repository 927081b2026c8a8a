// Package content writes topic ideas and platform posts for a user's profile.
package content

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"brandkit/internal/domain"
)

const (
	staticProviderName = "static"
	geminiProviderName = "gemini"
	openAIProviderName = "openai"
)

// KeySource resolves a model API key per call so a key stored after startup
// is used without a restart.
type KeySource func(ctx context.Context) (string, error)

// DefaultTopicCount is how many topics a generation round produces.
const DefaultTopicCount = 5

type TopicRequest struct {
	Profile domain.Profile
	Locale  string
	Count   int
}

type TemplateRequest struct {
	Topic    string
	Platform domain.Platform
	// Profile is optional; tone and audience are injected when present.
	Profile *domain.Profile
	Locale  string
}

// ImproveRequest asks for a rewrite of one topic. At least one of Feedback,
// Audience or Tone is set.
type ImproveRequest struct {
	Topic    string
	Feedback string
	Audience string
	Tone     string
	Profile  *domain.Profile
	Locale   string
}

type Template struct {
	Title          string   `json:"title"`
	Content        string   `json:"content"`
	Tags           []string `json:"tags"`
	Provider       string   `json:"provider"`
	FallbackReason string   `json:"fallback_reason,omitempty"`
}

type Generator interface {
	Topics(ctx context.Context, req TopicRequest) ([]string, error)
	Template(ctx context.Context, req TemplateRequest) (*Template, error)
	ImproveTopic(ctx context.Context, req ImproveRequest) (string, error)
}

// StaticGenerator produces deterministic content without calling a model.
type StaticGenerator struct{}

func NewStaticGenerator() *StaticGenerator {
	return &StaticGenerator{}
}

func (s *StaticGenerator) Topics(ctx context.Context, req TopicRequest) ([]string, error) {
	profession := cases.Title(localeTag(req.Locale)).String(coalesce(req.Profile.Profession, "professional"))
	audience := coalesce(req.Profile.Audience, "your audience")
	items := []string{
		fmt.Sprintf("Lessons I learned in my first year as a %s", profession),
		fmt.Sprintf("Three mistakes %s make and how to avoid them", audience),
		fmt.Sprintf("A day in the life of a %s", profession),
		fmt.Sprintf("Tools every %s should know about", profession),
		fmt.Sprintf("What %s ask me most often", audience),
		fmt.Sprintf("How the %s role is changing", profession),
		fmt.Sprintf("One habit that made me a better %s", profession),
	}
	n := topicCount(req.Count)
	if n > len(items) {
		n = len(items)
	}
	return items[:n], nil
}

func (s *StaticGenerator) Template(ctx context.Context, req TemplateRequest) (*Template, error) {
	return FallbackTemplate(req.Topic, req.Platform), nil
}

// ImproveTopic keeps the topic and names the requested audience in it.
func (s *StaticGenerator) ImproveTopic(ctx context.Context, req ImproveRequest) (string, error) {
	topic := strings.TrimSpace(req.Topic)
	audience := strings.TrimSpace(req.Audience)
	if audience != "" && !strings.Contains(strings.ToLower(topic), strings.ToLower(audience)) {
		topic = fmt.Sprintf("%s for %s", topic, audience)
	}
	return topic, nil
}

// FallbackTemplate is the post used when a platform could not be generated.
func FallbackTemplate(topic string, platform domain.Platform) *Template {
	topic = strings.TrimSpace(topic)
	return &Template{
		Title:    fmt.Sprintf("Content about %s", topic),
		Content:  fmt.Sprintf("This is content about %s optimized for %s.", topic, platform),
		Tags:     []string{strings.Join(strings.Fields(cases.Lower(language.Und).String(topic)), "")},
		Provider: staticProviderName,
	}
}

func topicCount(n int) int {
	if n <= 0 {
		return DefaultTopicCount
	}
	return n
}

func localeTag(locale string) language.Tag {
	tag, err := language.Parse(locale)
	if err != nil {
		return language.Und
	}
	return tag
}

var _ Generator = (*StaticGenerator)(nil)
