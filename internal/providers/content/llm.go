package content

import (
	"context"
	"errors"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// completer sends one system+user exchange to a model and returns its text.
// Failures are *fallbackError values naming the reason.
type completer interface {
	complete(ctx context.Context, system, prompt string, temperature float32) (string, error)
}

// modelGenerator turns model text into topics and templates, validating the
// JSON before use and falling back to static content on any failure.
type modelGenerator struct {
	name       string
	llm        completer
	fallback   Generator
	onFallback func(reason string, err error)
}

func (m *modelGenerator) Topics(ctx context.Context, req TopicRequest) ([]string, error) {
	n := topicCount(req.Count)
	parsed, err := ask[modelTopicsPayload](ctx, m.llm, topicsSystemPrompt(), buildTopicsPrompt(req), topicsSchemaLoader)
	if err == nil {
		if topics := normalizeTopics(parsed.Topics, n); len(topics) > 0 {
			return topics, nil
		}
		err = fallbackf("empty_topics", errors.New("no usable topics"))
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	m.emitFallback(reasonOf(err), err)
	return m.fallbackGenerator().Topics(ctx, req)
}

func (m *modelGenerator) Template(ctx context.Context, req TemplateRequest) (*Template, error) {
	parsed, err := ask[modelTemplatePayload](ctx, m.llm, templateSystemPrompt(req), buildTemplatePrompt(req), templateSchemaLoader)
	if err == nil {
		tag := strings.Join(strings.Fields(strings.ToLower(req.Topic)), "")
		return &Template{
			Title:    coalesce(parsed.Title, "Content about "+req.Topic),
			Content:  coalesce(parsed.Content, "Content about "+req.Topic),
			Tags:     normalizeTags(parsed.Tags, tag),
			Provider: m.name,
		}, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	reason := reasonOf(err)
	m.emitFallback(reason, err)
	res, ferr := m.fallbackGenerator().Template(ctx, req)
	if res != nil {
		if res.Provider == "" {
			res.Provider = staticProviderName
		}
		res.FallbackReason = reason
	}
	return res, ferr
}

func (m *modelGenerator) ImproveTopic(ctx context.Context, req ImproveRequest) (string, error) {
	parsed, err := ask[modelImprovedTopicPayload](ctx, m.llm, topicsSystemPrompt(), buildImprovePrompt(req), improvedTopicSchemaLoader)
	if err == nil {
		if topics := normalizeTopics([]string{parsed.Topic}, 1); len(topics) == 1 {
			return topics[0], nil
		}
		err = fallbackf("empty_topics", errors.New("no usable topic"))
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	m.emitFallback(reasonOf(err), err)
	return m.fallbackGenerator().ImproveTopic(ctx, req)
}

// ask runs one completion and decodes the JSON answer into T after checking
// it against schema.
func ask[T any](ctx context.Context, model completer, system, prompt string, schema gojsonschema.JSONLoader) (T, error) {
	var zero T
	text, err := model.complete(ctx, system, prompt, 0.7)
	if err != nil {
		return zero, err
	}
	parsed, doc, err := parseModelPayload[T](text)
	if err != nil {
		return zero, fallbackf("parse_payload", err)
	}
	if err := validatePayload(schema, doc); err != nil {
		return zero, fallbackf("schema_mismatch", err)
	}
	return parsed, nil
}

func (m *modelGenerator) fallbackGenerator() Generator {
	if m.fallback != nil {
		return m.fallback
	}
	return NewStaticGenerator()
}

func (m *modelGenerator) emitFallback(reason string, err error) {
	if m.onFallback != nil {
		m.onFallback(reason, err)
	}
}
