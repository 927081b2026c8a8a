package content

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var listMarker = regexp.MustCompile(`^\s*(?:[-*\x{2022}]|\d+[.)])\s*`)

type modelTopicsPayload struct {
	Topics []string `json:"topics"`
}

type modelImprovedTopicPayload struct {
	Topic string `json:"topic"`
}

type modelTemplatePayload struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// fallbackError carries the short reason recorded when a model answer is
// replaced by static content.
type fallbackError struct {
	reason string
	err    error
}

func (e *fallbackError) Error() string {
	if e.err == nil {
		return e.reason
	}
	return e.reason + ": " + e.err.Error()
}

func (e *fallbackError) Unwrap() error { return e.err }

func fallbackf(reason string, err error) error {
	return &fallbackError{reason: reason, err: err}
}

// resolveKey returns static when set and otherwise asks source.
func resolveKey(ctx context.Context, static string, source KeySource) (string, error) {
	if static != "" {
		return static, nil
	}
	if source != nil {
		key, err := source(ctx)
		if err != nil {
			return "", fallbackf("key_lookup", err)
		}
		if key = strings.TrimSpace(key); key != "" {
			return key, nil
		}
	}
	return "", fallbackf("missing_api_key", nil)
}

func reasonOf(err error) string {
	var fe *fallbackError
	if errors.As(err, &fe) {
		return fe.reason
	}
	return "unknown"
}

func normalizeTags(tags []string, fallback string) []string {
	seen := make(map[string]struct{})
	var result []string
	for _, tag := range tags {
		tag = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
		if tag == "" {
			continue
		}
		lower := strings.ToLower(tag)
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		result = append(result, tag)
	}
	if len(result) == 0 && fallback != "" {
		result = []string{fallback}
	}
	return result
}

func normalizeTopics(topics []string, n int) []string {
	var out []string
	for _, t := range topics {
		t = strings.Trim(strings.TrimSpace(listMarker.ReplaceAllString(t, "")), `"`)
		if t == "" {
			continue
		}
		out = append(out, t)
		if len(out) == n {
			break
		}
	}
	return out
}

func coalesce(values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			return v
		}
	}
	return ""
}

func parseModelPayload[T any](raw string) (T, string, error) {
	var zero T
	cleaned := extractJSONFragment(raw)
	if cleaned == "" {
		return zero, "", errors.New("empty payload")
	}
	var decoded T
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return zero, cleaned, err
	}
	return decoded, cleaned, nil
}

func extractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "]}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
