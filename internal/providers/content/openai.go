package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"brandkit/pkg/httpretry"
)

type OpenAIOptions struct {
	APIKey       string
	// KeySource is consulted on each call when APIKey is empty.
	KeySource    KeySource
	Model        string
	BaseURL      string
	Organization string
	HTTPClient   *http.Client
	// Retry applies to 429 and 5xx answers. The zero value makes one attempt.
	Retry      httpretry.Policy
	Fallback   Generator
	OnFallback func(reason string, err error)
	OnWarning  func(reason, detail string)
}

type OpenAIGenerator struct {
	modelGenerator
	apiKey       string
	keySource    KeySource
	model        string
	baseURL      string
	organization string
	client       *http.Client
	retry        httpretry.Policy
}

const openAIDefaultTimeout = 30 * time.Second

const defaultOpenAIModel = "gpt-4o-mini"

var openAIModelCanonical = map[string]string{
	"gpt-3.5-turbo": "gpt-3.5-turbo",
	"gpt-4o-mini":   "gpt-4o-mini",
	"gpt-4o":        "gpt-4o",
	"gpt-4":         "gpt-4",
}

var openAIModelAliases = map[string]string{
	"gpt-3.5":                "gpt-3.5-turbo",
	"gpt3.5":                 "gpt-3.5-turbo",
	"gpt-35-turbo":           "gpt-3.5-turbo",
	"gpt4o-mini":             "gpt-4o-mini",
	"gpt4omini":              "gpt-4o-mini",
	"gpt-4o-mini-2024-07-18": "gpt-4o-mini",
	"gpt4o":                  "gpt-4o",
	"gpt4":                   "gpt-4",
}

type openAIChatRequest struct {
	Model          string          `json:"model"`
	Messages       []openAIMessage `json:"messages"`
	Temperature    float32         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *openAIFormat   `json:"response_format,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIFormat struct {
	Type string `json:"type"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewOpenAIGenerator builds a chat-completions generator. A missing key is
// not an error: calls fall back with reason missing_api_key until one is
// configured.
func NewOpenAIGenerator(opts OpenAIOptions) *OpenAIGenerator {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	modelInput := strings.TrimSpace(opts.Model)
	normalizedModel, normalizationReason := normalizeOpenAIModel(modelInput)
	if normalizationReason != "" && opts.OnWarning != nil {
		detail := fmt.Sprintf("requested=%s resolved=%s", coalesce(modelInput, defaultOpenAIModel), normalizedModel)
		opts.OnWarning("model_"+normalizationReason, detail)
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: openAIDefaultTimeout}
	}
	g := &OpenAIGenerator{
		apiKey:       strings.TrimSpace(opts.APIKey),
		keySource:    opts.KeySource,
		model:        normalizedModel,
		baseURL:      baseURL,
		organization: strings.TrimSpace(opts.Organization),
		client:       client,
		retry:        opts.Retry,
	}
	g.modelGenerator = modelGenerator{name: openAIProviderName, llm: g, fallback: opts.Fallback, onFallback: opts.OnFallback}
	return g
}

// Model reports the resolved model name.
func (o *OpenAIGenerator) Model() string { return o.model }

func (o *OpenAIGenerator) complete(ctx context.Context, system, prompt string, temperature float32) (string, error) {
	apiKey, err := resolveKey(ctx, o.apiKey, o.keySource)
	if err != nil {
		return "", err
	}
	payload := openAIChatRequest{
		Model:          o.model,
		Temperature:    temperature,
		MaxTokens:      1000,
		ResponseFormat: &openAIFormat{Type: "json_object"},
		Messages: []openAIMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fallbackf("encode_request", err)
	}
	endpoint := fmt.Sprintf("%s/chat/completions", o.baseURL)
	build := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+apiKey)
		if o.organization != "" {
			req.Header.Set("OpenAI-Organization", o.organization)
		}
		return req, nil
	}
	resp, _, err := httpretry.Do(ctx, o.client, build, o.retry)
	if err != nil {
		return "", fallbackf("http_request", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return "", fallbackf(fmt.Sprintf("http_%d", resp.StatusCode), fmt.Errorf("openai status %d", resp.StatusCode))
	}
	var out openAIChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fallbackf("decode_response", err)
	}
	if len(out.Choices) == 0 {
		return "", fallbackf("empty_choices", errors.New("no choices"))
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", fallbackf("empty_response", errors.New("empty response"))
	}
	return text, nil
}

var _ Generator = (*OpenAIGenerator)(nil)

func normalizeOpenAIModel(name string) (string, string) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return defaultOpenAIModel, ""
	}
	normalized := strings.ToLower(trimmed)
	normalized = strings.ReplaceAll(normalized, "_", "-")
	normalized = strings.ReplaceAll(normalized, " ", "-")
	if canonical, ok := openAIModelCanonical[normalized]; ok {
		return canonical, ""
	}
	if alias, ok := openAIModelAliases[normalized]; ok {
		return alias, "alias"
	}
	return defaultOpenAIModel, "defaulted"
}
