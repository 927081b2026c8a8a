package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-1.5-flash"

type GeminiOptions struct {
	APIKey     string
	// KeySource is consulted on each call when APIKey is empty.
	KeySource  KeySource
	Model      string
	Fallback   Generator
	OnFallback func(reason string, err error)
}

// GeminiGenerator talks to Gemini through the generative-ai-go SDK. The SDK
// client is opened for the current key and reopened when the key changes.
type GeminiGenerator struct {
	modelGenerator
	apiKey    string
	keySource KeySource
	model     string

	mu        sync.Mutex
	client    *genai.Client
	clientKey string

	// generate is swapped in tests.
	generate func(ctx context.Context, system, prompt string, temperature float32) (string, error)
}

// NewGeminiGenerator builds a generator. With APIKey set the SDK client is
// opened right away; otherwise it is opened on the first call that resolves
// a key. Close releases it.
func NewGeminiGenerator(ctx context.Context, opts GeminiOptions) (*GeminiGenerator, error) {
	g := &GeminiGenerator{
		apiKey:    strings.TrimSpace(opts.APIKey),
		keySource: opts.KeySource,
		model:     coalesce(opts.Model, defaultGeminiModel),
	}
	if g.apiKey == "" && g.keySource == nil {
		return nil, errors.New("gemini api key is required")
	}
	if g.apiKey != "" {
		if _, err := g.clientFor(ctx, g.apiKey); err != nil {
			return nil, err
		}
	}
	g.generate = g.sdkGenerate
	g.modelGenerator = modelGenerator{name: geminiProviderName, llm: g, fallback: opts.Fallback, onFallback: opts.OnFallback}
	return g, nil
}

func (g *GeminiGenerator) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client == nil {
		return nil
	}
	err := g.client.Close()
	g.client, g.clientKey = nil, ""
	return err
}

// clientFor returns an SDK client bound to key.
func (g *GeminiGenerator) clientFor(ctx context.Context, key string) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil && g.clientKey == key {
		return g.client, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(key))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if g.client != nil {
		_ = g.client.Close()
	}
	g.client, g.clientKey = client, key
	return client, nil
}

func (g *GeminiGenerator) complete(ctx context.Context, system, prompt string, temperature float32) (string, error) {
	text, err := g.generate(ctx, system, prompt, temperature)
	if err != nil {
		var fe *fallbackError
		if errors.As(err, &fe) {
			return "", err
		}
		return "", fallbackf("http_request", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fallbackf("empty_response", errors.New("empty response"))
	}
	return text, nil
}

func (g *GeminiGenerator) sdkGenerate(ctx context.Context, system, prompt string, temperature float32) (string, error) {
	key, err := resolveKey(ctx, g.apiKey, g.keySource)
	if err != nil {
		return "", err
	}
	client, err := g.clientFor(ctx, key)
	if err != nil {
		return "", fallbackf("client_init", err)
	}
	model := client.GenerativeModel(g.model)
	model.SetTemperature(temperature)
	model.SetCandidateCount(1)
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 {
		return "", fallbackf("empty_candidates", errors.New("no candidates"))
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fallbackf("empty_response", errors.New("no content"))
	}
	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	return strings.Join(parts, ""), nil
}

var _ Generator = (*GeminiGenerator)(nil)
