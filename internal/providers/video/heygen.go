package video

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"brandkit/internal/domain"
	"brandkit/pkg/httpretry"
)

// Provider phases reported by HeyGen that end a job.
const (
	PhaseCompleted = "completed"
	PhaseFailed    = "failed"
)

const (
	defaultBaseURL = "https://api.heygen.com"
	defaultTimeout = 30 * time.Second
	maxErrorBody   = 4 << 10
)

// StatusResult is the normalized answer of a status lookup. Phase is the
// provider's raw phase string (pending, processing, waiting, completed, failed).
type StatusResult struct {
	Phase       string `json:"phase"`
	ResultURI   string `json:"resultUri,omitempty"`
	ErrorDetail string `json:"errorDetail,omitempty"`
}

// Provider starts and tracks remote avatar video generations.
type Provider interface {
	Submit(ctx context.Context, script, characterID, voiceID string) (string, error)
	Status(ctx context.Context, providerJobID string) (StatusResult, error)
}

// Catalog lists the avatars and voices a user can pick from.
type Catalog interface {
	ListAvatars(ctx context.Context) ([]domain.Avatar, error)
	ListVoices(ctx context.Context) ([]domain.Voice, error)
}

// KeySource resolves the API key per call, so a key stored after startup is
// picked up without a restart.
type KeySource func(ctx context.Context) (string, error)

type HeyGenOptions struct {
	APIKey       string
	KeySource    KeySource
	BaseURL      string
	HTTPClient   *http.Client
	Logger       zerolog.Logger
	SubmitPolicy httpretry.Policy
	StatusPolicy httpretry.Policy
	// CatalogPolicy defaults to SubmitPolicy.
	CatalogPolicy *httpretry.Policy
}

// HeyGen is the HeyGen REST client.
type HeyGen struct {
	apiKey        string
	keySource     KeySource
	baseURL       string
	client        *http.Client
	logger        zerolog.Logger
	submitPolicy  httpretry.Policy
	statusPolicy  httpretry.Policy
	catalogPolicy httpretry.Policy
}

func NewHeyGen(opts HeyGenOptions) *HeyGen {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	submit := withDefaults(opts.SubmitPolicy, 3, 2*time.Second)
	status := withDefaults(opts.StatusPolicy, 4, time.Second)
	catalog := submit
	if opts.CatalogPolicy != nil {
		catalog = withDefaults(*opts.CatalogPolicy, 3, 2*time.Second)
	}
	return &HeyGen{
		apiKey:        strings.TrimSpace(opts.APIKey),
		keySource:     opts.KeySource,
		baseURL:       baseURL,
		client:        client,
		logger:        opts.Logger,
		submitPolicy:  submit,
		statusPolicy:  status,
		catalogPolicy: catalog,
	}
}

func withDefaults(p httpretry.Policy, attempts int, base time.Duration) httpretry.Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = attempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = base
	}
	if p.Retryable == nil {
		p.Retryable = httpretry.DefaultRetryable
	}
	return p
}

type generateRequest struct {
	VideoInputs []videoInput `json:"video_inputs"`
	Dimension   dimension    `json:"dimension"`
}

type videoInput struct {
	Character character `json:"character"`
	Voice     voice     `json:"voice"`
}

type character struct {
	Type        string `json:"type"`
	AvatarID    string `json:"avatar_id"`
	AvatarStyle string `json:"avatar_style"`
}

type voice struct {
	Type      string `json:"type"`
	InputText string `json:"input_text"`
	VoiceID   string `json:"voice_id"`
}

type dimension struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type generateResponse struct {
	Error json.RawMessage `json:"error"`
	Data  *struct {
		VideoID string `json:"video_id"`
	} `json:"data"`
}

type statusResponse struct {
	Error json.RawMessage `json:"error"`
	Data  *struct {
		Status   string          `json:"status"`
		VideoURL string          `json:"video_url"`
		Error    json.RawMessage `json:"error"`
	} `json:"data"`
}

// Submit starts a 720x1280 webm avatar video narrating script.
func (h *HeyGen) Submit(ctx context.Context, script, characterID, voiceID string) (string, error) {
	if strings.TrimSpace(script) == "" {
		return "", &domain.ValidationError{Field: "script", Message: "must not be empty"}
	}
	key, err := h.key(ctx)
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(generateRequest{
		VideoInputs: []videoInput{{
			Character: character{Type: "avatar", AvatarID: characterID, AvatarStyle: "normal"},
			Voice:     voice{Type: "text", InputText: script, VoiceID: voiceID},
		}},
		Dimension: dimension{Width: 720, Height: 1280},
	})
	if err != nil {
		return "", fmt.Errorf("encode generate request: %w", err)
	}
	endpoint := h.baseURL + "/v2/video/generate?format=webm"
	build := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Api-Key", key)
		return req, nil
	}

	var out generateResponse
	if err := h.call(ctx, "submit", build, h.submitPolicy, &out); err != nil {
		return "", err
	}
	if out.Data == nil || strings.TrimSpace(out.Data.VideoID) == "" {
		detail := errorText(out.Error)
		if detail == "" {
			detail = "No video_id returned"
		}
		return "", &domain.ProviderRequestError{Op: "submit", Detail: detail}
	}
	h.logger.Debug().Str("video_id", out.Data.VideoID).Msg("heygen video submitted")
	return out.Data.VideoID, nil
}

// Status reads the provider's current view of a job. It never mutates state.
func (h *HeyGen) Status(ctx context.Context, providerJobID string) (StatusResult, error) {
	if strings.TrimSpace(providerJobID) == "" {
		return StatusResult{}, &domain.ValidationError{Field: "jobId", Message: "is required"}
	}
	key, err := h.key(ctx)
	if err != nil {
		return StatusResult{}, err
	}
	endpoint := h.baseURL + "/v1/video_status.get?video_id=" + url.QueryEscape(providerJobID)
	build := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Api-Key", key)
		return req, nil
	}

	var out statusResponse
	if err := h.call(ctx, "status", build, h.statusPolicy, &out); err != nil {
		return StatusResult{}, err
	}
	if out.Data == nil {
		return StatusResult{}, &domain.ProviderRequestError{Op: "status", Detail: coalesce(errorText(out.Error), "empty status payload")}
	}
	return StatusResult{
		Phase:       strings.ToLower(strings.TrimSpace(out.Data.Status)),
		ResultURI:   strings.TrimSpace(out.Data.VideoURL),
		ErrorDetail: errorText(out.Data.Error),
	}, nil
}

// ListAvatars returns the account's avatars as {id, name}.
func (h *HeyGen) ListAvatars(ctx context.Context) ([]domain.Avatar, error) {
	var raw json.RawMessage
	if err := h.catalog(ctx, "avatars", "/v2/avatars", &raw); err != nil {
		return nil, err
	}
	items := catalogItems(raw, "avatars")
	avatars := make([]domain.Avatar, 0, len(items))
	for _, item := range items {
		id := coalesce(str(item["avatar_id"]), str(item["id"]))
		if id == "" {
			continue
		}
		avatars = append(avatars, domain.Avatar{
			ID:   id,
			Name: coalesce(str(item["avatar_name"]), str(item["name"]), "Unknown Avatar"),
		})
	}
	return avatars, nil
}

// ListVoices returns the account's voices as {id, name, language}.
func (h *HeyGen) ListVoices(ctx context.Context) ([]domain.Voice, error) {
	var raw json.RawMessage
	if err := h.catalog(ctx, "voices", "/v2/voices", &raw); err != nil {
		return nil, err
	}
	items := catalogItems(raw, "voices")
	voices := make([]domain.Voice, 0, len(items))
	for _, item := range items {
		id := coalesce(str(item["voice_id"]), str(item["id"]))
		if id == "" {
			continue
		}
		voices = append(voices, domain.Voice{
			ID:       id,
			Name:     coalesce(str(item["name"]), "Unknown Voice"),
			Language: coalesce(str(item["language"]), "en"),
		})
	}
	return voices, nil
}

func (h *HeyGen) catalog(ctx context.Context, op, path string, out any) error {
	key, err := h.key(ctx)
	if err != nil {
		return err
	}
	endpoint := h.baseURL + path
	build := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Api-Key", key)
		return req, nil
	}
	return h.call(ctx, op, build, h.catalogPolicy, out)
}

func (h *HeyGen) key(ctx context.Context) (string, error) {
	if h.apiKey != "" {
		return h.apiKey, nil
	}
	if h.keySource != nil {
		key, err := h.keySource(ctx)
		if err != nil {
			return "", fmt.Errorf("resolve heygen api key: %w", err)
		}
		if key = strings.TrimSpace(key); key != "" {
			return key, nil
		}
	}
	return "", domain.ErrMissingAPIKey
}

// call runs one provider operation through the retry wrapper and decodes a
// 2xx JSON body into out. Every other outcome becomes a ProviderRequestError.
func (h *HeyGen) call(ctx context.Context, op string, build httpretry.RequestBuilder, policy httpretry.Policy, out any) error {
	prev := policy.OnRetry
	policy.OnRetry = func(attempt, status int, delay time.Duration, err error) {
		if prev != nil {
			prev(attempt, status, delay, err)
		}
		ev := h.logger.Warn().Str("op", op).Int("attempt", attempt).Int("max_attempts", policy.MaxAttempts).Dur("delay", delay)
		if status > 0 {
			ev = ev.Int("status", status)
		}
		if err != nil {
			ev = ev.Err(err)
		}
		ev.Msg("heygen request retry")
	}
	resp, attempts, err := httpretry.Do(ctx, h.client, build, policy)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return &domain.ProviderRequestError{Op: op, Attempts: attempts, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		h.logger.Error().Str("op", op).Int("status", resp.StatusCode).Int("attempts", attempts).Msg("heygen request failed")
		return &domain.ProviderRequestError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Attempts:   attempts,
			Detail:     strings.TrimSpace(string(body)),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.ProviderRequestError{Op: op, StatusCode: resp.StatusCode, Attempts: attempts, Detail: "invalid response body", Err: err}
	}
	return nil
}

// errorText flattens HeyGen's error field, which is null, a string, or an
// object carrying message/detail/code.
func errorText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var obj map[string]any
	if err := json.Unmarshal(trimmed, &obj); err == nil {
		if msg := coalesce(str(obj["message"]), str(obj["detail"])); msg != "" {
			return msg
		}
		if code := str(obj["code"]); code != "" {
			return code
		}
		return ""
	}
	return string(trimmed)
}

// catalogItems finds the item array in the shapes HeyGen has used:
// {data:{<field>:[...]}}, {data:[...]}, {<field>:[...]}, or a bare array.
func catalogItems(raw json.RawMessage, field string) []map[string]any {
	var arr []map[string]any
	if err := json.Unmarshal(raw, &arr); err == nil {
		return arr
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	if data, ok := obj["data"]; ok {
		if err := json.Unmarshal(data, &arr); err == nil {
			return arr
		}
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(data, &nested); err == nil {
			if list, ok := nested[field]; ok {
				if err := json.Unmarshal(list, &arr); err == nil {
					return arr
				}
			}
		}
	}
	if list, ok := obj[field]; ok {
		if err := json.Unmarshal(list, &arr); err == nil {
			return arr
		}
	}
	return nil
}

func str(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	default:
		return ""
	}
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

var (
	_ Provider = (*HeyGen)(nil)
	_ Catalog  = (*HeyGen)(nil)
)
