// Package apiclient talks to the brandkit HTTP API. brandctl uses it to drive
// video jobs, and it implements polldriver.JobAPI.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"brandkit/internal/domain"
	"brandkit/internal/polldriver"
	"brandkit/internal/providers/video"
	"brandkit/internal/videojob"
)

// APIError is a non-2xx answer decoded from the API error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api %d %s: %s", e.Status, e.Code, e.Message)
}

// Unwrap maps well-known codes back to domain sentinels so callers can use
// errors.Is across the wire.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "content_not_found":
		return domain.ErrContentNotFound
	case "job_not_found":
		return domain.ErrJobNotFound
	case "profile_not_found":
		return domain.ErrProfileNotFound
	case "not_found":
		return domain.ErrNotFound
	case "bad_request":
		return domain.ErrValidation
	case "unauthorized":
		return domain.ErrUnauthorized
	case "forbidden":
		return domain.ErrForbidden
	case "missing_api_key":
		return domain.ErrMissingAPIKey
	}
	return nil
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), token: token, http: httpClient}
}

var _ polldriver.JobAPI = (*Client)(nil)

type generateResponse struct {
	ProviderJobID string          `json:"providerJobId"`
	Job           domain.VideoJob `json:"job"`
}

func (c *Client) Submit(ctx context.Context, req polldriver.SubmitRequest) (domain.VideoJob, error) {
	var out generateResponse
	if err := c.do(ctx, http.MethodPost, "/video/generate", nil, req, &out); err != nil {
		return domain.VideoJob{}, err
	}
	return out.Job, nil
}

func (c *Client) CheckStatus(ctx context.Context, owner, subject string) (videojob.StatusReport, error) {
	var out videojob.StatusReport
	q := url.Values{"ownerId": {owner}, "subjectId": {subject}}
	err := c.do(ctx, http.MethodGet, "/video/status", q, nil, &out)
	return out, err
}

// ProviderStatus asks for the raw provider phase of a job without touching
// the stored record.
func (c *Client) ProviderStatus(ctx context.Context, providerJobID string) (video.StatusResult, error) {
	var out video.StatusResult
	err := c.do(ctx, http.MethodGet, "/video/status", url.Values{"jobId": {providerJobID}}, nil, &out)
	return out, err
}

type cancelResponse struct {
	Success bool            `json:"success"`
	Job     domain.VideoJob `json:"job"`
}

func (c *Client) Cancel(ctx context.Context, owner, subject string) (domain.VideoJob, error) {
	var out cancelResponse
	body := map[string]string{"ownerId": owner, "subjectId": subject}
	if err := c.do(ctx, http.MethodPost, "/video/cancel", nil, body, &out); err != nil {
		return domain.VideoJob{}, err
	}
	return out.Job, nil
}

type listResponse struct {
	Jobs []domain.VideoJob `json:"jobs"`
}

func (c *Client) List(ctx context.Context, owner string) ([]domain.VideoJob, error) {
	var out listResponse
	if err := c.do(ctx, http.MethodGet, "/video/jobs", url.Values{"ownerId": {owner}}, nil, &out); err != nil {
		return nil, err
	}
	return out.Jobs, nil
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, in, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}
	if resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func decodeError(status int, raw []byte) error {
	var env struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Details any    `json:"details"`
		} `json:"error"`
	}
	apiErr := &APIError{Status: status}
	if json.Unmarshal(raw, &env) == nil && env.Error.Code != "" {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
		apiErr.Details = env.Error.Details
		return apiErr
	}
	apiErr.Code = "http_error"
	apiErr.Message = strings.TrimSpace(string(raw))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
