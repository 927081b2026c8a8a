package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"brandkit/internal/domain"
	"brandkit/internal/polldriver"
	"brandkit/internal/videojob"
)

func TestSubmitSendsBodyAndToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/video/generate" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization mismatch: %q", got)
		}
		var body polldriver.SubmitRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.OwnerID != "u1" || body.CharacterID != "av" {
			t.Errorf("unexpected body %#v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"providerJobId": "v1",
			"job":           domain.VideoJob{OwnerID: "u1", SubjectID: "t1", ProviderJobID: "v1", Phase: domain.PhaseInProgress},
		})
	}))
	defer srv.Close()

	c := New(srv.URL+"/", "tok", srv.Client())
	job, err := c.Submit(context.Background(), polldriver.SubmitRequest{OwnerID: "u1", SubjectID: "t1", CharacterID: "av", VoiceID: "vo"})
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if job.ProviderJobID != "v1" || job.Phase != domain.PhaseInProgress {
		t.Fatalf("unexpected job %#v", job)
	}
}

func TestCheckStatusDecodesReport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("ownerId") != "u1" || r.URL.Query().Get("subjectId") != "t1" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		uri := "https://cdn/u"
		_ = json.NewEncoder(w).Encode(videojob.StatusReport{
			Job:           domain.VideoJob{OwnerID: "u1", SubjectID: "t1", Phase: domain.PhaseCompleted, ResultURI: &uri},
			ProviderPhase: "completed",
			Changed:       true,
		})
	}))
	defer srv.Close()

	rep, err := New(srv.URL, "", srv.Client()).CheckStatus(context.Background(), "u1", "t1")
	if err != nil {
		t.Fatalf("CheckStatus error: %v", err)
	}
	if !rep.Changed || rep.Job.Phase != domain.PhaseCompleted || *rep.Job.ResultURI != "https://cdn/u" {
		t.Fatalf("unexpected report %#v", rep)
	}
}

func TestErrorEnvelopeMapsToDomain(t *testing.T) {
	cases := []struct {
		status int
		code   string
		target error
	}{
		{http.StatusNotFound, "content_not_found", domain.ErrContentNotFound},
		{http.StatusNotFound, "job_not_found", domain.ErrJobNotFound},
		{http.StatusBadRequest, "bad_request", domain.ErrValidation},
		{http.StatusInternalServerError, "missing_api_key", domain.ErrMissingAPIKey},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(tc.status)
			_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"code": tc.code, "message": "nope"}})
		}))
		_, err := New(srv.URL, "", srv.Client()).Cancel(context.Background(), "u1", "t1")
		srv.Close()

		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.Status != tc.status || apiErr.Message != "nope" {
			t.Fatalf("%s: unexpected error %v", tc.code, err)
		}
		if !errors.Is(err, tc.target) {
			t.Fatalf("%s: expected errors.Is %v", tc.code, tc.target)
		}
	}
}

func TestPlainTextError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "", srv.Client()).List(context.Background(), "u1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Code != "http_error" || apiErr.Message != "upstream down" {
		t.Fatalf("unexpected error %v", err)
	}
}
