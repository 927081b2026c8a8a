package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"brandkit/internal/domain"
	"brandkit/internal/middleware"
	"brandkit/internal/videojob"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestTokenCommandMintsVerifiableToken(t *testing.T) {
	out, _, err := execute(t, "token", "--sub", "user-1", "--locale", "id", "--secret", "dev-secret")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	claims, err := middleware.VerifyToken("dev-secret", strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.Subject != "user-1" || claims.Locale != "id" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestVideoListPrintsRows(t *testing.T) {
	uri := "https://cdn.example.com/v1.webm"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/video/jobs" || r.URL.Query().Get("ownerId") != "u1" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"jobs": []domain.VideoJob{
			{SubjectID: "t1", Phase: domain.PhaseCompleted, ResultURI: &uri, SubjectName: "Remote hiring"},
		}})
	}))
	defer srv.Close()

	out, _, err := execute(t, "video", "list", "--api", srv.URL, "--owner", "u1")
	if err != nil {
		t.Fatalf("video list: %v", err)
	}
	if !strings.Contains(out, "t1") || !strings.Contains(out, "completed") || !strings.Contains(out, uri) {
		t.Fatalf("output = %q", out)
	}
}

func TestVideoGenerateWaitPollsToCompletion(t *testing.T) {
	var polls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		job := domain.NewInProgressJob("u1", "t1", "v1", now)
		switch r.URL.Path {
		case "/video/generate":
			_ = json.NewEncoder(w).Encode(map[string]any{"providerJobId": "v1", "job": job})
		case "/video/status":
			report := videojob.StatusReport{Job: job, ProviderPhase: "processing"}
			if polls.Add(1) >= 2 {
				report = videojob.StatusReport{Job: job.Completed("https://cdn/v1.webm", now), ProviderPhase: "completed", Changed: true}
			}
			_ = json.NewEncoder(w).Encode(report)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	out, progress, err := execute(t, "video", "generate", "--api", srv.URL, "--owner", "u1", "--subject", "t1",
		"--avatar", "a", "--voice", "v", "--wait", "--interval", "1ms", "--timeout", "5s")
	if err != nil {
		t.Fatalf("video generate: %v", err)
	}
	if polls.Load() != 2 {
		t.Fatalf("polls = %d, want 2", polls.Load())
	}
	if !strings.Contains(progress, "poll 1") || !strings.Contains(progress, "completed") {
		t.Fatalf("progress = %q", progress)
	}
	var job domain.VideoJob
	if err := json.Unmarshal([]byte(out), &job); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if job.Phase != domain.PhaseCompleted {
		t.Fatalf("phase = %s", job.Phase)
	}
}

func TestVideoCancelSurfacesConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":{"code":"invalid_state","message":"Video is not in generating status (current: completed)"}}`))
	}))
	defer srv.Close()

	_, _, err := execute(t, "video", "cancel", "--api", srv.URL, "--owner", "u1", "--subject", "t1")
	if err == nil || !strings.Contains(err.Error(), "current: completed") {
		t.Fatalf("err = %v", err)
	}
}
