package polldriver

import (
	"context"
	"errors"
	"testing"
	"time"

	"brandkit/internal/domain"
	"brandkit/internal/videojob"
)

type step struct {
	phase domain.Phase
	raw   string
	err   error
}

type scriptedAPI struct {
	submitErr error
	steps     []step
	checks    int
}

func (s *scriptedAPI) Submit(ctx context.Context, req SubmitRequest) (domain.VideoJob, error) {
	if s.submitErr != nil {
		return domain.VideoJob{}, s.submitErr
	}
	return domain.NewInProgressJob(req.OwnerID, req.SubjectID, "v1", time.Time{}), nil
}

func (s *scriptedAPI) CheckStatus(ctx context.Context, owner, subject string) (videojob.StatusReport, error) {
	st := step{phase: domain.PhaseInProgress, raw: "processing"}
	if s.checks < len(s.steps) {
		st = s.steps[s.checks]
	}
	s.checks++
	if st.err != nil {
		return videojob.StatusReport{}, st.err
	}
	job := domain.NewInProgressJob(owner, subject, "v1", time.Time{})
	switch st.phase {
	case domain.PhaseCompleted:
		job = job.Completed("https://cdn/u", time.Time{})
	case domain.PhaseFailed:
		job = job.Failed("", time.Time{})
	}
	return videojob.StatusReport{Job: job, ProviderPhase: st.raw, Changed: st.phase.Terminal()}, nil
}

// fakeTime advances on every sleep so the driver sees virtual elapsed time.
type fakeTime struct {
	t      time.Time
	sleeps []time.Duration
}

func (f *fakeTime) now() time.Time { return f.t }

func (f *fakeTime) sleep(ctx context.Context, d time.Duration) error {
	f.sleeps = append(f.sleeps, d)
	f.t = f.t.Add(d)
	return ctx.Err()
}

func newDriver(api JobAPI, ft *fakeTime) *Driver {
	return &Driver{API: api, Sleep: ft.sleep, Now: ft.now}
}

var req = SubmitRequest{OwnerID: "u1", SubjectID: "t1", CharacterID: "av", VoiceID: "vo"}

func TestRunStopsOnCompletion(t *testing.T) {
	api := &scriptedAPI{steps: []step{
		{phase: domain.PhaseInProgress, raw: "processing"},
		{phase: domain.PhaseInProgress, raw: "processing"},
		{phase: domain.PhaseCompleted, raw: "completed"},
	}}
	ft := &fakeTime{t: time.Unix(0, 0)}
	d := newDriver(api, ft)
	refreshed := 0
	d.OnRefresh = func(domain.VideoJob) { refreshed++ }

	out, err := d.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if out.Job.Phase != domain.PhaseCompleted || out.Polls != 3 || api.checks != 3 {
		t.Fatalf("unexpected outcome %#v checks=%d", out, api.checks)
	}
	if refreshed != 1 {
		t.Fatalf("expected one refresh, got %d", refreshed)
	}
	for _, s := range ft.sleeps {
		if s != DefaultInterval {
			t.Fatalf("expected %s interval, got %s", DefaultInterval, s)
		}
	}
	if out.Elapsed != 18*time.Second {
		t.Fatalf("expected 18s elapsed, got %s", out.Elapsed)
	}
}

func TestRunStopsOnFailure(t *testing.T) {
	api := &scriptedAPI{steps: []step{{phase: domain.PhaseFailed, raw: "failed"}}}
	ft := &fakeTime{t: time.Unix(0, 0)}

	out, err := newDriver(api, ft).Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if out.Job.Phase != domain.PhaseFailed || *out.Job.FailureReason != domain.FailureGeneric {
		t.Fatalf("unexpected outcome %#v", out.Job)
	}
}

func TestRunToleratesTransientErrors(t *testing.T) {
	api := &scriptedAPI{steps: []step{
		{err: errors.New("connection reset")},
		{err: &domain.ProviderRequestError{Op: "status", StatusCode: 503}},
		{phase: domain.PhaseCompleted, raw: "completed"},
	}}
	ft := &fakeTime{t: time.Unix(0, 0)}
	d := newDriver(api, ft)
	var ticks []Tick
	d.OnTick = func(tk Tick) { ticks = append(ticks, tk) }

	out, err := d.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if out.Job.Phase != domain.PhaseCompleted {
		t.Fatalf("expected completion after transient errors, got %#v", out.Job)
	}
	if len(ticks) != 3 || ticks[0].Err == nil || ticks[1].Err == nil || ticks[2].Err != nil {
		t.Fatalf("unexpected ticks %#v", ticks)
	}
}

func TestRunTimesOut(t *testing.T) {
	api := &scriptedAPI{}
	ft := &fakeTime{t: time.Unix(0, 0)}
	d := newDriver(api, ft)
	d.Timeout = 30 * time.Second

	out, err := d.Run(context.Background(), req)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if out.Polls != 5 || out.Job.Phase != domain.PhaseInProgress || out.ProviderPhase != "processing" {
		t.Fatalf("unexpected outcome %#v", out)
	}
}

func TestRunDefaultTimeoutPollCount(t *testing.T) {
	api := &scriptedAPI{}
	ft := &fakeTime{t: time.Unix(0, 0)}

	out, err := newDriver(api, ft).Run(context.Background(), req)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if out.Polls != 50 {
		t.Fatalf("expected 50 polls in five minutes, got %d", out.Polls)
	}
}

func TestRunSubmitError(t *testing.T) {
	api := &scriptedAPI{submitErr: domain.ErrContentNotFound}
	ft := &fakeTime{t: time.Unix(0, 0)}

	if _, err := newDriver(api, ft).Run(context.Background(), req); !errors.Is(err, domain.ErrContentNotFound) {
		t.Fatalf("expected submit error, got %v", err)
	}
	if api.checks != 0 || len(ft.sleeps) != 0 {
		t.Fatalf("no polling after failed submit")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	api := &scriptedAPI{}
	ctx, cancel := context.WithCancel(context.Background())
	ft := &fakeTime{t: time.Unix(0, 0)}
	d := newDriver(api, ft)
	d.OnTick = func(tk Tick) {
		if tk.Poll == 2 {
			cancel()
		}
	}

	_, err := d.Run(ctx, req)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if api.checks != 2 {
		t.Fatalf("expected 2 checks, got %d", api.checks)
	}
}
