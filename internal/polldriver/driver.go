// Package polldriver runs the caller-owned loop that submits a video job and
// polls it until the job reaches a terminal phase or the caller gives up.
package polldriver

import (
	"context"
	"errors"
	"time"

	"brandkit/internal/domain"
	"brandkit/internal/videojob"
	"brandkit/pkg/httpretry"
)

const (
	DefaultInterval = 6 * time.Second
	DefaultTimeout  = 5 * time.Minute
)

// ErrTimeout is returned when the job is still running after Driver.Timeout.
// The job record is left in progress; a later status check can still finish it.
var ErrTimeout = errors.New("video generation is taking longer than expected")

// SubmitRequest names the job to start.
type SubmitRequest struct {
	OwnerID     string `json:"ownerId"`
	SubjectID   string `json:"subjectId"`
	CharacterID string `json:"characterId"`
	VoiceID     string `json:"voiceId"`
}

// JobAPI is the subset of the video API the driver needs.
type JobAPI interface {
	Submit(ctx context.Context, req SubmitRequest) (domain.VideoJob, error)
	CheckStatus(ctx context.Context, owner, subject string) (videojob.StatusReport, error)
}

// Tick describes one poll.
type Tick struct {
	Poll    int
	Elapsed time.Duration
	Report  videojob.StatusReport
	Err     error
}

// Outcome is the last state the driver observed.
type Outcome struct {
	Job           domain.VideoJob
	ProviderPhase string
	Polls         int
	Elapsed       time.Duration
}

type Driver struct {
	API      JobAPI
	Interval time.Duration
	Timeout  time.Duration
	Sleep    func(ctx context.Context, d time.Duration) error
	Now      func() time.Time
	// OnTick is called after every poll, including failed ones.
	OnTick func(Tick)
	// OnRefresh is called once when the job reaches a terminal phase.
	OnRefresh func(domain.VideoJob)
}

// Run submits req and polls until completion, failure, timeout or ctx ends.
// Poll errors are reported through OnTick and do not stop the loop.
func (d *Driver) Run(ctx context.Context, req SubmitRequest) (Outcome, error) {
	interval, timeout := d.Interval, d.Timeout
	if interval <= 0 {
		interval = DefaultInterval
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	sleep := d.Sleep
	if sleep == nil {
		sleep = httpretry.Sleep
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}

	job, err := d.API.Submit(ctx, req)
	if err != nil {
		return Outcome{}, err
	}
	start := now()
	out := Outcome{Job: job, ProviderPhase: string(job.Phase)}

	for {
		if err := sleep(ctx, interval); err != nil {
			return out, err
		}
		out.Elapsed = now().Sub(start)
		if out.Elapsed > timeout {
			return out, ErrTimeout
		}
		out.Polls++

		rep, err := d.API.CheckStatus(ctx, req.OwnerID, req.SubjectID)
		if d.OnTick != nil {
			d.OnTick(Tick{Poll: out.Polls, Elapsed: out.Elapsed, Report: rep, Err: err})
		}
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			continue
		}
		out.Job = rep.Job
		out.ProviderPhase = rep.ProviderPhase
		if rep.Job.Phase.Terminal() {
			if d.OnRefresh != nil {
				d.OnRefresh(rep.Job)
			}
			return out, nil
		}
	}
}
