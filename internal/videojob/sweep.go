package videojob

import (
	"context"
	"time"

	"brandkit/internal/domain"
)

// SweepReport summarizes one pass over stale in-progress jobs.
type SweepReport struct {
	Checked   int
	Completed int
	Failed    int
	Pending   int
	Errors    int
}

// Sweep re-checks in-progress jobs not updated within olderThan. Provider
// failures are counted and logged; they never stop the pass.
func (c *Controller) Sweep(ctx context.Context, olderThan time.Duration, limit int) (SweepReport, error) {
	var report SweepReport
	jobs, err := c.jobs.ListInProgress(ctx, c.now().Add(-olderThan), limit)
	if err != nil {
		return report, err
	}
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Checked++
		res, err := c.CheckStatus(ctx, job.OwnerID, job.SubjectID)
		if err != nil {
			report.Errors++
			c.logger.Warn().Err(err).Str("owner", job.OwnerID).Str("subject", job.SubjectID).Msg("sweep status check failed")
			c.markChecked(ctx, job)
			continue
		}
		switch {
		case !res.Changed:
			report.Pending++
			c.markChecked(ctx, job)
		case res.Job.Phase == domain.PhaseCompleted:
			report.Completed++
		default:
			report.Failed++
		}
	}
	return report, nil
}

// markChecked moves job behind the rest of the stale queue.
func (c *Controller) markChecked(ctx context.Context, job domain.VideoJob) {
	if err := c.jobs.MarkChecked(ctx, job.OwnerID, job.SubjectID, c.now()); err != nil {
		c.logger.Warn().Err(err).Str("owner", job.OwnerID).Str("subject", job.SubjectID).Msg("sweep mark checked failed")
	}
}
