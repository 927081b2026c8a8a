package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"brandkit/internal/adapter/repo"
	"brandkit/internal/infra"
	"brandkit/internal/infra/credentials"
	"brandkit/internal/providers/video"
	"brandkit/internal/videojob"
	"brandkit/pkg/httpretry"
)

// sweeper is the part of the controller the worker loop drives.
type sweeper interface {
	Sweep(ctx context.Context, olderThan time.Duration, limit int) (videojob.SweepReport, error)
}

type sweepWorker struct {
	sweeper   sweeper
	logger    infra.Logger
	interval  time.Duration
	staleAge  time.Duration
	batchSize int
}

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "worker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)
	creds := credentials.NewStore(runner)

	heygen := video.NewHeyGen(video.HeyGenOptions{
		APIKey:    cfg.HeyGenAPIKey,
		KeySource: creds.HeyGenAPIKey,
		BaseURL:   cfg.HeyGenBaseURL,
		Logger:    logger.With().Str("provider", "heygen").Logger(),
		StatusPolicy: httpretry.Policy{
			MaxAttempts: cfg.HeyGenStatusAttempts,
			BaseDelay:   cfg.HeyGenStatusBaseDelay,
		},
	})
	controller := videojob.New(videojob.Options{
		Jobs:     repo.NewVideoJobRepository(runner),
		Scripts:  repo.NewTemplateRepository(runner),
		Provider: heygen,
		Logger:   logger.With().Str("component", "videojob").Logger(),
	})

	w := &sweepWorker{
		sweeper:   controller,
		logger:    logger,
		interval:  cfg.WorkerSweepInterval,
		staleAge:  cfg.WorkerStaleAfter,
		batchSize: cfg.WorkerBatchSize,
	}
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}

// Run sweeps once immediately and then every interval until ctx is done.
// A failed sweep is logged and retried on the next tick.
func (w *sweepWorker) Run(ctx context.Context) error {
	if w.interval <= 0 {
		w.interval = 30 * time.Second
	}
	w.logger.Info().Dur("interval", w.interval).Dur("stale_after", w.staleAge).Int("batch", w.batchSize).Msg("worker: started")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		w.sweepOnce(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *sweepWorker) sweepOnce(ctx context.Context) {
	report, err := w.sweeper.Sweep(ctx, w.staleAge, w.batchSize)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Error().Err(err).Msg("worker: sweep failed")
		}
		return
	}
	if report.Checked == 0 {
		w.logger.Debug().Msg("worker: nothing to sweep")
		return
	}
	w.logger.Info().
		Int("checked", report.Checked).
		Int("completed", report.Completed).
		Int("failed", report.Failed).
		Int("pending", report.Pending).
		Int("errors", report.Errors).
		Msg("worker: sweep finished")
}
