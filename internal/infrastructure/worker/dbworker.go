package worker

import (
	"context"
	"fmt"
	"time"

	"crypto-report/internal/application"
	"crypto-report/internal/domain"

	"go.uber.org/zap"
)

var _ application.Worker = (*DbWorker)(nil)

// Processor runs one claimed report run to completion.
type Processor interface {
	ProcessReportRun(ctx context.Context, id, source string) error
}

type DbWorker struct {
	Runs      application.ReportRunRepo
	Processor Processor

	PollEvery  time.Duration
	BatchLimit int
	RunTimeout time.Duration
	Log        *zap.Logger
}

func (w *DbWorker) Start(ctx context.Context) {
	log := w.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("worker", "db"))
	if w.PollEvery <= 0 {
		w.PollEvery = 250 * time.Millisecond
	}
	if w.BatchLimit <= 0 {
		w.BatchLimit = 1
	}

	t := time.NewTicker(w.PollEvery)
	defer t.Stop()

	log.Info("db_worker.started", zap.Duration("poll_every", w.PollEvery), zap.Int("batch_limit", w.BatchLimit))
	for {
		select {
		case <-ctx.Done():
			log.Info("db_worker.stopped")
			return
		case <-t.C:
			w.Tick(ctx, log)
		}
	}
}

// Tick claims one batch of queued runs and processes them in order.
func (w *DbWorker) Tick(ctx context.Context, log *zap.Logger) {
	ids, err := w.Runs.ClaimQueued(ctx, w.BatchLimit)
	if err != nil {
		log.Warn("db_worker.claim_failed", zap.Error(err))
		return
	}
	for _, id := range ids {
		if ctx.Err() != nil {
			return
		}
		w.processOne(ctx, log, id)
	}
}

func (w *DbWorker) processOne(ctx context.Context, log *zap.Logger, id string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("db_worker.panic", zap.String("run_id", id), zap.Any("panic", r))
			msg := fmt.Sprintf("panic: %v", r)
			_ = w.Runs.UpdateStatus(ctx, id, domain.ReportRunStatusFailed, &msg)
		}
	}()
	c := ctx
	if w.RunTimeout > 0 {
		var cancel context.CancelFunc
		c, cancel = context.WithTimeout(ctx, w.RunTimeout)
		defer cancel()
	}
	if err := w.Processor.ProcessReportRun(c, id, "db_worker"); err != nil {
		log.Warn("db_worker.run_failed", zap.String("run_id", id), zap.Error(err))
		return
	}
	log.Info("db_worker.run_done", zap.String("run_id", id))
}
