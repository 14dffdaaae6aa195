package worker

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Requester queues a report run.
type Requester interface {
	RequestReport(ctx context.Context, idem *string) (string, error)
}

// Scheduler enqueues report runs on a cron schedule. Runs are picked up by
// the DbWorker like any other queued run.
type Scheduler struct {
	Cron      *cron.Cron
	Requester Requester
	Log       *zap.Logger
}

// NewScheduler registers spec, a standard five-field cron expression or a
// descriptor such as "@hourly" or "@every 30m".
func NewScheduler(spec string, req Requester, log *zap.Logger) (*Scheduler, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Scheduler{Cron: cron.New(), Requester: req, Log: log.With(zap.String("component", "scheduler"))}
	if _, err := s.Cron.AddFunc(spec, s.enqueue); err != nil {
		return nil, fmt.Errorf("register report schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start runs the cron loop until ctx is canceled, then waits for an in-flight
// enqueue to return.
func (s *Scheduler) Start(ctx context.Context) {
	s.Cron.Start()
	s.Log.Info("scheduler.started", zap.Int("entries", len(s.Cron.Entries())))
	<-ctx.Done()
	<-s.Cron.Stop().Done()
	s.Log.Info("scheduler.stopped")
}

func (s *Scheduler) enqueue() {
	id, err := s.Requester.RequestReport(context.Background(), nil)
	if err != nil {
		s.Log.Warn("scheduler.enqueue_failed", zap.Error(err))
		return
	}
	s.Log.Info("scheduler.enqueued", zap.String("run_id", id))
}
