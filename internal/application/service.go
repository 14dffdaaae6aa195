package application

import (
	"context"
	"errors"
	"fmt"

	"crypto-report/internal/domain"

	"go.uber.org/zap"
)

// ReportService queues report runs, processes them through the pipeline and
// keeps the latest comparison snapshot.
type ReportService struct {
	runs      ReportRunRepo
	snapshots ComparisonRepo
	runner    Runner
	idem      IdempotencyStore
	uow       UnitOfWork
	layout    domain.ArtifactLayout
	clock     Clock
	log       *zap.Logger
}

type Option func(*ReportService)

func WithClock(c Clock) Option { return func(s *ReportService) { s.clock = c } }
func WithUnitOfWork(u UnitOfWork) Option { return func(s *ReportService) { s.uow = u } }
func WithIdempotency(i IdempotencyStore) Option {
	return func(s *ReportService) { s.idem = i }
}
func WithLogger(l *zap.Logger) Option { return func(s *ReportService) { s.log = l } }

func NewReportService(runs ReportRunRepo, snapshots ComparisonRepo, runner Runner, layout domain.ArtifactLayout, opts ...Option) *ReportService {
	s := &ReportService{
		runs:      runs,
		snapshots: snapshots,
		runner:    runner,
		layout:    layout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	if s.idem == nil {
		s.idem = NoopIdempotency{}
	}
	if s.uow == nil {
		s.uow = NoopUoW{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// RequestReport queues a run. A repeated idempotency key yields ErrConflict.
// A reserved key is released again when the run cannot be created.
func (s *ReportService) RequestReport(ctx context.Context, idem *string) (string, error) {
	if idem == nil || *idem == "" {
		return s.runs.CreateQueued(ctx, idem)
	}
	key := "report:" + *idem
	ok, err := s.idem.TryReserve(ctx, key)
	if err != nil {
		return "", fmt.Errorf("reserve idempotency key: %w", err)
	}
	if !ok {
		return "", ErrConflict
	}
	id, err := s.runs.CreateQueued(ctx, idem)
	if err != nil {
		if !errors.Is(err, ErrConflict) {
			if rerr := s.idem.Release(ctx, key); rerr != nil {
				s.log.Warn("report_run.idempotency_release_failed", zap.Error(rerr))
			}
		}
		return "", err
	}
	return id, nil
}

func (s *ReportService) GetReportRun(ctx context.Context, id string) (domain.ReportRun, error) {
	run, err := s.runs.GetByID(ctx, id)
	if err != nil {
		return domain.ReportRun{}, err
	}
	if run.Status == domain.ReportRunStatusDone {
		a := s.layout.ForRun(id)
		run.Artifacts = &a
	}
	return run, nil
}

func (s *ReportService) LatestComparison(ctx context.Context) (domain.ComparisonSnapshot, error) {
	return s.snapshots.Latest(ctx)
}

// ProcessReportRun runs the pipeline for a queued or claimed run. The snapshot
// and the done status are committed together.
func (s *ReportService) ProcessReportRun(ctx context.Context, id, source string) error {
	log := s.log.With(zap.String("run_id", id), zap.String("source", source))
	if err := s.runs.UpdateStatus(ctx, id, domain.ReportRunStatusProcessing, nil); err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}

	res, err := s.runner.Run(ctx, s.layout.ForRun(id))
	if err != nil {
		msg := err.Error()
		if uerr := s.runs.UpdateStatus(ctx, id, domain.ReportRunStatusFailed, &msg); uerr != nil {
			log.Warn("report_run.status_update_failed", zap.Error(uerr))
		}
		log.Warn("report_run.failed", zap.Error(err))
		return err
	}

	err = s.uow.Do(ctx, func(ctx context.Context) error {
		if err := s.snapshots.SaveSnapshot(ctx, id, s.clock.Now(), res.Report.Comparison.Records); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		return s.runs.UpdateStatus(ctx, id, domain.ReportRunStatusDone, nil)
	})
	if err != nil {
		msg := err.Error()
		if uerr := s.runs.UpdateStatus(ctx, id, domain.ReportRunStatusFailed, &msg); uerr != nil {
			log.Warn("report_run.status_update_failed", zap.Error(uerr))
		}
		log.Warn("report_run.persist_failed", zap.Error(err))
		return err
	}
	log.Info("report_run.done", zap.Int("rows", len(res.Report.Comparison.Records)))
	return nil
}
