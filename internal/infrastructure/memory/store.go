package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"crypto-report/internal/application"
	"crypto-report/internal/domain"

	"github.com/google/uuid"
)

var (
	_ application.ReportRunRepo  = (*RunRepo)(nil)
	_ application.ComparisonRepo = (*ComparisonRepo)(nil)
)

// RunRepo keeps report runs in process memory.
type RunRepo struct {
	mu    sync.Mutex
	runs  map[string]domain.ReportRun
	keys  map[string]string
	NewID func() string
	Now   func() time.Time
}

func NewRunRepo() *RunRepo {
	return &RunRepo{
		runs:  map[string]domain.ReportRun{},
		keys:  map[string]string{},
		NewID: uuid.NewString,
		Now:   func() time.Time { return time.Now().UTC() },
	}
}

// CreateQueued rejects a repeated idempotency key with ErrConflict.
func (r *RunRepo) CreateQueued(_ context.Context, idem *string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if idem != nil && *idem != "" {
		if _, taken := r.keys[*idem]; taken {
			return "", application.ErrConflict
		}
	}
	id := r.NewID()
	if idem != nil && *idem != "" {
		r.keys[*idem] = id
	}
	now := r.Now()
	r.runs[id] = domain.ReportRun{ID: id, Status: domain.ReportRunStatusQueued, RequestedAt: now, UpdatedAt: now}
	return id, nil
}

func (r *RunRepo) GetByID(_ context.Context, id string) (domain.ReportRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return domain.ReportRun{}, application.ErrNotFound
	}
	return run, nil
}

func (r *RunRepo) UpdateStatus(_ context.Context, id string, st domain.ReportRunStatus, errMsg *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return application.ErrNotFound
	}
	run.Status, run.Error, run.UpdatedAt = st, errMsg, r.Now()
	r.runs[id] = run
	return nil
}

// ClaimQueued claims the oldest queued runs first.
func (r *RunRepo) ClaimQueued(_ context.Context, limit int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var queued []domain.ReportRun
	for _, run := range r.runs {
		if run.Status == domain.ReportRunStatusQueued {
			queued = append(queued, run)
		}
	}
	sort.Slice(queued, func(i, j int) bool { return queued[i].RequestedAt.Before(queued[j].RequestedAt) })
	if limit > 0 && len(queued) > limit {
		queued = queued[:limit]
	}
	ids := make([]string, 0, len(queued))
	for _, run := range queued {
		run.Status, run.UpdatedAt = domain.ReportRunStatusProcessing, r.Now()
		r.runs[run.ID] = run
		ids = append(ids, run.ID)
	}
	return ids, nil
}

// ComparisonRepo keeps only the most recent snapshot.
type ComparisonRepo struct {
	mu     sync.Mutex
	latest *domain.ComparisonSnapshot
}

func NewComparisonRepo() *ComparisonRepo { return &ComparisonRepo{} }

func (r *ComparisonRepo) SaveSnapshot(_ context.Context, runID string, takenAt time.Time, rows []domain.ComparisonRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.latest != nil && r.latest.TakenAt.After(takenAt) {
		return nil
	}
	cp := make([]domain.ComparisonRecord, len(rows))
	copy(cp, rows)
	r.latest = &domain.ComparisonSnapshot{RunID: runID, TakenAt: takenAt, Records: cp}
	return nil
}

func (r *ComparisonRepo) Latest(context.Context) (domain.ComparisonSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.latest == nil {
		return domain.ComparisonSnapshot{}, application.ErrNotFound
	}
	return *r.latest, nil
}
