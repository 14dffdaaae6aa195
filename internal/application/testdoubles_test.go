package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crypto-report/internal/domain"
)

var errBoom = errors.New("boom")

type fakeHistory struct {
	table domain.HistoricalTable
	err   error
}

func (f *fakeHistory) Load(context.Context) (domain.HistoricalTable, error) {
	return f.table, f.err
}

type fakeMarket struct {
	quotes   []domain.LiveQuote
	err      error
	coins    []domain.Coin
	currency string
	deadline bool
}

func (f *fakeMarket) Fetch(ctx context.Context, coins []domain.Coin, currency string) ([]domain.LiveQuote, error) {
	f.coins, f.currency = coins, currency
	_, f.deadline = ctx.Deadline()
	return f.quotes, f.err
}

type fakeWriter struct {
	path   string
	report domain.Report
	err    error
}

func (f *fakeWriter) Write(_ context.Context, path string, r domain.Report) error {
	if f.err != nil {
		return f.err
	}
	f.path, f.report = path, r
	return nil
}

type fakeCharts struct {
	historyErr error
	changeErr  error
	coin       domain.Coin
	history    []domain.HistoricalRecord
	change     []domain.ComparisonRecord
}

func (f *fakeCharts) RenderPriceHistory(_ context.Context, _ string, coin domain.Coin, records []domain.HistoricalRecord) error {
	f.coin, f.history = coin, records
	return f.historyErr
}

func (f *fakeCharts) RenderPriceChange(_ context.Context, _ string, rows []domain.ComparisonRecord) error {
	f.change = rows
	return f.changeErr
}

type fakeRunRepo struct {
	runs map[string]domain.ReportRun
	next int
	err  error
	// updateErr fails UpdateStatus for the given target status.
	updateErr map[domain.ReportRunStatus]error
}

func (f *fakeRunRepo) CreateQueued(_ context.Context, _ *string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.runs == nil {
		f.runs = map[string]domain.ReportRun{}
	}
	f.next++
	id := fmt.Sprintf("run-%d", f.next)
	f.runs[id] = domain.ReportRun{ID: id, Status: domain.ReportRunStatusQueued}
	return id, nil
}

func (f *fakeRunRepo) GetByID(_ context.Context, id string) (domain.ReportRun, error) {
	r, ok := f.runs[id]
	if !ok {
		return domain.ReportRun{}, ErrNotFound
	}
	return r, nil
}

func (f *fakeRunRepo) UpdateStatus(_ context.Context, id string, st domain.ReportRunStatus, errMsg *string) error {
	if err := f.updateErr[st]; err != nil {
		return err
	}
	r, ok := f.runs[id]
	if !ok {
		return ErrNotFound
	}
	r.Status, r.Error = st, errMsg
	f.runs[id] = r
	return nil
}

func (f *fakeRunRepo) ClaimQueued(_ context.Context, _ int) ([]string, error) { return nil, nil }

type fakeSnapshots struct {
	last domain.ComparisonSnapshot
	has  bool
	err  error
}

func (f *fakeSnapshots) SaveSnapshot(_ context.Context, runID string, takenAt time.Time, rows []domain.ComparisonRecord) error {
	if f.err != nil {
		return f.err
	}
	f.last, f.has = domain.ComparisonSnapshot{RunID: runID, TakenAt: takenAt, Records: rows}, true
	return nil
}

func (f *fakeSnapshots) Latest(context.Context) (domain.ComparisonSnapshot, error) {
	if !f.has {
		return domain.ComparisonSnapshot{}, ErrNotFound
	}
	return f.last, nil
}

type fakeRunner struct {
	res domain.RunResult
	err error
	out domain.Artifacts
}

func (f *fakeRunner) Run(_ context.Context, out domain.Artifacts) (domain.RunResult, error) {
	f.out = out
	return f.res, f.err
}

type fakeIdem struct {
	seen     map[string]bool
	released []string
}

func (f *fakeIdem) TryReserve(_ context.Context, k string) (bool, error) {
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	if f.seen[k] {
		return false, nil
	}
	f.seen[k] = true
	return true, nil
}

func (f *fakeIdem) Release(_ context.Context, k string) error {
	delete(f.seen, k)
	f.released = append(f.released, k)
	return nil
}

type fakeClock struct{ t time.Time }

func (c fakeClock) Now() time.Time { return c.t }

func day(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

func historical(records ...domain.HistoricalRecord) domain.HistoricalTable {
	return domain.HistoricalTable{
		Columns: []string{domain.ColDate, domain.ColPriceUSD, domain.ColCoin},
		Records: records,
	}
}
