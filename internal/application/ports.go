package application

import (
	"context"
	"time"

	"crypto-report/internal/domain"
)

type HistoricalSource interface {
	Load(ctx context.Context) (domain.HistoricalTable, error)
}

type MarketProvider interface {
	Fetch(ctx context.Context, coins []domain.Coin, currency string) ([]domain.LiveQuote, error)
}

type ReportWriter interface {
	Write(ctx context.Context, path string, r domain.Report) error
}

type ChartRenderer interface {
	RenderPriceHistory(ctx context.Context, path string, coin domain.Coin, records []domain.HistoricalRecord) error
	RenderPriceChange(ctx context.Context, path string, rows []domain.ComparisonRecord) error
}

type ReportRunRepo interface {
	CreateQueued(ctx context.Context, idem *string) (string, error)
	GetByID(ctx context.Context, id string) (domain.ReportRun, error)
	UpdateStatus(ctx context.Context, id string, status domain.ReportRunStatus, errMsg *string) error
	// ClaimQueued moves up to limit queued runs to processing and returns their ids.
	ClaimQueued(ctx context.Context, limit int) ([]string, error)
}

type ComparisonRepo interface {
	SaveSnapshot(ctx context.Context, runID string, takenAt time.Time, rows []domain.ComparisonRecord) error
	Latest(ctx context.Context) (domain.ComparisonSnapshot, error)
}

// Runner executes one pipeline run into the given artifacts.
type Runner interface {
	Run(ctx context.Context, out domain.Artifacts) (domain.RunResult, error)
}
