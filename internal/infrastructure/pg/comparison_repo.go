package pg

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"crypto-report/internal/application"
	"crypto-report/internal/domain"

	"github.com/jackc/pgx/v5"
)

type ComparisonRepo struct{ db *DB }

var _ application.ComparisonRepo = (*ComparisonRepo)(nil)

func NewComparisonRepo(db *DB) *ComparisonRepo { return &ComparisonRepo{db: db} }

func (r *ComparisonRepo) SaveSnapshot(ctx context.Context, runID string, takenAt time.Time, rows []domain.ComparisonRecord) error {
	const ins = `
        INSERT INTO comparison_snapshots(run_id, row_no, coin, taken_at, historical_date, price_usd,
            current_price, market_cap, volume_24h, price_change_pct, extra)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	batch := &pgx.Batch{}
	for i, row := range rows {
		extra, err := json.Marshal(row.Extra)
		if err != nil {
			return fmt.Errorf("encode extra columns: %w", err)
		}
		var change *float64
		if row.ChangeDefined() {
			v := row.PriceChangePct
			change = &v
		}
		batch.Queue(ins, runID, i, string(row.Coin), takenAt, row.Date, row.PriceUSD,
			row.CurrentPrice, row.MarketCap, row.Volume24h, change, extra)
	}
	if batch.Len() == 0 {
		return nil
	}
	return r.db.q(ctx).SendBatch(ctx, batch).Close()
}

func (r *ComparisonRepo) Latest(ctx context.Context) (domain.ComparisonSnapshot, error) {
	const q = `
        SELECT run_id::text, coin, taken_at, historical_date, price_usd::float8,
               current_price::float8, market_cap::float8, volume_24h::float8,
               price_change_pct::float8, extra
        FROM comparison_snapshots
        WHERE run_id = (SELECT run_id FROM comparison_snapshots ORDER BY taken_at DESC LIMIT 1)
        ORDER BY row_no`
	rows, err := r.db.q(ctx).Query(ctx, q)
	if err != nil {
		return domain.ComparisonSnapshot{}, err
	}
	defer rows.Close()

	var snap domain.ComparisonSnapshot
	for rows.Next() {
		var (
			rec    domain.ComparisonRecord
			coin   string
			change *float64
			extra  []byte
		)
		if err := rows.Scan(&snap.RunID, &coin, &snap.TakenAt, &rec.Date, &rec.PriceUSD,
			&rec.CurrentPrice, &rec.MarketCap, &rec.Volume24h, &change, &extra); err != nil {
			return domain.ComparisonSnapshot{}, err
		}
		rec.Coin = domain.Coin(coin)
		rec.PriceChangePct = math.NaN()
		if change != nil {
			rec.PriceChangePct = *change
		}
		if len(extra) > 0 {
			if err := json.Unmarshal(extra, &rec.Extra); err != nil {
				return domain.ComparisonSnapshot{}, fmt.Errorf("decode extra columns: %w", err)
			}
		}
		snap.Records = append(snap.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return domain.ComparisonSnapshot{}, err
	}
	if len(snap.Records) == 0 {
		return domain.ComparisonSnapshot{}, application.ErrNotFound
	}
	return snap, nil
}
