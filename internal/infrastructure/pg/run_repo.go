package pg

import (
	"context"
	"errors"

	"crypto-report/internal/application"
	"crypto-report/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const uniqueViolation = "23505"

type RunRepo struct {
	db  *DB
	log *zap.Logger
}

var _ application.ReportRunRepo = (*RunRepo)(nil)

func NewRunRepo(db *DB, log *zap.Logger) *RunRepo {
	if log == nil {
		log = zap.NewNop()
	}
	return &RunRepo{db: db, log: log.With(zap.String("repo", "report_run"))}
}

func (r *RunRepo) CreateQueued(ctx context.Context, idem *string) (string, error) {
	id := uuid.NewString()
	const ins = `
        INSERT INTO report_runs(id, status, idempotency_key)
        VALUES ($1, 'queued', NULLIF($2, ''))`
	log := r.log.With(zap.String("operation", "CreateQueued"), zap.String("id", id))
	var key string
	if idem != nil {
		key = *idem
	}
	tag, err := r.db.q(ctx).Exec(ctx, ins, id, key)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			log.Info("sql.exec_duplicate_key")
			return "", application.ErrConflict
		}
		log.Error("sql.exec_failed", zap.Error(err))
		return "", err
	}
	log.Debug("sql.exec_success", zap.Int64("rows_affected", tag.RowsAffected()))
	return id, nil
}

func (r *RunRepo) GetByID(ctx context.Context, id string) (domain.ReportRun, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ReportRun{}, application.ErrNotFound
	}
	const q = `
        SELECT id::text, status, error, requested_at, updated_at
        FROM report_runs WHERE id=$1`
	var out domain.ReportRun
	var status string
	err := r.db.q(ctx).QueryRow(ctx, q, id).Scan(&out.ID, &status, &out.Error, &out.RequestedAt, &out.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ReportRun{}, application.ErrNotFound
	}
	if err != nil {
		r.log.Error("sql.query_failed", zap.String("operation", "GetByID"), zap.String("id", id), zap.Error(err))
		return domain.ReportRun{}, err
	}
	out.Status = domain.ParseReportRunStatus(status)
	return out, nil
}

func (r *RunRepo) UpdateStatus(ctx context.Context, id string, st domain.ReportRunStatus, errMsg *string) error {
	const up = `
        UPDATE report_runs
        SET status=$2,
            error=$3,
            updated_at=NOW(),
            completed_at = CASE WHEN $2 IN ('done','failed') THEN NOW() ELSE completed_at END
        WHERE id=$1`
	log := r.log.With(zap.String("operation", "UpdateStatus"), zap.String("id", id), zap.String("status", string(st)))
	tag, err := r.db.q(ctx).Exec(ctx, up, id, string(st), errMsg)
	if err != nil {
		log.Error("sql.exec_failed", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		log.Warn("sql.exec_no_rows")
		return application.ErrNotFound
	}
	return nil
}

func (r *RunRepo) ClaimQueued(ctx context.Context, limit int) ([]string, error) {
	const q = `
      WITH cte AS (
        SELECT id
        FROM report_runs
        WHERE status = 'queued'
        ORDER BY requested_at
        LIMIT $1
        FOR UPDATE SKIP LOCKED
      )
      UPDATE report_runs rr
      SET status = 'processing', updated_at = NOW()
      FROM cte
      WHERE rr.id = cte.id
      RETURNING rr.id::text;
    `
	rows, err := r.db.q(ctx).Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
