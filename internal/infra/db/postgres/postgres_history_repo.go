package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"spodown-client/internal/domain/model"
	"spodown-client/internal/domain/ports/repository"
)

var _ repository.HistoryRepository = (*historyRepo)(nil)

type historyRepo struct {
	pool *pgxpool.Pool
}

func NewHistoryRepo(pool *pgxpool.Pool) *historyRepo {
	return &historyRepo{pool: pool}
}

func (r *historyRepo) Record(ctx context.Context, rec *model.DownloadRecord) error {
	const q = `
INSERT INTO download_history (id, session_id, ref, mode, phase, item_count, fail_reason, started_at, finished_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE SET
  phase = EXCLUDED.phase,
  item_count = EXCLUDED.item_count,
  fail_reason = EXCLUDED.fail_reason,
  finished_at = EXCLUDED.finished_at;`

	_, err := r.pool.Exec(ctx, q,
		rec.ID, rec.SessionID, rec.Ref, string(rec.Mode), string(rec.Phase),
		rec.ItemCount, rec.FailReason, rec.StartedAt, rec.FinishedAt)
	return err
}

func (r *historyRepo) List(ctx context.Context, limit int) ([]*model.DownloadRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
SELECT id, session_id, ref, mode, phase, item_count, fail_reason, started_at, finished_at
FROM download_history
ORDER BY finished_at DESC
LIMIT $1;`

	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (r *historyRepo) RecentSince(ctx context.Context, cutoff time.Time) ([]*model.DownloadRecord, error) {
	const q = `
SELECT id, session_id, ref, mode, phase, item_count, fail_reason, started_at, finished_at
FROM download_history
WHERE finished_at > $1
ORDER BY finished_at DESC;`

	rows, err := r.pool.Query(ctx, q, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows pgx.Rows) ([]*model.DownloadRecord, error) {
	var out []*model.DownloadRecord
	for rows.Next() {
		var rec model.DownloadRecord
		var mode, phase string
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Ref, &mode, &phase,
			&rec.ItemCount, &rec.FailReason, &rec.StartedAt, &rec.FinishedAt); err != nil {
			return nil, err
		}
		rec.Mode = model.DownloadMode(mode)
		rec.Phase = model.Phase(phase)
		out = append(out, &rec)
	}
	return out, rows.Err()
}
