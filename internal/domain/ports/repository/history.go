package repository

import (
	"context"
	"time"

	"spodown-client/internal/domain/model"
)

// HistoryRepository persists terminal download sessions.
type HistoryRepository interface {
	Record(ctx context.Context, rec *model.DownloadRecord) error
	List(ctx context.Context, limit int) ([]*model.DownloadRecord, error)
	// RecentSince returns records finished after the cutoff, newest first.
	RecentSince(ctx context.Context, cutoff time.Time) ([]*model.DownloadRecord, error)
}
