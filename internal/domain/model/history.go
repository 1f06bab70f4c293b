package model

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// DownloadRecord is one terminal session kept for the downloads history.
type DownloadRecord struct {
	ID         string
	SessionID  string
	Ref        string
	Mode       DownloadMode
	Phase      Phase
	ItemCount  int
	FailReason string
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewDownloadRecord captures a terminal session. Record ids are ULIDs so the
// history table sorts by creation time without a secondary index.
func NewDownloadRecord(s *DownloadSession, sessionID string) *DownloadRecord {
	return &DownloadRecord{
		ID:         ulid.Make().String(),
		SessionID:  sessionID,
		Ref:        s.Ref,
		Mode:       s.Mode,
		Phase:      s.Phase,
		ItemCount:  len(s.Items),
		FailReason: s.FailReason,
		StartedAt:  s.StartedAt,
		FinishedAt: time.Now(),
	}
}
