package adapter

import (
	"context"

	"spodown-client/internal/domain/model"
)

// StartRequest carries the source reference and the processing-strategy label
// for a job-start call.
type StartRequest struct {
	Ref  string
	Mode model.DownloadMode
}

// PollStatus tags a progress sample. Unknown means the server no longer
// recognizes the session id; the adapter normalizes the server's ad hoc
// "No such session" responses into this tag so callers never branch on
// string sentinels.
type PollStatus int

const (
	PollProgress PollStatus = iota
	PollComplete
	PollUnknown
)

type ProgressSample struct {
	Status     PollStatus
	Percentage int
}

// ServerError is a structured failure reported by the job service; its reason
// is surfaced verbatim to the user.
type ServerError struct {
	Reason string
}

func (e *ServerError) Error() string { return "server: " + e.Reason }

// JobServiceAdapter is the transport seam to the download server. Errors
// returned by PollProgress and FetchOutput are transport failures and are
// retriable; server-side conditions come back as typed outcomes or
// *ServerError values instead.
type JobServiceAdapter interface {
	// StartDownload requests a new job and returns the opaque session handle.
	StartDownload(ctx context.Context, req StartRequest) (string, error)

	// PollProgress samples phase and percentage for one session.
	PollProgress(ctx context.Context, sessionID string) (ProgressSample, error)

	// FetchOutput samples the textual output snapshot. known=false reports the
	// unknown-session sentinel, which is benign for output sampling.
	FetchOutput(ctx context.Context, sessionID string) (text string, known bool, err error)

	// ListItems returns the ordered item names of a completed session. A
	// completed job may legitimately have zero items.
	ListItems(ctx context.Context, sessionID string) ([]string, error)

	// ItemURL and ArchiveURL build fetch locations for direct navigation;
	// they issue no request.
	ItemURL(sessionID, item string) string
	ArchiveURL(sessionID string) string

	// Cancel asks the server to abort a running job. Cancelling a session the
	// server already dropped returns domain.ErrUnknownSession.
	Cancel(ctx context.Context, sessionID string) error

	// ListMessages fetches the full feed snapshot plus the ambient identity.
	ListMessages(ctx context.Context) (model.ChatFeed, error)

	// SendMessage posts one message to the feed.
	SendMessage(ctx context.Context, text string) error

	// SearchTracks queries the catalog for the search-triggered flow.
	SearchTracks(ctx context.Context, query string) ([]model.TrackHit, error)
}
