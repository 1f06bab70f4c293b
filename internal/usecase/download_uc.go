// File: internal/usecase/download_uc.go
package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"spodown-client/internal/domain"
	"spodown-client/internal/domain/model"
	"spodown-client/internal/domain/ports/adapter"
	"spodown-client/internal/domain/ports/repository"
	"spodown-client/internal/infra/logging"
	"spodown-client/internal/infra/metrics"
)

// Compile-time check
var _ DownloadUseCase = (*downloadUC)(nil)

// DownloadUseCase owns the lifecycle of download flows. Every flow holds its
// own session handle; nothing is shared between the form-driven and the
// search-triggered flow beyond the rendering layer.
type DownloadUseCase interface {
	// Start validates the request, asks the server for a session and hands it
	// to the progress driver. It returns the flow id owning the session.
	Start(ctx context.Context, ref string, mode model.DownloadMode) (string, error)
	// StartFromSearch resolves a catalog query and starts a search-mode
	// download of the best hit.
	StartFromSearch(ctx context.Context, query string) (string, error)
	// Cancel asks for confirmation and then cancels the flow's session.
	// A dismissed confirmation returns (false, nil) with no side effects.
	Cancel(ctx context.Context, flowID string) (bool, error)
	// Wait blocks until the flow reaches a terminal phase.
	Wait(ctx context.Context, flowID string) (model.Phase, error)
	// Reattach adopts session handles a previous process left in the flow-slot
	// store and resumes polling them.
	Reattach(ctx context.Context) (int, error)
	// Snapshots returns the last rendered view of every known flow.
	Snapshots() []model.JobView
}

type downloadUC struct {
	jobs     adapter.JobServiceAdapter
	driver   adapter.ProgressDriver
	renderer adapter.Renderer
	confirm  adapter.Confirmer
	slots    repository.FlowSlotStore     // optional
	history  repository.HistoryRepository // optional
	maxJobs  int
	log      *zerolog.Logger

	mu    sync.Mutex
	flows map[string]*jobFlow
}

func NewDownloadUseCase(
	jobs adapter.JobServiceAdapter,
	driver adapter.ProgressDriver,
	renderer adapter.Renderer,
	confirm adapter.Confirmer,
	slots repository.FlowSlotStore,
	history repository.HistoryRepository,
	maxJobs int,
	logger *zerolog.Logger,
) *downloadUC {
	if maxJobs <= 0 {
		maxJobs = 1
	}
	ucLog := logger.With().Str("component", "DownloadUC").Logger()
	return &downloadUC{
		jobs:     jobs,
		driver:   driver,
		renderer: renderer,
		confirm:  confirm,
		slots:    slots,
		history:  history,
		maxJobs:  maxJobs,
		log:      &ucLog,
		flows:    make(map[string]*jobFlow),
	}
}

func (uc *downloadUC) Start(ctx context.Context, ref string, mode model.DownloadMode) (string, error) {
	defer logging.TraceDuration(uc.log, "DownloadUC.Start")()

	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", domain.ErrInvalidArgument
	}
	if !mode.Valid() {
		return "", domain.ErrInvalidArgument
	}
	if uc.runningCount() >= uc.maxJobs {
		return "", domain.ErrTooManyActiveJobs
	}

	sessionID, err := uc.jobs.StartDownload(ctx, adapter.StartRequest{Ref: ref, Mode: mode})
	if err != nil {
		return "", err
	}

	flowID := uuid.NewString()
	uc.adopt(flowID, model.NewDownloadSession(sessionID, ref, mode))
	uc.log.Info().Str("flow_id", flowID).Str("session_id", sessionID).Str("mode", string(mode)).Msg("download started")
	return flowID, nil
}

func (uc *downloadUC) StartFromSearch(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", domain.ErrInvalidArgument
	}
	hits, err := uc.jobs.SearchTracks(ctx, query)
	if err != nil {
		return "", err
	}
	if len(hits) == 0 {
		return "", domain.ErrNotFound
	}
	return uc.Start(ctx, hits[0].SpotifyURL, model.ModeSearch)
}

// adopt registers a flow, mirrors it into the slot store and spawns its
// poller goroutine. The driver context carries the flow and session ids so
// everything the driver logs is attributable.
func (uc *downloadUC) adopt(flowID string, sess *model.DownloadSession) *jobFlow {
	dctx := logging.WithFlowID(context.Background(), flowID)
	dctx = logging.WithSessID(dctx, sess.ID)
	ctx, cancel := context.WithCancel(dctx)
	f := &jobFlow{id: flowID, uc: uc, sess: sess, stop: cancel, done: make(chan struct{})}

	uc.mu.Lock()
	uc.flows[flowID] = f
	uc.mu.Unlock()

	if uc.slots != nil {
		if err := uc.slots.Put(context.Background(), flowID, sess.ID); err != nil {
			uc.log.Warn().Err(err).Str("flow_id", flowID).Msg("flow slot store put failed")
		}
	}
	metrics.SessionStarted()

	f.render(f.view())
	go func() {
		uc.driver.Drive(ctx, f)
		uc.finish(f)
	}()
	return f
}

func (uc *downloadUC) Cancel(ctx context.Context, flowID string) (bool, error) {
	f := uc.lookup(flowID)
	if f == nil || !f.running() {
		return false, domain.ErrNoActiveSession
	}
	if uc.confirm != nil && !uc.confirm.Confirm("Cancel this download?") {
		return false, nil
	}
	// Re-check: the poller may have reached a terminal phase while the
	// confirmation was pending.
	if !f.running() {
		return false, domain.ErrNoActiveSession
	}

	sid := f.SessionID()
	if err := uc.jobs.Cancel(ctx, sid); err != nil {
		// A session the server already dropped counts as cancelled.
		if !errors.Is(err, domain.ErrUnknownSession) {
			uc.log.Warn().Err(err).Str("flow_id", flowID).Msg("cancel rejected")
			return false, err
		}
	}
	// The poller may have observed completion while the cancel request was in
	// flight; the finished session wins and the cancel is rejected.
	if !f.cancelNow(sid) {
		return false, domain.ErrNoActiveSession
	}
	uc.log.Info().Str("flow_id", flowID).Str("session_id", sid).Msg("download cancelled")
	return true, nil
}

func (uc *downloadUC) Wait(ctx context.Context, flowID string) (model.Phase, error) {
	f := uc.lookup(flowID)
	if f == nil {
		return "", domain.ErrNotFound
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-f.done:
		return f.finalPhase(), nil
	}
}

func (uc *downloadUC) Reattach(ctx context.Context) (int, error) {
	if uc.slots == nil {
		return 0, nil
	}
	active, err := uc.slots.Active(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for flowID, sessionID := range active {
		if uc.lookup(flowID) != nil || sessionID == "" {
			continue
		}
		if uc.runningCount() >= uc.maxJobs {
			break
		}
		uc.adopt(flowID, model.NewDownloadSession(sessionID, "", model.ModeURL))
		n++
	}
	if n > 0 {
		uc.log.Info().Int("count", n).Msg("re-attached to in-flight sessions")
	}
	return n, nil
}

func (uc *downloadUC) Snapshots() []model.JobView {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	out := make([]model.JobView, 0, len(uc.flows))
	for _, f := range uc.flows {
		out = append(out, f.lastRendered())
	}
	return out
}

func (uc *downloadUC) lookup(flowID string) *jobFlow {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.flows[flowID]
}

func (uc *downloadUC) runningCount() int {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	n := 0
	for _, f := range uc.flows {
		if f.running() {
			n++
		}
	}
	return n
}

// finish runs once per flow, after its driver goroutine returns. Ownership is
// released before the result resolver issues any request, so a concurrent
// cancel can no longer target the session.
func (uc *downloadUC) finish(f *jobFlow) {
	rec := f.seal()
	if rec == nil {
		return
	}
	if uc.slots != nil {
		if err := uc.slots.Delete(context.Background(), f.id); err != nil {
			uc.log.Warn().Err(err).Str("flow_id", f.id).Msg("flow slot store delete failed")
		}
	}
	metrics.SessionFinished()
	metrics.IncDownload(string(rec.Phase))

	if rec.Phase == model.PhaseComplete {
		uc.resolveResult(f, rec)
	}
	uc.record(rec)
	close(f.done)
}

// resolveResult fetches the item list exactly once and applies the arity
// rule: one item offers a direct fetch, several offer an archive fetch plus a
// per-item list, zero offers nothing.
func (uc *downloadUC) resolveResult(f *jobFlow, rec *model.DownloadRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	names, err := uc.jobs.ListItems(ctx, rec.SessionID)
	if err != nil {
		uc.log.Warn().Err(err).Str("session_id", rec.SessionID).Msg("item list unavailable")
		return
	}
	rec.ItemCount = len(names)

	var res *model.ResultView
	if len(names) > 0 {
		res = &model.ResultView{Items: make([]model.ItemLink, 0, len(names))}
		for _, name := range names {
			res.Items = append(res.Items, model.ItemLink{Name: name, URL: uc.jobs.ItemURL(rec.SessionID, name)})
		}
		if len(names) == 1 {
			res.SingleURL = uc.jobs.ArchiveURL(rec.SessionID)
		} else {
			res.ArchiveURL = uc.jobs.ArchiveURL(rec.SessionID)
		}
	}
	f.applyResult(names, res)
}

func (uc *downloadUC) record(rec *model.DownloadRecord) {
	if uc.history == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := uc.history.Record(ctx, rec); err != nil {
		uc.log.Warn().Err(err).Str("session_id", rec.SessionID).Msg("history record failed")
	}
}
