//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"spodown-client/internal/domain/model"
	"spodown-client/internal/domain/ports/adapter"
)

// =============================
// Adapters
// =============================

// ---- Mock JobServiceAdapter ----

// MockJobService scripts the transport seam. Every method has a Func hook;
// unset hooks fall back to benign defaults.
type MockJobService struct {
	mu      sync.Mutex
	Started []adapter.StartRequest
	Cancels []string

	StartDownloadFunc func(ctx context.Context, req adapter.StartRequest) (string, error)
	PollProgressFunc  func(ctx context.Context, sessionID string) (adapter.ProgressSample, error)
	FetchOutputFunc   func(ctx context.Context, sessionID string) (string, bool, error)
	ListItemsFunc     func(ctx context.Context, sessionID string) ([]string, error)
	CancelFunc        func(ctx context.Context, sessionID string) error
	ListMessagesFunc  func(ctx context.Context) (model.ChatFeed, error)
	SendMessageFunc   func(ctx context.Context, text string) error
	SearchTracksFunc  func(ctx context.Context, query string) ([]model.TrackHit, error)
}

var _ adapter.JobServiceAdapter = (*MockJobService)(nil)

func (m *MockJobService) StartDownload(ctx context.Context, req adapter.StartRequest) (string, error) {
	m.mu.Lock()
	m.Started = append(m.Started, req)
	m.mu.Unlock()
	if m.StartDownloadFunc != nil {
		return m.StartDownloadFunc(ctx, req)
	}
	return "sess-1", nil
}

func (m *MockJobService) PollProgress(ctx context.Context, sessionID string) (adapter.ProgressSample, error) {
	if m.PollProgressFunc != nil {
		return m.PollProgressFunc(ctx, sessionID)
	}
	return adapter.ProgressSample{Status: adapter.PollProgress}, nil
}

func (m *MockJobService) FetchOutput(ctx context.Context, sessionID string) (string, bool, error) {
	if m.FetchOutputFunc != nil {
		return m.FetchOutputFunc(ctx, sessionID)
	}
	return "", true, nil
}

func (m *MockJobService) ListItems(ctx context.Context, sessionID string) ([]string, error) {
	if m.ListItemsFunc != nil {
		return m.ListItemsFunc(ctx, sessionID)
	}
	return nil, nil
}

func (m *MockJobService) ItemURL(sessionID, item string) string {
	return "http://test/download/" + sessionID + "/" + item
}

func (m *MockJobService) ArchiveURL(sessionID string) string {
	return "http://test/download/" + sessionID
}

func (m *MockJobService) Cancel(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	m.Cancels = append(m.Cancels, sessionID)
	m.mu.Unlock()
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, sessionID)
	}
	return nil
}

func (m *MockJobService) ListMessages(ctx context.Context) (model.ChatFeed, error) {
	if m.ListMessagesFunc != nil {
		return m.ListMessagesFunc(ctx)
	}
	return model.ChatFeed{}, nil
}

func (m *MockJobService) SendMessage(ctx context.Context, text string) error {
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, text)
	}
	return nil
}

func (m *MockJobService) SearchTracks(ctx context.Context, query string) ([]model.TrackHit, error) {
	if m.SearchTracksFunc != nil {
		return m.SearchTracksFunc(ctx, query)
	}
	return nil, nil
}

func (m *MockJobService) CancelCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Cancels...)
}

// ---- Mock Renderer ----

// MockRenderer captures every rendered view. Rendering happens from the
// poller goroutine too, so everything is guarded.
type MockRenderer struct {
	mu       sync.Mutex
	Jobs     []model.JobView
	Feeds    []model.FeedView
	viewport model.Viewport
}

var _ adapter.Renderer = (*MockRenderer)(nil)

func (m *MockRenderer) RenderJob(v model.JobView) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Jobs = append(m.Jobs, v)
}

func (m *MockRenderer) RenderFeed(v model.FeedView) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Feeds = append(m.Feeds, v)
}

func (m *MockRenderer) Viewport() model.Viewport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewport
}

func (m *MockRenderer) SetViewport(v model.Viewport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.viewport = v
}

func (m *MockRenderer) LastJob() (model.JobView, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Jobs) == 0 {
		return model.JobView{}, false
	}
	return m.Jobs[len(m.Jobs)-1], true
}

func (m *MockRenderer) LastFeed() (model.FeedView, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Feeds) == 0 {
		return model.FeedView{}, false
	}
	return m.Feeds[len(m.Feeds)-1], true
}

// ---- Mock Confirmer ----

type MockConfirmer struct {
	mu      sync.Mutex
	Answer  bool
	Prompts []string
}

var _ adapter.Confirmer = (*MockConfirmer)(nil)

func (m *MockConfirmer) Confirm(prompt string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prompts = append(m.Prompts, prompt)
	return m.Answer
}

// ---- Mock ProgressDriver ----

// MockDriver replaces the real poller. The default script blocks until the
// flow's context is cancelled, which models an endlessly-running download.
type MockDriver struct {
	DriveFunc func(ctx context.Context, flow adapter.PollableFlow)
}

var _ adapter.ProgressDriver = (*MockDriver)(nil)

func (m *MockDriver) Drive(ctx context.Context, flow adapter.PollableFlow) {
	if m.DriveFunc != nil {
		m.DriveFunc(ctx, flow)
		return
	}
	<-ctx.Done()
}

// =============================
// Repositories
// =============================

// ---- Mock FlowSlotStore ----

type MockSlotStore struct {
	mu    sync.Mutex
	Slots map[string]string

	PutFunc    func(ctx context.Context, flowID, sessionID string) error
	DeleteFunc func(ctx context.Context, flowID string) error
	ActiveFunc func(ctx context.Context) (map[string]string, error)
}

func NewMockSlotStore() *MockSlotStore {
	return &MockSlotStore{Slots: make(map[string]string)}
}

func (m *MockSlotStore) Put(ctx context.Context, flowID, sessionID string) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, flowID, sessionID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Slots[flowID] = sessionID
	return nil
}

func (m *MockSlotStore) Delete(ctx context.Context, flowID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, flowID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Slots, flowID)
	return nil
}

func (m *MockSlotStore) Active(ctx context.Context) (map[string]string, error) {
	if m.ActiveFunc != nil {
		return m.ActiveFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.Slots))
	for k, v := range m.Slots {
		out[k] = v
	}
	return out, nil
}

func (m *MockSlotStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Slots)
}

// ---- Mock HistoryRepository ----

type MockHistoryRepo struct {
	mu      sync.Mutex
	Records []*model.DownloadRecord

	RecordFunc func(ctx context.Context, rec *model.DownloadRecord) error
}

func NewMockHistoryRepo() *MockHistoryRepo { return &MockHistoryRepo{} }

func (m *MockHistoryRepo) Record(ctx context.Context, rec *model.DownloadRecord) error {
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, rec)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Records = append(m.Records, rec)
	return nil
}

func (m *MockHistoryRepo) List(ctx context.Context, limit int) ([]*model.DownloadRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]*model.DownloadRecord(nil), m.Records...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockHistoryRepo) RecentSince(ctx context.Context, cutoff time.Time) ([]*model.DownloadRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.DownloadRecord
	for _, r := range m.Records {
		if r.FinishedAt.After(cutoff) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockHistoryRepo) All() []*model.DownloadRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.DownloadRecord(nil), m.Records...)
}

// newTestLogger creates a silent zerolog.Logger for use in tests.
// It writes to io.Discard to prevent logs from cluttering test output.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
