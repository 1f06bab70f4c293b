// File: internal/usecase/job_flow.go
package usecase

import (
	"sync"

	"spodown-client/internal/domain/model"
	"spodown-client/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.PollableFlow = (*jobFlow)(nil)

// jobFlow binds one session to the goroutine driving it. The session is only
// ever mutated under the flow's lock, and every transition that takes effect
// is rendered before the lock-free world sees it again.
type jobFlow struct {
	id   string
	uc   *downloadUC
	stop func()        // stops the driver goroutine
	done chan struct{} // closed once finish() ran

	mu     sync.Mutex
	sess   *model.DownloadSession
	rec    *model.DownloadRecord // captured at the terminal transition
	sealed bool
	last   model.JobView
}

func (f *jobFlow) SessionID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sess.ID
}

func (f *jobFlow) ApplyProgress(pct int) bool {
	f.mu.Lock()
	ok := f.sess.ApplyProgress(pct)
	v := f.sess.View(f.id)
	f.mu.Unlock()
	if ok {
		f.render(v)
	}
	return ok
}

func (f *jobFlow) ApplyOutput(text string) bool {
	f.mu.Lock()
	ok := f.sess.ApplyOutput(text)
	v := f.sess.View(f.id)
	f.mu.Unlock()
	if ok {
		f.render(v)
	}
	return ok
}

func (f *jobFlow) Complete() bool {
	f.mu.Lock()
	ok := f.sess.MarkComplete()
	if ok {
		f.rec = model.NewDownloadRecord(f.sess, f.sess.ID)
	}
	v := f.sess.View(f.id)
	f.mu.Unlock()
	if ok {
		f.render(v)
	}
	return ok
}

func (f *jobFlow) Fail(reason string) bool {
	f.mu.Lock()
	ok := f.sess.MarkFailed(reason)
	if ok {
		f.rec = model.NewDownloadRecord(f.sess, f.sess.ID)
	}
	v := f.sess.View(f.id)
	f.mu.Unlock()
	if ok {
		f.render(v)
	}
	return ok
}

func (f *jobFlow) Done() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sealed || f.rec != nil || f.sess.Terminal()
}

func (f *jobFlow) running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.sealed && f.rec == nil && f.sess.Phase == model.PhaseRunning
}

// cancelNow records the acknowledged cancel, resets the view to Idle and
// stops the driver. A poll already in flight finds the session terminal and
// is discarded on arrival. It reports false when the session reached another
// terminal phase first, e.g. a completion observed while the cancel request
// was in flight; that session's state is left untouched.
func (f *jobFlow) cancelNow(sessionID string) bool {
	f.mu.Lock()
	if !f.sess.MarkCancelled() {
		f.mu.Unlock()
		return false
	}
	f.rec = model.NewDownloadRecord(f.sess, sessionID)
	f.sess.Reset()
	v := f.sess.View(f.id)
	f.mu.Unlock()
	f.render(v)
	f.stop()
	return true
}

// seal claims the terminal bookkeeping exactly once and returns the captured
// record, or nil when another path already sealed the flow.
func (f *jobFlow) seal() *model.DownloadRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sealed {
		return nil
	}
	f.sealed = true
	if f.rec == nil {
		// Driver returned without a marked transition (parent shutdown).
		f.rec = model.NewDownloadRecord(f.sess, f.sess.ID)
	}
	return f.rec
}

func (f *jobFlow) applyResult(names []string, res *model.ResultView) {
	f.mu.Lock()
	f.sess.SetItems(names)
	v := f.sess.View(f.id)
	v.Result = res
	f.mu.Unlock()
	f.render(v)
}

func (f *jobFlow) finalPhase() model.Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rec != nil {
		return f.rec.Phase
	}
	return f.sess.Phase
}

func (f *jobFlow) view() model.JobView {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sess.View(f.id)
}

func (f *jobFlow) lastRendered() model.JobView {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func (f *jobFlow) render(v model.JobView) {
	f.mu.Lock()
	f.last = v
	f.mu.Unlock()
	f.uc.renderer.RenderJob(v)
}
