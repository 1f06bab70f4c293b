package model

import (
	"time"
)

type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseRunning   Phase = "running"
	PhaseComplete  Phase = "complete"
	PhaseCancelled Phase = "cancelled"
	PhaseFailed    Phase = "failed"
)

// Terminal reports whether no further polling may happen in this phase.
func (p Phase) Terminal() bool {
	return p == PhaseComplete || p == PhaseCancelled || p == PhaseFailed
}

// DownloadMode is the processing-strategy label sent on job start.
type DownloadMode string

const (
	ModeSearch DownloadMode = "search"
	ModeURL    DownloadMode = "url"
)

func (m DownloadMode) Valid() bool { return m == ModeSearch || m == ModeURL }

// DownloadSession is the client-side view of one server-tracked download job.
// The server issues the opaque ID; an empty ID means no active job. All
// transition methods are pure state logic and report whether they took effect,
// so a caller can discard samples that arrive after a terminal transition.
type DownloadSession struct {
	ID         string
	Ref        string
	Mode       DownloadMode
	Phase      Phase
	Percentage int
	OutputLog  string
	Items      []string
	FailReason string
	StartedAt  time.Time
	UpdatedAt  time.Time
}

func NewDownloadSession(id, ref string, mode DownloadMode) *DownloadSession {
	now := time.Now()
	return &DownloadSession{
		ID:        id,
		Ref:       ref,
		Mode:      mode,
		Phase:     PhaseRunning,
		StartedAt: now,
		UpdatedAt: now,
	}
}

// ApplyProgress records a progress sample. The server does not guarantee
// monotonic percentages, so regressions and out-of-range values are clamped
// rather than trusted. Samples against a non-running session are discarded.
func (s *DownloadSession) ApplyProgress(pct int) bool {
	if s.Phase != PhaseRunning {
		return false
	}
	if pct < s.Percentage {
		pct = s.Percentage
	}
	if pct > 100 {
		pct = 100
	}
	s.Percentage = pct
	s.UpdatedAt = time.Now()
	return true
}

// ApplyOutput replaces the output snapshot. The server returns the full text
// each poll, not a delta.
func (s *DownloadSession) ApplyOutput(text string) bool {
	if s.Phase != PhaseRunning || text == "" {
		return false
	}
	s.OutputLog = text
	s.UpdatedAt = time.Now()
	return true
}

// MarkComplete transitions to the terminal Complete phase and forces the
// percentage to 100.
func (s *DownloadSession) MarkComplete() bool {
	if s.Phase != PhaseRunning {
		return false
	}
	s.Phase = PhaseComplete
	s.Percentage = 100
	s.UpdatedAt = time.Now()
	return true
}

func (s *DownloadSession) MarkCancelled() bool {
	if s.Phase != PhaseRunning {
		return false
	}
	s.Phase = PhaseCancelled
	s.UpdatedAt = time.Now()
	return true
}

func (s *DownloadSession) MarkFailed(reason string) bool {
	if s.Phase != PhaseRunning {
		return false
	}
	s.Phase = PhaseFailed
	s.FailReason = reason
	s.UpdatedAt = time.Now()
	return true
}

// SetItems records the resolved item names. Only valid after completion;
// an empty list is a valid outcome.
func (s *DownloadSession) SetItems(items []string) bool {
	if s.Phase != PhaseComplete {
		return false
	}
	s.Items = append([]string(nil), items...)
	s.UpdatedAt = time.Now()
	return true
}

// Reset clears all session state back to Idle. The ID is dropped, so any
// late-arriving sample for the old handle can no longer target this session.
func (s *DownloadSession) Reset() {
	s.ID = ""
	s.Phase = PhaseIdle
	s.Percentage = 0
	s.OutputLog = ""
	s.Items = nil
	s.FailReason = ""
	s.UpdatedAt = time.Now()
}

func (s *DownloadSession) Terminal() bool { return s.Phase.Terminal() }
