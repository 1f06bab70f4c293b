package adapter

import "context"

// PollableFlow is what the progress driver needs from one in-flight job. The
// Apply and Mark methods report whether the transition took effect, so a
// sample that arrives after cancellation is discarded instead of re-applied.
type PollableFlow interface {
	SessionID() string
	ApplyProgress(pct int) bool
	ApplyOutput(text string) bool
	Complete() bool
	Fail(reason string) bool
	// Done reports a terminal phase reached outside the driver, e.g. an
	// acknowledged cancel.
	Done() bool
}

// ProgressDriver drives exactly one flow from Running to a terminal phase.
// Implementations must keep polls strictly sequential: the next sample is
// never issued before the previous one settled.
type ProgressDriver interface {
	Drive(ctx context.Context, flow PollableFlow)
}
