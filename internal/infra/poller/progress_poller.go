package poller

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"spodown-client/internal/domain/ports/adapter"
	"spodown-client/internal/infra/logging"
	"spodown-client/internal/infra/metrics"
)

// Compile-time check
var _ adapter.ProgressDriver = (*ProgressPoller)(nil)

type Config struct {
	// Interval is the delay between the end of one cycle and the start of the
	// next. Re-arming only after the previous cycle settled means a slow
	// server can never accumulate a queue of outstanding polls.
	Interval time.Duration
	// MaxFailures bounds consecutive transport failures before giving up.
	MaxFailures int
	// UnknownStrikes bounds consecutive unknown-session samples before the
	// handle is declared lost.
	UnknownStrikes int
}

// ProgressPoller drives one flow from Running to a terminal phase with
// strictly sequential sampling cycles. Each cycle issues one progress sample
// and, on progress, one best-effort output sample.
type ProgressPoller struct {
	jobs  adapter.JobServiceAdapter
	clock Clock
	cfg   Config
	log   *zerolog.Logger
}

func NewProgressPoller(jobs adapter.JobServiceAdapter, clock Clock, cfg Config, logger *zerolog.Logger) *ProgressPoller {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 5
	}
	if cfg.UnknownStrikes <= 0 {
		cfg.UnknownStrikes = 3
	}
	pollLog := logger.With().Str("component", "ProgressPoller").Logger()
	return &ProgressPoller{jobs: jobs, clock: clock, cfg: cfg, log: &pollLog}
}

func (p *ProgressPoller) Drive(ctx context.Context, flow adapter.PollableFlow) {
	sessionID := flow.SessionID()
	log := logging.With(logging.WithSessID(ctx, sessionID), p.log)

	failures := 0
	strikes := 0
	for {
		if ctx.Err() != nil || flow.Done() {
			return
		}

		start := p.clock.Now()
		sample, err := p.jobs.PollProgress(ctx, sessionID)
		latency := p.clock.Now().Sub(start).Milliseconds()

		// A response addressed to a session cancelled while the request was
		// in flight is discarded, never re-armed against the dead handle.
		if ctx.Err() != nil || flow.Done() {
			return
		}

		if err != nil {
			metrics.ObservePoll("error", latency)
			failures++
			if failures >= p.cfg.MaxFailures {
				log.Warn().Err(err).Int("failures", failures).Msg("poll failure budget exhausted")
				flow.Fail("lost contact with the server")
				return
			}
			// Transient transport noise is retried quietly at the same pace.
			log.Debug().Err(err).Int("failures", failures).Msg("poll failed, retrying")
			if !p.sleep(ctx) {
				return
			}
			continue
		}
		failures = 0

		switch sample.Status {
		case adapter.PollComplete:
			metrics.ObservePoll("complete", latency)
			flow.Complete()
			return

		case adapter.PollUnknown:
			metrics.ObservePoll("unknown", latency)
			strikes++
			if strikes >= p.cfg.UnknownStrikes {
				log.Warn().Int("strikes", strikes).Msg("session no longer known to the server")
				flow.Fail("session expired on the server")
				return
			}
			if !p.sleep(ctx) {
				return
			}
			continue

		default:
			metrics.ObservePoll("progress", latency)
			strikes = 0
			flow.ApplyProgress(sample.Percentage)
		}

		p.sampleOutput(ctx, flow, sessionID)

		if !p.sleep(ctx) {
			return
		}
	}
}

// sampleOutput is best-effort: neither a transport failure nor the
// unknown-session sentinel may abort the progress loop.
func (p *ProgressPoller) sampleOutput(ctx context.Context, flow adapter.PollableFlow, sessionID string) {
	text, known, err := p.jobs.FetchOutput(ctx, sessionID)
	switch {
	case err != nil:
		metrics.IncOutputSample("error")
		p.log.Debug().Err(err).Str("session_id", sessionID).Msg("output sample failed")
	case !known:
		metrics.IncOutputSample("unknown")
	default:
		metrics.IncOutputSample("ok")
		if ctx.Err() == nil {
			flow.ApplyOutput(text)
		}
	}
}

func (p *ProgressPoller) sleep(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-p.clock.After(p.cfg.Interval):
		return true
	}
}
