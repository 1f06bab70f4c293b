package poller

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"spodown-client/internal/usecase"
)

// ChatLoop refreshes the message feed on a fixed period for the lifetime of
// the view. It shares nothing with the job subsystem except the rendering
// layer, and it never backs off or terminates on its own.
type ChatLoop struct {
	chat   usecase.ChatUseCase
	period time.Duration
	clock  Clock
	kick   chan struct{}
	log    *zerolog.Logger
}

func NewChatLoop(chat usecase.ChatUseCase, period time.Duration, clock Clock, logger *zerolog.Logger) *ChatLoop {
	if period <= 0 {
		period = 3 * time.Second
	}
	loopLog := logger.With().Str("component", "ChatLoop").Logger()
	return &ChatLoop{
		chat:   chat,
		period: period,
		clock:  clock,
		kick:   make(chan struct{}, 1),
		log:    &loopLog,
	}
}

// Run refreshes immediately, then on every period tick or kick until the
// context ends. Refresh errors are logged and swallowed; flooding the user
// with a notice every few seconds helps nobody.
func (l *ChatLoop) Run(ctx context.Context) error {
	l.log.Info().Dur("period", l.period).Msg("chat sync started")
	l.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			l.log.Info().Msg("chat sync stopped")
			return ctx.Err()
		case <-l.kick:
			l.refresh(ctx)
		case <-l.clock.After(l.period):
			l.refresh(ctx)
		}
	}
}

// Send posts a message and, on success, triggers one out-of-band refresh so
// the sender sees their message without waiting for the next tick.
func (l *ChatLoop) Send(ctx context.Context, text string) error {
	if err := l.chat.Send(ctx, text); err != nil {
		return err
	}
	select {
	case l.kick <- struct{}{}:
	default:
	}
	return nil
}

func (l *ChatLoop) refresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := l.chat.Refresh(ctx); err != nil {
		l.log.Debug().Err(err).Msg("feed refresh failed")
	}
}
