// File: internal/usecase/chat_uc.go
package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"spodown-client/internal/domain"
	"spodown-client/internal/domain/model"
	"spodown-client/internal/domain/ports/adapter"
	"spodown-client/internal/infra/metrics"
)

// Compile-time check
var _ ChatUseCase = (*chatUC)(nil)

type ChatUseCase interface {
	// Refresh replaces the rendered feed with a full snapshot. The scroll
	// decision is taken from the viewport state before the replacement.
	Refresh(ctx context.Context) error
	// Send posts one message. The sync loop triggers an out-of-band refresh
	// on success instead of waiting for the next tick.
	Send(ctx context.Context, text string) error
}

type chatUC struct {
	jobs     adapter.JobServiceAdapter
	renderer adapter.Renderer
	log      *zerolog.Logger
}

func NewChatUseCase(jobs adapter.JobServiceAdapter, renderer adapter.Renderer, logger *zerolog.Logger) *chatUC {
	chatLog := logger.With().Str("component", "ChatUC").Logger()
	return &chatUC{jobs: jobs, renderer: renderer, log: &chatLog}
}

func (c *chatUC) Refresh(ctx context.Context) error {
	stick := c.renderer.Viewport().AtBottom()

	feed, err := c.jobs.ListMessages(ctx)
	if err != nil {
		metrics.IncChatRefresh("error")
		return err
	}
	c.renderer.RenderFeed(model.BuildFeedView(feed, stick))
	metrics.IncChatRefresh("ok")
	return nil
}

func (c *chatUC) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ErrInvalidArgument
	}
	if err := c.jobs.SendMessage(ctx, text); err != nil {
		metrics.IncChatSend("error")
		return err
	}
	metrics.IncChatSend("ok")
	return nil
}
