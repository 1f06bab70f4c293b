package adapter

import "spodown-client/internal/domain/model"

// Renderer is the narrow contract to the rendering layer: a pure projection
// from data to presentation. Viewport is the single read-back the core is
// allowed, feeding the stick-to-bottom decision before a feed replacement.
type Renderer interface {
	RenderJob(view model.JobView)
	RenderFeed(view model.FeedView)
	Viewport() model.Viewport
}

// Confirmer blocks for a dismissible user confirmation before destructive
// actions. A dismissed confirmation is a no-op with no side effects.
type Confirmer interface {
	Confirm(prompt string) bool
}
