package model

import (
	"time"
)

type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
	MediaAudio MediaKind = "audio"
)

// ChatMedia is an optional attachment on a message; Ref is a server-relative
// path the rendering layer turns into a URL.
type ChatMedia struct {
	Kind MediaKind
	Ref  string
}

// ChatMessage is one message of the feed. Messages are immutable once
// received; the whole feed is replaced on every poll, so ordering is whatever
// the server returned.
type ChatMessage struct {
	SenderID  string
	Username  string
	AvatarRef string
	Text      string
	Media     *ChatMedia
	SentAt    time.Time
}

// ChatFeed is a full snapshot of the message feed plus the ambient identity
// used to classify self vs. other messages.
type ChatFeed struct {
	Messages      []ChatMessage
	CurrentUserID string
}

// FeedMessage is a ChatMessage classified for rendering.
type FeedMessage struct {
	ChatMessage
	Self bool
}

// FeedView is the data handed to the rendering layer on each refresh.
type FeedView struct {
	Messages []FeedMessage
	// StickToBottom tells the renderer to restore the viewport to its bottom
	// edge after replacing the content.
	StickToBottom bool
}

// BuildFeedView classifies a snapshot against the current identity.
func BuildFeedView(feed ChatFeed, stickToBottom bool) FeedView {
	msgs := make([]FeedMessage, 0, len(feed.Messages))
	for _, m := range feed.Messages {
		msgs = append(msgs, FeedMessage{
			ChatMessage: m,
			Self:        m.SenderID != "" && m.SenderID == feed.CurrentUserID,
		})
	}
	return FeedView{Messages: msgs, StickToBottom: stickToBottom}
}

// Viewport describes the scroll state of the rendered feed: Offset is the
// scroll position, Extent the full content height and Span the visible height.
type Viewport struct {
	Offset int
	Extent int
	Span   int
}

// AtBottom reports whether the viewport sits at its bottom edge, within one
// unit of tolerance. Replacing the feed only snaps back to the bottom when
// this held before the replacement, so a user reading history is not yanked
// away.
func (v Viewport) AtBottom() bool {
	return v.Extent-v.Span <= v.Offset+1
}
