package types

import (
	"context"
	"time"
)

// EventTypePostCreated is the type of the event published after a post is stored.
const EventTypePostCreated = "post.created"

// PostEvent is the message published to notify targets.
type PostEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	PostID    string    `json:"postId"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewPostCreatedEvent builds a post.created event for post.
func NewPostCreatedEvent(id string, post *Post, createdAt time.Time) *PostEvent {
	return &PostEvent{
		ID:        id,
		Type:      EventTypePostCreated,
		PostID:    post.ID,
		Title:     post.Title,
		Author:    post.Author,
		Date:      post.Date,
		CreatedAt: createdAt.UTC(),
	}
}

// Notifier publishes post events to targets it recognises.
type Notifier interface {
	// ShouldHandle reports whether target is addressed by this notifier.
	ShouldHandle(ctx context.Context, target string) bool

	// Notify publishes event to target.
	Notify(ctx context.Context, target string, event *PostEvent, logger Logger) error
}
