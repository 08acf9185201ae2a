package history

import (
	"context"
	"time"

	"github.com/asemenov/chatground/internal/ai"
)

// Stats summarizes stored conversation state.
type Stats struct {
	Conversations int `json:"conversations"`
	Messages      int `json:"messages"`
}

// Store keeps bounded per-conversation message history. A conversation is
// keyed by (channelID, userID) so the same user gets independent context
// in different channels.
type Store interface {
	// Append records one turn; oldest turns are dropped past the bound.
	Append(ctx context.Context, channelID, userID string, msg ai.Message) error
	// GetHistory returns the retained turns oldest-first.
	GetHistory(ctx context.Context, channelID, userID string) ([]ai.Message, error)
	// Clear drops the conversation entirely.
	Clear(ctx context.Context, channelID, userID string) error
	// CleanupStale removes conversations idle longer than olderThan and
	// reports how many were removed.
	CleanupStale(ctx context.Context, olderThan time.Duration) (int, error)
	Stats(ctx context.Context) (Stats, error)
	Close()
}
