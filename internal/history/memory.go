package history

import (
	"context"
	"sync"
	"time"

	"github.com/asemenov/chatground/internal/ai"
)

type conversation struct {
	messages     []ai.Message
	lastActivity time.Time
}

// MemoryStore is the default in-process store. History is bounded to
// 2*maxMessages turns per conversation (user and assistant pairs).
type MemoryStore struct {
	mu            sync.Mutex
	conversations map[string]*conversation
	maxMessages   int
	now           func() time.Time
}

// NewMemoryStore creates an in-memory history store retaining up to
// maxMessages exchanges per conversation.
func NewMemoryStore(maxMessages int) *MemoryStore {
	return &MemoryStore{
		conversations: make(map[string]*conversation),
		maxMessages:   maxMessages,
		now:           time.Now,
	}
}

func key(channelID, userID string) string {
	return channelID + ":" + userID
}

func (s *MemoryStore) Append(ctx context.Context, channelID, userID string, msg ai.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(channelID, userID)
	conv, ok := s.conversations[k]
	if !ok {
		conv = &conversation{}
		s.conversations[k] = conv
	}

	conv.messages = append(conv.messages, msg)
	if limit := 2 * s.maxMessages; len(conv.messages) > limit {
		conv.messages = conv.messages[len(conv.messages)-limit:]
	}
	conv.lastActivity = s.now()
	return nil
}

func (s *MemoryStore) GetHistory(ctx context.Context, channelID, userID string) ([]ai.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[key(channelID, userID)]
	if !ok {
		return nil, nil
	}
	out := make([]ai.Message, len(conv.messages))
	copy(out, conv.messages)
	return out, nil
}

func (s *MemoryStore) Clear(ctx context.Context, channelID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, key(channelID, userID))
	return nil
}

func (s *MemoryStore) CleanupStale(ctx context.Context, olderThan time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-olderThan)
	removed := 0
	for k, conv := range s.conversations {
		if conv.lastActivity.Before(cutoff) {
			delete(s.conversations, k)
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryStore) Stats(ctx context.Context) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Stats{Conversations: len(s.conversations)}
	for _, conv := range s.conversations {
		stats.Messages += len(conv.messages)
	}
	return stats, nil
}

func (s *MemoryStore) Close() {}
