package conversation

import (
	"context"
	"sync"
	"time"

	"github.com/policypal/backend/internal/model/chat"
)

// MemoryStore implements Store with an in-process map. It backs the degraded
// mode used when no durable store is configured, and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	docs  map[string]chat.Conversation
	clock func() time.Time
}

// NewMemoryStore returns an empty in-memory conversation store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:  make(map[string]chat.Conversation),
		clock: func() time.Time { return time.Now().UTC() },
	}
}

func key(appID, userID string) string {
	return appID + "/" + userID + "/" + DocumentName
}

// Load returns the stored conversation or ErrNotFound.
func (s *MemoryStore) Load(_ context.Context, appID, userID string) (chat.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.docs[key(appID, userID)]
	if !ok {
		return chat.Conversation{}, ErrNotFound
	}
	return conv.Clone(), nil
}

// Save stores a copy of the conversation, assigning the write-time instant to
// any message lacking a concrete timestamp, mirroring the durable store.
func (s *MemoryStore) Save(_ context.Context, appID, userID string, conv chat.Conversation) error {
	writeTime := s.clock()

	copied := conv.Clone()
	for i := range copied.Messages {
		if copied.Messages[i].Timestamp.IsZero() {
			copied.Messages[i].Timestamp = writeTime
		}
	}
	copied.LastUpdated = writeTime

	s.mu.Lock()
	s.docs[key(appID, userID)] = copied
	s.mu.Unlock()
	return nil
}
