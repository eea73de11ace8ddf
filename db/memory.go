package db

import (
	"context"
	"sync"
	"time"

	"debatebot/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-process ConversationStore. It backs the "memory"
// database driver for local runs and is the store used by the test suite.
type MemoryStore struct {
	mu    sync.RWMutex
	convs map[string]*models.Conversation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{convs: make(map[string]*models.Conversation)}
}

func (s *MemoryStore) Create(ctx context.Context, conv *models.Conversation) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conv.ID.IsZero() {
		conv.ID = primitive.NewObjectID()
	}
	if conv.CreatedAt == 0 {
		conv.CreatedAt = time.Now().Unix()
	}
	if conv.Status == "" {
		conv.Status = models.StatusActive
	}

	stored := cloneConversation(conv)
	s.convs[conv.ID.Hex()] = stored
	return conv.ID.Hex(), nil
}

func (s *MemoryStore) Load(ctx context.Context, id string) (*models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.convs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneConversation(conv), nil
}

func (s *MemoryStore) AppendTurn(ctx context.Context, id string, user, bot models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.convs[id]
	if !ok || conv.Status != models.StatusActive {
		return ErrNotFound
	}
	conv.Messages = append(conv.Messages, user, bot)
	return nil
}

func (s *MemoryStore) Close(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.convs[id]
	if !ok {
		return ErrNotFound
	}
	conv.Status = models.StatusClosed
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

// cloneConversation copies the conversation and its message slice so callers
// never share backing arrays with the store.
func cloneConversation(conv *models.Conversation) *models.Conversation {
	out := *conv
	out.Messages = make([]models.Message, len(conv.Messages))
	copy(out.Messages, conv.Messages)
	return &out
}
