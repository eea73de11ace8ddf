package db

import (
	"context"
	"errors"

	"debatebot/models"
)

// ErrNotFound is returned for an unknown conversation id, and for appends or
// loads against a conversation that has been closed.
var ErrNotFound = errors.New("conversation not found")

// ConversationStore persists conversations and their ordered message
// history. AppendTurn writes the user+bot pair atomically: a failed turn
// writes nothing, never a half pair.
type ConversationStore interface {
	Create(ctx context.Context, conv *models.Conversation) (string, error)
	Load(ctx context.Context, id string) (*models.Conversation, error)
	AppendTurn(ctx context.Context, id string, user, bot models.Message) error
	Close(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
