package db

import (
	"context"
	"errors"
	"testing"

	"debatebot/models"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, err := store.Create(ctx, &models.Conversation{
		Topic:       "pizza toppings",
		BotPosition: "pineapple does not belong on pizza",
		Language:    "en",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	conv, err := store.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if conv.Status != models.StatusActive {
		t.Errorf("Expected a new conversation to be active, got %q", conv.Status)
	}
	if conv.CreatedAt == 0 {
		t.Error("Expected CreatedAt to be set")
	}

	err = store.AppendTurn(ctx, id,
		models.Message{Role: models.RoleUser, Content: "hi", TurnIndex: 0},
		models.Message{Role: models.RoleBot, Content: "no", TurnIndex: 0},
	)
	if err != nil {
		t.Fatalf("AppendTurn failed: %v", err)
	}
	conv, _ = store.Load(ctx, id)
	if len(conv.Messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(conv.Messages))
	}
	if conv.NextTurnIndex() != 1 {
		t.Errorf("Expected next turn index 1, got %d", conv.NextTurnIndex())
	}

	if err := store.Close(ctx, id); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	err = store.AppendTurn(ctx, id,
		models.Message{Role: models.RoleUser, Content: "still there?"},
		models.Message{Role: models.RoleBot, Content: "..."},
	)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound when appending to a closed conversation, got %v", err)
	}
}

func TestMemoryStoreUnknownIDs(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Load(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound from Load, got %v", err)
	}
	if err := store.Close(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound from Close, got %v", err)
	}
}

func TestMemoryStoreLoadReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, _ := store.Create(ctx, &models.Conversation{Topic: "pizza toppings"})
	store.AppendTurn(ctx, id,
		models.Message{Role: models.RoleUser, Content: "hi"},
		models.Message{Role: models.RoleBot, Content: "no"},
	)

	first, _ := store.Load(ctx, id)
	first.Messages[0].Content = "tampered"
	first.Topic = "tampered"

	second, _ := store.Load(ctx, id)
	if second.Messages[0].Content != "hi" || second.Topic != "pizza toppings" {
		t.Error("Expected Load to return an isolated copy")
	}
}
