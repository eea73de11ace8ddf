package services

import (
	"context"
	"testing"

	"debatebot/llm"
	"debatebot/models"
)

func TestGenerateTreatsEmptyReplyAsTransient(t *testing.T) {
	g := NewGenerator(&scriptedProvider{reply: "```\n\n```"}, 0.8, 200)
	_, err := g.Generate(context.Background(), GenerationRequest{
		Topic:       "pizza toppings",
		Position:    "pineapple does not belong on pizza",
		Language:    "en",
		UserMessage: "Prove it.",
	})
	if !llm.IsTransient(err) {
		t.Errorf("Expected a transient error for an empty reply, got %v", err)
	}
}

func TestGenerateStripsFencesAndQuotes(t *testing.T) {
	g := NewGenerator(&scriptedProvider{reply: "\"Pineapple ruins pizza.\""}, 0.8, 200)
	reply, err := g.Generate(context.Background(), GenerationRequest{Topic: "pizza toppings", Position: "x", Language: "en"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if reply != "Pineapple ruins pizza." {
		t.Errorf("Expected unquoted reply, got %q", reply)
	}
}

func TestUserRepetitive(t *testing.T) {
	history := []models.Message{
		{Role: models.RoleUser, Content: "Pineapple is great."},
		{Role: models.RoleBot, Content: "No it is not."},
		{Role: models.RoleUser, Content: "pineapple IS great. "},
		{Role: models.RoleBot, Content: "Still no."},
	}
	if !userRepetitive(history, "Pineapple is great.") {
		t.Error("Expected three identical user messages to count as repetitive")
	}
	if userRepetitive(history, "Fine, what about ham then?") {
		t.Error("Did not expect a fresh message to count as repetitive")
	}
	if userRepetitive(history[:2], "Pineapple is great.") {
		t.Error("Did not expect repetition with fewer than three user messages")
	}
}
