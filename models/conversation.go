package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Message roles.
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// Conversation statuses. Conversations are never deleted, only soft-closed.
const (
	StatusActive = "active"
	StatusClosed = "closed"
)

// Message is a single entry in a conversation transcript. Messages are
// immutable once stored; a turn is one user message plus the bot reply
// sharing the same TurnIndex.
type Message struct {
	Role      string `json:"role" bson:"role"`
	Content   string `json:"content" bson:"content"`
	TurnIndex int    `json:"turnIndex" bson:"turnIndex"`
	Degraded  bool   `json:"degraded,omitempty" bson:"degraded,omitempty"`
	CreatedAt int64  `json:"createdAt" bson:"createdAt"`
}

// Conversation represents one debate with a fixed bot position. BotPosition
// is set at creation and never changes for the conversation's lifetime.
type Conversation struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Topic       string             `json:"topic" bson:"topic"`
	Category    string             `json:"category" bson:"category"`
	BotPosition string             `json:"botPosition" bson:"botPosition"`
	Language    string             `json:"language" bson:"language"`
	Status      string             `json:"status" bson:"status"`
	Messages    []Message          `json:"messages" bson:"messages"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`
}

// NextTurnIndex returns the index the next user+bot pair will be stored at.
// Turn indexes start at 0 and are gapless, so the next index is simply the
// number of completed pairs.
func (c *Conversation) NextTurnIndex() int {
	return len(c.Messages) / 2
}

// BotMessages returns the contents of every bot message in order.
func (c *Conversation) BotMessages() []string {
	var out []string
	for _, m := range c.Messages {
		if m.Role == RoleBot {
			out = append(out, m.Content)
		}
	}
	return out
}

// UserMessages returns the contents of every user message in order.
func (c *Conversation) UserMessages() []string {
	var out []string
	for _, m := range c.Messages {
		if m.Role == RoleUser {
			out = append(out, m.Content)
		}
	}
	return out
}

// DegradedCount returns how many bot replies in this conversation were
// served from the fallback table. It doubles as the rotation cursor for
// the next fallback entry, so consecutive fallbacks within one
// conversation never repeat verbatim.
func (c *Conversation) DegradedCount() int {
	n := 0
	for _, m := range c.Messages {
		if m.Role == RoleBot && m.Degraded {
			n++
		}
	}
	return n
}

// LastMessages returns at most n trailing messages, bounding prompt size.
func (c *Conversation) LastMessages(n int) []Message {
	if n <= 0 || len(c.Messages) <= n {
		return c.Messages
	}
	return c.Messages[len(c.Messages)-n:]
}

// TurnResult is what the orchestrator hands back to the HTTP layer for one
// processed turn.
type TurnResult struct {
	ConversationID string `json:"conversationId"`
	Reply          string `json:"reply"`
	Degraded       bool   `json:"degraded"`
	TurnIndex      int    `json:"turnIndex"`
}
