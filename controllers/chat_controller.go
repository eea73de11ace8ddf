package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"debatebot/db"
	"debatebot/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Version is reported by the health and root endpoints.
const Version = "1.0.0"

type ChatRequest struct {
	ConversationID string `json:"conversationId"`
	Message        string `json:"message" binding:"required"`
	LanguageHint   string `json:"languageHint"`
}

type ChatResponse struct {
	ConversationID string `json:"conversationId"`
	Reply          string `json:"reply"`
	Degraded       bool   `json:"degraded"`
	TurnIndex      int    `json:"turnIndex"`
}

// ChatController wires the HTTP boundary to the orchestrator.
type ChatController struct {
	orchestrator     *services.Orchestrator
	store            db.ConversationStore
	providerName     string
	maxMessageLength int
}

func NewChatController(orchestrator *services.Orchestrator, store db.ConversationStore,
	providerName string, maxMessageLength int) *ChatController {
	return &ChatController{
		orchestrator:     orchestrator,
		store:            store,
		providerName:     providerName,
		maxMessageLength: maxMessageLength,
	}
}

// Chat handles one debate turn. Omit conversationId to start a new debate.
func (cc *ChatController) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	if len(req.Message) > cc.maxMessageLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Message exceeds maximum length of %d characters", cc.maxMessageLength)})
		return
	}

	requestID := uuid.NewString()
	log.Printf("[CHAT] request=%s conv=%q messageLen=%d", requestID, req.ConversationID, len(req.Message))

	result, err := cc.orchestrator.HandleTurn(c.Request.Context(), req.ConversationID, req.Message, req.LanguageHint)
	switch {
	case errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Conversation %s not found", req.ConversationID)})
		return
	case errors.Is(err, services.ErrExtraction):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Could not determine a debate position from the message"})
		return
	case err != nil:
		log.Printf("[CHAT] request=%s error=%v", requestID, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Conversation storage temporarily unavailable"})
		return
	}

	log.Printf("[CHAT] request=%s conv=%s turn=%d degraded=%t", requestID, result.ConversationID, result.TurnIndex, result.Degraded)
	c.JSON(http.StatusOK, ChatResponse{
		ConversationID: result.ConversationID,
		Reply:          result.Reply,
		Degraded:       result.Degraded,
		TurnIndex:      result.TurnIndex,
	})
}

// CloseConversation soft-closes a debate; further turns return 404.
func (cc *ChatController) CloseConversation(c *gin.Context) {
	id := c.Param("id")
	if err := cc.store.Close(c.Request.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Conversation %s not found", id)})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Conversation storage temporarily unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversationId": id, "status": "closed"})
}

// Health reports store reachability and the configured provider.
func (cc *ChatController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	storeStatus := "ok"
	if err := cc.store.Ping(ctx); err != nil {
		status = http.StatusServiceUnavailable
		storeStatus = "unreachable"
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "degraded"
	}
	c.JSON(status, gin.H{
		"status":    overall,
		"store":     storeStatus,
		"provider":  cc.providerName,
		"version":   Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Root returns a small service banner.
func (cc *ChatController) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Debate Bot API",
		"version": Version,
		"health":  "/health",
	})
}
