package routes

import (
	"debatebot/controllers"

	"github.com/gin-gonic/gin"
)

// SetupChatRoutes registers the chat endpoints. The rate limiter applies to
// the debate endpoints only; health and the banner stay unthrottled.
func SetupChatRoutes(router *gin.Engine, cc *controllers.ChatController, rateLimit gin.HandlerFunc) {
	router.GET("/", cc.Root)
	router.GET("/health", cc.Health)

	chat := router.Group("/")
	chat.Use(rateLimit)
	{
		chat.POST("/chat", cc.Chat)
		chat.POST("/chat/:id/close", cc.CloseConversation)
	}
}
