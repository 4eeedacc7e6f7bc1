package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"messaging-service/internal/models"
	"messaging-service/internal/service"
)

// ConversationHandler manages conversation endpoints.
type ConversationHandler struct {
	svc service.Messaging
}

// NewConversationHandler builds a ConversationHandler.
func NewConversationHandler(svc service.Messaging) *ConversationHandler {
	return &ConversationHandler{svc: svc}
}

// ListConversations returns the caller's conversations, most recently
// active first, each exposing only the other participant's public profile.
func (h *ConversationHandler) ListConversations(c *gin.Context) {
	callerID := c.GetString("userID")

	conversations, err := h.svc.Conversations(c.Request.Context(), callerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load conversations"})
		return
	}
	if conversations == nil {
		conversations = []models.ConversationSummary{}
	}

	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

// MarkSeen records the caller's read receipt for a conversation.
func (h *ConversationHandler) MarkSeen(c *gin.Context) {
	callerID := c.GetString("userID")

	if err := h.svc.MarkSeen(c.Request.Context(), callerID, c.Param("conversation_id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
