package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"messaging-service/internal/assets"
	"messaging-service/internal/repositories"
	"messaging-service/internal/service"
	"messaging-service/internal/telemetry"
)

// MessageHandler manages message endpoints.
type MessageHandler struct {
	svc   service.Messaging
	audit *telemetry.AuditEmitter
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(svc service.Messaging, audit *telemetry.AuditEmitter) *MessageHandler {
	return &MessageHandler{svc: svc, audit: audit}
}

// SendMessage appends a message to the caller's conversation with the
// recipient, creating the conversation on first contact.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req struct {
		RecipientID string  `json:"recipient_id"`
		Type        string  `json:"type"`
		Text        string  `json:"text"`
		Img         string  `json:"img"`
		Payload     string  `json:"payload"`
		ReplyTo     *string `json:"reply_to"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	callerID := c.GetString("userID")
	msg, err := h.svc.Send(c.Request.Context(), callerID, service.SendInput{
		RecipientID: req.RecipientID,
		Variant:     req.Type,
		Text:        req.Text,
		Img:         req.Img,
		Payload:     req.Payload,
		ReplyTo:     req.ReplyTo,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit.Emit(c.Request.Context(), "info",
		fmt.Sprintf("message sent conversation=%s variant=%s", msg.ConversationID, msg.Variant),
		requestIDFromContext(c), userIDFromContext(c))
	c.JSON(http.StatusCreated, msg)
}

// GetMessages returns the chronological log of the caller's conversation
// with the other user.
func (h *MessageHandler) GetMessages(c *gin.Context) {
	otherUserID := c.Param("other_user_id")
	callerID := c.GetString("userID")

	msgs, err := h.svc.Messages(c.Request.Context(), callerID, otherUserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// ToggleReaction flips the caller's emoji reaction on a message.
func (h *MessageHandler) ToggleReaction(c *gin.Context) {
	var req struct {
		Emoji string `json:"emoji" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	callerID := c.GetString("userID")
	msg, err := h.svc.ToggleReaction(c.Request.Context(), callerID, c.Param("message_id"), req.Emoji)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, msg)
}

// EditMessage rewrites the text of the caller's own message.
func (h *MessageHandler) EditMessage(c *gin.Context) {
	var req struct {
		NewText string `json:"new_text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	callerID := c.GetString("userID")
	msg, err := h.svc.Edit(c.Request.Context(), callerID, c.Param("message_id"), req.NewText)
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit.Emit(c.Request.Context(), "info",
		fmt.Sprintf("message edited id=%s", msg.ID),
		requestIDFromContext(c), userIDFromContext(c))
	c.JSON(http.StatusOK, msg)
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repositories.ErrConversationNotFound),
		errors.Is(err, repositories.ErrMessageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, repositories.ErrInvalidMessage),
		errors.Is(err, repositories.ErrNoChanges),
		errors.Is(err, repositories.ErrSelfConversation),
		errors.Is(err, service.ErrMissingRecipient),
		errors.Is(err, service.ErrSelfMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repositories.ErrNotSender),
		errors.Is(err, service.ErrNotParticipant):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, assets.ErrUploadFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
