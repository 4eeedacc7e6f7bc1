package service

import (
	"context"

	"messaging-service/internal/models"
)

// Messaging is the orchestrator surface consumed by the HTTP handlers.
type Messaging interface {
	Send(ctx context.Context, senderID string, in SendInput) (models.Message, error)
	Messages(ctx context.Context, callerID, otherUserID string) ([]models.Message, error)
	Conversations(ctx context.Context, callerID string) ([]models.ConversationSummary, error)
	ToggleReaction(ctx context.Context, callerID, messageID, emoji string) (models.Message, error)
	Edit(ctx context.Context, callerID, messageID, newText string) (models.Message, error)
	MarkSeen(ctx context.Context, callerID, conversationID string) error
}

var _ Messaging = (*MessagingService)(nil)
