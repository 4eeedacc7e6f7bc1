package service

import (
	"context"
	"errors"

	"messaging-service/internal/assets"
	"messaging-service/internal/models"
	"messaging-service/internal/repositories"
)

var ErrMissingRecipient = errors.New("recipient is required")
var ErrSelfMessage = errors.New("cannot message yourself")
var ErrNotParticipant = errors.New("not a conversation participant")

// DeliveryRouter pushes events to online recipients. Implemented by
// delivery.Router; best-effort by contract, so no errors cross this
// boundary.
type DeliveryRouter interface {
	Push(recipientID string, msg models.Message)
	Notify(userID string, event models.MessageEvent)
}

// MessagingService orchestrates the conversation directory, the message
// store, asset resolution and real-time delivery.
type MessagingService struct {
	conversations repositories.ConversationRepository
	messages      repositories.MessageRepository
	resolver      assets.Resolver
	router        DeliveryRouter
}

// NewMessagingService constructs a MessagingService.
func NewMessagingService(conversations repositories.ConversationRepository, messages repositories.MessageRepository, resolver assets.Resolver, router DeliveryRouter) *MessagingService {
	return &MessagingService{
		conversations: conversations,
		messages:      messages,
		resolver:      resolver,
		router:        router,
	}
}

// SendInput is one outbound message request. Exactly one content field is
// meaningful for the chosen variant.
type SendInput struct {
	RecipientID string
	Variant     string
	Text        string
	Img         string
	Payload     string
	ReplyTo     *string
}

// Send appends one message for the sender: find-or-create the conversation,
// resolve variant content, persist, refresh the cached preview, then push
// to the recipient if online. The push happens strictly after persistence,
// so a pull of the log always shows at least what was pushed.
func (s *MessagingService) Send(ctx context.Context, senderID string, in SendInput) (models.Message, error) {
	if in.RecipientID == "" {
		return models.Message{}, ErrMissingRecipient
	}
	if in.RecipientID == senderID {
		return models.Message{}, ErrSelfMessage
	}
	variant := in.Variant
	if variant == "" {
		variant = models.VariantText
	}

	preview := models.MessagePreview{Text: models.PreviewFor(variant, in.Text), SenderID: senderID}
	conv, err := s.conversations.GetOrCreate(ctx, senderID, in.RecipientID, preview)
	if err != nil {
		return models.Message{}, err
	}

	msg := models.Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		RecipientID:    in.RecipientID,
		Variant:        variant,
		ReplyTo:        in.ReplyTo,
	}
	switch variant {
	case models.VariantText:
		msg.Text = in.Text
	case models.VariantGif:
		msg.Payload = in.Payload
	case models.VariantImage:
		// Resolution is awaited before persistence. On failure nothing is
		// appended; a conversation created above stands as a harmless,
		// valid empty conversation.
		url, err := s.resolver.Resolve(ctx, in.Img)
		if err != nil {
			return models.Message{}, err
		}
		msg.Img = url
	}

	stored, err := s.messages.Append(ctx, msg)
	if err != nil {
		return models.Message{}, err
	}

	if err := s.conversations.UpdatePreview(ctx, conv.ID, models.MessagePreview{
		Text:     models.PreviewFor(variant, stored.Text),
		SenderID: senderID,
		Seen:     false,
	}); err != nil {
		// The message itself is durable at this point; the failed send
		// response tells the client to refetch rather than trust its echo.
		return models.Message{}, err
	}

	s.router.Push(in.RecipientID, stored)
	return stored, nil
}

// Messages returns the chronological log of the caller's conversation with
// the other user, oldest first.
func (s *MessagingService) Messages(ctx context.Context, callerID, otherUserID string) ([]models.Message, error) {
	conv, err := s.conversations.FindByParticipants(ctx, callerID, otherUserID)
	if err != nil {
		return nil, err
	}
	return s.messages.ListByConversation(ctx, conv.ID)
}

// Conversations lists the caller's conversations, most recently active
// first.
func (s *MessagingService) Conversations(ctx context.Context, callerID string) ([]models.ConversationSummary, error) {
	return s.conversations.ListForUser(ctx, callerID)
}

// ToggleReaction flips the caller's (emoji) reaction on a message and
// notifies the other party.
func (s *MessagingService) ToggleReaction(ctx context.Context, callerID, messageID, emoji string) (models.Message, error) {
	msg, err := s.messages.ToggleReaction(ctx, messageID, callerID, emoji)
	if err != nil {
		return models.Message{}, err
	}
	s.router.Notify(otherParty(msg, callerID), models.MessageEvent{
		Type:      "reaction",
		MessageID: msg.ID,
		Reactions: msg.Reactions,
	})
	return msg, nil
}

// Edit replaces the text of the caller's own message. The conversation
// preview is left as its append-time snapshot; edits do not rewrite it.
func (s *MessagingService) Edit(ctx context.Context, callerID, messageID, newText string) (models.Message, error) {
	msg, err := s.messages.Edit(ctx, messageID, callerID, newText)
	if err != nil {
		return models.Message{}, err
	}
	s.router.Notify(otherParty(msg, callerID), models.MessageEvent{
		Type:    "messageEdited",
		Message: &msg,
	})
	return msg, nil
}

// MarkSeen records the caller's read receipt for a conversation.
// Idempotent; repeating it changes nothing.
func (s *MessagingService) MarkSeen(ctx context.Context, callerID, conversationID string) error {
	conv, err := s.conversations.Get(ctx, conversationID)
	if err != nil {
		return err
	}
	if conv.User1ID != callerID && conv.User2ID != callerID {
		return ErrNotParticipant
	}
	if err := s.conversations.MarkSeen(ctx, conversationID, callerID); err != nil {
		return err
	}

	other := conv.User1ID
	if other == callerID {
		other = conv.User2ID
	}
	s.router.Notify(other, models.MessageEvent{
		Type:           "messagesSeen",
		ConversationID: conversationID,
	})
	return nil
}

func otherParty(msg models.Message, callerID string) string {
	if msg.SenderID == callerID {
		return msg.RecipientID
	}
	return msg.SenderID
}
