package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"messaging-service/internal/assets"
	"messaging-service/internal/delivery"
	"messaging-service/internal/models"
	"messaging-service/internal/repositories"
	"messaging-service/internal/service"
)

type ConversationRepositoryMock struct {
	mock.Mock
}

func (m *ConversationRepositoryMock) FindByParticipants(ctx context.Context, userA, userB string) (models.Conversation, error) {
	args := m.Called(ctx, userA, userB)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) GetOrCreate(ctx context.Context, userA, userB string, preview models.MessagePreview) (models.Conversation, error) {
	args := m.Called(ctx, userA, userB, preview)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) Get(ctx context.Context, conversationID string) (models.Conversation, error) {
	args := m.Called(ctx, conversationID)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) UpdatePreview(ctx context.Context, conversationID string, preview models.MessagePreview) error {
	args := m.Called(ctx, conversationID, preview)
	return args.Error(0)
}

func (m *ConversationRepositoryMock) ListForUser(ctx context.Context, userID string) ([]models.ConversationSummary, error) {
	args := m.Called(ctx, userID)
	var list []models.ConversationSummary
	if val := args.Get(0); val != nil {
		list = val.([]models.ConversationSummary)
	}
	return list, args.Error(1)
}

func (m *ConversationRepositoryMock) MarkSeen(ctx context.Context, conversationID, readerID string) error {
	args := m.Called(ctx, conversationID, readerID)
	return args.Error(0)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) Append(ctx context.Context, msg models.Message) (models.Message, error) {
	args := m.Called(ctx, msg)
	var stored models.Message
	if val := args.Get(0); val != nil {
		stored = val.(models.Message)
	}
	return stored, args.Error(1)
}

func (m *MessageRepositoryMock) ListByConversation(ctx context.Context, conversationID string) ([]models.Message, error) {
	args := m.Called(ctx, conversationID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) Find(ctx context.Context, messageID string) (models.Message, error) {
	args := m.Called(ctx, messageID)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ToggleReaction(ctx context.Context, messageID, userID, emoji string) (models.Message, error) {
	args := m.Called(ctx, messageID, userID, emoji)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) Edit(ctx context.Context, messageID, editorID, newText string) (models.Message, error) {
	args := m.Called(ctx, messageID, editorID, newText)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

type ResolverMock struct {
	mock.Mock
}

func (m *ResolverMock) Resolve(ctx context.Context, raw string) (string, error) {
	args := m.Called(ctx, raw)
	return args.String(0), args.Error(1)
}

type RouterMock struct {
	mock.Mock
}

func (m *RouterMock) Push(recipientID string, msg models.Message) {
	m.Called(recipientID, msg)
}

func (m *RouterMock) Notify(userID string, event models.MessageEvent) {
	m.Called(userID, event)
}

type RegistryMock struct {
	mock.Mock
}

func (m *RegistryMock) Emit(userID string, event models.MessageEvent) (bool, error) {
	args := m.Called(userID, event)
	return args.Bool(0), args.Error(1)
}

type MessagingMock struct {
	mock.Mock
}

func (m *MessagingMock) Send(ctx context.Context, senderID string, in service.SendInput) (models.Message, error) {
	args := m.Called(ctx, senderID, in)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessagingMock) Messages(ctx context.Context, callerID, otherUserID string) ([]models.Message, error) {
	args := m.Called(ctx, callerID, otherUserID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessagingMock) Conversations(ctx context.Context, callerID string) ([]models.ConversationSummary, error) {
	args := m.Called(ctx, callerID)
	var list []models.ConversationSummary
	if val := args.Get(0); val != nil {
		list = val.([]models.ConversationSummary)
	}
	return list, args.Error(1)
}

func (m *MessagingMock) ToggleReaction(ctx context.Context, callerID, messageID, emoji string) (models.Message, error) {
	args := m.Called(ctx, callerID, messageID, emoji)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessagingMock) Edit(ctx context.Context, callerID, messageID, newText string) (models.Message, error) {
	args := m.Called(ctx, callerID, messageID, newText)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessagingMock) MarkSeen(ctx context.Context, callerID, conversationID string) error {
	args := m.Called(ctx, callerID, conversationID)
	return args.Error(0)
}

var _ repositories.ConversationRepository = (*ConversationRepositoryMock)(nil)
var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
var _ assets.Resolver = (*ResolverMock)(nil)
var _ service.DeliveryRouter = (*RouterMock)(nil)
var _ delivery.Registry = (*RegistryMock)(nil)
var _ service.Messaging = (*MessagingMock)(nil)
