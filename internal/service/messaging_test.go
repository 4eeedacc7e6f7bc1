package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messaging-service/internal/mocks"
	"messaging-service/internal/models"
	"messaging-service/internal/repositories"
	"messaging-service/internal/service"
)

func newService() (*service.MessagingService, *mocks.ConversationRepositoryMock, *mocks.MessageRepositoryMock, *mocks.ResolverMock, *mocks.RouterMock) {
	conversations := new(mocks.ConversationRepositoryMock)
	messages := new(mocks.MessageRepositoryMock)
	resolver := new(mocks.ResolverMock)
	router := new(mocks.RouterMock)
	svc := service.NewMessagingService(conversations, messages, resolver, router)
	return svc, conversations, messages, resolver, router
}

func TestSendTextFirstContact(t *testing.T) {
	svc, conversations, messages, _, router := newService()
	ctx := context.Background()

	conv := models.Conversation{ID: "c1", User1ID: "alice", User2ID: "bob"}
	preview := models.MessagePreview{Text: "hello", SenderID: "alice"}
	stored := models.Message{ID: "m1", ConversationID: "c1", SenderID: "alice", RecipientID: "bob", Variant: models.VariantText, Text: "hello"}

	conversations.On("GetOrCreate", mock.Anything, "alice", "bob", preview).Return(conv, nil).Once()
	messages.On("Append", mock.Anything, mock.MatchedBy(func(m models.Message) bool {
		return m.ConversationID == "c1" && m.SenderID == "alice" && m.RecipientID == "bob" &&
			m.Variant == models.VariantText && m.Text == "hello" && m.Img == "" && m.Payload == ""
	})).Return(stored, nil).Once()
	conversations.On("UpdatePreview", mock.Anything, "c1", models.MessagePreview{Text: "hello", SenderID: "alice", Seen: false}).Return(nil).Once()
	router.On("Push", "bob", stored).Once()

	msg, err := svc.Send(ctx, "alice", service.SendInput{RecipientID: "bob", Variant: models.VariantText, Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, stored, msg)

	conversations.AssertExpectations(t)
	messages.AssertExpectations(t)
	router.AssertExpectations(t)
}

func TestSendDefaultsToTextVariant(t *testing.T) {
	svc, conversations, messages, _, router := newService()

	conv := models.Conversation{ID: "c1"}
	conversations.On("GetOrCreate", mock.Anything, "alice", "bob", mock.Anything).Return(conv, nil).Once()
	messages.On("Append", mock.Anything, mock.MatchedBy(func(m models.Message) bool {
		return m.Variant == models.VariantText
	})).Return(models.Message{ID: "m1", SenderID: "alice", RecipientID: "bob"}, nil).Once()
	conversations.On("UpdatePreview", mock.Anything, "c1", mock.Anything).Return(nil).Once()
	router.On("Push", "bob", mock.Anything).Once()

	_, err := svc.Send(context.Background(), "alice", service.SendInput{RecipientID: "bob", Text: "hi"})
	require.NoError(t, err)
	messages.AssertExpectations(t)
}

func TestSendGifPreviewIsPlaceholder(t *testing.T) {
	svc, conversations, messages, _, router := newService()

	expectedPreview := models.MessagePreview{Text: models.GifPreviewText, SenderID: "alice"}
	conv := models.Conversation{ID: "c1"}
	stored := models.Message{ID: "m1", ConversationID: "c1", SenderID: "alice", RecipientID: "bob", Variant: models.VariantGif, Payload: "https://gifs.example/dance.gif"}

	conversations.On("GetOrCreate", mock.Anything, "alice", "bob", expectedPreview).Return(conv, nil).Once()
	messages.On("Append", mock.Anything, mock.MatchedBy(func(m models.Message) bool {
		return m.Variant == models.VariantGif && m.Payload == "https://gifs.example/dance.gif" && m.Text == ""
	})).Return(stored, nil).Once()
	conversations.On("UpdatePreview", mock.Anything, "c1", models.MessagePreview{Text: models.GifPreviewText, SenderID: "alice", Seen: false}).Return(nil).Once()
	router.On("Push", "bob", stored).Once()

	_, err := svc.Send(context.Background(), "alice", service.SendInput{RecipientID: "bob", Variant: models.VariantGif, Payload: "https://gifs.example/dance.gif"})
	require.NoError(t, err)

	conversations.AssertExpectations(t)
}

func TestSendImageResolvesBeforePersist(t *testing.T) {
	svc, conversations, messages, resolver, router := newService()

	conv := models.Conversation{ID: "c1"}
	stored := models.Message{ID: "m1", ConversationID: "c1", SenderID: "alice", RecipientID: "bob", Variant: models.VariantImage, Img: "https://cdn.example/a.jpg"}

	conversations.On("GetOrCreate", mock.Anything, "alice", "bob", models.MessagePreview{SenderID: "alice"}).Return(conv, nil).Once()
	resolver.On("Resolve", mock.Anything, "data:image/jpeg;base64,xxx").Return("https://cdn.example/a.jpg", nil).Once()
	messages.On("Append", mock.Anything, mock.MatchedBy(func(m models.Message) bool {
		return m.Variant == models.VariantImage && m.Img == "https://cdn.example/a.jpg"
	})).Return(stored, nil).Once()
	conversations.On("UpdatePreview", mock.Anything, "c1", models.MessagePreview{Text: "", SenderID: "alice", Seen: false}).Return(nil).Once()
	router.On("Push", "bob", stored).Once()

	_, err := svc.Send(context.Background(), "alice", service.SendInput{RecipientID: "bob", Variant: models.VariantImage, Img: "data:image/jpeg;base64,xxx"})
	require.NoError(t, err)

	resolver.AssertExpectations(t)
	messages.AssertExpectations(t)
}

func TestSendImageResolutionFailureAbortsAppend(t *testing.T) {
	svc, conversations, messages, resolver, router := newService()

	conversations.On("GetOrCreate", mock.Anything, "alice", "bob", mock.Anything).Return(models.Conversation{ID: "c1"}, nil).Once()
	resolver.On("Resolve", mock.Anything, "broken").Return("", assert.AnError).Once()

	_, err := svc.Send(context.Background(), "alice", service.SendInput{RecipientID: "bob", Variant: models.VariantImage, Img: "broken"})
	require.Error(t, err)

	messages.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	conversations.AssertNotCalled(t, "UpdatePreview", mock.Anything, mock.Anything, mock.Anything)
	router.AssertNotCalled(t, "Push", mock.Anything, mock.Anything)
}

func TestSendMissingRecipient(t *testing.T) {
	svc, conversations, _, _, _ := newService()

	_, err := svc.Send(context.Background(), "alice", service.SendInput{Text: "hi"})
	require.ErrorIs(t, err, service.ErrMissingRecipient)
	conversations.AssertNotCalled(t, "GetOrCreate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSendToSelf(t *testing.T) {
	svc, conversations, _, _, _ := newService()

	_, err := svc.Send(context.Background(), "alice", service.SendInput{RecipientID: "alice", Text: "hi"})
	require.ErrorIs(t, err, service.ErrSelfMessage)
	conversations.AssertNotCalled(t, "GetOrCreate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSendDeliveryNeverFailsTheSend(t *testing.T) {
	// Push has no error return by contract; this pins the call ordering:
	// push strictly after persistence and preview update.
	svc, conversations, messages, _, router := newService()

	var order []string
	conversations.On("GetOrCreate", mock.Anything, "alice", "bob", mock.Anything).
		Run(func(mock.Arguments) { order = append(order, "getOrCreate") }).
		Return(models.Conversation{ID: "c1"}, nil).Once()
	messages.On("Append", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { order = append(order, "append") }).
		Return(models.Message{ID: "m1", SenderID: "alice", RecipientID: "bob"}, nil).Once()
	conversations.On("UpdatePreview", mock.Anything, "c1", mock.Anything).
		Run(func(mock.Arguments) { order = append(order, "updatePreview") }).
		Return(nil).Once()
	router.On("Push", "bob", mock.Anything).
		Run(func(mock.Arguments) { order = append(order, "push") }).Once()

	_, err := svc.Send(context.Background(), "alice", service.SendInput{RecipientID: "bob", Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, []string{"getOrCreate", "append", "updatePreview", "push"}, order)
}

func TestMessagesConversationNotFound(t *testing.T) {
	svc, conversations, messages, _, _ := newService()

	conversations.On("FindByParticipants", mock.Anything, "alice", "bob").Return(models.Conversation{}, repositories.ErrConversationNotFound).Once()

	_, err := svc.Messages(context.Background(), "alice", "bob")
	require.ErrorIs(t, err, repositories.ErrConversationNotFound)
	messages.AssertNotCalled(t, "ListByConversation", mock.Anything, mock.Anything)
}

func TestToggleReactionNotifiesOtherParty(t *testing.T) {
	svc, _, messages, _, router := newService()

	msg := models.Message{ID: "m1", SenderID: "alice", RecipientID: "bob", Reactions: []models.Reaction{{MessageID: "m1", UserID: "alice", Emoji: "🔥"}}}
	messages.On("ToggleReaction", mock.Anything, "m1", "alice", "🔥").Return(msg, nil).Once()
	router.On("Notify", "bob", models.MessageEvent{Type: "reaction", MessageID: "m1", Reactions: msg.Reactions}).Once()

	got, err := svc.ToggleReaction(context.Background(), "alice", "m1", "🔥")
	require.NoError(t, err)
	assert.Equal(t, msg, got)
	router.AssertExpectations(t)
}

func TestToggleReactionByRecipientNotifiesSender(t *testing.T) {
	svc, _, messages, _, router := newService()

	msg := models.Message{ID: "m1", SenderID: "alice", RecipientID: "bob"}
	messages.On("ToggleReaction", mock.Anything, "m1", "bob", "❤️").Return(msg, nil).Once()
	router.On("Notify", "alice", mock.Anything).Once()

	_, err := svc.ToggleReaction(context.Background(), "bob", "m1", "❤️")
	require.NoError(t, err)
	router.AssertExpectations(t)
}

func TestEditPropagatesRepositoryErrors(t *testing.T) {
	svc, _, messages, _, router := newService()

	messages.On("Edit", mock.Anything, "m1", "mallory", "new").Return(models.Message{}, repositories.ErrNotSender).Once()

	_, err := svc.Edit(context.Background(), "mallory", "m1", "new")
	require.ErrorIs(t, err, repositories.ErrNotSender)
	router.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestEditNotifiesOtherParty(t *testing.T) {
	svc, _, messages, _, router := newService()

	msg := models.Message{ID: "m1", SenderID: "alice", RecipientID: "bob", Text: "new", Edited: true}
	messages.On("Edit", mock.Anything, "m1", "alice", "new").Return(msg, nil).Once()
	router.On("Notify", "bob", models.MessageEvent{Type: "messageEdited", Message: &msg}).Once()

	got, err := svc.Edit(context.Background(), "alice", "m1", "new")
	require.NoError(t, err)
	assert.True(t, got.Edited)
	router.AssertExpectations(t)
}

func TestMarkSeenRequiresParticipation(t *testing.T) {
	svc, conversations, _, _, _ := newService()

	conversations.On("Get", mock.Anything, "c1").Return(models.Conversation{ID: "c1", User1ID: "alice", User2ID: "bob"}, nil).Once()

	err := svc.MarkSeen(context.Background(), "mallory", "c1")
	require.ErrorIs(t, err, service.ErrNotParticipant)
	conversations.AssertNotCalled(t, "MarkSeen", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkSeenNotifiesOtherParticipant(t *testing.T) {
	svc, conversations, _, _, router := newService()

	conversations.On("Get", mock.Anything, "c1").Return(models.Conversation{ID: "c1", User1ID: "alice", User2ID: "bob"}, nil).Once()
	conversations.On("MarkSeen", mock.Anything, "c1", "bob").Return(nil).Once()
	router.On("Notify", "alice", models.MessageEvent{Type: "messagesSeen", ConversationID: "c1"}).Once()

	err := svc.MarkSeen(context.Background(), "bob", "c1")
	require.NoError(t, err)
	conversations.AssertExpectations(t)
	router.AssertExpectations(t)
}
