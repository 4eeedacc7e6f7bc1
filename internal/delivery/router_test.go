package delivery_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messaging-service/internal/delivery"
	"messaging-service/internal/mocks"
	"messaging-service/internal/models"
)

func TestPushWrapsMessageInNewMessageEvent(t *testing.T) {
	registry := new(mocks.RegistryMock)
	router := delivery.NewRouter(registry)

	msg := models.Message{ID: "m1", SenderID: "alice", RecipientID: "bob", Variant: "text", Text: "hello"}
	registry.On("Emit", "bob", mock.MatchedBy(func(event models.MessageEvent) bool {
		return event.Type == "newMessage" && event.Message != nil && event.Message.ID == "m1"
	})).Return(true, nil).Once()

	router.Push("bob", msg)
	registry.AssertExpectations(t)
}

func TestNotifyOfflineRecipientIsSilent(t *testing.T) {
	registry := new(mocks.RegistryMock)
	router := delivery.NewRouter(registry)

	registry.On("Emit", "bob", mock.Anything).Return(false, nil).Once()

	require.NotPanics(t, func() {
		router.Notify("bob", models.MessageEvent{Type: "messagesSeen", ConversationID: "c1"})
	})
	registry.AssertExpectations(t)
}

func TestNotifyEmitFailureIsSwallowed(t *testing.T) {
	registry := new(mocks.RegistryMock)
	router := delivery.NewRouter(registry)

	registry.On("Emit", "bob", mock.Anything).Return(false, errors.New("broken pipe")).Once()

	require.NotPanics(t, func() {
		router.Notify("bob", models.MessageEvent{Type: "reaction", MessageID: "m1"})
	})
	registry.AssertExpectations(t)
}
