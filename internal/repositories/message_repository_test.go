package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"messaging-service/internal/models"
)

// Append rejects invalid messages before any SQL runs, so a zero-value
// repo exercises every rejection path.
func TestAppendRejectsInvalidMessages(t *testing.T) {
	repo := &MessageRepo{}
	base := models.Message{ConversationID: "c1", SenderID: "alice", RecipientID: "bob"}

	cases := []struct {
		name   string
		mutate func(*models.Message)
	}{
		{"missing sender", func(m *models.Message) { m.SenderID = "" }},
		{"missing recipient", func(m *models.Message) { m.RecipientID = "" }},
		{"sender is recipient", func(m *models.Message) { m.RecipientID = m.SenderID }},
		{"unknown variant", func(m *models.Message) { m.Variant = "sticker"; m.Text = "hi" }},
		{"text with img", func(m *models.Message) { m.Variant = models.VariantText; m.Text = "hi"; m.Img = "https://cdn/a.jpg" }},
		{"text with payload", func(m *models.Message) { m.Variant = models.VariantText; m.Text = "hi"; m.Payload = "x" }},
		{"image without img", func(m *models.Message) { m.Variant = models.VariantImage }},
		{"image with text", func(m *models.Message) { m.Variant = models.VariantImage; m.Img = "https://cdn/a.jpg"; m.Text = "hi" }},
		{"image with payload", func(m *models.Message) { m.Variant = models.VariantImage; m.Img = "https://cdn/a.jpg"; m.Payload = "x" }},
		{"gif without payload", func(m *models.Message) { m.Variant = models.VariantGif }},
		{"gif with img", func(m *models.Message) { m.Variant = models.VariantGif; m.Payload = "u"; m.Img = "https://cdn/a.gif" }},
		{"gif with text", func(m *models.Message) { m.Variant = models.VariantGif; m.Payload = "u"; m.Text = "hi" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := base
			tc.mutate(&msg)
			_, err := repo.Append(context.Background(), msg)
			require.ErrorIs(t, err, ErrInvalidMessage)
		})
	}
}

func TestValidateAcceptsEachVariant(t *testing.T) {
	cases := []struct {
		name string
		msg  models.Message
	}{
		{"text", models.Message{SenderID: "alice", RecipientID: "bob", Variant: models.VariantText, Text: "hi"}},
		{"image", models.Message{SenderID: "alice", RecipientID: "bob", Variant: models.VariantImage, Img: "https://cdn/a.jpg"}},
		{"gif", models.Message{SenderID: "alice", RecipientID: "bob", Variant: models.VariantGif, Payload: "https://gifs/a.gif"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, validate(tc.msg))
		})
	}
}

func TestEditGuard(t *testing.T) {
	msg := models.Message{ID: "m1", SenderID: "alice", RecipientID: "bob", Variant: models.VariantText, Text: "hello"}

	t.Run("only the sender may edit", func(t *testing.T) {
		require.ErrorIs(t, editGuard(msg, "bob", "new"), ErrNotSender)
		require.ErrorIs(t, editGuard(msg, "mallory", "new"), ErrNotSender)
	})

	t.Run("only text messages are editable", func(t *testing.T) {
		gif := models.Message{ID: "m2", SenderID: "alice", RecipientID: "bob", Variant: models.VariantGif, Payload: "u"}
		require.ErrorIs(t, editGuard(gif, "alice", "new"), ErrInvalidMessage)

		img := models.Message{ID: "m3", SenderID: "alice", RecipientID: "bob", Variant: models.VariantImage, Img: "https://cdn/a.jpg"}
		require.ErrorIs(t, editGuard(img, "alice", "new"), ErrInvalidMessage)
	})

	t.Run("identical text is rejected", func(t *testing.T) {
		require.ErrorIs(t, editGuard(msg, "alice", "hello"), ErrNoChanges)
	})

	t.Run("changed text passes", func(t *testing.T) {
		require.NoError(t, editGuard(msg, "alice", "hello there"))
	})

	t.Run("sender check precedes the no-change check", func(t *testing.T) {
		require.ErrorIs(t, editGuard(msg, "bob", "hello"), ErrNotSender)
	})
}
