package models

import "time"

// Message variants. Exactly one of Text, Img or Payload is active per
// variant; the others stay empty.
const (
	VariantText  = "text"
	VariantImage = "image"
	VariantGif   = "gif"
)

// GifPreviewText is the fixed preview marker for GIF messages, independent
// of the payload.
const GifPreviewText = "[GIF]"

// Message represents one unit in a conversation's chronological log.
type Message struct {
	ID             string     `db:"id" json:"id"`
	ConversationID string     `db:"conversation_id" json:"conversation_id"`
	SenderID       string     `db:"sender_id" json:"sender_id"`
	RecipientID    string     `db:"recipient_id" json:"recipient_id"`
	Variant        string     `db:"variant" json:"type"`
	Text           string     `db:"text" json:"text,omitempty"`
	Img            string     `db:"img" json:"img,omitempty"`
	Payload        string     `db:"payload" json:"payload,omitempty"`
	ReplyTo        *string    `db:"reply_to" json:"reply_to,omitempty"`
	Reactions      []Reaction `json:"reactions"`
	Edited         bool       `db:"edited" json:"edited"`
	Seen           bool       `db:"seen" json:"seen"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// Reaction is one (user, emoji) pair on a message. A user holds at most one
// reaction per emoji.
type Reaction struct {
	MessageID string `db:"message_id" json:"-"`
	UserID    string `db:"user_id" json:"user_id"`
	Emoji     string `db:"emoji" json:"emoji"`
}

// PreviewFor derives the conversation preview text for a message variant:
// raw text for text messages, empty for images (clients render a thumbnail),
// a fixed marker for GIFs.
func PreviewFor(variant, text string) string {
	switch variant {
	case VariantGif:
		return GifPreviewText
	case VariantImage:
		return ""
	default:
		return text
	}
}

// MessageEvent is emitted over WebSocket connections to the recipient.
type MessageEvent struct {
	Type           string     `json:"type"`
	Message        *Message   `json:"message,omitempty"`
	MessageID      string     `json:"message_id,omitempty"`
	ConversationID string     `json:"conversation_id,omitempty"`
	Reactions      []Reaction `json:"reactions,omitempty"`
}
