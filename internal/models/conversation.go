package models

import "time"

// Conversation represents the durable record of a two-party relationship.
// The participant pair is stored normalized (user1_id < user2_id) so the
// unordered pair maps to exactly one row.
type Conversation struct {
	ID        string         `db:"id" json:"id"`
	User1ID   string         `db:"user1_id" json:"user1_id"`
	User2ID   string         `db:"user2_id" json:"user2_id"`
	Preview   MessagePreview `json:"last_message"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// MessagePreview is the denormalized snapshot of the most recently appended
// message, kept on the conversation row for fast listing. It is a cache,
// never the source of truth for message content.
type MessagePreview struct {
	Text     string `db:"last_message_text" json:"text"`
	SenderID string `db:"last_message_sender_id" json:"sender_id"`
	Seen     bool   `db:"last_message_seen" json:"seen"`
}

// ConversationSummary is the API-facing view of a conversation for one
// caller: the other participant's public profile only.
type ConversationSummary struct {
	ConversationID string         `json:"conversation_id"`
	Participant    Profile        `json:"participant"`
	Preview        MessagePreview `json:"last_message"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Profile is a user's public profile as shown in conversation lists.
type Profile struct {
	UserID    string `db:"user_id" json:"user_id"`
	Username  string `db:"username" json:"username"`
	AvatarURL string `db:"avatar_url" json:"avatar_url"`
}
