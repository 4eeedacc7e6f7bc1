package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"messaging-service/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")
var ErrInvalidMessage = errors.New("invalid message")
var ErrNotSender = errors.New("only the sender may edit a message")
var ErrNoChanges = errors.New("no changes detected")

// MessageRepository defines the append-only, mutable-in-place message log.
type MessageRepository interface {
	Append(ctx context.Context, msg models.Message) (models.Message, error)
	ListByConversation(ctx context.Context, conversationID string) ([]models.Message, error)
	Find(ctx context.Context, messageID string) (models.Message, error)
	ToggleReaction(ctx context.Context, messageID, userID, emoji string) (models.Message, error)
	Edit(ctx context.Context, messageID, editorID, newText string) (models.Message, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

const messageColumns = `id, conversation_id, sender_id, recipient_id, variant, text, img, payload, reply_to, edited, seen, created_at`

// validate rejects variant/content mismatches before anything hits storage.
func validate(msg models.Message) error {
	if msg.SenderID == "" || msg.RecipientID == "" || msg.SenderID == msg.RecipientID {
		return ErrInvalidMessage
	}
	switch msg.Variant {
	case models.VariantText:
		if msg.Img != "" || msg.Payload != "" {
			return ErrInvalidMessage
		}
	case models.VariantImage:
		if msg.Img == "" || msg.Text != "" || msg.Payload != "" {
			return ErrInvalidMessage
		}
	case models.VariantGif:
		if msg.Payload == "" || msg.Img != "" || msg.Text != "" {
			return ErrInvalidMessage
		}
	default:
		return ErrInvalidMessage
	}
	return nil
}

// Append persists a new message, assigning its id and creation timestamp.
func (r *MessageRepo) Append(ctx context.Context, msg models.Message) (models.Message, error) {
	if err := validate(msg); err != nil {
		return models.Message{}, err
	}

	var stored models.Message
	err := r.db.QueryRowxContext(ctx, `INSERT INTO messages (id, conversation_id, sender_id, recipient_id, variant, text, img, payload, reply_to)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING `+messageColumns,
		uuid.NewString(), msg.ConversationID, msg.SenderID, msg.RecipientID, msg.Variant, msg.Text, msg.Img, msg.Payload, msg.ReplyTo).
		Scan(&stored.ID, &stored.ConversationID, &stored.SenderID, &stored.RecipientID, &stored.Variant,
			&stored.Text, &stored.Img, &stored.Payload, &stored.ReplyTo, &stored.Edited, &stored.Seen, &stored.CreatedAt)
	if err != nil {
		return models.Message{}, err
	}
	stored.Reactions = []models.Reaction{}
	return stored, nil
}

// ListByConversation returns the canonical chronological view, oldest first.
// The id tiebreaker keeps the order stable across repeated calls.
func (r *MessageRepo) ListByConversation(ctx context.Context, conversationID string) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs, `SELECT `+messageColumns+` FROM messages
        WHERE conversation_id=$1
        ORDER BY created_at ASC, id ASC`, conversationID)
	if err != nil {
		return nil, err
	}
	if err := r.attachReactions(ctx, msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// Find retrieves a single message with its reactions.
func (r *MessageRepo) Find(ctx context.Context, messageID string) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg, `SELECT `+messageColumns+` FROM messages WHERE id=$1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	if err != nil {
		return models.Message{}, err
	}
	reactions, err := r.reactionsFor(ctx, messageID)
	if err != nil {
		return models.Message{}, err
	}
	msg.Reactions = reactions
	return msg, nil
}

// ToggleReaction flips the (user, emoji) pair on a message: present pairs
// are removed, absent ones added. The composite primary key on
// message_reactions makes duplicates impossible, so repeated toggles
// converge on call parity.
func (r *MessageRepo) ToggleReaction(ctx context.Context, messageID, userID, emoji string) (models.Message, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM messages WHERE id=$1)`, messageID); err != nil {
		return models.Message{}, err
	}
	if !exists {
		return models.Message{}, ErrMessageNotFound
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM message_reactions WHERE message_id=$1 AND user_id=$2 AND emoji=$3`,
		messageID, userID, emoji)
	if err != nil {
		return models.Message{}, err
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return models.Message{}, err
	}
	if deleted == 0 {
		if _, err := r.db.ExecContext(ctx, `INSERT INTO message_reactions (message_id, user_id, emoji) VALUES ($1, $2, $3)
            ON CONFLICT (message_id, user_id, emoji) DO NOTHING`, messageID, userID, emoji); err != nil {
			return models.Message{}, err
		}
	}
	return r.Find(ctx, messageID)
}

// Edit replaces the text of a sender's own text message and marks it edited.
// The edited flag never reverts, including across repeat edits.
func (r *MessageRepo) Edit(ctx context.Context, messageID, editorID, newText string) (models.Message, error) {
	msg, err := r.Find(ctx, messageID)
	if err != nil {
		return models.Message{}, err
	}
	if err := editGuard(msg, editorID, newText); err != nil {
		return models.Message{}, err
	}

	res, err := r.db.ExecContext(ctx, `UPDATE messages SET text=$2, edited=TRUE WHERE id=$1 AND sender_id=$3`,
		messageID, newText, editorID)
	if err != nil {
		return models.Message{}, err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return models.Message{}, err
	}
	if count == 0 {
		return models.Message{}, ErrMessageNotFound
	}
	return r.Find(ctx, messageID)
}

// editGuard rejects edits before anything touches storage: only the sender
// may edit, only text messages are editable, and identical text is a no-op
// the caller must hear about.
func editGuard(msg models.Message, editorID, newText string) error {
	if msg.SenderID != editorID {
		return ErrNotSender
	}
	if msg.Variant != models.VariantText {
		return ErrInvalidMessage
	}
	if msg.Text == newText {
		return ErrNoChanges
	}
	return nil
}

func (r *MessageRepo) reactionsFor(ctx context.Context, messageID string) ([]models.Reaction, error) {
	reactions := []models.Reaction{}
	err := r.db.SelectContext(ctx, &reactions, `SELECT message_id, user_id, emoji FROM message_reactions
        WHERE message_id=$1 ORDER BY user_id, emoji`, messageID)
	return reactions, err
}

func (r *MessageRepo) attachReactions(ctx context.Context, msgs []models.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(msgs))
	for _, m := range msgs {
		ids = append(ids, m.ID)
	}
	query, args, err := sqlx.In(`SELECT message_id, user_id, emoji FROM message_reactions
        WHERE message_id IN (?) ORDER BY user_id, emoji`, ids)
	if err != nil {
		return err
	}
	var reactions []models.Reaction
	if err := r.db.SelectContext(ctx, &reactions, r.db.Rebind(query), args...); err != nil {
		return err
	}
	byMessage := map[string][]models.Reaction{}
	for _, reaction := range reactions {
		byMessage[reaction.MessageID] = append(byMessage[reaction.MessageID], reaction)
	}
	for i := range msgs {
		msgs[i].Reactions = byMessage[msgs[i].ID]
		if msgs[i].Reactions == nil {
			msgs[i].Reactions = []models.Reaction{}
		}
	}
	return nil
}
