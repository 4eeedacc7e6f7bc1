package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"messaging-service/internal/models"
)

var ErrConversationNotFound = errors.New("conversation not found")
var ErrSelfConversation = errors.New("cannot converse with self")

// ConversationRepository abstracts conversation persistence.
type ConversationRepository interface {
	FindByParticipants(ctx context.Context, userA, userB string) (models.Conversation, error)
	GetOrCreate(ctx context.Context, userA, userB string, preview models.MessagePreview) (models.Conversation, error)
	Get(ctx context.Context, conversationID string) (models.Conversation, error)
	UpdatePreview(ctx context.Context, conversationID string, preview models.MessagePreview) error
	ListForUser(ctx context.Context, userID string) ([]models.ConversationSummary, error)
	MarkSeen(ctx context.Context, conversationID, readerID string) error
}

// ConversationRepo is a sqlx implementation of ConversationRepository.
type ConversationRepo struct {
	db *sqlx.DB
}

// NewConversationRepo constructs a ConversationRepo.
func NewConversationRepo(db *sqlx.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

// normalizePair orders the unordered participant pair so {A,B} and {B,A}
// map to the same row.
func normalizePair(userA, userB string) (string, string) {
	if userB < userA {
		return userB, userA
	}
	return userA, userB
}

const conversationColumns = `id, user1_id, user2_id, last_message_text, last_message_sender_id, last_message_seen, created_at, updated_at`

// FindByParticipants looks up the conversation for a pair, order-independent.
func (r *ConversationRepo) FindByParticipants(ctx context.Context, userA, userB string) (models.Conversation, error) {
	user1, user2 := normalizePair(userA, userB)
	var conv models.Conversation
	err := r.db.QueryRowxContext(ctx, `SELECT `+conversationColumns+` FROM conversations WHERE user1_id=$1 AND user2_id=$2`, user1, user2).
		Scan(&conv.ID, &conv.User1ID, &conv.User2ID, &conv.Preview.Text, &conv.Preview.SenderID, &conv.Preview.Seen, &conv.CreatedAt, &conv.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, ErrConversationNotFound
	}
	return conv, err
}

// GetOrCreate returns the conversation for a pair, creating it if absent.
// Creation is serialized by the UNIQUE(user1_id, user2_id) constraint:
// a losing insert under concurrency falls back to the winner's row, so at
// most one conversation ever exists per pair.
func (r *ConversationRepo) GetOrCreate(ctx context.Context, userA, userB string, preview models.MessagePreview) (models.Conversation, error) {
	if userA == userB {
		return models.Conversation{}, ErrSelfConversation
	}
	user1, user2 := normalizePair(userA, userB)

	var conv models.Conversation
	err := r.db.QueryRowxContext(ctx, `INSERT INTO conversations (id, user1_id, user2_id, last_message_text, last_message_sender_id, last_message_seen)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (user1_id, user2_id) DO NOTHING
        RETURNING `+conversationColumns,
		uuid.NewString(), user1, user2, preview.Text, preview.SenderID, preview.Seen).
		Scan(&conv.ID, &conv.User1ID, &conv.User2ID, &conv.Preview.Text, &conv.Preview.SenderID, &conv.Preview.Seen, &conv.CreatedAt, &conv.UpdatedAt)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, err
	}
	// Conflict: another request created the row first. Read it back.
	return r.FindByParticipants(ctx, user1, user2)
}

// Get fetches a conversation by id.
func (r *ConversationRepo) Get(ctx context.Context, conversationID string) (models.Conversation, error) {
	var conv models.Conversation
	err := r.db.QueryRowxContext(ctx, `SELECT `+conversationColumns+` FROM conversations WHERE id=$1`, conversationID).
		Scan(&conv.ID, &conv.User1ID, &conv.User2ID, &conv.Preview.Text, &conv.Preview.SenderID, &conv.Preview.Seen, &conv.CreatedAt, &conv.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, ErrConversationNotFound
	}
	return conv, err
}

// UpdatePreview overwrites the cached last-message snapshot and bumps
// updated_at. Last-writer-wins across concurrent appends.
func (r *ConversationRepo) UpdatePreview(ctx context.Context, conversationID string, preview models.MessagePreview) error {
	res, err := r.db.ExecContext(ctx, `UPDATE conversations
        SET last_message_text=$2, last_message_sender_id=$3, last_message_seen=$4, updated_at=NOW()
        WHERE id=$1`, conversationID, preview.Text, preview.SenderID, preview.Seen)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrConversationNotFound
	}
	return nil
}

// ListForUser returns the caller's conversations ordered by recent activity,
// exposing only the other participant's public profile.
func (r *ConversationRepo) ListForUser(ctx context.Context, userID string) ([]models.ConversationSummary, error) {
	query := `SELECT c.id, c.user1_id, c.user2_id, c.last_message_text, c.last_message_sender_id, c.last_message_seen,
            c.created_at, c.updated_at, COALESCE(p.username, '') AS username, COALESCE(p.avatar_url, '') AS avatar_url
        FROM conversations c
        LEFT JOIN profiles p ON p.user_id = CASE WHEN c.user1_id=$1 THEN c.user2_id ELSE c.user1_id END
        WHERE c.user1_id=$1 OR c.user2_id=$1
        ORDER BY c.updated_at DESC`
	rows, err := r.db.QueryxContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.ConversationSummary
	for rows.Next() {
		var conv models.Conversation
		var username, avatarURL string
		if err := rows.Scan(&conv.ID, &conv.User1ID, &conv.User2ID, &conv.Preview.Text, &conv.Preview.SenderID, &conv.Preview.Seen,
			&conv.CreatedAt, &conv.UpdatedAt, &username, &avatarURL); err != nil {
			return nil, err
		}
		otherID := conv.User1ID
		if otherID == userID {
			otherID = conv.User2ID
		}
		result = append(result, models.ConversationSummary{
			ConversationID: conv.ID,
			Participant:    models.Profile{UserID: otherID, Username: username, AvatarURL: avatarURL},
			Preview:        conv.Preview,
			CreatedAt:      conv.CreatedAt,
			UpdatedAt:      conv.UpdatedAt,
		})
	}
	return result, rows.Err()
}

// MarkSeen flags messages addressed to the reader as seen and flips the
// cached preview when the latest message came from the other party.
// Idempotent: repeating it is a no-op.
func (r *ConversationRepo) MarkSeen(ctx context.Context, conversationID, readerID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE conversations
        SET last_message_seen = TRUE
        WHERE id=$1 AND (user1_id=$2 OR user2_id=$2) AND last_message_sender_id <> $2`, conversationID, readerID)
	if err != nil {
		return err
	}
	if _, err := res.RowsAffected(); err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `UPDATE messages SET seen = TRUE
        WHERE conversation_id=$1 AND recipient_id=$2 AND seen = FALSE`, conversationID, readerID)
	return err
}
