package repository

import (
	"context"
	"slices"

	"github.com/oggyb/matchmaker/internal/db"

	"gorm.io/gorm"
)

// MessageRepository provides data access methods for the Message model.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new repository bound to the given DB connection.
func NewMessageRepository(database *gorm.DB) *MessageRepository {
	return &MessageRepository{db: database}
}

// Create persists msg; id and created_at are assigned on insert.
func (r *MessageRepository) Create(ctx context.Context, msg *db.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListRecent returns the latest limit messages of a match in ascending order.
//
// Behavior:
//   - Fetches newest first so the window is the most recent one.
//   - Reverses in memory before returning.
func (r *MessageRepository) ListRecent(ctx context.Context, matchID string, limit int) ([]db.Message, error) {
	var msgs []db.Message
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	slices.Reverse(msgs)
	return msgs, nil
}

// LastMessages returns the newest message per match, keyed by match id.
// Matches without messages are absent from the map.
func (r *MessageRepository) LastMessages(ctx context.Context, matchIDs []string) (map[string]db.Message, error) {
	out := make(map[string]db.Message, len(matchIDs))
	if len(matchIDs) == 0 {
		return out, nil
	}

	latest := r.db.
		Model(&db.Message{}).
		Select("match_id, MAX(created_at) AS created_at").
		Where("match_id IN ?", matchIDs).
		Group("match_id")

	var msgs []db.Message
	err := r.db.WithContext(ctx).
		Table("messages m").
		Select("m.*").
		Joins("JOIN (?) latest ON latest.match_id = m.match_id AND latest.created_at = m.created_at", latest).
		Order("m.id").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}

	for _, m := range msgs {
		// same-timestamp ties: keep the first by id
		if _, seen := out[m.MatchID]; !seen {
			out[m.MatchID] = m
		}
	}
	return out, nil
}
