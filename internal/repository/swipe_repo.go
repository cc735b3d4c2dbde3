package repository

import (
	"context"
	"time"

	"github.com/oggyb/matchmaker/internal/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SwipeRepository provides data access methods for the Swipe model.
// It encapsulates all queries related to likes/dislikes between users.
type SwipeRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSwipeRepository creates a new repository bound to the given DB connection.
func NewSwipeRepository(database *gorm.DB) *SwipeRepository {
	return &SwipeRepository{db: database, now: database.NowFunc}
}

// Upsert records a swipe made by from -> to.
//
// Behavior:
//   - If (from_user_id, to_user_id) pair exists → direction is overwritten and
//     created_at reset to now.
//   - If it doesn’t exist → a new row is inserted.
//   - Composite PK ensures one row per ordered pair.
//
// Example:
//
//	repo.Upsert(ctx, a, b, db.DirectionLike) // user a liked user b
func (r *SwipeRepository) Upsert(
	ctx context.Context,
	fromUserID, toUserID string,
	direction db.Direction,
) error {
	swipe := db.Swipe{
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Direction:  direction,
		CreatedAt:  r.now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "from_user_id"}, {Name: "to_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"direction", "created_at"}),
		}).
		Create(&swipe).Error
}

// Get returns the swipe for the ordered pair, or gorm.ErrRecordNotFound.
func (r *SwipeRepository) Get(ctx context.Context, fromUserID, toUserID string) (*db.Swipe, error) {
	var s db.Swipe
	err := r.db.WithContext(ctx).
		Where("from_user_id = ? AND to_user_id = ?", fromUserID, toUserID).
		Take(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// HasPositiveSwipe checks whether from has liked or superliked to.
//
// Example:
//
//	repo.HasPositiveSwipe(ctx, b, a) // -> true if b liked a back
func (r *SwipeRepository) HasPositiveSwipe(
	ctx context.Context,
	fromUserID, toUserID string,
) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Swipe{}).
		Where("from_user_id = ? AND to_user_id = ? AND direction IN ?", fromUserID, toUserID, db.PositiveDirections).
		Count(&count).Error
	return count > 0, err
}

// ListLikers returns the profiles of users whose swipe toward userID is positive.
//
// Behavior:
//   - Ordered by swipe created_at DESC, then user id DESC.
//   - Swipers without a live profile are skipped.
//   - Active photos are preloaded in display order.
//
// Example:
//
//	repo.ListLikers(ctx, me) // everyone who liked me, newest first
func (r *SwipeRepository) ListLikers(ctx context.Context, userID string) ([]db.Profile, error) {
	var profiles []db.Profile
	err := r.db.WithContext(ctx).
		Joins("JOIN swipes s ON s.from_user_id = profiles.user_id").
		Where("s.to_user_id = ? AND s.direction IN ?", userID, db.PositiveDirections).
		Order("s.created_at DESC, profiles.user_id DESC").
		Preload("Photos", db.ActivePhotos).
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// CountLikers returns how many users positively swiped userID.
//
// Behavior:
//   - Same set as ListLikers.
//   - Used in conjunction with Redis cache (DB is fallback).
func (r *SwipeRepository) CountLikers(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Profile{}).
		Joins("JOIN swipes s ON s.from_user_id = profiles.user_id").
		Where("s.to_user_id = ? AND s.direction IN ?", userID, db.PositiveDirections).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
