package repository

import (
	"context"

	"github.com/oggyb/matchmaker/internal/db"
	"github.com/oggyb/matchmaker/internal/utils/pagination"

	"gorm.io/gorm"
)

// ProfileRepository provides read access to profiles and their card data.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new repository bound to the given DB connection.
func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: database}
}

func byLookupOrder(table string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Order(table + ".sort_order ASC, " + table + ".id ASC")
	}
}

// withCard preloads everything a profile card renders.
func withCard(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Photos", db.ActivePhotos).
		Preload("Tags", byLookupOrder("tags")).
		Preload("LookingFor", byLookupOrder("looking_for_options")).
		Preload("Personality", byLookupOrder("personality_traits")).
		Preload("CurrentTag").
		Preload("Classification").
		Preload("BillSplit").
		Preload("Relationship").
		Preload("Education").
		Preload("Family").
		Preload("Sign").
		Preload("Pets").
		Preload("Drink").
		Preload("Smoke").
		Preload("Exercise").
		Preload("Food").
		Preload("Sleep").
		Preload("Gender")
}

// Feed returns candidate profiles for viewerID.
//
// Behavior:
//   - Excludes the viewer and anyone the viewer already swiped (any direction).
//   - Only profiles with at least one active photo.
//   - Ordered by updated_at DESC, user_id DESC.
//   - Supports cursor-based pagination: rows strictly after the cursor tuple.
//   - next is nil when no row follows the returned page.
//
// Example:
//
//	repo.Feed(ctx, me, pagination.Cursor{}, 20) // first page
func (r *ProfileRepository) Feed(
	ctx context.Context,
	viewerID string,
	cursor pagination.Cursor,
	limit int,
) ([]db.Profile, *pagination.Cursor, error) {
	var profiles []db.Profile

	query := r.db.WithContext(ctx).
		Scopes(withCard).
		Where("profiles.user_id <> ?", viewerID).
		Where(`
			EXISTS (
				SELECT 1 FROM profile_photos ph
				WHERE ph.user_id = profiles.user_id
				  AND ph.deleted_at IS NULL
			)`).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM swipes s
				WHERE s.from_user_id = ?
				  AND s.to_user_id = profiles.user_id
			)`, viewerID).
		Order("profiles.updated_at DESC, profiles.user_id DESC").
		Limit(limit + 1)

	// apply cursor
	if !cursor.IsZero() {
		query = query.Where(
			"(profiles.updated_at < ? OR (profiles.updated_at = ? AND profiles.user_id < ?))",
			cursor.UpdatedAt, cursor.UpdatedAt, cursor.UserID,
		)
	}

	if err := query.Find(&profiles).Error; err != nil {
		return nil, nil, err
	}

	// pagination: build next cursor if needed
	var next *pagination.Cursor
	if len(profiles) > limit {
		last := profiles[limit-1]
		next = &pagination.Cursor{UpdatedAt: last.UpdatedAt, UserID: last.UserID}
		profiles = profiles[:limit]
	}

	return profiles, next, nil
}

// FindByUserIDs loads card data for the given users, keyed by user id.
// Missing or soft-deleted profiles are simply absent from the map.
func (r *ProfileRepository) FindByUserIDs(ctx context.Context, userIDs []string) (map[string]db.Profile, error) {
	out := make(map[string]db.Profile, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	var profiles []db.Profile
	if err := r.db.WithContext(ctx).Scopes(withCard).Where("user_id IN ?", userIDs).Find(&profiles).Error; err != nil {
		return nil, err
	}
	for _, p := range profiles {
		out[p.UserID] = p
	}
	return out, nil
}

// Touch bumps updated_at, moving the profile to the head of everyone's feed.
func (r *ProfileRepository) Touch(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Model(&db.Profile{}).
		Where("user_id = ?", userID).
		Update("updated_at", r.db.NowFunc()).Error
}
