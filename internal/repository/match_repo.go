package repository

import (
	"context"

	"github.com/oggyb/matchmaker/internal/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MatchRepository provides data access methods for the Match model.
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new repository bound to the given DB connection.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// CreateIfAbsent inserts the canonical match for {a, b}.
//
// Behavior:
//   - Ids are ordered so user_a < user_b before insert.
//   - An existing row for the pair is left untouched (ON CONFLICT DO NOTHING);
//     idx_matches_pair, not the caller, guarantees one row per pair.
//   - created reports whether this call inserted the row.
//
// Example:
//
//	created, err := repo.CreateIfAbsent(ctx, b, a)
func (r *MatchRepository) CreateIfAbsent(ctx context.Context, a, b string) (created bool, err error) {
	ua, ub := db.CanonicalPair(a, b)
	m := db.Match{UserA: ua, UserB: ub}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_a"}, {Name: "user_b"}},
			DoNothing: true,
		}).
		Create(&m)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// FindByPair returns the match for {a, b} in any order.
func (r *MatchRepository) FindByPair(ctx context.Context, a, b string) (*db.Match, error) {
	ua, ub := db.CanonicalPair(a, b)
	var m db.Match
	if err := r.db.WithContext(ctx).Where("user_a = ? AND user_b = ?", ua, ub).Take(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// FindByID returns the match or gorm.ErrRecordNotFound.
func (r *MatchRepository) FindByID(ctx context.Context, matchID string) (*db.Match, error) {
	var m db.Match
	if err := r.db.WithContext(ctx).Where("id = ?", matchID).Take(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ListForUser returns every match userID takes part in, newest first.
func (r *MatchRepository) ListForUser(ctx context.Context, userID string) ([]db.Match, error) {
	var matches []db.Match
	err := r.db.WithContext(ctx).
		Where("user_a = ? OR user_b = ?", userID, userID).
		Order("created_at DESC, id").
		Find(&matches).Error
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// CountPair returns the number of match rows for {a, b}; always 0 or 1.
func (r *MatchRepository) CountPair(ctx context.Context, a, b string) (int64, error) {
	ua, ub := db.CanonicalPair(a, b)
	var n int64
	err := r.db.WithContext(ctx).Model(&db.Match{}).Where("user_a = ? AND user_b = ?", ua, ub).Count(&n).Error
	return n, err
}
