// Package dbtest opens isolated, migrated in-memory SQLite databases for tests.
package dbtest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oggyb/matchmaker/internal/db"
)

// New returns a fresh schema named after the running test.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// single connection keeps the shared in-memory db alive and serializes writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(database); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

// Seed creates n users with a profile and one active photo each.
// Profiles get strictly decreasing updated_at so feed order is predictable.
func Seed(t testing.TB, database *gorm.DB, n int) []db.User {
	t.Helper()

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	users := make([]db.User, 0, n)
	for i := 0; i < n; i++ {
		u := db.User{Email: fmt.Sprintf("user%d@test.com", i+1), PasswordHash: "x"}
		if err := database.Create(&u).Error; err != nil {
			t.Fatalf("failed to create user: %v", err)
		}
		p := db.Profile{
			UserID:    u.ID,
			Name:      fmt.Sprintf("User %d", i+1),
			UpdatedAt: base.Add(-time.Duration(i) * time.Minute),
		}
		if err := database.Create(&p).Error; err != nil {
			t.Fatalf("failed to create profile: %v", err)
		}
		AddPhoto(t, database, u.ID, 0)
		users = append(users, u)
	}
	return users
}

// AddPhoto attaches an active photo at the given position.
func AddPhoto(t testing.TB, database *gorm.DB, userID string, order int) db.ProfilePhoto {
	t.Helper()

	url := fmt.Sprintf("https://img.test/%s/%d.jpg", userID, order)
	photo := db.ProfilePhoto{
		UserID:     userID,
		GCSPath:    fmt.Sprintf("profiles/%s/%d.jpg", userID, order),
		PublicURL:  &url,
		OrderIndex: order,
		IsPrimary:  order == 0,
	}
	if err := database.Create(&photo).Error; err != nil {
		t.Fatalf("failed to create photo: %v", err)
	}
	return photo
}
