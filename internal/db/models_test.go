package db_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/matchmaker/internal/db"
	"github.com/oggyb/matchmaker/internal/db/dbtest"
)

func TestDirection(t *testing.T) {
	assert.True(t, db.DirectionLike.Valid())
	assert.True(t, db.DirectionSuperlike.Positive())
	assert.False(t, db.DirectionDislike.Positive())
	assert.False(t, db.Direction("maybe").Valid())
}

func TestCanonicalPair(t *testing.T) {
	a, b := db.CanonicalPair("b", "a")
	assert.Equal(t, "a", a)
	assert.Equal(t, "b", b)

	a, b = db.CanonicalPair("a", "b")
	assert.Equal(t, "a", a)
	assert.Equal(t, "b", b)
}

func TestMatchParticipants(t *testing.T) {
	m := db.Match{UserA: "a", UserB: "b"}
	assert.True(t, m.Has("a"))
	assert.False(t, m.Has("c"))
	assert.Equal(t, "b", m.Other("a"))
	assert.Equal(t, "a", m.Other("b"))
}

func TestPhotoState(t *testing.T) {
	p := db.ProfilePhoto{GCSPath: "profiles/x/0.jpg"}
	assert.Equal(t, db.PhotoActive, p.State().Kind)
	assert.Equal(t, "profiles/x/0.jpg", p.URL())

	at := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	p.DeletedAt = &at
	st := p.State()
	assert.Equal(t, db.PhotoRemoved, st.Kind)
	assert.Equal(t, at, st.RemovedAt)
}

func TestActivePhotosScope(t *testing.T) {
	database := dbtest.New(t)
	users := dbtest.Seed(t, database, 1)
	uid := users[0].ID

	dbtest.AddPhoto(t, database, uid, 2)
	removed := dbtest.AddPhoto(t, database, uid, 1)
	now := time.Now().UTC()
	require.NoError(t, database.Model(&removed).Update("deleted_at", now).Error)

	var photos []db.ProfilePhoto
	require.NoError(t, database.Scopes(db.ActivePhotos).Where("user_id = ?", uid).Find(&photos).Error)

	require.Len(t, photos, 2)
	assert.Equal(t, 0, photos[0].OrderIndex)
	assert.Equal(t, 2, photos[1].OrderIndex)
}

func TestBeforeCreateAssignsIDs(t *testing.T) {
	database := dbtest.New(t)

	u := db.User{Email: "a@test.com"}
	require.NoError(t, database.Create(&u).Error)
	assert.Len(t, u.ID, 36)
	assert.Equal(t, db.UserActive, u.Status)
}

func TestSeedLookupsIsIdempotent(t *testing.T) {
	database := dbtest.New(t)

	require.NoError(t, db.SeedLookups(database))
	require.NoError(t, db.SeedLookups(database))

	var tags, genders int64
	database.Model(&db.Tag{}).Count(&tags)
	database.Model(&db.Gender{}).Count(&genders)
	assert.EqualValues(t, 10, tags)
	assert.EqualValues(t, 9, genders)
}

func TestSeedMinimalTestData(t *testing.T) {
	database := dbtest.New(t)

	users, err := db.SeedMinimalTestData(database)
	require.NoError(t, err)
	require.Len(t, users, 2)

	var profiles, swipes int64
	database.Model(&db.Profile{}).Count(&profiles)
	database.Model(&db.Swipe{}).Count(&swipes)
	assert.EqualValues(t, 2, profiles)
	assert.Zero(t, swipes)
}

func TestSeedTestData(t *testing.T) {
	database := dbtest.New(t)

	users, err := db.SeedTestData(database, 6)
	require.NoError(t, err)
	require.Len(t, users, 6)

	var matches []db.Match
	require.NoError(t, database.Find(&matches).Error)
	for _, m := range matches {
		assert.Less(t, m.UserA, m.UserB)
	}

	var photos int64
	database.Model(&db.ProfilePhoto{}).Count(&photos)
	assert.GreaterOrEqual(t, photos, int64(6))
}
