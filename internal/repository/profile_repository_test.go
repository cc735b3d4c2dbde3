package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/matchmaker/internal/db"
	"github.com/oggyb/matchmaker/internal/db/dbtest"
	"github.com/oggyb/matchmaker/internal/repository"
	"github.com/oggyb/matchmaker/internal/utils/pagination"
)

func ids(ps []db.Profile) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.UserID
	}
	return out
}

func TestFeed_ExcludesSelfSwipedAndPhotoless(t *testing.T) {
	ctx := context.Background()
	dbase := dbtest.New(t)
	users := dbtest.Seed(t, dbase, 5)
	me := users[0].ID

	swipes := repository.NewSwipeRepository(dbase)
	require.NoError(t, swipes.Upsert(ctx, me, users[1].ID, db.DirectionDislike))
	require.NoError(t, swipes.Upsert(ctx, me, users[2].ID, db.DirectionLike))
	// being swiped by someone does not hide them
	require.NoError(t, swipes.Upsert(ctx, users[3].ID, me, db.DirectionLike))

	// users[4] loses their only photo
	now := time.Now().UTC()
	require.NoError(t, dbase.Model(&db.ProfilePhoto{}).Where("user_id = ?", users[4].ID).Update("deleted_at", now).Error)

	repo := repository.NewProfileRepository(dbase)
	profiles, next, err := repo.Feed(ctx, me, pagination.Cursor{}, 20)
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Equal(t, []string{users[3].ID}, ids(profiles))
}

func TestFeed_OrderAndTieBreak(t *testing.T) {
	ctx := context.Background()
	dbase := dbtest.New(t)
	users := dbtest.Seed(t, dbase, 5)

	// everyone shares the same updated_at; user_id DESC decides
	same := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, dbase.Model(&db.Profile{}).Where("1 = 1").UpdateColumn("updated_at", same).Error)

	repo := repository.NewProfileRepository(dbase)
	profiles, _, err := repo.Feed(ctx, users[0].ID, pagination.Cursor{}, 50)
	require.NoError(t, err)
	require.Len(t, profiles, 4)
	for i := 1; i < len(profiles); i++ {
		assert.Greater(t, profiles[i-1].UserID, profiles[i].UserID)
	}
}

func TestFeed_PaginationVisitsEveryCandidateOnce(t *testing.T) {
	ctx := context.Background()
	dbase := dbtest.New(t)
	users := dbtest.Seed(t, dbase, 12)
	me := users[0].ID

	// two groups of equal timestamps to exercise the tie-break across pages
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, u := range users[1:] {
		at := ts
		if i%2 == 0 {
			at = ts.Add(time.Hour)
		}
		require.NoError(t, dbase.Model(&db.Profile{}).Where("user_id = ?", u.ID).UpdateColumn("updated_at", at).Error)
	}

	repo := repository.NewProfileRepository(dbase)
	var (
		seen   []db.Profile
		cursor pagination.Cursor
		pages  int
	)
	for {
		page, next, err := repo.Feed(ctx, me, cursor, 3)
		require.NoError(t, err)
		seen = append(seen, page...)
		pages++
		if next == nil {
			break
		}
		// round-trip through the wire format like a client would
		cursor, err = pagination.Decode(pagination.Encode(*next))
		require.NoError(t, err)
		require.Less(t, pages, 10)
	}

	assert.Equal(t, 4, pages)
	require.Len(t, seen, 11)
	unique := map[string]bool{}
	for i, p := range seen {
		unique[p.UserID] = true
		if i == 0 {
			continue
		}
		prev := seen[i-1]
		ordered := prev.UpdatedAt.After(p.UpdatedAt) ||
			(prev.UpdatedAt.Equal(p.UpdatedAt) && prev.UserID > p.UserID)
		assert.True(t, ordered, "rows strictly descending at %d", i)
	}
	assert.Len(t, unique, 11)
}

func TestFeed_StableUnderConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	dbase := dbtest.New(t)
	users := dbtest.Seed(t, dbase, 7)
	me := users[0].ID
	repo := repository.NewProfileRepository(dbase)

	first, next, err := repo.Feed(ctx, me, pagination.Cursor{}, 3)
	require.NoError(t, err)
	require.NotNil(t, next)

	// a profile already served moves to the head; it must not reappear later
	require.NoError(t, repo.Touch(ctx, first[1].UserID))

	rest, next2, err := repo.Feed(ctx, me, *next, 10)
	require.NoError(t, err)
	assert.Nil(t, next2)
	assert.Len(t, rest, 3)
	for _, p := range rest {
		assert.NotContains(t, ids(first), p.UserID)
	}
}

func TestFeed_ExactPageHasNoNextCursor(t *testing.T) {
	ctx := context.Background()
	dbase := dbtest.New(t)
	users := dbtest.Seed(t, dbase, 4)
	repo := repository.NewProfileRepository(dbase)

	profiles, next, err := repo.Feed(ctx, users[0].ID, pagination.Cursor{}, 3)
	require.NoError(t, err)
	assert.Len(t, profiles, 3)
	assert.Nil(t, next)
}

func TestFeed_PreloadsCardData(t *testing.T) {
	ctx := context.Background()
	dbase := dbtest.New(t)
	require.NoError(t, db.SeedLookups(dbase))
	users := dbtest.Seed(t, dbase, 2)
	target := users[1].ID

	var tags []db.Tag
	require.NoError(t, dbase.Order("sort_order").Limit(2).Find(&tags).Error)
	var drink db.Drink
	require.NoError(t, dbase.First(&drink).Error)

	var p db.Profile
	require.NoError(t, dbase.Where("user_id = ?", target).Take(&p).Error)
	require.NoError(t, dbase.Model(&p).Association("Tags").Append(&tags[1], &tags[0]))
	require.NoError(t, dbase.Model(&db.Profile{}).Where("user_id = ?", target).UpdateColumn("drink_id", drink.ID).Error)
	dbtest.AddPhoto(t, dbase, target, 1)

	repo := repository.NewProfileRepository(dbase)
	profiles, _, err := repo.Feed(ctx, users[0].ID, pagination.Cursor{}, 10)
	require.NoError(t, err)
	require.Len(t, profiles, 1)

	got := profiles[0]
	require.Len(t, got.Tags, 2)
	assert.Equal(t, tags[0].Label, got.Tags[0].Label, "tags follow sort_order")
	require.NotNil(t, got.Drink)
	assert.Equal(t, drink.Label, got.Drink.Label)
	assert.Nil(t, got.Education)
	require.Len(t, got.Photos, 2)
	assert.Equal(t, 0, got.Photos[0].OrderIndex)
}

func TestFindByUserIDs(t *testing.T) {
	ctx := context.Background()
	dbase := dbtest.New(t)
	users := dbtest.Seed(t, dbase, 3)
	repo := repository.NewProfileRepository(dbase)

	got, err := repo.FindByUserIDs(ctx, []string{users[0].ID, users[2].ID, "ghost"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "User 3", got[users[2].ID].Name)

	empty, err := repo.FindByUserIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
