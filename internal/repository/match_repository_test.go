package repository_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oggyb/matchmaker/internal/db/dbtest"
	"github.com/oggyb/matchmaker/internal/repository"
)

func TestCreateIfAbsent_Canonical(t *testing.T) {
	ctx := context.Background()
	dbase := dbtest.New(t)
	users := dbtest.Seed(t, dbase, 2)
	a, b := users[0].ID, users[1].ID
	repo := repository.NewMatchRepository(dbase)

	created, err := repo.CreateIfAbsent(ctx, b, a)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreateIfAbsent(ctx, a, b)
	require.NoError(t, err)
	assert.False(t, created, "second insert for the pair is ignored")

	m, err := repo.FindByPair(ctx, a, b)
	require.NoError(t, err)
	assert.Less(t, m.UserA, m.UserB)

	n, err := repo.CountPair(ctx, b, a)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestCreateIfAbsent_Concurrent(t *testing.T) {
	ctx := context.Background()
	dbase := dbtest.New(t)
	users := dbtest.Seed(t, dbase, 2)
	a, b := users[0].ID, users[1].ID
	repo := repository.NewMatchRepository(dbase)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			x, y := a, b
			if i%2 == 1 {
				x, y = b, a
			}
			ok, err := repo.CreateIfAbsent(ctx, x, y)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	n, _ := repo.CountPair(ctx, a, b)
	assert.EqualValues(t, 1, n)
}

func TestListForUserAndFind(t *testing.T) {
	ctx := context.Background()
	dbase := dbtest.New(t)
	users := dbtest.Seed(t, dbase, 3)
	a, b, c := users[0].ID, users[1].ID, users[2].ID
	repo := repository.NewMatchRepository(dbase)

	_, _ = repo.CreateIfAbsent(ctx, a, b)
	_, _ = repo.CreateIfAbsent(ctx, c, a)
	_, _ = repo.CreateIfAbsent(ctx, b, c)

	ms, err := repo.ListForUser(ctx, a)
	require.NoError(t, err)
	require.Len(t, ms, 2)
	for _, m := range ms {
		assert.True(t, m.Has(a))
	}

	got, err := repo.FindByID(ctx, ms[0].ID)
	require.NoError(t, err)
	assert.Equal(t, ms[0].ID, got.ID)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
