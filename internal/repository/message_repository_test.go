package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/matchmaker/internal/db"
	"github.com/oggyb/matchmaker/internal/db/dbtest"
	"github.com/oggyb/matchmaker/internal/repository"
)

func seedMatch(t *testing.T, ctx context.Context, matches *repository.MatchRepository, a, b string) *db.Match {
	t.Helper()
	_, err := matches.CreateIfAbsent(ctx, a, b)
	require.NoError(t, err)
	m, err := matches.FindByPair(ctx, a, b)
	require.NoError(t, err)
	return m
}

func TestListRecent_AscendingWindow(t *testing.T) {
	ctx := context.Background()
	dbase := dbtest.New(t)
	users := dbtest.Seed(t, dbase, 2)
	m := seedMatch(t, ctx, repository.NewMatchRepository(dbase), users[0].ID, users[1].ID)
	repo := repository.NewMessageRepository(dbase)

	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		msg := &db.Message{
			MatchID:   m.ID,
			SenderID:  users[i%2].ID,
			Body:      fmt.Sprintf("msg %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, repo.Create(ctx, msg))
		assert.NotEmpty(t, msg.ID)
	}

	msgs, err := repo.ListRecent(ctx, m.ID, 5)
	require.NoError(t, err)
	require.Len(t, msgs, 5)
	assert.Equal(t, "msg 3", msgs[0].Body, "oldest message of the recent window")
	assert.Equal(t, "msg 7", msgs[4].Body)
}

func TestLastMessages(t *testing.T) {
	ctx := context.Background()
	dbase := dbtest.New(t)
	users := dbtest.Seed(t, dbase, 3)
	matches := repository.NewMatchRepository(dbase)
	m1 := seedMatch(t, ctx, matches, users[0].ID, users[1].ID)
	m2 := seedMatch(t, ctx, matches, users[0].ID, users[2].ID)
	repo := repository.NewMessageRepository(dbase)

	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	for i, body := range []string{"hi", "hello", "how are you?"} {
		require.NoError(t, repo.Create(ctx, &db.Message{
			MatchID:   m1.ID,
			SenderID:  users[0].ID,
			Body:      body,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	last, err := repo.LastMessages(ctx, []string{m1.ID, m2.ID})
	require.NoError(t, err)
	assert.Len(t, last, 1)
	assert.Equal(t, "how are you?", last[m1.ID].Body)
	_, ok := last[m2.ID]
	assert.False(t, ok)

	none, err := repo.LastMessages(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}
