package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/matchmaker/internal/db"
	"github.com/oggyb/matchmaker/internal/db/dbtest"
	"github.com/oggyb/matchmaker/internal/repository"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	dbase := dbtest.New(t)
	users := dbtest.Seed(t, dbase, 1)
	repo := repository.NewUserRepository(dbase)

	ok, err := repo.Exists(ctx, users[0].ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.SetStatus(ctx, users[0].ID, db.UserBlocked))
	u, err := repo.FindByID(ctx, users[0].ID)
	require.NoError(t, err)
	assert.Equal(t, db.UserBlocked, u.Status)
}
