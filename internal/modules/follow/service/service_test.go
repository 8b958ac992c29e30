package follow_test

import (
	"context"
	"testing"

	"anoa.com/blogfeed/internal/modules/follow/repository"
	follow "anoa.com/blogfeed/internal/modules/follow/service"
	userRepo "anoa.com/blogfeed/internal/modules/user/repository"
	"anoa.com/blogfeed/internal/testutil"
	"anoa.com/blogfeed/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollow(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewFollowRepository(db)
	svc := follow.NewFollowService(repo, userRepo.NewUserRepository(db))
	ctx := context.Background()

	reader := testutil.CreateUser(t, db, "reader")
	author := testutil.CreateUser(t, db, "author")

	require.NoError(t, svc.Follow(ctx, reader.ID, "author"))
	require.NoError(t, svc.Follow(ctx, reader.ID, "author"))

	edges, err := repo.CountEdges(ctx, reader.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), edges)

	following, err := svc.IsFollowing(ctx, reader.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, following)

	following, err = svc.IsFollowing(ctx, author.ID, reader.ID)
	require.NoError(t, err)
	assert.False(t, following)

	authors, err := svc.FollowedAuthors(ctx, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{author.ID}, authors)
}

func TestFollowSelfIsIgnored(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewFollowRepository(db)
	svc := follow.NewFollowService(repo, userRepo.NewUserRepository(db))
	ctx := context.Background()

	me := testutil.CreateUser(t, db, "me")

	require.NoError(t, svc.Follow(ctx, me.ID, "me"))

	edges, err := repo.CountEdges(ctx, me.ID, me.ID)
	require.NoError(t, err)
	assert.Zero(t, edges)
}

func TestFollowUnknownUser(t *testing.T) {
	db := testutil.NewDB(t)
	svc := follow.NewFollowService(repository.NewFollowRepository(db), userRepo.NewUserRepository(db))
	ctx := context.Background()

	me := testutil.CreateUser(t, db, "me")

	assert.ErrorIs(t, svc.Follow(ctx, me.ID, "ghost"), apperror.ErrNotFound)
	assert.ErrorIs(t, svc.Unfollow(ctx, me.ID, "ghost"), apperror.ErrNotFound)
}

func TestUnfollow(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewFollowRepository(db)
	svc := follow.NewFollowService(repo, userRepo.NewUserRepository(db))
	ctx := context.Background()

	reader := testutil.CreateUser(t, db, "reader")
	author := testutil.CreateUser(t, db, "author")

	require.NoError(t, svc.Unfollow(ctx, reader.ID, "author"))

	require.NoError(t, svc.Follow(ctx, reader.ID, "author"))
	require.NoError(t, svc.Unfollow(ctx, reader.ID, "author"))

	edges, err := repo.CountEdges(ctx, reader.ID, author.ID)
	require.NoError(t, err)
	assert.Zero(t, edges)

	require.NoError(t, svc.Unfollow(ctx, reader.ID, "author"))
}

func TestFollowByDeletedUser(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	repo := repository.NewFollowRepository(db)
	svc := follow.NewFollowService(repo, userRepo.NewUserRepository(db))
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author")
	gone := uuid.New()

	err := svc.Follow(ctx, gone, "author")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	edges, err := repo.CountEdges(ctx, gone, author.ID)
	require.NoError(t, err)
	assert.Zero(t, edges)
}
