package group_test

import (
	"context"
	"testing"
	"time"

	"anoa.com/blogfeed/internal/entity"
	"anoa.com/blogfeed/internal/modules/group/dto"
	"anoa.com/blogfeed/internal/modules/group/repository"
	group "anoa.com/blogfeed/internal/modules/group/service"
	"anoa.com/blogfeed/internal/testutil"
	"anoa.com/blogfeed/pkg/apperror"
	"anoa.com/blogfeed/pkg/feedcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(t *testing.T) (group.GroupService, *gorm.DB, *feedcache.Memory) {
	t.Helper()
	db := testutil.NewDB(t)
	cache := feedcache.NewMemory(time.Minute)
	return group.NewGroupService(repository.NewGroupRepository(db), cache, 100), db, cache
}

func strPtr(s string) *string { return &s }

func TestCreateGroupDerivesSlug(t *testing.T) {
	svc, _, _ := newService(t)

	g, err := svc.CreateGroup(context.Background(), dto.CreateGroupRequest{
		Title:       "test_title",
		Description: "test_description",
	})
	require.NoError(t, err)
	assert.Equal(t, "test_title", g.Slug)
	assert.Equal(t, "test_title", g.Title)
}

func TestCreateGroupSlugCollision(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreateGroup(ctx, dto.CreateGroupRequest{Title: "Cats And Dogs"})
	require.NoError(t, err)

	_, err = svc.CreateGroup(ctx, dto.CreateGroupRequest{Title: "cats and dogs!"})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = svc.CreateGroup(ctx, dto.CreateGroupRequest{Title: "Other", Slug: "cats-and-dogs"})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestCreateGroupExplicitSlug(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	g, err := svc.CreateGroup(ctx, dto.CreateGroupRequest{Title: "Anything", Slug: "custom_slug"})
	require.NoError(t, err)
	assert.Equal(t, "custom_slug", g.Slug)

	_, err = svc.CreateGroup(ctx, dto.CreateGroupRequest{Title: "Bad", Slug: "has space"})
	var verr *apperror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "slug")
}

func TestGetBySlugNotFound(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.GetBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdateGroupKeepsSlugUnlessEmptied(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreateGroup(ctx, dto.CreateGroupRequest{Title: "First Title"})
	require.NoError(t, err)

	g, err := svc.UpdateGroup(ctx, "first-title", dto.UpdateGroupRequest{Title: strPtr("Second Title")})
	require.NoError(t, err)
	assert.Equal(t, "first-title", g.Slug)
	assert.Equal(t, "Second Title", g.Title)

	g, err = svc.UpdateGroup(ctx, "first-title", dto.UpdateGroupRequest{Slug: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "second-title", g.Slug)

	_, err = svc.GetBySlug(ctx, "second-title")
	assert.NoError(t, err)
}

func TestDeleteGroupKeepsPosts(t *testing.T) {
	svc, db, cache := newService(t)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author")
	g := testutil.CreateGroup(t, db, "Cats", "cats")
	post := testutil.CreatePost(t, db, author, g, "meow", time.Now())

	_, err := cache.Fetch(ctx, "warm", func(context.Context) ([]byte, error) { return []byte("x"), nil })
	require.NoError(t, err)

	require.NoError(t, svc.DeleteGroup(ctx, "cats"))

	var reloaded entity.Post
	require.NoError(t, db.First(&reloaded, post.ID).Error)
	assert.Nil(t, reloaded.GroupID)
	assert.Zero(t, cache.Len())

	assert.ErrorIs(t, svc.DeleteGroup(ctx, "cats"), apperror.ErrNotFound)
}

func TestListGroups(t *testing.T) {
	svc, db, _ := newService(t)
	testutil.CreateGroup(t, db, "Zebras", "zebras")
	testutil.CreateGroup(t, db, "Ants", "ants")

	groups, err := svc.ListGroups(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "ants", groups[0].Slug)
	assert.Equal(t, "zebras", groups[1].Slug)
}
