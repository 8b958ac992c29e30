package repository_test

import (
	"context"
	"testing"
	"time"

	"anoa.com/blogfeed/internal/entity"
	"anoa.com/blogfeed/internal/modules/post/repository"
	"anoa.com/blogfeed/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func texts(posts []*entity.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Text)
	}
	return out
}

func TestFindOrdersNewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewPostRepository(db)
	author := testutil.CreateUser(t, db, "author")

	testutil.CreatePost(t, db, author, nil, "oldest", base)
	testutil.CreatePost(t, db, author, nil, "newest", base.Add(2*time.Hour))
	testutil.CreatePost(t, db, author, nil, "middle", base.Add(time.Hour))

	posts, err := repo.Find(context.Background(), repository.Filter{}, 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"newest", "middle", "oldest"}, texts(posts))
	assert.Equal(t, "author", posts[0].Author.Username)
}

func TestFindBreaksTiesByLaterInsert(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewPostRepository(db)
	author := testutil.CreateUser(t, db, "author")

	testutil.CreatePost(t, db, author, nil, "first", base)
	testutil.CreatePost(t, db, author, nil, "second", base)

	posts, err := repo.Find(context.Background(), repository.Filter{}, 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "first"}, texts(posts))
}

func TestFilters(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewPostRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")
	cats := testutil.CreateGroup(t, db, "Cats", "cats")

	testutil.CreatePost(t, db, alice, cats, "alice in cats", base)
	testutil.CreatePost(t, db, alice, nil, "alice alone", base.Add(time.Minute))
	testutil.CreatePost(t, db, bob, cats, "bob in cats", base.Add(2*time.Minute))
	testutil.CreatePost(t, db, carol, nil, "carol alone", base.Add(3*time.Minute))

	require.NoError(t, db.Create(&entity.Follow{UserID: carol.ID, AuthorID: alice.ID}).Error)

	t.Run("group", func(t *testing.T) {
		posts, err := repo.Find(ctx, repository.Filter{GroupID: &cats.ID}, 0, -1)
		require.NoError(t, err)
		assert.Equal(t, []string{"bob in cats", "alice in cats"}, texts(posts))
		assert.Equal(t, "cats", posts[0].Group.Slug)
	})

	t.Run("author", func(t *testing.T) {
		posts, err := repo.Find(ctx, repository.Filter{AuthorID: &alice.ID}, 0, -1)
		require.NoError(t, err)
		assert.Equal(t, []string{"alice alone", "alice in cats"}, texts(posts))

		count, err := repo.Count(ctx, repository.Filter{AuthorID: &alice.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("follower", func(t *testing.T) {
		posts, err := repo.Find(ctx, repository.Filter{FollowerID: &carol.ID}, 0, -1)
		require.NoError(t, err)
		assert.Equal(t, []string{"alice alone", "alice in cats"}, texts(posts))

		posts, err = repo.Find(ctx, repository.Filter{FollowerID: &bob.ID}, 0, -1)
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("window", func(t *testing.T) {
		posts, err := repo.Find(ctx, repository.Filter{}, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"bob in cats", "alice alone"}, texts(posts))
	})
}

func TestUpdateKeepsPubDateAndAuthor(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewPostRepository(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author")
	other := testutil.CreateUser(t, db, "other")
	cats := testutil.CreateGroup(t, db, "Cats", "cats")
	post := testutil.CreatePost(t, db, author, cats, "before", base)

	post.Text = "after"
	post.GroupID = nil
	post.PubDate = base.Add(time.Hour)
	post.AuthorID = other.ID
	require.NoError(t, repo.Update(ctx, post))

	reloaded, err := repo.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", reloaded.Text)
	assert.Nil(t, reloaded.GroupID)
	assert.True(t, base.Equal(reloaded.PubDate))
	assert.Equal(t, author.ID, reloaded.AuthorID)
}

func TestFindByIDsSkipsMissing(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewPostRepository(db)
	author := testutil.CreateUser(t, db, "author")

	a := testutil.CreatePost(t, db, author, nil, "a", base)
	b := testutil.CreatePost(t, db, author, nil, "b", base.Add(time.Minute))

	posts, err := repo.FindByIDs(context.Background(), []uint{a.ID, 9999, b.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, texts(posts))

	posts, err = repo.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestDeleteDetachesComments(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewPostRepository(db)
	author := testutil.CreateUser(t, db, "author")
	post := testutil.CreatePost(t, db, author, nil, "bye", base)

	comment := &entity.Comment{PostID: &post.ID, AuthorID: author.ID, Text: "hi", Created: base}
	require.NoError(t, db.Omit("Author", "Post").Create(comment).Error)

	require.NoError(t, repo.Delete(context.Background(), post.ID))

	var reloaded entity.Comment
	require.NoError(t, db.First(&reloaded, comment.ID).Error)
	assert.Nil(t, reloaded.PostID)
}
