package ondelete_test

import (
	"testing"
	"time"

	"anoa.com/blogfeed/internal/entity"
	"anoa.com/blogfeed/internal/ondelete"
	"anoa.com/blogfeed/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func comment(t *testing.T, db *gorm.DB, author *entity.User, post *entity.Post, text string) *entity.Comment {
	t.Helper()
	c := &entity.Comment{PostID: &post.ID, AuthorID: author.ID, Text: text, Created: t0}
	require.NoError(t, db.Omit("Author", "Post").Create(c).Error)
	return c
}

func TestDeleteGroupClearsPostGroup(t *testing.T) {
	db := testutil.NewDB(t)
	author := testutil.CreateUser(t, db, "author")
	group := testutil.CreateGroup(t, db, "Cats", "cats")
	post := testutil.CreatePost(t, db, author, group, "meow", t0)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return ondelete.Delete(tx, ondelete.Groups, group.ID)
	}))

	var reloaded entity.Post
	require.NoError(t, db.First(&reloaded, post.ID).Error)
	assert.Nil(t, reloaded.GroupID)
	assert.Equal(t, "meow", reloaded.Text)

	var groups int64
	require.NoError(t, db.Model(&entity.Group{}).Count(&groups).Error)
	assert.Zero(t, groups)
}

func TestDeletePostDetachesComments(t *testing.T) {
	db := testutil.NewDB(t)
	author := testutil.CreateUser(t, db, "author")
	reader := testutil.CreateUser(t, db, "reader")
	post := testutil.CreatePost(t, db, author, nil, "hello", t0)
	c := comment(t, db, reader, post, "nice")

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return ondelete.Delete(tx, ondelete.Posts, post.ID)
	}))

	var reloaded entity.Comment
	require.NoError(t, db.First(&reloaded, c.ID).Error)
	assert.Nil(t, reloaded.PostID)
}

func TestDeleteUserCascades(t *testing.T) {
	db := testutil.NewDB(t)
	doomed := testutil.CreateUser(t, db, "doomed")
	other := testutil.CreateUser(t, db, "other")

	doomedPost := testutil.CreatePost(t, db, doomed, nil, "bye", t0)
	otherPost := testutil.CreatePost(t, db, other, nil, "stay", t0)

	otherOnDoomed := comment(t, db, other, doomedPost, "reply from other")
	doomedOnOther := comment(t, db, doomed, otherPost, "reply from doomed")

	require.NoError(t, db.Create(&entity.Follow{UserID: doomed.ID, AuthorID: other.ID}).Error)
	require.NoError(t, db.Create(&entity.Follow{UserID: other.ID, AuthorID: doomed.ID}).Error)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return ondelete.Delete(tx, ondelete.Users, doomed.ID)
	}))

	err := db.First(&entity.Post{}, doomedPost.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.NoError(t, db.First(&entity.Post{}, otherPost.ID).Error)

	err = db.First(&entity.Comment{}, doomedOnOther.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var detached entity.Comment
	require.NoError(t, db.First(&detached, otherOnDoomed.ID).Error)
	assert.Nil(t, detached.PostID)

	var follows int64
	require.NoError(t, db.Model(&entity.Follow{}).Count(&follows).Error)
	assert.Zero(t, follows)

	var users int64
	require.NoError(t, db.Model(&entity.User{}).Count(&users).Error)
	assert.Equal(t, int64(1), users)
}

func TestDeleteWithoutIDsIsNoop(t *testing.T) {
	db := testutil.NewDB(t)
	assert.NoError(t, ondelete.Delete(db, ondelete.Posts))
}

func TestDeleteUnknownTable(t *testing.T) {
	db := testutil.NewDB(t)
	assert.Error(t, ondelete.Delete(db, "widgets", 1))
}

func TestPolicyCoversEveryReference(t *testing.T) {
	want := map[string]ondelete.Action{
		"users->posts.author_id":    ondelete.Cascade,
		"users->comments.author_id": ondelete.Cascade,
		"users->follows.user_id":    ondelete.Cascade,
		"users->follows.author_id":  ondelete.Cascade,
		"groups->posts.group_id":    ondelete.SetNull,
		"posts->comments.post_id":   ondelete.SetNull,
	}

	got := map[string]ondelete.Action{}
	for parent, rules := range ondelete.Policy {
		for _, r := range rules {
			got[parent+"->"+r.Child+"."+r.Column] = r.Action
		}
	}
	assert.Equal(t, want, got)
}
