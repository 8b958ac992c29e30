package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"anoa.com/blogfeed/internal/entity"
	postRepo "anoa.com/blogfeed/internal/modules/post/repository"
	"anoa.com/blogfeed/internal/modules/search/dto"
	"anoa.com/blogfeed/internal/modules/search/service"
	"anoa.com/blogfeed/internal/testutil"
	"anoa.com/blogfeed/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

// fakeIndex answers every query with the same ids, newest first.
type fakeIndex struct {
	ids     []uint
	offsets []int64
}

func (f *fakeIndex) IndexPost(*entity.Post) error { return nil }
func (f *fakeIndex) DeletePost(uint) error        { return nil }

func (f *fakeIndex) SearchPostIDs(_ string, offset, limit int64) ([]uint, int64, error) {
	f.offsets = append(f.offsets, offset)
	total := int64(len(f.ids))
	if offset >= total {
		return nil, total, nil
	}
	end := min(offset+limit, total)
	return f.ids[offset:end], total, nil
}

func TestSearchPosts(t *testing.T) {
	db := testutil.NewDB(t)
	author := testutil.CreateUser(t, db, "author")
	var ids []uint
	for i := range 3 {
		p := testutil.CreatePost(t, db, author, nil, "cats", start.Add(time.Duration(i)*time.Minute))
		ids = append([]uint{p.ID}, ids...)
	}

	index := &fakeIndex{ids: ids}
	svc := service.NewSearchService(index, postRepo.NewPostRepository(db), 2)

	resp, err := svc.SearchPosts(context.Background(), dto.SearchQuery{Q: "cats", Page: "1"})
	require.NoError(t, err)
	assert.Equal(t, "cats", resp.Query)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, ids[0], resp.Data[0].ID)
	assert.Equal(t, "author", resp.Data[0].Author.Username)
	assert.Equal(t, 2, resp.Meta.TotalPages)
	assert.True(t, resp.Meta.HasNext)
}

func TestSearchPostsClampsPage(t *testing.T) {
	db := testutil.NewDB(t)
	author := testutil.CreateUser(t, db, "author")
	var ids []uint
	for i := range 3 {
		p := testutil.CreatePost(t, db, author, nil, "cats", start.Add(time.Duration(i)*time.Minute))
		ids = append([]uint{p.ID}, ids...)
	}

	index := &fakeIndex{ids: ids}
	svc := service.NewSearchService(index, postRepo.NewPostRepository(db), 2)

	resp, err := svc.SearchPosts(context.Background(), dto.SearchQuery{Q: "cats", Page: "7"})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Meta.CurrentPage)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, ids[2], resp.Data[0].ID)
	assert.Equal(t, []int64{12, 2}, index.offsets)
}

func TestSearchPostsHugePage(t *testing.T) {
	db := testutil.NewDB(t)
	author := testutil.CreateUser(t, db, "author")
	var ids []uint
	for i := range 13 {
		p := testutil.CreatePost(t, db, author, nil, "cats", start.Add(time.Duration(i)*time.Minute))
		ids = append([]uint{p.ID}, ids...)
	}

	for _, page := range []string{"1844674407370955162", "9223372036854775807"} {
		index := &fakeIndex{ids: ids}
		svc := service.NewSearchService(index, postRepo.NewPostRepository(db), 10)

		resp, err := svc.SearchPosts(context.Background(), dto.SearchQuery{Q: "cats", Page: page})
		require.NoError(t, err, page)
		assert.Equal(t, 2, resp.Meta.CurrentPage, page)
		require.Len(t, resp.Data, 3, page)
		assert.Equal(t, ids[12], resp.Data[2].ID, page)

		require.Len(t, index.offsets, 2, page)
		assert.Positive(t, index.offsets[0], page)
		assert.Equal(t, int64(10), index.offsets[1], page)
	}
}

func TestSearchPostsSkipsDeletedPosts(t *testing.T) {
	db := testutil.NewDB(t)
	author := testutil.CreateUser(t, db, "author")
	kept := testutil.CreatePost(t, db, author, nil, "cats", start)

	index := &fakeIndex{ids: []uint{kept.ID + 100, kept.ID}}
	svc := service.NewSearchService(index, postRepo.NewPostRepository(db), 10)

	resp, err := svc.SearchPosts(context.Background(), dto.SearchQuery{Q: "cats"})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, kept.ID, resp.Data[0].ID)
}

func TestSearchPostsWithoutIndex(t *testing.T) {
	db := testutil.NewDB(t)
	svc := service.NewSearchService(nil, postRepo.NewPostRepository(db), 10)

	_, err := svc.SearchPosts(context.Background(), dto.SearchQuery{Q: "cats"})
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusServiceUnavailable, appErr.Code)
}
