package service

import (
	"context"
	"fmt"
	"math"
	"net/http"

	postDto "anoa.com/blogfeed/internal/modules/post/dto"
	postRepo "anoa.com/blogfeed/internal/modules/post/repository"
	"anoa.com/blogfeed/internal/modules/search/dto"
	"anoa.com/blogfeed/pkg/apperror"
	"anoa.com/blogfeed/pkg/pagination"
)

type SearchService interface {
	SearchPosts(ctx context.Context, query dto.SearchQuery) (*dto.SearchResponse, error)
}

type searchService struct {
	meili    MeiliSearchService
	postRepo postRepo.PostRepository
	pageSize int
}

func NewSearchService(meili MeiliSearchService, postRepo postRepo.PostRepository, pageSize int) SearchService {
	if pageSize < 1 {
		pageSize = pagination.DefaultSize
	}
	return &searchService{meili: meili, postRepo: postRepo, pageSize: pageSize}
}

func (s *searchService) SearchPosts(ctx context.Context, query dto.SearchQuery) (*dto.SearchResponse, error) {
	if s.meili == nil {
		return nil, apperror.New(http.StatusServiceUnavailable, "search is not configured", nil)
	}

	// The total is unknown until the first query, so bound the page before
	// computing its offset.
	requested := int64(pagination.ParseNumber(query.Page))
	if maxPage := math.MaxInt64/int64(s.pageSize) + 1; requested > maxPage {
		requested = maxPage
	}
	offset := (requested - 1) * int64(s.pageSize)

	ids, total, err := s.meili.SearchPostIDs(query.Q, offset, int64(s.pageSize))
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}

	page := pagination.New(total, s.pageSize, query.Page)
	if int64(page.Number) != requested {
		ids, _, err = s.meili.SearchPostIDs(query.Q, int64(page.Offset()), int64(s.pageSize))
		if err != nil {
			return nil, fmt.Errorf("search posts: %w", err)
		}
	}

	// The index may still hold posts deleted moments ago; FindByIDs drops them.
	posts, err := s.postRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	return &dto.SearchResponse{
		Query: query.Q,
		Data:  postDto.ToPostResponses(posts),
		Meta:  page.Meta(),
	}, nil
}
