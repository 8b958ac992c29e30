package feed

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"anoa.com/blogfeed/internal/entity"
	"anoa.com/blogfeed/internal/modules/feed/dto"
	follow "anoa.com/blogfeed/internal/modules/follow/service"
	groupRepo "anoa.com/blogfeed/internal/modules/group/repository"
	postDto "anoa.com/blogfeed/internal/modules/post/dto"
	postRepo "anoa.com/blogfeed/internal/modules/post/repository"
	userRepo "anoa.com/blogfeed/internal/modules/user/repository"
	"anoa.com/blogfeed/pkg/apperror"
	"anoa.com/blogfeed/pkg/feedcache"
	"anoa.com/blogfeed/pkg/pagination"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FeedService interface {
	// GlobalPage returns the encoded global feed page, possibly from cache.
	GlobalPage(ctx context.Context, page string) ([]byte, error)
	// GroupPage returns the encoded feed of one group, possibly from cache.
	GroupPage(ctx context.Context, slug, page string) ([]byte, error)
	// Profile lists an author's posts. viewer is nil for anonymous requests.
	Profile(ctx context.Context, username string, viewer *uuid.UUID, page string) (*dto.ProfileResponse, error)
	// Followed lists posts by the authors viewer follows. Never cached.
	Followed(ctx context.Context, viewer uuid.UUID, page string) (*dto.FeedPage, error)
}

type feedService struct {
	postRepo      postRepo.PostRepository
	groupRepo     groupRepo.GroupRepository
	userRepo      userRepo.UserRepository
	followService follow.FollowService
	cache         feedcache.Cache
	pageSize      int
}

func NewFeedService(postRepo postRepo.PostRepository, groupRepo groupRepo.GroupRepository, userRepo userRepo.UserRepository, followService follow.FollowService, cache feedcache.Cache, pageSize int) FeedService {
	if pageSize < 1 {
		pageSize = pagination.DefaultSize
	}
	return &feedService{
		postRepo:      postRepo,
		groupRepo:     groupRepo,
		userRepo:      userRepo,
		followService: followService,
		cache:         cache,
		pageSize:      pageSize,
	}
}

func (s *feedService) GlobalPage(ctx context.Context, page string) ([]byte, error) {
	filter := postRepo.Filter{}
	number, err := s.clampPage(ctx, filter, page)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s:page=%d", dto.KindGlobal, number)
	return s.fetch(ctx, key, func(ctx context.Context) (*dto.FeedPage, error) {
		feed, err := s.buildPage(ctx, filter, strconv.Itoa(number))
		if err != nil {
			return nil, err
		}
		feed.Kind = dto.KindGlobal
		return feed, nil
	})
}

func (s *feedService) GroupPage(ctx context.Context, slug, page string) ([]byte, error) {
	number := pagination.ParseNumber(page)
	if number > 1 {
		group, err := s.findGroup(ctx, slug)
		if err != nil {
			return nil, err
		}
		if number, err = s.clampPage(ctx, postRepo.Filter{GroupID: &group.ID}, page); err != nil {
			return nil, err
		}
	}

	key := fmt.Sprintf("%s:%s:page=%d", dto.KindGroup, slug, number)
	return s.fetch(ctx, key, func(ctx context.Context) (*dto.FeedPage, error) {
		group, err := s.findGroup(ctx, slug)
		if err != nil {
			return nil, err
		}

		feed, err := s.buildPage(ctx, postRepo.Filter{GroupID: &group.ID}, strconv.Itoa(number))
		if err != nil {
			return nil, err
		}
		feed.Kind = dto.KindGroup
		feed.Group = postDto.ToGroupResponse(group)
		return feed, nil
	})
}

func (s *feedService) Profile(ctx context.Context, username string, viewer *uuid.UUID, page string) (*dto.ProfileResponse, error) {
	number := pagination.ParseNumber(page)
	if number > 1 {
		author, err := s.findAuthor(ctx, username)
		if err != nil {
			return nil, err
		}
		if number, err = s.clampPage(ctx, postRepo.Filter{AuthorID: &author.ID}, page); err != nil {
			return nil, err
		}
	}

	key := fmt.Sprintf("%s:%s:page=%d", dto.KindProfile, username, number)
	data, err := s.fetch(ctx, key, func(ctx context.Context) (*dto.FeedPage, error) {
		author, err := s.findAuthor(ctx, username)
		if err != nil {
			return nil, err
		}

		feed, err := s.buildPage(ctx, postRepo.Filter{AuthorID: &author.ID}, strconv.Itoa(number))
		if err != nil {
			return nil, err
		}
		feed.Kind = dto.KindProfile
		authorResp := postDto.ToAuthorResponse(author)
		feed.Author = &authorResp
		return feed, nil
	})
	if err != nil {
		return nil, err
	}

	var feed dto.FeedPage
	if err := json.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("decode profile page: %w", err)
	}

	resp := &dto.ProfileResponse{
		FeedPage:  feed,
		PostCount: feed.Meta.TotalItems,
	}

	if viewer != nil && feed.Author != nil {
		following, err := s.followService.IsFollowing(ctx, *viewer, feed.Author.ID)
		if err != nil {
			return nil, err
		}
		resp.Following = following
	}

	return resp, nil
}

func (s *feedService) Followed(ctx context.Context, viewer uuid.UUID, page string) (*dto.FeedPage, error) {
	feed, err := s.buildPage(ctx, postRepo.Filter{FollowerID: &viewer}, page)
	if err != nil {
		return nil, err
	}
	feed.Kind = dto.KindFollowed
	return feed, nil
}

// clampPage resolves the requested page against the current total so every
// out-of-range request shares the cache entry of the last page.
func (s *feedService) clampPage(ctx context.Context, filter postRepo.Filter, requested string) (int, error) {
	number := pagination.ParseNumber(requested)
	if number == 1 {
		return 1, nil
	}
	total, err := s.postRepo.Count(ctx, filter)
	if err != nil {
		return 0, err
	}
	return pagination.New(total, s.pageSize, requested).Number, nil
}

func (s *feedService) findGroup(ctx context.Context, slug string) (*entity.Group, error) {
	group, err := s.groupRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("group %q: %w", slug, apperror.ErrNotFound)
		}
		return nil, err
	}
	return group, nil
}

func (s *feedService) findAuthor(ctx context.Context, username string) (*entity.User, error) {
	author, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %q: %w", username, apperror.ErrNotFound)
		}
		return nil, err
	}
	return author, nil
}

func (s *feedService) buildPage(ctx context.Context, filter postRepo.Filter, requested string) (*dto.FeedPage, error) {
	total, err := s.postRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := pagination.New(total, s.pageSize, requested)

	posts, err := s.postRepo.Find(ctx, filter, page.Offset(), page.Limit())
	if err != nil {
		return nil, err
	}

	return &dto.FeedPage{
		Data: postDto.ToPostResponses(posts),
		Meta: page.Meta(),
	}, nil
}

func (s *feedService) fetch(ctx context.Context, key string, build func(ctx context.Context) (*dto.FeedPage, error)) ([]byte, error) {
	render := func(ctx context.Context) ([]byte, error) {
		feed, err := build(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(feed)
	}

	if s.cache == nil {
		return render(ctx)
	}
	return s.cache.Fetch(ctx, key, render)
}
