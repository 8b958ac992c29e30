package group

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"anoa.com/blogfeed/internal/entity"
	"anoa.com/blogfeed/internal/modules/group/dto"
	"anoa.com/blogfeed/internal/modules/group/repository"
	postDto "anoa.com/blogfeed/internal/modules/post/dto"
	"anoa.com/blogfeed/pkg/apperror"
	commonDto "anoa.com/blogfeed/pkg/dto"
	"anoa.com/blogfeed/pkg/feedcache"
	"anoa.com/blogfeed/pkg/logger"
	"anoa.com/blogfeed/pkg/validator"
	"gorm.io/gorm"
)

// DefaultSlugMaxLength caps derived slugs when no limit is configured.
const DefaultSlugMaxLength = 100

type GroupService interface {
	CreateGroup(ctx context.Context, req dto.CreateGroupRequest) (*commonDto.GroupResponse, error)
	GetBySlug(ctx context.Context, slug string) (*commonDto.GroupResponse, error)
	ListGroups(ctx context.Context) ([]commonDto.GroupResponse, error)
	UpdateGroup(ctx context.Context, slug string, req dto.UpdateGroupRequest) (*commonDto.GroupResponse, error)
	DeleteGroup(ctx context.Context, slug string) error
}

type groupService struct {
	repo          repository.GroupRepository
	cache         feedcache.Cache
	slugMaxLength int
}

func NewGroupService(repo repository.GroupRepository, cache feedcache.Cache, slugMaxLength int) GroupService {
	if slugMaxLength < 1 {
		slugMaxLength = DefaultSlugMaxLength
	}
	return &groupService{repo: repo, cache: cache, slugMaxLength: slugMaxLength}
}

func (s *groupService) CreateGroup(ctx context.Context, req dto.CreateGroupRequest) (*commonDto.GroupResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperror.NewValidationError("title", "this field is required")
	}

	slug, err := s.pickSlug(ctx, strings.TrimSpace(req.Slug), title, 0)
	if err != nil {
		return nil, err
	}

	group := &entity.Group{
		Title:       title,
		Slug:        slug,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, group); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("group with slug %q: %w", slug, apperror.ErrConflict)
		}
		return nil, err
	}

	logger.Ctx(ctx).Info().Str("slug", slug).Msg("group created")
	return postDto.ToGroupResponse(group), nil
}

func (s *groupService) GetBySlug(ctx context.Context, slug string) (*commonDto.GroupResponse, error) {
	group, err := s.find(ctx, slug)
	if err != nil {
		return nil, err
	}
	return postDto.ToGroupResponse(group), nil
}

func (s *groupService) ListGroups(ctx context.Context) ([]commonDto.GroupResponse, error) {
	groups, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]commonDto.GroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, *postDto.ToGroupResponse(g))
	}
	return out, nil
}

func (s *groupService) UpdateGroup(ctx context.Context, slug string, req dto.UpdateGroupRequest) (*commonDto.GroupResponse, error) {
	group, err := s.find(ctx, slug)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperror.NewValidationError("title", "this field is required")
		}
		group.Title = title
	}
	if req.Description != nil {
		group.Description = *req.Description
	}
	if req.Slug != nil {
		newSlug, err := s.pickSlug(ctx, strings.TrimSpace(*req.Slug), group.Title, group.ID)
		if err != nil {
			return nil, err
		}
		group.Slug = newSlug
	}

	if err := s.repo.Update(ctx, group); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("group with slug %q: %w", group.Slug, apperror.ErrConflict)
		}
		return nil, err
	}

	feedcache.InvalidateOrLog(ctx, s.cache, "group updated")
	return postDto.ToGroupResponse(group), nil
}

func (s *groupService) DeleteGroup(ctx context.Context, slug string) error {
	group, err := s.find(ctx, slug)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, group.ID); err != nil {
		return err
	}

	feedcache.InvalidateOrLog(ctx, s.cache, "group deleted")
	logger.Ctx(ctx).Info().Str("slug", slug).Msg("group deleted")
	return nil
}

func (s *groupService) find(ctx context.Context, slug string) (*entity.Group, error) {
	group, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("group %q: %w", slug, apperror.ErrNotFound)
		}
		return nil, err
	}
	return group, nil
}

// pickSlug validates an explicit slug or derives one from title, then checks
// that no other group owns it.
func (s *groupService) pickSlug(ctx context.Context, explicit, title string, exceptID uint) (string, error) {
	slug := explicit
	if slug == "" {
		slug = generateSlug(title, s.slugMaxLength)
		if slug == "" {
			return "", apperror.NewValidationError("slug", "could not derive a slug from the title, enter one")
		}
	} else if !validator.IsSlug(slug) {
		return "", apperror.NewValidationError("slug", "slug may only contain letters, numbers, underscores or hyphens")
	}

	taken, err := s.repo.SlugTaken(ctx, slug, exceptID)
	if err != nil {
		return "", err
	}
	if taken {
		return "", fmt.Errorf("group with slug %q: %w", slug, apperror.ErrConflict)
	}
	return slug, nil
}
