package service

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/blogfeed/internal/entity"
	"anoa.com/blogfeed/internal/modules/user/repository"
	"anoa.com/blogfeed/pkg/apperror"
	"anoa.com/blogfeed/pkg/feedcache"
	"anoa.com/blogfeed/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService interface {
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	// DeleteUser removes the account with everything it authored.
	DeleteUser(ctx context.Context, username string) error
}

type userService struct {
	repo  repository.UserRepository
	cache feedcache.Cache
}

func NewUserService(repo repository.UserRepository, cache feedcache.Cache) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %q: %w", username, apperror.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", id, apperror.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, username string) error {
	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, user.ID); err != nil {
		return err
	}

	feedcache.InvalidateOrLog(ctx, s.cache, "user deleted")
	logger.Ctx(ctx).Info().Str("username", username).Msg("user deleted")
	return nil
}
