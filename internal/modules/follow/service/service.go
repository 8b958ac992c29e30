package follow

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/blogfeed/internal/entity"
	"anoa.com/blogfeed/internal/modules/follow/repository"
	userRepo "anoa.com/blogfeed/internal/modules/user/repository"
	"anoa.com/blogfeed/pkg/apperror"
	"anoa.com/blogfeed/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FollowService interface {
	// Follow subscribes userID to username's posts. Following yourself is ignored.
	Follow(ctx context.Context, userID uuid.UUID, username string) error
	// Unfollow removes every edge between the pair. A missing edge is not an error.
	Unfollow(ctx context.Context, userID uuid.UUID, username string) error
	IsFollowing(ctx context.Context, userID, authorID uuid.UUID) (bool, error)
	FollowedAuthors(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type followService struct {
	repo     repository.FollowRepository
	userRepo userRepo.UserRepository
}

func NewFollowService(repo repository.FollowRepository, userRepo userRepo.UserRepository) FollowService {
	return &followService{repo: repo, userRepo: userRepo}
}

func (s *followService) Follow(ctx context.Context, userID uuid.UUID, username string) error {
	author, err := s.author(ctx, username)
	if err != nil {
		return err
	}

	if author.ID == userID {
		logger.Ctx(ctx).Debug().Str("username", username).Msg("ignoring self-follow")
		return nil
	}

	if err := s.repo.Create(ctx, userID, author.ID); err != nil {
		// The follower's account was removed after its token was issued.
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return fmt.Errorf("follower %s: %w", userID, apperror.ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *followService) Unfollow(ctx context.Context, userID uuid.UUID, username string) error {
	author, err := s.author(ctx, username)
	if err != nil {
		return err
	}

	_, err = s.repo.Delete(ctx, userID, author.ID)
	return err
}

func (s *followService) IsFollowing(ctx context.Context, userID, authorID uuid.UUID) (bool, error) {
	return s.repo.Exists(ctx, userID, authorID)
}

func (s *followService) FollowedAuthors(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.repo.FollowedAuthorIDs(ctx, userID)
}

func (s *followService) author(ctx context.Context, username string) (*entity.User, error) {
	author, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %q: %w", username, apperror.ErrNotFound)
		}
		return nil, err
	}
	return author, nil
}
