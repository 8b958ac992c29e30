package repository

import (
	"context"
	"errors"

	"anoa.com/blogfeed/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FollowRepository interface {
	// Create adds the edge unless it already exists.
	Create(ctx context.Context, userID, authorID uuid.UUID) error
	// Delete removes every matching edge and reports how many were removed.
	Delete(ctx context.Context, userID, authorID uuid.UUID) (int64, error)
	Exists(ctx context.Context, userID, authorID uuid.UUID) (bool, error)
	FollowedAuthorIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	CountEdges(ctx context.Context, userID, authorID uuid.UUID) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(ctx context.Context, userID, authorID uuid.UUID) error {
	follow := entity.Follow{UserID: userID, AuthorID: authorID}
	err := r.db.WithContext(ctx).
		Omit("User", "Author").
		Where("user_id = ? AND author_id = ?", userID, authorID).
		FirstOrCreate(&follow).Error
	// A concurrent request inserted the same pair first.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

func (r *followRepository) Delete(ctx context.Context, userID, authorID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&entity.Follow{})
	return res.RowsAffected, res.Error
}

func (r *followRepository) Exists(ctx context.Context, userID, authorID uuid.UUID) (bool, error) {
	count, err := r.CountEdges(ctx, userID, authorID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *followRepository) CountEdges(ctx context.Context, userID, authorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	return count, err
}

func (r *followRepository) FollowedAuthorIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&entity.Follow{}).
		Where("user_id = ?", userID).
		Distinct().
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
