package repository

import (
	"context"

	"anoa.com/blogfeed/internal/entity"
	"anoa.com/blogfeed/internal/ondelete"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Filter narrows a post listing. Zero value lists every post.
type Filter struct {
	GroupID  *uint
	AuthorID *uuid.UUID
	// FollowerID keeps only posts by authors this user follows.
	FollowerID *uuid.UUID
}

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	FindByID(ctx context.Context, id uint) (*entity.Post, error)
	FindByIDs(ctx context.Context, ids []uint) ([]*entity.Post, error)
	// Find returns posts newest first. A negative limit returns everything from offset.
	Find(ctx context.Context, filter Filter, offset, limit int) ([]*entity.Post, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	Update(ctx context.Context, post *entity.Post) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	return r.db.WithContext(ctx).Omit("Author", "Group").Create(post).Error
}

func (r *postRepository) FindByID(ctx context.Context, id uint) (*entity.Post, error) {
	var post entity.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		Where("id = ?", id).
		First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindByIDs(ctx context.Context, ids []uint) ([]*entity.Post, error) {
	var posts []*entity.Post
	if len(ids) == 0 {
		return posts, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		Where("id IN ?", ids).
		Order(entity.PostOrder).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Find(ctx context.Context, filter Filter, offset, limit int) ([]*entity.Post, error) {
	var posts []*entity.Post

	query := r.filtered(ctx, filter).
		Preload("Author").
		Preload("Group").
		Order(entity.PostOrder)

	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit >= 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Count(ctx context.Context, filter Filter) (int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *postRepository) filtered(ctx context.Context, filter Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&entity.Post{})

	if filter.GroupID != nil {
		query = query.Where("posts.group_id = ?", *filter.GroupID)
	}
	if filter.AuthorID != nil {
		query = query.Where("posts.author_id = ?", *filter.AuthorID)
	}
	if filter.FollowerID != nil {
		followed := r.db.Model(&entity.Follow{}).
			Select("author_id").
			Where("user_id = ?", *filter.FollowerID)
		query = query.Where("posts.author_id IN (?)", followed)
	}

	return query
}

// Update writes the mutable columns only. PubDate and AuthorID never change.
func (r *postRepository) Update(ctx context.Context, post *entity.Post) error {
	return r.db.WithContext(ctx).
		Model(&entity.Post{ID: post.ID}).
		Updates(map[string]any{
			"text":     post.Text,
			"group_id": post.GroupID,
			"image":    post.Image,
		}).Error
}

// Delete removes the post and detaches its comments.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return ondelete.Delete(tx, ondelete.Posts, id)
	})
}
