package repository

import (
	"context"

	"anoa.com/blogfeed/internal/entity"
	"anoa.com/blogfeed/internal/ondelete"
	"gorm.io/gorm"
)

type GroupRepository interface {
	Create(ctx context.Context, group *entity.Group) error
	FindBySlug(ctx context.Context, slug string) (*entity.Group, error)
	FindByID(ctx context.Context, id uint) (*entity.Group, error)
	FindAll(ctx context.Context) ([]*entity.Group, error)
	SlugTaken(ctx context.Context, slug string, exceptID uint) (bool, error)
	Update(ctx context.Context, group *entity.Group) error
	Delete(ctx context.Context, id uint) error
}

type groupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(ctx context.Context, group *entity.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *groupRepository) FindBySlug(ctx context.Context, slug string) (*entity.Group, error) {
	var group entity.Group
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) FindByID(ctx context.Context, id uint) (*entity.Group, error) {
	var group entity.Group
	if err := r.db.WithContext(ctx).First(&group, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) FindAll(ctx context.Context) ([]*entity.Group, error) {
	var groups []*entity.Group
	if err := r.db.WithContext(ctx).Order("title ASC, id ASC").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// SlugTaken reports whether a group other than exceptID already owns slug.
func (r *groupRepository) SlugTaken(ctx context.Context, slug string, exceptID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&entity.Group{}).Where("slug = ?", slug)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *groupRepository) Update(ctx context.Context, group *entity.Group) error {
	return r.db.WithContext(ctx).Model(group).Select("Title", "Slug", "Description").Updates(group).Error
}

// Delete removes the group; its posts stay with the group cleared.
func (r *groupRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return ondelete.Delete(tx, ondelete.Groups, id)
	})
}
