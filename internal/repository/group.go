package repository

import (
	"context"

	"yatube/internal/cache"
	"yatube/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GroupRepository defines the interface for group data operations.
type GroupRepository interface {
	GetBySlug(ctx context.Context, slug string) (*models.Group, error)
	List(ctx context.Context) ([]*models.Group, error)
	Upsert(ctx context.Context, group *models.Group) error
	Exists(ctx context.Context, id uint) (bool, error)
}

type groupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	return cache.Aside(ctx, cache.GroupKey(slug), cache.GroupTTL, func(ctx context.Context) (*models.Group, error) {
		var group models.Group
		if err := readDB(ctx, r.db).WithContext(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
			return nil, mapFindError(err, "Group", slug)
		}
		return &group, nil
	})
}

// List returns every group ordered by title, as offered in the post form.
func (r *groupRepository) List(ctx context.Context) ([]*models.Group, error) {
	groups := []*models.Group{}
	if err := readDB(ctx, r.db).WithContext(ctx).Order("title ASC, id ASC").Find(&groups).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return groups, nil
}

// Upsert inserts group, or updates the title and description of the group
// with the same slug. group is reloaded from the primary afterwards.
func (r *groupRepository) Upsert(ctx context.Context, group *models.Group) error {
	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "description"}),
	}).Create(group).Error; err != nil {
		return models.NewInternalError(err)
	}

	// An update on conflict does not report the existing id on every driver.
	var stored models.Group
	if err := db.Where("slug = ?", group.Slug).First(&stored).Error; err != nil {
		return mapFindError(err, "Group", group.Slug)
	}
	*group = stored
	cache.InvalidateGroup(ctx, group.Slug)
	return nil
}

func (r *groupRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := readDB(ctx, r.db).WithContext(ctx).Model(&models.Group{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return n > 0, nil
}
