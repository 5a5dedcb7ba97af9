package repository

import (
	"context"

	"yatube/internal/cache"
	"yatube/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations.
// Every listing is ordered newest first.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	List(ctx context.Context, limit, offset int) ([]*models.Post, error)
	ListByGroup(ctx context.Context, groupID uint, limit, offset int) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error)
	Count(ctx context.Context) (int64, error)
	CountByGroup(ctx context.Context, groupID uint) (int64, error)
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return cache.Aside(ctx, cache.PostKey(id), cache.PostTTL, func(ctx context.Context) (*models.Post, error) {
		var post models.Post
		err := r.db.WithContext(ctx).
			Preload("Author").
			Preload("Group").
			First(&post, id).Error
		if err != nil {
			return nil, mapFindError(err, "Post", id)
		}
		return &post, nil
	})
}

// Update persists the editable fields (text and group) only.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).
		Model(&models.Post{ID: post.ID}).
		Select("text", "group_id").
		Updates(map[string]any{"text": post.Text, "group_id": post.GroupID}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

func (r *postRepository) listing(ctx context.Context, limit, offset int) *gorm.DB {
	return readDB(ctx, r.db).WithContext(ctx).
		Model(&models.Post{}).
		Preload("Author").
		Preload("Group").
		Order(models.PostOrder).
		Limit(limit).
		Offset(offset)
}

func (r *postRepository) find(q *gorm.DB) ([]*models.Post, error) {
	posts := []*models.Post{}
	if err := q.Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return r.find(r.listing(ctx, limit, offset))
}

func (r *postRepository) ListByGroup(ctx context.Context, groupID uint, limit, offset int) ([]*models.Post, error) {
	return r.find(r.listing(ctx, limit, offset).Where("posts.group_id = ?", groupID))
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error) {
	return r.find(r.listing(ctx, limit, offset).Where("posts.author_id = ?", authorID))
}

func (r *postRepository) count(q *gorm.DB) (int64, error) {
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	return r.count(readDB(ctx, r.db).WithContext(ctx).Model(&models.Post{}))
}

func (r *postRepository) CountByGroup(ctx context.Context, groupID uint) (int64, error) {
	return r.count(readDB(ctx, r.db).WithContext(ctx).Model(&models.Post{}).Where("posts.group_id = ?", groupID))
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return r.count(readDB(ctx, r.db).WithContext(ctx).Model(&models.Post{}).Where("posts.author_id = ?", authorID))
}
