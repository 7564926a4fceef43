package repository

import (
	"context"
	"errors"

	"github.com/Sudip2708/poustovnik-english/internal/cache"
	"github.com/Sudip2708/poustovnik-english/internal/models"

	"gorm.io/gorm"
)

// DefaultPageSize is the number of posts per listing page.
const DefaultPageSize = 5

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	ListPage(ctx context.Context, page, perPage int) (*models.PostPage, error)
	ListByAuthorPage(ctx context.Context, userID uint, page, perPage int) (*models.PostPage, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetByID serves post detail reads through the cache. The post row carries
// nothing sensitive, so the JSON round trip is lossless for what readers see.
func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		if err := r.db.WithContext(ctx).Preload("User").First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func clampPage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPageSize
	}
	if perPage > 100 {
		perPage = 100
	}
	return page, perPage
}

// listPage runs a newest-first paginated query over the given scope.
// Ordering ties on created_at break by id so pagination stays stable for
// posts created within the same clock tick.
func (r *postRepository) listPage(ctx context.Context, scope func(*gorm.DB) *gorm.DB, page, perPage int) (*models.PostPage, error) {
	page, perPage = clampPage(page, perPage)

	var total int64
	if err := scope(r.db.WithContext(ctx).Model(&models.Post{})).Count(&total).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	var posts []*models.Post
	err := scope(r.db.WithContext(ctx)).
		Preload("User").
		Order("created_at DESC").
		Order("id DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return &models.PostPage{
		Items:      posts,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

func (r *postRepository) ListPage(ctx context.Context, page, perPage int) (*models.PostPage, error) {
	return r.listPage(ctx, func(db *gorm.DB) *gorm.DB { return db }, page, perPage)
}

func (r *postRepository) ListByAuthorPage(ctx context.Context, userID uint, page, perPage int) (*models.PostPage, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
	return r.listPage(ctx, scope, page, perPage)
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}
