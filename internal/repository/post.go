package repository

import (
	"context"
	"errors"
	"strings"

	"quill/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]*models.Post, error)
	ListByAuthors(ctx context.Context, authorIDs []uint) ([]*models.Post, error)
	Search(ctx context.Context, term string) ([]*models.Post, error)
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
	UpdateContent(ctx context.Context, id uint, title, body string) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// withAuthor is the single join stage every multi-post read goes through.
func (r *postRepository) withAuthor(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Post{}).Preload("User")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.withAuthor(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.withAuthor(ctx).
		Where("user_id = ?", authorID).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByAuthors(ctx context.Context, authorIDs []uint) ([]*models.Post, error) {
	if len(authorIDs) == 0 {
		return []*models.Post{}, nil
	}
	var posts []*models.Post
	err := r.withAuthor(ctx).
		Where("user_id IN ?", authorIDs).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// Search ranks matches over title+body by relevance. PostgreSQL uses the
// full-text index; other dialects fall back to a weighted LIKE match so the
// ordering contract holds everywhere.
func (r *postRepository) Search(ctx context.Context, term string) ([]*models.Post, error) {
	var posts []*models.Post
	var err error

	if r.db.Dialector.Name() == "postgres" {
		err = r.withAuthor(ctx).
			Select("posts.*, ts_rank(to_tsvector('english', title || ' ' || body), plainto_tsquery('english', ?)) AS score", term).
			Where("to_tsvector('english', title || ' ' || body) @@ plainto_tsquery('english', ?)", term).
			Order("score DESC").
			Find(&posts).Error
	} else {
		like := "%" + strings.ToLower(term) + "%"
		err = r.withAuthor(ctx).
			Select("posts.*, (CASE WHEN lower(title) LIKE ? THEN 2.0 ELSE 0.0 END) + (CASE WHEN lower(body) LIKE ? THEN 1.0 ELSE 0.0 END) AS score", like, like).
			Where("lower(title) LIKE ? OR lower(body) LIKE ?", like, like).
			Order("score DESC, created_at DESC").
			Find(&posts).Error
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("user_id = ?", authorID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// UpdateContent changes title and body only; author and creation date are
// immutable.
func (r *postRepository) UpdateContent(ctx context.Context, id uint, title, body string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"title": title, "body": body}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
