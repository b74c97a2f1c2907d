package repository

import (
	"context"
	"errors"
	"fmt"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// UpdatePostInput carries the edit form fields with explicit presence: a nil
// pointer means the field was absent from the request.
type UpdatePostInput struct {
	Title   *string
	Content *string
}

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	List(ctx context.Context) ([]*models.Post, error)
	ListByOwner(ctx context.Context, userID uint) ([]*models.Post, error)
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetByTitle(ctx context.Context, title string) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, id uint, in UpdatePostInput) (*models.Post, error)
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// List returns every post in store-default order. The result set is
// unbounded; pagination is an accepted limitation of the product.
func (r *postRepository) List(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.db.WithContext(ctx).Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByOwner(ctx context.Context, userID uint) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) GetByTitle(ctx context.Context, title string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("title = ?", title).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// Create inserts a post after a title-uniqueness lookup. The lookup and the
// insert run in one transaction so a failed insert leaves no partial state.
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Post
		err := tx.Where("title = ?", post.Title).First(&existing).Error
		if err == nil {
			return models.NewConflictError(fmt.Sprintf("A post with %s already exists", post.Title))
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewInternalError(err)
		}
		return tx.Create(post).Error
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		if isUniqueConstraintError(err) {
			// Column-constraint backstop for the lookup/insert race.
			return models.NewConflictError(fmt.Sprintf("A post with %s already exists", post.Title))
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Update applies the edit form to the post. Field semantics are pinned to
// the shipped behavior: a present title overwrites the title; a present
// content overwrites the content and, when the title is absent in that same
// request, blanks the title; an absent content leaves content untouched.
func (r *postRepository) Update(ctx context.Context, id uint, in UpdatePostInput) (*models.Post, error) {
	var updated *models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}

		if in.Title != nil {
			post.Title = *in.Title
		}
		if in.Content != nil {
			post.Content = *in.Content
			if in.Title == nil {
				// The absent title still overwrites; content-only edits
				// blank the title.
				post.Title = ""
			}
		}

		if err := tx.Save(&post).Error; err != nil {
			if isUniqueConstraintError(err) {
				return models.NewConflictError(fmt.Sprintf("A post with %s already exists", post.Title))
			}
			return models.NewInternalError(err)
		}
		updated = &post
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the post. No ownership check is performed here or in the
// handlers; any caller holding a valid post ID may delete it.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}
