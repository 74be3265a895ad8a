package repository

import (
	"context"

	"github.com/martijn/quill/internal/core/domain"
)

// PostRepository reads return posts joined with their author's username.
// FindByID returns (nil, nil) when the post does not exist.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	FindByID(ctx context.Context, id int64) (*domain.Post, error)
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.Post, error)
	Count(ctx context.Context) (int, error)
}
