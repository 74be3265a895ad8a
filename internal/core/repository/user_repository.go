package repository

import (
	"context"
	"errors"

	"github.com/martijn/quill/internal/core/domain"
)

// ErrDuplicateUsername is returned by Create when the username is already taken
var ErrDuplicateUsername = errors.New("username already exists")

// UserRepository finders return (nil, nil) when no row matches.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}
