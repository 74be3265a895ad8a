package service

import (
	"context"

	"github.com/martijn/quill/internal/core/domain"
	"github.com/martijn/quill/internal/core/repository"
)

// PostService validates post input before it reaches the store. Existence and
// authorship are checked by the caller's guards, not here.
type PostService struct{}

func NewPostService() *PostService {
	return &PostService{}
}

func (s *PostService) List(ctx context.Context, store repository.Store) ([]*domain.Post, error) {
	return store.Posts().List(ctx)
}

// Get returns nil when the post does not exist
func (s *PostService) Get(ctx context.Context, store repository.Store, id int64) (*domain.Post, error) {
	return store.Posts().FindByID(ctx, id)
}

func (s *PostService) Count(ctx context.Context, store repository.Store) (int, error) {
	return store.Posts().Count(ctx)
}

func (s *PostService) Create(ctx context.Context, store repository.Store, title, body string, authorID int64) (int64, error) {
	if title == "" {
		return 0, emptyField("title", "Title is required.")
	}

	post := domain.NewPost(title, body, authorID)
	err := store.Write(ctx, func(tx repository.Store) error {
		return tx.Posts().Create(ctx, post)
	})
	if err != nil {
		return 0, err
	}
	return post.ID, nil
}

func (s *PostService) Update(ctx context.Context, store repository.Store, id int64, title, body string) error {
	if title == "" {
		return emptyField("title", "Title is required.")
	}

	return store.Write(ctx, func(tx repository.Store) error {
		return tx.Posts().Update(ctx, &domain.Post{ID: id, Title: title, Body: body})
	})
}

func (s *PostService) Delete(ctx context.Context, store repository.Store, id int64) error {
	return store.Write(ctx, func(tx repository.Store) error {
		return tx.Posts().Delete(ctx, id)
	})
}
