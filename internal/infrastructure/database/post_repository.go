package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/samber/oops"

	"github.com/martijn/quill/internal/core/domain"
	"github.com/martijn/quill/internal/core/repository"
)

const selectPost = `
	SELECT p.id, p.author_id, p.created, p.title, p.body, u.username
	FROM post p
	JOIN "user" u ON p.author_id = u.id
`

type postRepository struct {
	q querier
}

func NewPostRepository(db *DB) repository.PostRepository {
	return &postRepository{q: db}
}

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	query := r.q.Rebind(`
		INSERT INTO post (title, body, author_id)
		VALUES (?, ?, ?)
		RETURNING id
	`)
	if err := r.q.GetContext(ctx, &post.ID, query, post.Title, post.Body, post.AuthorID); err != nil {
		return oops.In("database").With("author_id", post.AuthorID).Wrapf(err, "failed to create post")
	}
	return nil
}

func (r *postRepository) FindByID(ctx context.Context, id int64) (*domain.Post, error) {
	query := r.q.Rebind(selectPost + ` WHERE p.id = ?`)
	var post domain.Post
	err := r.q.GetContext(ctx, &post, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, oops.In("database").With("post_id", id).Wrapf(err, "failed to find post")
	}
	return &post, nil
}

// Update overwrites title and body only; author and created never change
func (r *postRepository) Update(ctx context.Context, post *domain.Post) error {
	query := r.q.Rebind(`
		UPDATE post
		SET title = ?, body = ?
		WHERE id = ?
	`)
	if _, err := r.q.ExecContext(ctx, query, post.Title, post.Body, post.ID); err != nil {
		return oops.In("database").With("post_id", post.ID).Wrapf(err, "failed to update post")
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id int64) error {
	query := r.q.Rebind(`DELETE FROM post WHERE id = ?`)
	if _, err := r.q.ExecContext(ctx, query, id); err != nil {
		return oops.In("database").With("post_id", id).Wrapf(err, "failed to delete post")
	}
	return nil
}

// List returns every post, newest first
func (r *postRepository) List(ctx context.Context) ([]*domain.Post, error) {
	query := selectPost + ` ORDER BY p.created DESC, p.id DESC`
	var posts []*domain.Post
	if err := r.q.SelectContext(ctx, &posts, query); err != nil {
		return nil, oops.In("database").Wrapf(err, "failed to list posts")
	}
	return posts, nil
}

func (r *postRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.q.GetContext(ctx, &count, `SELECT COUNT(id) FROM post`); err != nil {
		return 0, oops.In("database").Wrapf(err, "failed to count posts")
	}
	return count, nil
}
