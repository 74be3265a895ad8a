package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/samber/oops"

	"github.com/martijn/quill/internal/core/domain"
	"github.com/martijn/quill/internal/core/repository"
)

type userRepository struct {
	q querier
}

func NewUserRepository(db *DB) repository.UserRepository {
	return &userRepository{q: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := r.q.Rebind(`
		INSERT INTO "user" (username, password)
		VALUES (?, ?)
		RETURNING id
	`)
	if err := r.q.GetContext(ctx, &user.ID, query, user.Username, user.Password); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateUsername
		}
		return oops.In("database").With("username", user.Username).Wrapf(err, "failed to create user")
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	query := r.q.Rebind(`
		SELECT id, username, password
		FROM "user"
		WHERE id = ?
	`)
	var user domain.User
	err := r.q.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, oops.In("database").With("user_id", id).Wrapf(err, "failed to find user")
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := r.q.Rebind(`
		SELECT id, username, password
		FROM "user"
		WHERE username = ?
	`)
	var user domain.User
	err := r.q.GetContext(ctx, &user, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, oops.In("database").With("username", username).Wrapf(err, "failed to find user")
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := `
		SELECT id, username, password
		FROM "user"
		ORDER BY username
	`
	var users []*domain.User
	if err := r.q.SelectContext(ctx, &users, query); err != nil {
		return nil, oops.In("database").Wrapf(err, "failed to list users")
	}
	return users, nil
}
