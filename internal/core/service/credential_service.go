package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/martijn/quill/internal/core/domain"
	"github.com/martijn/quill/internal/core/repository"
)

type CredentialService struct {
	hasher PasswordHasher
	logger *slog.Logger

	// compared against when the username is unknown so both failure paths
	// cost one hash comparison
	dummyHash string
}

func NewCredentialService(hasher PasswordHasher, logger *slog.Logger) *CredentialService {
	if logger == nil {
		logger = slog.Default()
	}
	dummyHash, err := hasher.Hash("quill-dummy-password")
	if err != nil {
		logger.Warn("failed to prepare dummy password hash", "error", err)
	}
	return &CredentialService{
		hasher:    hasher,
		logger:    logger,
		dummyHash: dummyHash,
	}
}

// Register creates a user with a hashed password. The duplicate check and the
// insert share one commit boundary.
func (s *CredentialService) Register(ctx context.Context, store repository.Store, username, password string) error {
	if username == "" {
		return emptyField("username", "Username is required.")
	}
	if password == "" {
		return emptyField("password", "Password is required.")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	duplicate := &ValidationError{
		Kind:    DuplicateUsername,
		Field:   "username",
		Message: fmt.Sprintf("User %s is already registered.", username),
	}

	err = store.Write(ctx, func(tx repository.Store) error {
		existing, err := tx.Users().FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		if existing != nil {
			return duplicate
		}
		return tx.Users().Create(ctx, domain.NewUser(username, hash))
	})
	if errors.Is(err, repository.ErrDuplicateUsername) {
		return duplicate
	}
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "user registered", "username", username)
	return nil
}

// Verify checks a username/password pair and returns the user id
func (s *CredentialService) Verify(ctx context.Context, store repository.Store, username, password string) (int64, error) {
	user, err := store.Users().FindByUsername(ctx, username)
	if err != nil {
		return 0, err
	}

	if user == nil {
		if s.dummyHash != "" {
			_, _ = s.hasher.Verify(password, s.dummyHash)
		}
		s.logger.InfoContext(ctx, "login rejected", "username", username, "reason", UnknownUsername)
		return 0, &AuthError{Kind: UnknownUsername, Message: "Incorrect username."}
	}

	ok, err := s.hasher.Verify(password, user.Password)
	if err != nil {
		return 0, err
	}
	if !ok {
		s.logger.InfoContext(ctx, "login rejected", "username", username, "reason", BadPassword)
		return 0, &AuthError{Kind: BadPassword, Message: "Incorrect password."}
	}

	return user.ID, nil
}
