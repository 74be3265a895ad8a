package session

import (
	"context"
	"log/slog"

	"github.com/martijn/quill/internal/core/domain"
	"github.com/martijn/quill/internal/core/repository"
)

type Resolver struct {
	codec  *Codec
	logger *slog.Logger
}

func NewResolver(codec *Codec, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{codec: codec, logger: logger}
}

// Resolve maps the raw cookie value to an identity with at most one user
// lookup. Missing, forged or expired tokens and tokens naming a user that no
// longer exists all resolve to Anonymous; only storage failures are returned.
func (r *Resolver) Resolve(ctx context.Context, users repository.UserRepository, raw string) (domain.Identity, error) {
	if raw == "" {
		return domain.Anonymous(), nil
	}

	token, err := r.codec.Decode(raw)
	if err != nil {
		r.logger.DebugContext(ctx, "ignoring session token", "error", err)
		return domain.Anonymous(), nil
	}

	user, err := users.FindByID(ctx, token.UserID)
	if err != nil {
		return domain.Anonymous(), err
	}
	if user == nil {
		r.logger.DebugContext(ctx, "session references missing user", "user_id", token.UserID)
		return domain.Anonymous(), nil
	}

	return domain.AuthenticatedAs(user), nil
}
