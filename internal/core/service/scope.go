package service

import (
	"github.com/martijn/quill/internal/core/domain"
	"github.com/martijn/quill/internal/core/repository"
)

// Scope is everything a single request carries into the core: its store
// handle and the identity resolved for it. One Scope is built per request and
// passed down explicitly.
type Scope struct {
	Store    repository.Store
	Identity domain.Identity
}
