package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/martijn/quill/internal/core/domain"
	"github.com/martijn/quill/internal/core/service"
	"github.com/martijn/quill/internal/core/session"
	"github.com/martijn/quill/internal/infrastructure/database"
	"github.com/martijn/quill/internal/logging"
)

const ScopeContextKey = "scope"

// ScopeMiddleware opens a request-scoped gateway, resolves the caller's
// identity from the session cookie and stores both on the context. The
// gateway is closed when the request finishes, including on panic.
func ScopeMiddleware(db *database.DB, resolver *session.Resolver, cookies *SessionCookies) gin.HandlerFunc {
	return func(c *gin.Context) {
		gateway := db.Gateway()
		defer func() {
			if err := gateway.Close(); err != nil {
				_ = c.Error(err)
			}
		}()

		identity, err := resolver.Resolve(c.Request.Context(), gateway.Users(), cookies.Read(c))
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		if identity.Authenticated() {
			ctx := logging.WithAttrs(c.Request.Context(), slog.Int64("user_id", identity.UserID()))
			c.Request = c.Request.WithContext(ctx)
		}

		c.Set(ScopeContextKey, service.Scope{Store: gateway, Identity: identity})
		c.Next()
	}
}

// GetScope retrieves the request scope from context
func GetScope(c *gin.Context) (service.Scope, bool) {
	value, exists := c.Get(ScopeContextKey)
	if !exists {
		return service.Scope{}, false
	}

	scope, ok := value.(service.Scope)
	return scope, ok
}

// GetIdentity returns the anonymous identity when no scope is set
func GetIdentity(c *gin.Context) domain.Identity {
	scope, ok := GetScope(c)
	if !ok {
		return domain.Anonymous()
	}
	return scope.Identity
}
