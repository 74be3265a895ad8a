package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/martijn/quill/internal/core/guard"
)

const LoginPath = "/auth/login"

// LoginRequired redirects anonymous callers to the login page before the
// handler runs
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		outcome := guard.RequireAuthenticated(GetIdentity(c))
		if !outcome.Allowed() {
			Deny(c, outcome.Decision)
			return
		}
		c.Next()
	}
}

// Deny aborts the request with the response matching a failed guard decision
func Deny(c *gin.Context, decision guard.Decision) {
	switch decision {
	case guard.Redirect:
		c.Redirect(http.StatusFound, LoginPath)
		c.Abort()
	case guard.Forbidden:
		AbortWithStatusPage(c, http.StatusForbidden)
	case guard.NotFound:
		AbortWithStatusPage(c, http.StatusNotFound)
	default:
		AbortWithStatusPage(c, http.StatusInternalServerError)
	}
}
