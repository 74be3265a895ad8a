package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/martijn/quill/internal/api/middleware"
	"github.com/martijn/quill/internal/api/render"
	"github.com/martijn/quill/internal/core/service"
)

// renderPage renders name with status 200, filling in the caller's identity
func renderPage(c *gin.Context, name string, page render.Page) {
	page.Identity = middleware.GetIdentity(c)
	c.HTML(http.StatusOK, name, page)
}

// mustScope panics when the scope middleware is missing from the chain;
// that is a wiring bug, not a request error.
func mustScope(c *gin.Context) service.Scope {
	scope, ok := middleware.GetScope(c)
	if !ok {
		panic("request scope not set")
	}
	return scope
}
