package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/martijn/quill/internal/api/render"
	"github.com/martijn/quill/internal/logging"
)

const errorTemplate = "error.html"

// ErrorHandlerMiddleware handles panics and errors
func ErrorHandlerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logging.LogError(c.Request.Context(), logger, "panic while handling request", fmt.Errorf("%v", r))
				AbortWithStatusPage(c, http.StatusInternalServerError)
			}
		}()

		c.Next()

		// Check if there are any errors
		if len(c.Errors) > 0 {
			logging.LogError(c.Request.Context(), logger, "request failed", c.Errors.Last().Err)
			if !c.Writer.Written() {
				AbortWithStatusPage(c, http.StatusInternalServerError)
			}
		}
	}
}

// AbortWithStatusPage renders the error page with status and stops the chain
func AbortWithStatusPage(c *gin.Context, status int) {
	c.HTML(status, errorTemplate, render.Page{
		Identity: GetIdentity(c),
		Status:   status,
		Message:  http.StatusText(status),
	})
	c.Abort()
}
