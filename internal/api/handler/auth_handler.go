package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/martijn/quill/internal/api/dto"
	"github.com/martijn/quill/internal/api/middleware"
	"github.com/martijn/quill/internal/api/render"
	"github.com/martijn/quill/internal/core/service"
)

const (
	registerTemplate = "auth/register.html"
	loginTemplate    = "auth/login.html"
)

type AuthHandler struct {
	credentials *service.CredentialService
	cookies     *middleware.SessionCookies
}

func NewAuthHandler(credentials *service.CredentialService, cookies *middleware.SessionCookies) *AuthHandler {
	return &AuthHandler{
		credentials: credentials,
		cookies:     cookies,
	}
}

// RegisterForm handles GET /auth/register
func (h *AuthHandler) RegisterForm(c *gin.Context) {
	renderPage(c, registerTemplate, render.Page{Form: dto.CredentialsForm{}})
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var form dto.CredentialsForm
	if err := c.ShouldBind(&form); err != nil {
		middleware.AbortWithStatusPage(c, http.StatusBadRequest)
		return
	}

	scope := mustScope(c)
	err := h.credentials.Register(c.Request.Context(), scope.Store, form.Username, form.Password)
	if err != nil {
		if message, ok := service.UserMessage(err); ok {
			renderPage(c, registerTemplate, render.Page{Form: dto.CredentialsForm{Username: form.Username}, Error: message})
			return
		}
		_ = c.Error(err)
		return
	}

	c.Redirect(http.StatusFound, middleware.LoginPath)
}

// LoginForm handles GET /auth/login
func (h *AuthHandler) LoginForm(c *gin.Context) {
	renderPage(c, loginTemplate, render.Page{Form: dto.CredentialsForm{}})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var form dto.CredentialsForm
	if err := c.ShouldBind(&form); err != nil {
		middleware.AbortWithStatusPage(c, http.StatusBadRequest)
		return
	}

	scope := mustScope(c)
	userID, err := h.credentials.Verify(c.Request.Context(), scope.Store, form.Username, form.Password)
	if err != nil {
		if message, ok := service.UserMessage(err); ok {
			renderPage(c, loginTemplate, render.Page{Form: dto.CredentialsForm{Username: form.Username}, Error: message})
			return
		}
		_ = c.Error(err)
		return
	}

	if err := h.cookies.Establish(c, userID); err != nil {
		_ = c.Error(err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// Logout handles GET /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookies.Clear(c)
	c.Redirect(http.StatusFound, "/")
}
