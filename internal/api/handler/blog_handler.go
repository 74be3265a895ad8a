package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/martijn/quill/internal/api/dto"
	"github.com/martijn/quill/internal/api/middleware"
	"github.com/martijn/quill/internal/api/render"
	"github.com/martijn/quill/internal/core/domain"
	"github.com/martijn/quill/internal/core/guard"
	"github.com/martijn/quill/internal/core/service"
)

const (
	indexTemplate  = "blog/index.html"
	createTemplate = "blog/create.html"
	updateTemplate = "blog/update.html"
)

type BlogHandler struct {
	posts *service.PostService
}

func NewBlogHandler(posts *service.PostService) *BlogHandler {
	return &BlogHandler{
		posts: posts,
	}
}

// Index handles GET /
func (h *BlogHandler) Index(c *gin.Context) {
	scope := mustScope(c)
	posts, err := h.posts.List(c.Request.Context(), scope.Store)
	if err != nil {
		_ = c.Error(err)
		return
	}

	renderPage(c, indexTemplate, render.Page{Posts: posts})
}

// CreateForm handles GET /create
func (h *BlogHandler) CreateForm(c *gin.Context) {
	renderPage(c, createTemplate, render.Page{Form: dto.PostForm{}})
}

// Create handles POST /create
func (h *BlogHandler) Create(c *gin.Context) {
	var form dto.PostForm
	if err := c.ShouldBind(&form); err != nil {
		middleware.AbortWithStatusPage(c, http.StatusBadRequest)
		return
	}

	scope := mustScope(c)
	_, err := h.posts.Create(c.Request.Context(), scope.Store, form.Title, form.Body, scope.Identity.UserID())
	if err != nil {
		if message, ok := service.UserMessage(err); ok {
			renderPage(c, createTemplate, render.Page{Form: form, Error: message})
			return
		}
		_ = c.Error(err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// UpdateForm handles GET /:id/update
func (h *BlogHandler) UpdateForm(c *gin.Context) {
	post, ok := h.ownedPost(c)
	if !ok {
		return
	}

	renderPage(c, updateTemplate, render.Page{
		Post: post,
		Form: dto.PostForm{Title: post.Title, Body: post.Body},
	})
}

// Update handles POST /:id/update
func (h *BlogHandler) Update(c *gin.Context) {
	post, ok := h.ownedPost(c)
	if !ok {
		return
	}

	var form dto.PostForm
	if err := c.ShouldBind(&form); err != nil {
		middleware.AbortWithStatusPage(c, http.StatusBadRequest)
		return
	}

	scope := mustScope(c)
	err := h.posts.Update(c.Request.Context(), scope.Store, post.ID, form.Title, form.Body)
	if err != nil {
		if message, ok := service.UserMessage(err); ok {
			renderPage(c, updateTemplate, render.Page{Post: post, Form: form, Error: message})
			return
		}
		_ = c.Error(err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// Delete handles POST /:id/delete
func (h *BlogHandler) Delete(c *gin.Context) {
	post, ok := h.ownedPost(c)
	if !ok {
		return
	}

	scope := mustScope(c)
	if err := h.posts.Delete(c.Request.Context(), scope.Store, post.ID); err != nil {
		_ = c.Error(err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// ownedPost loads the post named by :id and runs the ownership guards. When
// ok is false the response has already been written.
func (h *BlogHandler) ownedPost(c *gin.Context) (*domain.Post, bool) {
	scope := mustScope(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.AbortWithStatusPage(c, http.StatusNotFound)
		return nil, false
	}

	post, err := h.posts.Get(c.Request.Context(), scope.Store, id)
	if err != nil {
		_ = c.Error(err)
		return nil, false
	}

	outcome := guard.PostOwner(post, scope.Identity)
	if !outcome.Allowed() {
		middleware.Deny(c, outcome.Decision)
		return nil, false
	}
	return post, true
}
