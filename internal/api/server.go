package api

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/martijn/quill/internal/api/handler"
	"github.com/martijn/quill/internal/api/middleware"
	"github.com/martijn/quill/internal/api/render"
	"github.com/martijn/quill/internal/core/service"
	"github.com/martijn/quill/internal/core/session"
	"github.com/martijn/quill/internal/infrastructure/database"
	"github.com/martijn/quill/pkg/config"
	"github.com/martijn/quill/web"
)

type Server struct {
	router *gin.Engine
	srv    *http.Server
	config *config.Config
	logger *slog.Logger
}

// Dependencies are the long-lived objects shared by every request
type Dependencies struct {
	DB          *database.DB
	Credentials *service.CredentialService
	Posts       *service.PostService
	Codec       *session.Codec
	Logger      *slog.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, deps Dependencies) (*Server, error) {
	// Set Gin mode
	if !cfg.IsDevMode() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	templates, err := render.New(web.FS, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	static, err := fs.Sub(web.FS, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to load static assets: %w", err)
	}

	router := gin.New()
	router.HTMLRender = templates

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.ErrorHandlerMiddleware(logger))

	router.StaticFS("/static", http.FS(static))

	// Health check
	healthHandler := handler.NewHealthHandler(deps.DB)
	router.GET("/health", healthHandler.Health)

	// Initialize handlers
	cookies := middleware.NewSessionCookies(deps.Codec, cfg.SessionCookie, cfg.SessionCookieSecure)
	resolver := session.NewResolver(deps.Codec, logger)
	authHandler := handler.NewAuthHandler(deps.Credentials, cookies)
	blogHandler := handler.NewBlogHandler(deps.Posts)

	// Every page route gets its own gateway and resolved identity
	app := router.Group("/")
	app.Use(middleware.ScopeMiddleware(deps.DB, resolver, cookies))

	auth := app.Group("/auth")
	{
		auth.GET("/register", authHandler.RegisterForm)
		auth.POST("/register", authHandler.Register)
		auth.GET("/login", authHandler.LoginForm)
		auth.POST("/login", authHandler.Login)
		auth.GET("/logout", authHandler.Logout)
	}

	app.GET("/", blogHandler.Index)

	// Protected routes (login required)
	blog := app.Group("/")
	blog.Use(middleware.LoginRequired())
	{
		blog.GET("/create", blogHandler.CreateForm)
		blog.POST("/create", blogHandler.Create)
		blog.GET("/:id/update", blogHandler.UpdateForm)
		blog.POST("/:id/update", blogHandler.Update)
		blog.POST("/:id/delete", blogHandler.Delete)
	}

	router.NoRoute(middleware.ScopeMiddleware(deps.DB, resolver, cookies), func(c *gin.Context) {
		middleware.AbortWithStatusPage(c, http.StatusNotFound)
	})

	return &Server{
		router: router,
		config: cfg,
		logger: logger,
	}, nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.APIHost, s.config.APIPort)

	s.srv = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	// Start with or without SSL
	if s.config.SSLCert != "" && s.config.SSLKey != "" {
		s.logger.Info("starting HTTPS server", "addr", addr)
		return s.srv.ListenAndServeTLS(s.config.SSLCert, s.config.SSLKey)
	}

	s.logger.Info("starting HTTP server", "addr", addr)
	return s.srv.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}
