// Package inkwell is a small personal blogging service built with Go and Echo.
// It exposes post storage over a REST API for a single-page front end, with a
// choice of an embedded JSON-file store or a SQLite-backed service, an image
// ingestion pipeline for post covers, and an optional AI draft generator.
package inkwell

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// App is the central inkwell application. It wires together the store, cache,
// handlers, middleware, and the optional draft generator.
type App struct {
	Config    SiteConfig
	Echo      *echo.Echo
	Store     Store
	Cache     *PostCache
	Posts     *PostService
	Generator *Generator

	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	staticDir    string
}

// New creates a new inkwell App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		staticDir: "dist",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the store, cache, middleware, and routes, and starts the
// server. It blocks until the server stops.
func (a *App) Start() error {
	if err := a.init(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// init wires everything short of listening. Split from Start so tests can
// drive the Echo instance through httptest.
func (a *App) init() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("inkwell: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("inkwell: SessionSecret is required")
	}

	if a.Store == nil {
		store, err := openStore(a.Config)
		if err != nil {
			return fmt.Errorf("inkwell: init store: %w", err)
		}
		a.Store = store
	}

	if err := a.seedIfEmpty(context.Background()); err != nil {
		return fmt.Errorf("inkwell: seed store: %w", err)
	}

	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL)
	a.Posts = NewPostService(a.Store, nil)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	if a.Config.GeminiAPIKey != "" {
		a.Generator = NewGenerator(a.Config.GeminiAPIKey)
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// openStore selects the persistence implementation from configuration. The
// two backends are mutually exclusive deployment modes, not runtime variants.
func openStore(cfg SiteConfig) (Store, error) {
	switch cfg.StorageBackend {
	case BackendFile:
		return NewFileStore(cfg.DataPath)
	case BackendSQLite:
		return NewSQLStore(cfg.DatabasePath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// seedIfEmpty inserts a welcome post into a brand-new store.
func (a *App) seedIfEmpty(ctx context.Context) error {
	posts, err := a.Store.ListPosts(ctx, "")
	if err != nil {
		return err
	}
	if len(posts) > 0 {
		return nil
	}
	content := "Welcome to your new blog. Posts are stored behind a single storage " +
		"contract with two interchangeable backends, cover images are resized and " +
		"embedded as data URIs, and the admin panel lives in the front-end app."
	return a.Store.InsertPost(ctx, Post{
		ID:        uuid.NewString(),
		Title:     "Welcome to the Future of Blogging",
		Content:   content,
		Excerpt:   MakeExcerpt(content),
		ImageURL:  PlaceholderImageURL(),
		CreatedAt: time.Now().UnixMilli(),
		Author:    defaultAuthor,
	})
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Storage backend REST surface
	e.GET("/api/posts", a.handleListPosts)
	e.GET("/api/posts/:id", a.handleGetPost)
	e.POST("/api/posts", a.handleCreatePost)
	e.DELETE("/api/posts/:id", a.handleDeletePost)

	// Auth gate
	e.POST("/api/login", a.handleLogin)
	e.POST("/api/logout", handleLogout)

	// AI draft generator
	e.POST("/api/generate", a.handleGenerate)

	// Feeds and crawler endpoints
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/robots.txt", a.handleRobots)

	// Everything else falls through to the front-end application shell.
	e.GET("/*", a.handleSPA)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
