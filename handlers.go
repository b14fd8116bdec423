package inkwell

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// apiError renders the API error shape: {error: message}. Per the REST
// contract every API failure answers 400 except unknown routes.
func apiError(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"error": msg})
}

// handleListPosts serves GET /api/posts?q= through the read cache.
func (a *App) handleListPosts(c echo.Context) error {
	posts, err := a.Cache.ListPosts(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		c.Logger().Errorf("list posts: %v", err)
		return apiError(c, http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, posts)
}

// handleGetPost serves GET /api/posts/:id. A missing id answers JSON null.
func (a *App) handleGetPost(c echo.Context) error {
	post, ok, err := a.Cache.GetPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		c.Logger().Errorf("get post: %v", err)
		return apiError(c, http.StatusBadRequest, err.Error())
	}
	if !ok {
		return c.JSON(http.StatusOK, nil)
	}
	return c.JSON(http.StatusOK, post)
}

// handleCreatePost serves POST /api/posts. The client sends the prepared
// payload (excerpt, imageUrl, createdAt, author); the server assigns the id
// and fills any field the caller left out, so a bare {title, content} body
// also yields a complete post.
func (a *App) handleCreatePost(c echo.Context) error {
	var p Post
	if err := c.Bind(&p); err != nil {
		return apiError(c, http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(p.Title) == "" {
		return apiError(c, http.StatusBadRequest, ErrTitleRequired.Error())
	}
	if strings.TrimSpace(p.Content) == "" {
		return apiError(c, http.StatusBadRequest, ErrContentRequired.Error())
	}

	p.ID = uuid.NewString()
	if p.Excerpt == "" {
		p.Excerpt = MakeExcerpt(p.Content)
	}
	if p.ImageURL == "" {
		p.ImageURL = PlaceholderImageURL()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().UnixMilli()
	}
	if p.Author == "" {
		p.Author = defaultAuthor
	}

	if err := a.Store.InsertPost(c.Request().Context(), p); err != nil {
		c.Logger().Errorf("create post: %v", err)
		return apiError(c, http.StatusBadRequest, err.Error())
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusOK, p)
}

// handleDeletePost serves DELETE /api/posts/:id, reporting how many rows were
// removed. Deleting a missing id answers changes: 0.
func (a *App) handleDeletePost(c echo.Context) error {
	changes, err := a.Store.DeletePost(c.Request().Context(), c.Param("id"))
	if err != nil {
		c.Logger().Errorf("delete post: %v", err)
		return apiError(c, http.StatusBadRequest, err.Error())
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusOK, map[string]any{
		"message": "deleted",
		"changes": changes,
	})
}

// handleRobots generates robots.txt dynamically using the configured site URL.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

// handleSPA serves the front-end application shell. Files present in the
// static dir are served directly; every other non-API path gets index.html so
// client-side routing works. Unknown /api paths answer 404 JSON.
func (a *App) handleSPA(c echo.Context) error {
	reqPath := c.Request().URL.Path
	if strings.HasPrefix(reqPath, "/api") {
		return apiError(c, http.StatusNotFound, "Not found")
	}

	file := filepath.Join(a.staticDir, filepath.Clean("/"+reqPath))
	if info, err := os.Stat(file); err == nil && !info.IsDir() {
		return c.File(file)
	}

	index := filepath.Join(a.staticDir, "index.html")
	if _, err := os.Stat(index); err == nil {
		return c.File(index)
	}
	return a.serveFallbackShell(c)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
	}
	if strings.HasPrefix(c.Request().URL.Path, "/api") {
		if code >= 500 {
			c.Logger().Errorf("server error: %v", err)
		}
		_ = apiError(c, code, http.StatusText(code))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
