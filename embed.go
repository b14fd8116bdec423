package inkwell

import (
	"embed"
	"net/http"

	"github.com/labstack/echo/v4"
)

// fallbackShell is a minimal application shell served when the static dir
// carries no front-end build, so the binary is usable on its own.
//
//go:embed web/index.html
var fallbackShell embed.FS

func (a *App) serveFallbackShell(c echo.Context) error {
	data, err := fallbackShell.ReadFile("web/index.html")
	if err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, data)
}
