// Command inkwell runs the blogging service. All configuration comes from
// environment variables (optionally via a .env file).
package main

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mkarlsen/inkwell"
)

func main() {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg := inkwell.SiteConfig{
		Name:        inkwell.EnvOr("SITE_NAME", "Blog"),
		URL:         strings.TrimSuffix(inkwell.EnvOr("SITE_URL", "http://localhost:3000"), "/"),
		Description: inkwell.EnvOr("SITE_DESCRIPTION", ""),
		Author:      inkwell.EnvOr("SITE_AUTHOR", ""),

		Addr: inkwell.EnvOr("ADDR", ":3000"),

		StorageBackend: inkwell.EnvOr("STORAGE_BACKEND", inkwell.BackendSQLite),
		DatabasePath:   inkwell.EnvOr("DATABASE_PATH", "data/blog.db"),
		DataPath:       inkwell.EnvOr("DATA_PATH", "data/posts.json"),

		AdminPassword: inkwell.MustEnv("ADMIN_PASSWORD"),
		SessionSecret: inkwell.MustEnv("ADMIN_SESSION_SECRET"),
		CookieSecure:  strings.EqualFold(inkwell.EnvOr("COOKIE_SECURE", ""), "true"),

		GeminiAPIKey: inkwell.EnvOr("GEMINI_API_KEY", ""),

		PostCacheTTL: 5 * time.Minute,
	}

	app := inkwell.New(cfg, inkwell.WithStaticDir(inkwell.EnvOr("STATIC_DIR", "dist")))
	defer app.Close()

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
