package inkwell

import (
	"log"
	"os"
	"time"
)

// Storage backend selection for SiteConfig.StorageBackend.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// SiteConfig holds all configuration for an inkwell site.
type SiteConfig struct {
	Name        string // Site name (default "Blog")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for the RSS feed
	Author      string // Default post author (default "Admin")

	Addr string // Listen address (default ":3000")

	StorageBackend string // "sqlite" (remote service mode) or "file" (embedded, default "sqlite")
	DatabasePath   string // SQLite path (default "data/blog.db")
	DataPath       string // JSON file path for the file backend (default "data/posts.json")

	AdminPassword string // Required: admin login password
	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	GeminiAPIKey string // Optional: enables the AI draft generator

	PostCacheTTL time.Duration // Post cache TTL (default 5min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.StorageBackend == "" {
		c.StorageBackend = BackendSQLite
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/blog.db"
	}
	if c.DataPath == "" {
		c.DataPath = "data/posts.json"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory holding the front-end build (default "dist").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithStore overrides the configured storage backend, mainly for tests.
func WithStore(s Store) Option {
	return func(a *App) {
		a.Store = s
	}
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("inkwell: required environment variable %s is not set", key)
	}
	return v
}
