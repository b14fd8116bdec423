package inkwell

import (
	"context"
	"sync"
	"time"
)

// PostCache is an in-memory read cache over a Store with TTL. The server's
// list and get handlers read through it; mutation handlers invalidate it.
type PostCache struct {
	mu      sync.RWMutex
	posts   []Post
	fetched time.Time
	ttl     time.Duration
	store   Store
}

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s Store, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.mu.Unlock()
}

// ensureLoaded returns the cached full post list, reloading it from the store
// when stale. It tries a read lock first; only takes a write lock on reload.
func (c *PostCache) ensureLoaded(ctx context.Context) ([]Post, error) {
	c.mu.RLock()
	if c.valid() {
		posts := c.posts
		c.mu.RUnlock()
		return posts, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.posts, nil
	}
	posts, err := c.store.ListPosts(ctx, "")
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []Post{}
	}
	c.posts = posts
	c.fetched = time.Now()
	return c.posts, nil
}

// ListPosts returns posts newest-first, filtered against the cached snapshot
// when a query is given. Filtering preserves the snapshot order, so ties on
// createdAt stay stable within a response.
func (c *PostCache) ListPosts(ctx context.Context, query string) ([]Post, error) {
	posts, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	query = NormalizeQuery(query)
	if query == "" {
		return posts, nil
	}
	filtered := make([]Post, 0, len(posts))
	for _, p := range posts {
		if MatchesQuery(p, query) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// GetPost returns a single post by id from the cached snapshot.
func (c *PostCache) GetPost(ctx context.Context, id string) (Post, bool, error) {
	posts, err := c.ensureLoaded(ctx)
	if err != nil {
		return Post{}, false, err
	}
	for _, p := range posts {
		if p.ID == id {
			return p, true, nil
		}
	}
	return Post{}, false, nil
}
