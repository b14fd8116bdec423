package inkwell

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to a remote inkwell service over its REST surface. It is the
// remote deployment mode of the storage contract and mirrors PostService's
// observable behavior: reads fail soft, writes fail loud.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient creates a Client for the service at baseURL (e.g.
// "http://localhost:3000"). A nil logger falls back to the default logger.
func NewClient(baseURL string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// ListPosts fetches posts, optionally filtered by query. Transport or server
// failures are logged and yield an empty slice.
func (c *Client) ListPosts(ctx context.Context, query string) []Post {
	u := c.baseURL + "/api/posts"
	if q := NormalizeQuery(query); q != "" {
		u += "?q=" + url.QueryEscape(q)
	}
	var posts []Post
	if err := c.getJSON(ctx, u, &posts); err != nil {
		c.logger.Printf("inkwell: list posts: %v", err)
		return []Post{}
	}
	if posts == nil {
		posts = []Post{}
	}
	return posts
}

// GetPost fetches a single post by id. The server answers null for a missing
// id; that and any transport failure yield (Post{}, false).
func (c *Client) GetPost(ctx context.Context, id string) (Post, bool) {
	var p *Post
	if err := c.getJSON(ctx, c.baseURL+"/api/posts/"+url.PathEscape(id), &p); err != nil {
		c.logger.Printf("inkwell: get post %s: %v", id, err)
		return Post{}, false
	}
	if p == nil {
		return Post{}, false
	}
	return *p, true
}

// CreatePost prepares the full payload locally (validation, image pipeline,
// excerpt, createdAt, author) and posts it; the server assigns the id.
func (c *Client) CreatePost(ctx context.Context, dto CreatePostDTO) (Post, error) {
	payload, err := preparePost(dto)
	if err != nil {
		return Post{}, err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Post{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/posts", bytes.NewReader(body))
	if err != nil {
		return Post{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Post{}, fmt.Errorf("create post: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Post{}, fmt.Errorf("create post: %s", c.serverError(resp))
	}
	var stored Post
	if err := json.NewDecoder(resp.Body).Decode(&stored); err != nil {
		return Post{}, fmt.Errorf("create post: decode response: %w", err)
	}
	return stored, nil
}

// DeletePost removes a post by id. Deleting a missing id succeeds with zero
// changes; transport and server failures propagate.
func (c *Client) DeletePost(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/posts/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("delete post: %s", c.serverError(resp))
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server error: %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// serverError extracts the {error} message from an API error response.
func (c *Client) serverError(resp *http.Response) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		return body.Error
	}
	return fmt.Sprintf("server error: %d", resp.StatusCode)
}
