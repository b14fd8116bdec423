package inkwell

import (
	"context"
	"errors"
)

// Usage errors raised before any persistence attempt.
var (
	ErrTitleRequired   = errors.New("title is required")
	ErrContentRequired = errors.New("content is required")
)

// Store is the persistence layer behind the post operations. Both deployment
// modes (the embedded file store and the SQLite store backing the remote
// service) satisfy it with identical observable behavior.
type Store interface {
	// ListPosts returns posts ordered by createdAt descending. A non-empty
	// query narrows results to posts whose title or content contains it as a
	// case-insensitive substring.
	ListPosts(ctx context.Context, query string) ([]Post, error)
	// GetPost returns the post and true, or false if no post has that id.
	// A missing id is not an error.
	GetPost(ctx context.Context, id string) (Post, bool, error)
	// InsertPost persists a fully populated post.
	InsertPost(ctx context.Context, p Post) error
	// DeletePost removes a post if present and returns the number of rows
	// removed (0 or 1). Deleting a missing id is not an error.
	DeletePost(ctx context.Context, id string) (int64, error)
	Close() error
}

// Backend is the caller-facing storage contract: the four post operations as
// the UI consumes them. PostService (embedded mode) and Client (remote mode)
// are the two interchangeable implementations, selected at configuration time.
type Backend interface {
	// ListPosts never fails: on storage or transport trouble it logs and
	// returns an empty slice.
	ListPosts(ctx context.Context, query string) []Post
	// GetPost returns false both for a missing id and for a failed read.
	GetPost(ctx context.Context, id string) (Post, bool)
	// CreatePost validates the DTO, runs the image pipeline, derives the
	// excerpt, assigns id and createdAt, and persists. Persistence failures
	// propagate.
	CreatePost(ctx context.Context, dto CreatePostDTO) (Post, error)
	// DeletePost is idempotent; only I/O failures propagate.
	DeletePost(ctx context.Context, id string) error
}

var (
	_ Store = (*SQLStore)(nil)
	_ Store = (*FileStore)(nil)

	_ Backend = (*PostService)(nil)
	_ Backend = (*Client)(nil)
)
