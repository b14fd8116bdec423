package inkwell

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

// preparePost validates a DTO and builds the post to persist: image pipeline
// (or placeholder), derived excerpt, createdAt, author. The id is left for the
// persisting side to assign.
func preparePost(dto CreatePostDTO) (Post, error) {
	if strings.TrimSpace(dto.Title) == "" {
		return Post{}, ErrTitleRequired
	}
	if strings.TrimSpace(dto.Content) == "" {
		return Post{}, ErrContentRequired
	}

	imageURL := PlaceholderImageURL()
	if dto.Image != nil {
		if encoded, err := EncodeImage(dto.Image); err == nil {
			imageURL = encoded
		}
		// Decode failure falls back to the placeholder; it never aborts
		// post creation.
	}

	return Post{
		Title:     dto.Title,
		Content:   dto.Content,
		Excerpt:   MakeExcerpt(dto.Content),
		ImageURL:  imageURL,
		CreatedAt: time.Now().UnixMilli(),
		Author:    defaultAuthor,
	}, nil
}

// PostService implements the storage contract directly over a Store. It is the
// embedded deployment mode; the remote mode is Client.
type PostService struct {
	store  Store
	logger *log.Logger
}

// NewPostService wraps store. A nil logger falls back to the default logger.
func NewPostService(store Store, logger *log.Logger) *PostService {
	if logger == nil {
		logger = log.Default()
	}
	return &PostService{store: store, logger: logger}
}

// ListPosts returns posts newest-first, optionally narrowed by query. Reads
// fail soft: on a store failure it logs and returns an empty slice.
func (s *PostService) ListPosts(ctx context.Context, query string) []Post {
	posts, err := s.store.ListPosts(ctx, query)
	if err != nil {
		s.logger.Printf("inkwell: list posts: %v", err)
		return []Post{}
	}
	if posts == nil {
		posts = []Post{}
	}
	return posts
}

// GetPost returns a post by id. Both a missing id and a failed read yield
// (Post{}, false); read failures are logged.
func (s *PostService) GetPost(ctx context.Context, id string) (Post, bool) {
	p, ok, err := s.store.GetPost(ctx, id)
	if err != nil {
		s.logger.Printf("inkwell: get post %s: %v", id, err)
		return Post{}, false
	}
	return p, ok
}

// CreatePost validates dto, runs the image pipeline, derives the excerpt,
// assigns id and createdAt, and persists. Persistence failures propagate.
func (s *PostService) CreatePost(ctx context.Context, dto CreatePostDTO) (Post, error) {
	p, err := preparePost(dto)
	if err != nil {
		return Post{}, err
	}
	p.ID = uuid.NewString()
	if err := s.store.InsertPost(ctx, p); err != nil {
		return Post{}, fmt.Errorf("insert post: %w", err)
	}
	return p, nil
}

// DeletePost removes a post by id. Deleting a missing id is not an error.
func (s *PostService) DeletePost(ctx context.Context, id string) error {
	if _, err := s.store.DeletePost(ctx, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}
