package inkwell

import (
	"io"
	"strings"
)

// Post is the persisted blog entry, serialized with the same field names the
// REST API and the posts table use.
type Post struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Excerpt   string `json:"excerpt"`
	ImageURL  string `json:"imageUrl,omitempty"`
	CreatedAt int64  `json:"createdAt"` // milliseconds since epoch
	Author    string `json:"author"`
}

// CreatePostDTO is the transient input for post creation. Image, when set, is
// consumed entirely by the ingestion pipeline and never persisted as-is.
type CreatePostDTO struct {
	Title   string
	Content string
	Image   io.Reader
}

const (
	excerptLength = 150
	defaultAuthor = "Admin"
)

// MakeExcerpt derives the fixed-length preview from content: the first 150
// characters followed by an ellipsis marker.
func MakeExcerpt(content string) string {
	runes := []rune(content)
	if len(runes) > excerptLength {
		runes = runes[:excerptLength]
	}
	return string(runes) + "..."
}

// NormalizeQuery trims a search query; whitespace-only means "no query".
func NormalizeQuery(q string) string {
	return strings.TrimSpace(q)
}

// MatchesQuery reports whether q is a case-insensitive substring of the post's
// title or content. An empty query matches everything.
func MatchesQuery(p Post, q string) bool {
	q = strings.ToLower(NormalizeQuery(q))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Content), q)
}
