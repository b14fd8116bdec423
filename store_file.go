package inkwell

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// FileStore is the embedded deployment mode: the whole post collection held in
// memory and persisted as one JSON array in a single file, no network and no
// schema. Mutations rewrite the file atomically via a temp file rename.
type FileStore struct {
	path  string
	mu    sync.RWMutex
	posts []Post
}

// NewFileStore loads (or initializes) the JSON post file at path.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	s := &FileStore{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.posts = nil
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &s.posts)
}

// write persists a staged collection while the caller holds the write lock.
// Callers assign to s.posts only after it succeeds, so a failed write leaves
// neither disk nor memory changed.
func (s *FileStore) write(posts []Post) error {
	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// ListPosts returns matching posts ordered by createdAt descending. The sort is
// stable so posts sharing a timestamp keep their relative order within a
// response.
func (s *FileStore) ListPosts(_ context.Context, query string) ([]Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query = NormalizeQuery(query)
	posts := make([]Post, 0, len(s.posts))
	for _, p := range s.posts {
		if MatchesQuery(p, query) {
			posts = append(posts, p)
		}
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt > posts[j].CreatedAt
	})
	return posts, nil
}

// GetPost returns a post by id, or false if absent.
func (s *FileStore) GetPost(_ context.Context, id string) (Post, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.posts {
		if p.ID == id {
			return p, true, nil
		}
	}
	return Post{}, false, nil
}

// InsertPost appends a post and rewrites the file.
func (s *FileStore) InsertPost(_ context.Context, p Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Post, len(s.posts), len(s.posts)+1)
	copy(next, s.posts)
	next = append(next, p)
	if err := s.write(next); err != nil {
		return err
	}
	s.posts = next
	return nil
}

// DeletePost removes a post by id if present; removing a missing id is a no-op
// with zero changes.
func (s *FileStore) DeletePost(_ context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.posts {
		if p.ID == id {
			next := make([]Post, 0, len(s.posts)-1)
			next = append(next, s.posts[:i]...)
			next = append(next, s.posts[i+1:]...)
			if err := s.write(next); err != nil {
				return 0, err
			}
			s.posts = next
			return 1, nil
		}
	}
	return 0, nil
}

// Close is a no-op; the file is rewritten on each mutation.
func (s *FileStore) Close() error {
	return nil
}
