package inkwell

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// openTestStores returns a constructor per backend so every contract test runs
// against both the SQLite store and the file store.
func openTestStores(t *testing.T) map[string]func(t *testing.T) Store {
	t.Helper()
	return map[string]func(t *testing.T) Store{
		"sqlite": func(t *testing.T) Store {
			s, err := NewSQLStore(filepath.Join(t.TempDir(), "blog.db"))
			if err != nil {
				t.Fatalf("failed to create sqlite store: %v", err)
			}
			t.Cleanup(func() { s.Close() })
			return s
		},
		"file": func(t *testing.T) Store {
			s, err := NewFileStore(filepath.Join(t.TempDir(), "posts.json"))
			if err != nil {
				t.Fatalf("failed to create file store: %v", err)
			}
			t.Cleanup(func() { s.Close() })
			return s
		},
	}
}

func testPost(id, title, content string, createdAt int64) Post {
	return Post{
		ID:        id,
		Title:     title,
		Content:   content,
		Excerpt:   MakeExcerpt(content),
		ImageURL:  "https://picsum.photos/800/400?random=1",
		CreatedAt: createdAt,
		Author:    "Admin",
	}
}

func TestStoreInsertAndGet(t *testing.T) {
	for name, open := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			ctx := context.Background()

			want := testPost("p1", "Hello World", "Some body text", 1700000000000)
			if err := s.InsertPost(ctx, want); err != nil {
				t.Fatalf("InsertPost failed: %v", err)
			}

			got, ok, err := s.GetPost(ctx, "p1")
			if err != nil {
				t.Fatalf("GetPost failed: %v", err)
			}
			if !ok {
				t.Fatal("post should exist")
			}
			if got != want {
				t.Errorf("GetPost = %+v, want %+v", got, want)
			}
		})
	}
}

func TestStoreGetMissing(t *testing.T) {
	for name, open := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)

			_, ok, err := s.GetPost(context.Background(), "nonexistent")
			if err != nil {
				t.Fatalf("GetPost on missing id should not error, got %v", err)
			}
			if ok {
				t.Error("missing id should report absent")
			}
		})
	}
}

func TestStoreListOrder(t *testing.T) {
	for name, open := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			ctx := context.Background()

			posts := []Post{
				testPost("old", "Old", "c", 1000),
				testPost("new", "New", "c", 3000),
				testPost("mid", "Mid", "c", 2000),
			}
			for _, p := range posts {
				if err := s.InsertPost(ctx, p); err != nil {
					t.Fatalf("InsertPost failed: %v", err)
				}
			}

			got, err := s.ListPosts(ctx, "")
			if err != nil {
				t.Fatalf("ListPosts failed: %v", err)
			}
			if len(got) != 3 {
				t.Fatalf("ListPosts count = %d, want 3", len(got))
			}
			for i, id := range []string{"new", "mid", "old"} {
				if got[i].ID != id {
					t.Errorf("ListPosts[%d].ID = %q, want %q", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestStoreListOrderStableOnTies(t *testing.T) {
	for name, open := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			ctx := context.Background()

			for _, id := range []string{"a", "b", "c"} {
				if err := s.InsertPost(ctx, testPost(id, "Tied", "c", 5000)); err != nil {
					t.Fatalf("InsertPost failed: %v", err)
				}
			}

			first, err := s.ListPosts(ctx, "")
			if err != nil {
				t.Fatalf("ListPosts failed: %v", err)
			}
			second, err := s.ListPosts(ctx, "")
			if err != nil {
				t.Fatalf("ListPosts failed: %v", err)
			}
			if len(first) != 3 || len(second) != 3 {
				t.Fatalf("ListPosts counts = %d, %d, want 3", len(first), len(second))
			}
			for i := range first {
				if first[i].ID != second[i].ID {
					t.Errorf("tied posts reordered between reads: %v vs %v", first[i].ID, second[i].ID)
				}
			}
		})
	}
}

func TestStoreSearch(t *testing.T) {
	for name, open := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			ctx := context.Background()

			posts := []Post{
				testPost("hello", "Hello World", "greetings", 3000),
				testPost("bye", "Goodbye", "farewell", 2000),
				testPost("body-hit", "Unrelated", "say HELLO to my little friend", 1000),
			}
			for _, p := range posts {
				if err := s.InsertPost(ctx, p); err != nil {
					t.Fatalf("InsertPost failed: %v", err)
				}
			}

			tests := []struct {
				query string
				want  []string
			}{
				{"hello", []string{"hello", "body-hit"}},
				{"HELLO", []string{"hello", "body-hit"}},
				{"farewell", []string{"bye"}},
				{"zebra", nil},
				{"", []string{"hello", "bye", "body-hit"}},
				{"   ", []string{"hello", "bye", "body-hit"}},
			}
			for _, tt := range tests {
				got, err := s.ListPosts(ctx, tt.query)
				if err != nil {
					t.Fatalf("ListPosts(%q) failed: %v", tt.query, err)
				}
				if len(got) != len(tt.want) {
					t.Errorf("ListPosts(%q) count = %d, want %d", tt.query, len(got), len(tt.want))
					continue
				}
				for i, id := range tt.want {
					if got[i].ID != id {
						t.Errorf("ListPosts(%q)[%d].ID = %q, want %q", tt.query, i, got[i].ID, id)
					}
				}
			}
		})
	}
}

func TestStoreDelete(t *testing.T) {
	for name, open := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			ctx := context.Background()

			if err := s.InsertPost(ctx, testPost("p1", "T", "c", 1000)); err != nil {
				t.Fatalf("InsertPost failed: %v", err)
			}

			changes, err := s.DeletePost(ctx, "p1")
			if err != nil {
				t.Fatalf("DeletePost failed: %v", err)
			}
			if changes != 1 {
				t.Errorf("changes = %d, want 1", changes)
			}

			_, ok, err := s.GetPost(ctx, "p1")
			if err != nil {
				t.Fatalf("GetPost failed: %v", err)
			}
			if ok {
				t.Error("post should be gone after delete")
			}

			// Second delete is a no-op, not an error.
			changes, err = s.DeletePost(ctx, "p1")
			if err != nil {
				t.Fatalf("second DeletePost should not error, got %v", err)
			}
			if changes != 0 {
				t.Errorf("second delete changes = %d, want 0", changes)
			}
		})
	}
}

func TestFileStoreFailedWriteCommitsNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.json")
	ctx := context.Background()

	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("failed to create file store: %v", err)
	}
	if err := s.InsertPost(ctx, testPost("kept", "Kept", "body", 1000)); err != nil {
		t.Fatalf("InsertPost failed: %v", err)
	}

	// Occupying the staging path with a directory makes every rewrite fail.
	if err := os.Mkdir(path+".tmp", 0o755); err != nil {
		t.Fatalf("failed to block staging path: %v", err)
	}

	if err := s.InsertPost(ctx, testPost("rejected", "Rejected", "body", 2000)); err == nil {
		t.Fatal("InsertPost should fail when the file cannot be written")
	}
	posts, err := s.ListPosts(ctx, "")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("rejected insert must not be visible, got %d posts", len(posts))
	}
	if _, ok, _ := s.GetPost(ctx, "rejected"); ok {
		t.Error("rejected insert must not be retrievable")
	}

	changes, err := s.DeletePost(ctx, "kept")
	if err == nil {
		t.Fatal("DeletePost should fail when the file cannot be written")
	}
	if changes != 0 {
		t.Errorf("failed delete reported changes = %d, want 0", changes)
	}
	if _, ok, _ := s.GetPost(ctx, "kept"); !ok {
		t.Error("post must survive a failed delete")
	}

	// Once the staging path is usable again the store works normally.
	if err := os.Remove(path + ".tmp"); err != nil {
		t.Fatalf("failed to unblock staging path: %v", err)
	}
	if _, err := s.DeletePost(ctx, "kept"); err != nil {
		t.Errorf("DeletePost after recovery failed: %v", err)
	}
}

func TestFileStoreReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.json")
	ctx := context.Background()

	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("failed to create file store: %v", err)
	}
	if err := s.InsertPost(ctx, testPost("p1", "Persisted", "body", 1000)); err != nil {
		t.Fatalf("InsertPost failed: %v", err)
	}
	s.Close()

	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("failed to reopen file store: %v", err)
	}
	got, ok, err := reopened.GetPost(ctx, "p1")
	if err != nil || !ok {
		t.Fatalf("post should survive reopen, ok=%v err=%v", ok, err)
	}
	if got.Title != "Persisted" {
		t.Errorf("Title = %q, want %q", got.Title, "Persisted")
	}
}
