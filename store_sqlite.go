package inkwell

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLStore wraps a SQLite database and provides keyed storage for posts. It
// backs the remote service deployment mode.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the posts table if missing.
func NewSQLStore(path string) (*SQLStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL for concurrent readers, busy_timeout so writers wait instead of
	// failing with SQLITE_BUSY, synchronous=NORMAL is safe under WAL.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &SQLStore{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    id TEXT PRIMARY KEY,
    title TEXT,
    content TEXT,
    excerpt TEXT,
    imageUrl TEXT,
    createdAt INTEGER,
    author TEXT
);
`)
	return err
}

const postColumns = `id, title, content, excerpt, imageUrl, createdAt, author`

// ListPosts returns posts ordered by createdAt descending, optionally filtered
// by a case-insensitive substring match over title and content.
func (s *SQLStore) ListPosts(ctx context.Context, query string) ([]Post, error) {
	var rows *sql.Rows
	var err error
	query = NormalizeQuery(query)
	if query == "" {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+postColumns+` FROM posts ORDER BY createdAt DESC`)
	} else {
		// SQLite's lower() folds ASCII only, so non-ASCII queries match
		// byte-wise here while the file store folds full Unicode.
		q := strings.ToLower(query)
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+postColumns+` FROM posts
			 WHERE instr(lower(title), ?) > 0 OR instr(lower(content), ?) > 0
			 ORDER BY createdAt DESC`, q, q)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.Excerpt, &p.ImageURL, &p.CreatedAt, &p.Author); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// GetPost returns a single post by id; a missing id yields (Post{}, false, nil).
func (s *SQLStore) GetPost(ctx context.Context, id string) (Post, bool, error) {
	var p Post
	err := s.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = ?`, id).
		Scan(&p.ID, &p.Title, &p.Content, &p.Excerpt, &p.ImageURL, &p.CreatedAt, &p.Author)
	if err == sql.ErrNoRows {
		return Post{}, false, nil
	}
	if err != nil {
		return Post{}, false, err
	}
	return p, true, nil
}

// InsertPost stores a new post row.
func (s *SQLStore) InsertPost(ctx context.Context, p Post) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO posts (`+postColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Content, p.Excerpt, p.ImageURL, p.CreatedAt, p.Author)
	return err
}

// DeletePost removes a post by id and reports how many rows were removed.
func (s *SQLStore) DeletePost(ctx context.Context, id string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
