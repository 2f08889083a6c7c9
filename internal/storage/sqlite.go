package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.RecipeStore       = (*SQLiteStore)(nil)
	_ domain.UserStore         = (*SQLiteStore)(nil)
	_ domain.SocialStore       = (*SQLiteStore)(nil)
	_ domain.CollectionStore   = (*SQLiteStore)(nil)
	_ domain.NotificationStore = (*SQLiteStore)(nil)
)

// SQLiteStore persists users, recipes, the social graph, collections and
// notifications in a single SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	log  *logger.Logger
	now  func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path. Use
// ":memory:" for a throwaway database.
func OpenSQLite(path string, log *logger.Logger) (*SQLiteStore, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(err, "creating database directory")
		}
		dsn = path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	// One connection keeps ":memory:" databases coherent and serialises
	// writers, which SQLite does anyway.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, path: path, log: log, now: time.Now}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "initializing schema")
	}

	log.Debug("sqlite store opened at %s", path)
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL,
		bio TEXT NOT NULL DEFAULT '',
		avatar_url TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS recipes (
		id TEXT PRIMARY KEY,
		author_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		ingredients_json TEXT NOT NULL,
		instructions_json TEXT NOT NULL,
		tags_json TEXT NOT NULL,
		servings INTEGER NOT NULL DEFAULT 0,
		prep_minutes INTEGER NOT NULL DEFAULT 0,
		cook_minutes INTEGER NOT NULL DEFAULT 0,
		image_url TEXT NOT NULL DEFAULT '',
		like_count INTEGER NOT NULL DEFAULT 0,
		cook_count INTEGER NOT NULL DEFAULT 0,
		version INTEGER NOT NULL DEFAULT 1,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_recipes_author ON recipes(author_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_recipes_created ON recipes(created_at);

	CREATE TABLE IF NOT EXISTS follows (
		follower_id TEXT NOT NULL,
		followee_id TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		PRIMARY KEY (follower_id, followee_id)
	);
	CREATE INDEX IF NOT EXISTS idx_follows_followee ON follows(followee_id);

	CREATE TABLE IF NOT EXISTS likes (
		user_id TEXT NOT NULL,
		recipe_id TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		PRIMARY KEY (user_id, recipe_id)
	);

	CREATE TABLE IF NOT EXISTS bookmarks (
		user_id TEXT NOT NULL,
		recipe_id TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		PRIMARY KEY (user_id, recipe_id)
	);

	CREATE TABLE IF NOT EXISTS collections (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		color TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_collections_owner ON collections(owner_id);

	CREATE TABLE IF NOT EXISTS collection_recipes (
		collection_id TEXT NOT NULL,
		recipe_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (collection_id, recipe_id)
	);

	CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		actor_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		recipe_id TEXT NOT NULL DEFAULT '',
		read INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, read, created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// withTx runs fn in a transaction, committing on success.
func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "commit transaction")
}

// millis stores times as unix milliseconds; SQLite has no native time type.
func millis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", errors.Wrap(err, "encoding list")
	}
	return string(b), nil
}

func decodeList(raw string) ([]string, error) {
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, errors.Wrap(err, "decoding list")
	}
	return out, nil
}

// exists reports whether query returns at least one row.
func exists(ctx context.Context, q interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}, query string, args ...any) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
