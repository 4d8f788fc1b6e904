package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// documentKey is the single key the board document lives under.
const documentKey = "board"

// SQLiteStore persists the board document in a SQLite database using
// modernc.org/sqlite (pure Go, no CGO). The document is one JSON blob
// under a fixed key; SQLite supplies the durability and atomic writes.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// The board is single-owner and every mutation saves synchronously;
	// one connection serializes all access through Go's pool.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Migrate runs all embedded SQL migration files in order.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename TEXT PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()

		var count int
		err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE filename = ?", name).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if count > 0 {
			continue
		}

		data, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		if _, err := s.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}

		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_migrations (filename) VALUES (?)", name); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load reads the board document, upgrading older schema versions by
// backfilling the fields they lack. A missing document (first run)
// yields a fresh empty one, not an error.
func (s *SQLiteStore) Load(ctx context.Context) (*Document, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT doc FROM board_documents WHERE key = ?", documentKey,
	).Scan(&blob)
	if err == sql.ErrNoRows {
		return NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load board document: %w", err)
	}

	doc := &Document{}
	if err := json.Unmarshal(blob, doc); err != nil {
		return nil, fmt.Errorf("decode board document: %w", err)
	}

	migrateDocument(doc)
	return doc, nil
}

// Save serializes the document and upserts it under the board key.
func (s *SQLiteStore) Save(ctx context.Context, doc *Document) error {
	doc.SchemaVersion = SchemaVersion

	blob, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode board document: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO board_documents (key, schema_version, doc, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			schema_version = excluded.schema_version,
			doc = excluded.doc,
			updated_at = excluded.updated_at`,
		documentKey, doc.SchemaVersion, blob, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save board document: %w", err)
	}
	return nil
}
