// Package store owns the replicated persistent container and the single
// mutable context that every repository reads and writes.
package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/tkoster/linkmark/internal/logger"
	"github.com/tkoster/linkmark/internal/model"
)

// Store holds the SQLite container plus the in-memory entity tables.
// Mutations happen on one logical writer; asynchronous completions must take
// the store lock before touching the tables.
type Store struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
	log  logger.Logger

	Folders   []model.Folder
	Bookmarks []model.Bookmark
}

// Open opens (or creates) the store file at path and prepares the schema.
func Open(path string, log logger.Logger) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &Store{
		db:        db,
		path:      path,
		log:       log,
		Folders:   []model.Folder{},
		Bookmarks: []model.Bookmark{},
	}
	if err := s.migrateSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the store file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Lock serializes access to the entity tables. Repositories take it for
// every operation; background completions take it before writing back.
func (s *Store) Lock() { s.mu.Lock() }

// Unlock releases the store lock.
func (s *Store) Unlock() { s.mu.Unlock() }

const currentSchemaVersion = 1

func (s *Store) migrateSchema() error {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	return nil
}

// migrateV1 creates the initial schema. Note that id is intentionally NOT a
// primary key: the replication layer can converge rows from several devices
// under the same identity, and the reconciler repairs that after load.
func (s *Store) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS folders (
			id TEXT NOT NULL,
			title TEXT NOT NULL,
			symbol TEXT NOT NULL DEFAULT '',
			accent_color TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL DEFAULT 0,
			pinned INTEGER NOT NULL DEFAULT 0,
			parent_id TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_folders_id ON folders(id);
		CREATE INDEX IF NOT EXISTS idx_folders_parent_id ON folders(parent_id);

		CREATE TABLE IF NOT EXISTS bookmarks (
			id TEXT NOT NULL,
			title TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL,
			host TEXT NOT NULL DEFAULT '',
			folder_id TEXT,
			favorite INTEGER NOT NULL DEFAULT 0,
			date_added TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_bookmarks_id ON bookmarks(id);
		CREATE INDEX IF NOT EXISTS idx_bookmarks_folder_id ON bookmarks(folder_id);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// FolderByID finds a folder by ID, returns nil if not found.
// Caller must hold the store lock.
func (s *Store) FolderByID(id string) *model.Folder {
	for i := range s.Folders {
		if s.Folders[i].ID == id {
			return &s.Folders[i]
		}
	}
	return nil
}

// BookmarkByID finds a bookmark by ID, returns nil if not found.
// Caller must hold the store lock.
func (s *Store) BookmarkByID(id string) *model.Bookmark {
	for i := range s.Bookmarks {
		if s.Bookmarks[i].ID == id {
			return &s.Bookmarks[i]
		}
	}
	return nil
}

// FoldersIn returns folders with the given parent ID.
// Pass nil for top-level folders. Caller must hold the store lock.
func (s *Store) FoldersIn(parentID *string) []model.Folder {
	var result []model.Folder
	for _, f := range s.Folders {
		if PtrEqual(f.ParentID, parentID) {
			result = append(result, f)
		}
	}
	return result
}

// BookmarksIn returns bookmarks in the given folder.
// Pass nil for bookmarks outside any folder. Caller must hold the store lock.
func (s *Store) BookmarksIn(folderID *string) []model.Bookmark {
	var result []model.Bookmark
	for _, b := range s.Bookmarks {
		if PtrEqual(b.FolderID, folderID) {
			result = append(result, b)
		}
	}
	return result
}

// RemoveFolder deletes a folder from the in-memory table by id.
// Caller must hold the store lock.
func (s *Store) RemoveFolder(id string) bool {
	for i := range s.Folders {
		if s.Folders[i].ID == id {
			s.Folders = append(s.Folders[:i], s.Folders[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveBookmark deletes a bookmark from the in-memory table by id.
// Caller must hold the store lock.
func (s *Store) RemoveBookmark(id string) bool {
	for i := range s.Bookmarks {
		if s.Bookmarks[i].ID == id {
			s.Bookmarks = append(s.Bookmarks[:i], s.Bookmarks[i+1:]...)
			return true
		}
	}
	return false
}

// PtrEqual compares two string pointers for equality.
func PtrEqual(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
