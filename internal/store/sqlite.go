package store

import (
	"database/sql"
	"time"

	"github.com/tkoster/linkmark/internal/logger"
	"github.com/tkoster/linkmark/internal/model"
)

// Load hydrates the in-memory tables from the SQLite container.
// Rows are read in rowid order so that the reconciler's first-seen-wins
// policy is deterministic for a given file state.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	folders := []model.Folder{}

	rows, err := s.db.Query(`
		SELECT id, title, symbol, accent_color, position, pinned, parent_id
		FROM folders
		ORDER BY rowid
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var f model.Folder
		var parentID sql.NullString
		var pinned int

		if err := rows.Scan(&f.ID, &f.Title, &f.Symbol, &f.AccentColor, &f.Index, &pinned, &parentID); err != nil {
			return err
		}

		if parentID.Valid {
			f.ParentID = &parentID.String
		}
		f.Pinned = pinned == 1

		folders = append(folders, f)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	bookmarks := []model.Bookmark{}

	rows, err = s.db.Query(`
		SELECT id, title, notes, url, host, folder_id, favorite, date_added
		FROM bookmarks
		ORDER BY rowid
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var b model.Bookmark
		var folderID sql.NullString
		var favorite int
		var dateAdded string

		if err := rows.Scan(&b.ID, &b.Title, &b.Notes, &b.URL, &b.Host, &folderID, &favorite, &dateAdded); err != nil {
			return err
		}

		if folderID.Valid {
			b.FolderID = &folderID.String
		}
		b.Favorite = favorite == 1
		b.DateAdded, _ = time.Parse(time.RFC3339, dateAdded)

		bookmarks = append(bookmarks, b)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	s.Folders = folders
	s.Bookmarks = bookmarks
	return nil
}

// Save persists the in-memory tables transactionally - all or nothing.
// Callers that already hold the store lock must use SaveLocked.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.SaveLocked()
}

// SaveLocked persists pending changes. Caller must hold the store lock.
func (s *Store) SaveLocked() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM bookmarks"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM folders"); err != nil {
		return err
	}

	folderStmt, err := tx.Prepare(`
		INSERT INTO folders (id, title, symbol, accent_color, position, pinned, parent_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer folderStmt.Close()

	for _, f := range s.Folders {
		pinned := 0
		if f.Pinned {
			pinned = 1
		}
		if _, err := folderStmt.Exec(f.ID, f.Title, f.Symbol, f.AccentColor, f.Index, pinned, f.ParentID); err != nil {
			return err
		}
	}

	bookmarkStmt, err := tx.Prepare(`
		INSERT INTO bookmarks (id, title, notes, url, host, folder_id, favorite, date_added)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer bookmarkStmt.Close()

	for _, b := range s.Bookmarks {
		favorite := 0
		if b.Favorite {
			favorite = 1
		}
		if _, err := bookmarkStmt.Exec(
			b.ID, b.Title, b.Notes, b.URL, b.Host,
			b.FolderID, favorite, b.DateAdded.Format(time.RFC3339),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveQuiet persists pending changes and logs instead of returning on
// failure. The in-memory graph stays visible until the next successful save.
// Caller must hold the store lock.
func (s *Store) SaveQuiet() {
	if err := s.SaveLocked(); err != nil {
		s.log.Error("store save failed", logger.Error(err))
	}
}
