package store

import "github.com/tkoster/linkmark/internal/logger"

// Reconcile removes duplicate-identity records produced by replica
// convergence. It runs once after every load, for both entity types: the
// first record seen for an id survives, every later record sharing that id
// is dropped, and the cleaned tables are saved in one batch. Running it
// again without new duplicates performs no deletions.
func (s *Store) Reconcile() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0

	seenFolders := make(map[string]bool, len(s.Folders))
	folders := s.Folders[:0]
	for _, f := range s.Folders {
		if seenFolders[f.ID] {
			removed++
			continue
		}
		seenFolders[f.ID] = true
		folders = append(folders, f)
	}
	s.Folders = folders

	seenBookmarks := make(map[string]bool, len(s.Bookmarks))
	bookmarks := s.Bookmarks[:0]
	for _, b := range s.Bookmarks {
		if seenBookmarks[b.ID] {
			removed++
			continue
		}
		seenBookmarks[b.ID] = true
		bookmarks = append(bookmarks, b)
	}
	s.Bookmarks = bookmarks

	if removed == 0 {
		return 0, nil
	}

	if err := s.SaveLocked(); err != nil {
		return removed, err
	}

	s.log.Info("reconciled duplicate records", logger.Int("removed", removed))
	return removed, nil
}
