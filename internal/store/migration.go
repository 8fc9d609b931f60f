package store

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/tkoster/linkmark/internal/logger"
)

// Relocate performs the one-time move of the store file from the legacy
// per-app location to the canonical shared-container location. It returns
// the path the store should be opened at.
//
// The copy uses VACUUM INTO rather than a raw file copy so an existing
// write-ahead log is folded in safely. After a successful copy the legacy
// database and its -wal and -shm side files are removed. On any failure the
// legacy path is returned and the existing data is left untouched.
func Relocate(legacyPath, sharedPath string, log logger.Logger) string {
	if _, err := os.Stat(sharedPath); err == nil {
		// Already migrated (or created fresh at the shared location).
		return sharedPath
	}

	if _, err := os.Stat(legacyPath); err != nil {
		// Nothing to migrate, start fresh at the shared location.
		return sharedPath
	}

	if err := os.MkdirAll(filepath.Dir(sharedPath), 0755); err != nil {
		log.Error("store migration failed, staying on legacy path",
			logger.String("legacy", legacyPath), logger.Error(err))
		return legacyPath
	}

	if err := vacuumInto(legacyPath, sharedPath); err != nil {
		// A partial target file would shadow the legacy store on the next
		// launch, so clear it before falling back.
		_ = os.Remove(sharedPath)
		log.Error("store migration failed, staying on legacy path",
			logger.String("legacy", legacyPath), logger.Error(err))
		return legacyPath
	}

	for _, stale := range []string{legacyPath, legacyPath + "-wal", legacyPath + "-shm"} {
		if err := os.Remove(stale); err != nil && !os.IsNotExist(err) {
			log.Warn("could not remove legacy store file",
				logger.String("path", stale), logger.Error(err))
		}
	}

	log.Info("store migrated to shared container",
		logger.String("from", legacyPath), logger.String("to", sharedPath))
	return sharedPath
}

func vacuumInto(src, dst string) error {
	db, err := sql.Open("sqlite", src)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec("VACUUM INTO ?", dst)
	return err
}
