package repo

import "errors"

var (
	// ErrNotFound means a lookup by id found no record; the id likely raced
	// with a delete on another device. Recoverable.
	ErrNotFound = errors.New("record not found")

	// ErrIntegrity means a folder id that must exist (it is referenced by a
	// live bookmark or pinned shortcut) does not. Fatal to the operation,
	// never to the process; callers fall back to the all-bookmarks view.
	ErrIntegrity = errors.New("referenced folder does not exist")

	// ErrFolderCycle means a reparent would make a folder its own ancestor.
	ErrFolderCycle = errors.New("folder cannot be moved under its own descendant")
)
