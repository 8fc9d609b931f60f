// Package repo layers the bookmark and folder repositories over the store.
// Every UI surface, widget and intent goes through these types.
package repo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tkoster/linkmark/internal/logger"
	"github.com/tkoster/linkmark/internal/model"
	"github.com/tkoster/linkmark/internal/notify"
	"github.com/tkoster/linkmark/internal/preview"
	"github.com/tkoster/linkmark/internal/search"
	"github.com/tkoster/linkmark/internal/store"
)

// DroppedTitle is the placeholder title a dropped URL carries until its
// metadata fetch resolves.
const DroppedTitle = "Loading…"

const defaultFetchTimeout = 15 * time.Second

// Bookmarks is the bookmark repository.
type Bookmarks struct {
	store        *store.Store
	fetcher      *preview.Fetcher
	previews     *preview.Cache
	notifier     *notify.Notifier
	log          logger.Logger
	fetchTimeout time.Duration
}

// BookmarksParams holds the collaborators for a Bookmarks repository.
// Fetcher, Previews and Notifier are optional.
type BookmarksParams struct {
	Store        *store.Store
	Fetcher      *preview.Fetcher
	Previews     *preview.Cache
	Notifier     *notify.Notifier
	Log          logger.Logger
	FetchTimeout time.Duration
}

// NewBookmarks creates a Bookmarks repository.
func NewBookmarks(p BookmarksParams) *Bookmarks {
	timeout := p.FetchTimeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &Bookmarks{
		store:        p.Store,
		fetcher:      p.Fetcher,
		previews:     p.Previews,
		notifier:     p.Notifier,
		log:          p.Log,
		fetchTimeout: timeout,
	}
}

// GetAll returns all bookmarks sorted by date added, newest first.
// It never fails; callers always get a renderable (possibly empty) list.
func (r *Bookmarks) GetAll() []model.Bookmark {
	r.store.Lock()
	defer r.store.Unlock()

	result := make([]model.Bookmark, len(r.store.Bookmarks))
	copy(result, r.store.Bookmarks)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DateAdded.After(result[j].DateAdded)
	})
	return result
}

// GetInFolder returns the bookmarks belonging to a folder, newest first.
func (r *Bookmarks) GetInFolder(folderID *string) []model.Bookmark {
	r.store.Lock()
	defer r.store.Unlock()

	result := r.store.BookmarksIn(folderID)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DateAdded.After(result[j].DateAdded)
	})
	return result
}

// Add creates and persists a bookmark. The URL is sanitized (a bare host
// gains an https scheme) and the host is derived and stored alongside it.
func (r *Bookmarks) Add(params model.NewBookmarkParams) (model.Bookmark, error) {
	r.store.Lock()
	defer r.store.Unlock()

	b := model.NewBookmark(params)
	r.store.Bookmarks = append(r.store.Bookmarks, b)
	if err := r.store.SaveLocked(); err != nil {
		return b, fmt.Errorf("add bookmark: %w", err)
	}

	r.notifier.ReloadPresentations()
	return b, nil
}

// AddDropped creates a placeholder bookmark for a dropped URL and resolves
// its title asynchronously. A failed or timed-out fetch leaves the
// placeholder title in place; the bookmark is never deleted for it.
func (r *Bookmarks) AddDropped(ctx context.Context, rawURL string, folderID *string) (model.Bookmark, error) {
	b, err := r.Add(model.NewBookmarkParams{
		Title:    DroppedTitle,
		URL:      rawURL,
		FolderID: folderID,
	})
	if err != nil {
		return b, err
	}

	go r.resolveDroppedTitle(ctx, b.ID, b.URL)
	return b, nil
}

func (r *Bookmarks) resolveDroppedTitle(ctx context.Context, id, url string) {
	if r.fetcher == nil {
		return
	}

	fetchCtx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()

	title, err := r.fetcher.Title(fetchCtx, url)
	if err != nil || title == "" {
		r.log.Debug("dropped bookmark keeps placeholder title",
			logger.String("bookmark", id), logger.Error(err))
		return
	}

	r.store.Lock()
	defer r.store.Unlock()

	// The bookmark may have been deleted while the fetch ran; a completed
	// fetch for a gone id must not resurrect it.
	b := r.store.BookmarkByID(id)
	if b == nil {
		return
	}
	b.Title = title
	r.store.SaveQuiet()

	r.notifier.ReloadPresentations()
}

// Find returns the bookmark with the given id.
func (r *Bookmarks) Find(id string) (model.Bookmark, error) {
	r.store.Lock()
	defer r.store.Unlock()

	b := r.store.BookmarkByID(id)
	if b == nil {
		return model.Bookmark{}, fmt.Errorf("bookmark %s: %w", id, ErrNotFound)
	}
	return *b, nil
}

// Update applies mutate to the bookmark with the given id and persists the
// result. Identity is never reassigned; mutate only sees the record fields.
func (r *Bookmarks) Update(id string, mutate func(*model.Bookmark)) error {
	r.store.Lock()
	defer r.store.Unlock()

	b := r.store.BookmarkByID(id)
	if b == nil {
		return fmt.Errorf("bookmark %s: %w", id, ErrNotFound)
	}

	mutate(b)
	if err := r.store.SaveLocked(); err != nil {
		return fmt.Errorf("update bookmark: %w", err)
	}

	r.notifier.ReloadPresentations()
	return nil
}

// Delete removes the bookmark and its cached preview.
func (r *Bookmarks) Delete(id string) error {
	r.store.Lock()
	removed := r.store.RemoveBookmark(id)
	var saveErr error
	if removed {
		saveErr = r.store.SaveLocked()
	}
	r.store.Unlock()

	if !removed {
		return fmt.Errorf("bookmark %s: %w", id, ErrNotFound)
	}
	if saveErr != nil {
		return fmt.Errorf("delete bookmark: %w", saveErr)
	}

	if r.previews != nil {
		if err := r.previews.Remove(id); err != nil {
			r.log.Warn("could not remove cached preview",
				logger.String("bookmark", id), logger.Error(err))
		}
	}

	r.notifier.ReloadPresentations()
	return nil
}

// Search returns bookmarks matching the query, newest first. The match is a
// case-insensitive substring test over title, host, notes and the title of
// the containing folder.
func (r *Bookmarks) Search(query string) []model.Bookmark {
	return r.search(query, nil)
}

// SearchInFolder is Search restricted to members of one folder.
func (r *Bookmarks) SearchInFolder(query string, folderID string) []model.Bookmark {
	return r.search(query, &folderID)
}

func (r *Bookmarks) search(query string, folderID *string) []model.Bookmark {
	r.store.Lock()
	defer r.store.Unlock()

	var result []model.Bookmark
	for _, b := range r.store.Bookmarks {
		if folderID != nil && !store.PtrEqual(b.FolderID, folderID) {
			continue
		}
		if search.Matches(b, r.folderTitleLocked(b.FolderID), query) {
			result = append(result, b)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DateAdded.After(result[j].DateAdded)
	})
	return result
}

func (r *Bookmarks) folderTitleLocked(folderID *string) string {
	if folderID == nil {
		return ""
	}
	if f := r.store.FolderByID(*folderID); f != nil {
		return f.Title
	}
	return ""
}
