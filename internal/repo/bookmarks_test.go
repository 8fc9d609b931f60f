package repo_test

import (
	"errors"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/tkoster/linkmark/internal/model"
	"github.com/tkoster/linkmark/internal/repo"
)

func TestBookmarks_AddSanitizesURL(t *testing.T) {
	_, _, bookmarks := newTestRepos(t)

	b, err := bookmarks.Add(model.NewBookmarkParams{Title: "Example", URL: "example.com"})
	assert.NilError(t, err)
	assert.Equal(t, b.URL, "https://example.com")
	assert.Equal(t, b.Host, "example.com")

	b, err = bookmarks.Add(model.NewBookmarkParams{Title: "Plain", URL: "http://example.com"})
	assert.NilError(t, err)
	assert.Equal(t, b.URL, "http://example.com")
}

func TestBookmarks_GetAllNewestFirst(t *testing.T) {
	_, _, bookmarks := newTestRepos(t)

	base := time.Now().Add(-time.Hour)
	for i, title := range []string{"oldest", "middle", "newest"} {
		_, err := bookmarks.Add(model.NewBookmarkParams{
			Title:     title,
			URL:       "https://example.com/" + title,
			DateAdded: base.Add(time.Duration(i) * time.Minute),
		})
		assert.NilError(t, err)
	}

	all := bookmarks.GetAll()
	assert.Equal(t, len(all), 3)
	assert.Equal(t, all[0].Title, "newest")
	assert.Equal(t, all[2].Title, "oldest")
}

func TestBookmarks_FindAndDelete(t *testing.T) {
	_, _, bookmarks := newTestRepos(t)

	b, err := bookmarks.Add(model.NewBookmarkParams{Title: "keep me", URL: "https://example.com"})
	assert.NilError(t, err)

	found, err := bookmarks.Find(b.ID)
	assert.NilError(t, err)
	assert.Equal(t, found.Title, "keep me")

	assert.NilError(t, bookmarks.Delete(b.ID))

	_, err = bookmarks.Find(b.ID)
	assert.Assert(t, errors.Is(err, repo.ErrNotFound))

	// Deleting again reports the same recoverable miss.
	err = bookmarks.Delete(b.ID)
	assert.Assert(t, errors.Is(err, repo.ErrNotFound))
}

func TestBookmarks_UpdateMutatesInPlace(t *testing.T) {
	_, _, bookmarks := newTestRepos(t)

	b, err := bookmarks.Add(model.NewBookmarkParams{Title: "before", URL: "https://example.com"})
	assert.NilError(t, err)

	err = bookmarks.Update(b.ID, func(bm *model.Bookmark) {
		bm.Title = "after"
		bm.Favorite = true
	})
	assert.NilError(t, err)

	got, err := bookmarks.Find(b.ID)
	assert.NilError(t, err)
	assert.Equal(t, got.Title, "after")
	assert.Assert(t, got.Favorite)

	err = bookmarks.Update("missing", func(bm *model.Bookmark) {})
	assert.Assert(t, errors.Is(err, repo.ErrNotFound))
}

func TestBookmarks_SearchMatchesAcrossFields(t *testing.T) {
	_, folders, bookmarks := newTestRepos(t)

	dev := mustAddFolder(t, folders, model.NewFolderParams{Title: "Swift Projects"})

	_, err := bookmarks.Add(model.NewBookmarkParams{Title: "SwiftUI Tips", URL: "https://example.com/swiftui"})
	assert.NilError(t, err)
	_, err = bookmarks.Add(model.NewBookmarkParams{Title: "Go Concurrency", URL: "https://example.com/go"})
	assert.NilError(t, err)
	inFolder, err := bookmarks.Add(model.NewBookmarkParams{
		Title: "Server Notes", URL: "https://example.com/server", FolderID: &dev.ID,
	})
	assert.NilError(t, err)

	results := bookmarks.Search("Swift")
	assert.Equal(t, len(results), 2)
	for _, r := range results {
		assert.Assert(t, r.Title != "Go Concurrency")
	}

	// Match via the containing folder's title only.
	foundViaFolder := false
	for _, r := range results {
		if r.ID == inFolder.ID {
			foundViaFolder = true
		}
	}
	assert.Assert(t, foundViaFolder, "expected folder-title match to surface the bookmark")

	// Case-insensitive.
	assert.Equal(t, len(bookmarks.Search("swift")), 2)

	// Folder-scoped search additionally requires membership.
	scoped := bookmarks.SearchInFolder("Swift", dev.ID)
	assert.Equal(t, len(scoped), 1)
	assert.Equal(t, scoped[0].ID, inFolder.ID)
}

func TestBookmarks_AddDroppedKeepsPlaceholderWithoutFetcher(t *testing.T) {
	_, _, bookmarks := newTestRepos(t)

	b, err := bookmarks.AddDropped(t.Context(), "example.com/article", nil)
	assert.NilError(t, err)
	assert.Equal(t, b.Title, repo.DroppedTitle)
	assert.Equal(t, b.URL, "https://example.com/article")

	// With no fetcher wired the placeholder must simply stay.
	got, err := bookmarks.Find(b.ID)
	assert.NilError(t, err)
	assert.Equal(t, got.Title, repo.DroppedTitle)
}
