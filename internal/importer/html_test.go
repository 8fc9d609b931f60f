package importer_test

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tkoster/linkmark/internal/importer"
	"github.com/tkoster/linkmark/internal/logger"
	"github.com/tkoster/linkmark/internal/model"
	"github.com/tkoster/linkmark/internal/repo"
	"github.com/tkoster/linkmark/internal/store"
)

func TestParseHTML_SingleBookmark(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
    <DT><A HREF="https://example.com" ADD_DATE="1234567890">Example Site</A>
</DL><p>`

	folders, bookmarks, err := importer.ParseHTMLBookmarks(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(folders) != 0 {
		t.Errorf("expected 0 folders, got %d", len(folders))
	}
	if len(bookmarks) != 1 {
		t.Fatalf("expected 1 bookmark, got %d", len(bookmarks))
	}

	b := bookmarks[0]
	if b.Title != "Example Site" {
		t.Errorf("expected title 'Example Site', got %q", b.Title)
	}
	if b.URL != "https://example.com" {
		t.Errorf("expected URL 'https://example.com', got %q", b.URL)
	}
	if b.FolderID != nil {
		t.Errorf("expected FolderID nil, got %v", b.FolderID)
	}
	if !b.DateAdded.Equal(time.Unix(1234567890, 0)) {
		t.Errorf("expected ADD_DATE to be honored, got %v", b.DateAdded)
	}
}

func TestParseHTML_NestedFolders(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
    <DT><H3>Development</H3>
    <DL><p>
        <DT><H3>React</H3>
        <DL><p>
            <DT><A HREF="https://react.dev">React Docs</A>
        </DL><p>
        <DT><A HREF="https://github.com">GitHub</A>
    </DL><p>
    <DT><A HREF="https://google.com">Google</A>
</DL><p>`

	folders, bookmarks, err := importer.ParseHTMLBookmarks(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(folders) != 2 {
		t.Fatalf("expected 2 folders, got %d", len(folders))
	}
	if len(bookmarks) != 3 {
		t.Fatalf("expected 3 bookmarks, got %d", len(bookmarks))
	}

	byTitle := map[string]model.Folder{}
	for _, f := range folders {
		byTitle[f.Title] = f
	}

	dev, ok := byTitle["Development"]
	if !ok || dev.ParentID != nil {
		t.Fatalf("expected top-level Development folder, got %+v", dev)
	}
	react, ok := byTitle["React"]
	if !ok || react.ParentID == nil || *react.ParentID != dev.ID {
		t.Fatalf("expected React nested under Development, got %+v", react)
	}

	for _, b := range bookmarks {
		switch b.Title {
		case "React Docs":
			if b.FolderID == nil || *b.FolderID != react.ID {
				t.Errorf("React Docs should live in React, got %v", b.FolderID)
			}
		case "GitHub":
			if b.FolderID == nil || *b.FolderID != dev.ID {
				t.Errorf("GitHub should live in Development, got %v", b.FolderID)
			}
		case "Google":
			if b.FolderID != nil {
				t.Errorf("Google should be top level, got %v", b.FolderID)
			}
		}
	}
}

func TestParseHTML_FavoritesBecomeFavoriteFlag(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
    <DT><H3>Favorites</H3>
    <DL><p>
        <DT><A HREF="https://starred.example.com">Starred</A>
    </DL><p>
    <DT><A HREF="https://plain.example.com">Plain</A>
</DL><p>`

	folders, bookmarks, err := importer.ParseHTMLBookmarks(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The pseudo-folder must not materialize as a real folder.
	if len(folders) != 0 {
		t.Fatalf("expected no folders, got %d", len(folders))
	}
	if len(bookmarks) != 2 {
		t.Fatalf("expected 2 bookmarks, got %d", len(bookmarks))
	}

	for _, b := range bookmarks {
		switch b.Title {
		case "Starred":
			if !b.Favorite {
				t.Error("Favorites entry should carry the favorite flag")
			}
			if b.FolderID != nil {
				t.Error("Favorites entry should not belong to a folder")
			}
		case "Plain":
			if b.Favorite {
				t.Error("Plain entry should not be favorited")
			}
		}
	}
}

func TestParseHTML_SkipsAnchorsWithoutHref(t *testing.T) {
	html := `<DL><p><DT><A>No link here</A></DL><p>`

	_, bookmarks, err := importer.ParseHTMLBookmarks(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bookmarks) != 0 {
		t.Errorf("expected no bookmarks, got %d", len(bookmarks))
	}
}

func TestImport_ThroughRepositories(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "bookmarks.db"), logger.NewNop())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer s.Close()

	folders := repo.NewFolders(repo.FoldersParams{Store: s, Log: logger.NewNop()})
	bookmarks := repo.NewBookmarks(repo.BookmarksParams{Store: s, Log: logger.NewNop()})

	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
    <DT><H3>Work</H3>
    <DL><p>
        <DT><H3>Docs</H3>
        <DL><p>
            <DT><A HREF="wiki.example.com">Wiki</A>
        </DL><p>
    </DL><p>
    <DT><H3>Favorites</H3>
    <DL><p>
        <DT><A HREF="https://starred.example.com">Starred</A>
    </DL><p>
</DL><p>`

	addedFolders, addedBookmarks, err := importer.Import(strings.NewReader(html), folders, bookmarks)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if addedFolders != 2 || addedBookmarks != 2 {
		t.Errorf("expected 2 folders and 2 bookmarks, got %d and %d", addedFolders, addedBookmarks)
	}

	top := folders.TopLevel(false)
	if len(top) != 1 || top[0].Title != "Work" || top[0].Index != 0 {
		t.Fatalf("expected Work at top level index 0, got %+v", top)
	}
	children := folders.Children(top[0].ID)
	if len(children) != 1 || children[0].Title != "Docs" {
		t.Fatalf("expected Docs under Work, got %+v", children)
	}

	inDocs := bookmarks.GetInFolder(&children[0].ID)
	if len(inDocs) != 1 || inDocs[0].URL != "https://wiki.example.com" {
		t.Errorf("expected sanitized Wiki bookmark in Docs, got %+v", inDocs)
	}

	var starred *model.Bookmark
	for _, b := range bookmarks.GetAll() {
		if b.Title == "Starred" {
			starred = &b
			break
		}
	}
	if starred == nil || !starred.Favorite || starred.FolderID != nil {
		t.Errorf("expected favorited top-level Starred bookmark, got %+v", starred)
	}
}
