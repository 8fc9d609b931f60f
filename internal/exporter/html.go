package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tkoster/linkmark/internal/model"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/bookmarks-export-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("bookmarks-export-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportHTML renders folders and bookmarks to Netscape bookmark HTML.
// Folders appear in sibling-scope index order, pinned before unpinned at
// top level; bookmarks appear newest first within their folder.
func ExportHTML(folders []model.Folder, bookmarks []model.Bookmark) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	writeItems(&b, folders, bookmarks, nil, 1)

	b.WriteString("</DL><p>\n")

	return b.String()
}

// writeItems recursively writes folders and bookmarks for a given parent.
func writeItems(b *strings.Builder, folders []model.Folder, bookmarks []model.Bookmark, parentID *string, indent int) {
	prefix := strings.Repeat("    ", indent)

	for _, folder := range siblingFolders(folders, parentID) {
		fmt.Fprintf(b, "%s<DT><H3>%s</H3>\n", prefix, html.EscapeString(folder.Title))
		fmt.Fprintf(b, "%s<DL><p>\n", prefix)

		folderID := folder.ID
		writeItems(b, folders, bookmarks, &folderID, indent+1)

		fmt.Fprintf(b, "%s</DL><p>\n", prefix)
	}

	for _, bookmark := range folderBookmarks(bookmarks, parentID) {
		fmt.Fprintf(b,
			"%s<DT><A HREF=\"%s\" ADD_DATE=\"%d\">%s</A>\n",
			prefix,
			html.EscapeString(bookmark.URL),
			bookmark.DateAdded.Unix(),
			html.EscapeString(bookmark.Title),
		)
	}
}

func siblingFolders(folders []model.Folder, parentID *string) []model.Folder {
	var result []model.Folder
	for _, f := range folders {
		if ptrEqual(f.ParentID, parentID) {
			result = append(result, f)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Pinned != result[j].Pinned {
			return result[i].Pinned
		}
		return result[i].Index < result[j].Index
	})
	return result
}

func folderBookmarks(bookmarks []model.Bookmark, folderID *string) []model.Bookmark {
	var result []model.Bookmark
	for _, bm := range bookmarks {
		if ptrEqual(bm.FolderID, folderID) {
			result = append(result, bm)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DateAdded.After(result[j].DateAdded)
	})
	return result
}

func ptrEqual(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
