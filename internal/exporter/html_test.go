package exporter_test

import (
	"strings"
	"testing"
	"time"

	"github.com/tkoster/linkmark/internal/exporter"
	"github.com/tkoster/linkmark/internal/model"
)

func TestExportHTML_Structure(t *testing.T) {
	devID := "f-dev"
	folders := []model.Folder{
		{ID: devID, Title: "Development", Index: 0},
	}
	bookmarks := []model.Bookmark{
		{ID: "b1", Title: "Example", URL: "https://example.com", DateAdded: time.Unix(1700000000, 0)},
		{ID: "b2", Title: "GitHub", URL: "https://github.com", FolderID: &devID, DateAdded: time.Unix(1700000100, 0)},
	}

	out := exporter.ExportHTML(folders, bookmarks)

	if !strings.HasPrefix(out, "<!DOCTYPE NETSCAPE-Bookmark-file-1>") {
		t.Error("missing Netscape doctype")
	}
	if !strings.Contains(out, "<DT><H3>Development</H3>") {
		t.Error("missing folder heading")
	}
	if !strings.Contains(out, `<DT><A HREF="https://example.com" ADD_DATE="1700000000">Example</A>`) {
		t.Error("missing top-level bookmark")
	}
	if !strings.Contains(out, `<DT><A HREF="https://github.com" ADD_DATE="1700000100">GitHub</A>`) {
		t.Error("missing nested bookmark")
	}

	// The nested bookmark must appear inside the folder's list.
	folderStart := strings.Index(out, "<DT><H3>Development</H3>")
	nested := strings.Index(out, "GitHub")
	if nested < folderStart {
		t.Error("nested bookmark appears before its folder")
	}
}

func TestExportHTML_EscapesSpecialCharacters(t *testing.T) {
	folders := []model.Folder{
		{ID: "f1", Title: "Tools & Tricks"},
	}
	bookmarks := []model.Bookmark{
		{ID: "b1", Title: `Ben & Jerry's <best>`, URL: "https://example.com/?a=1&b=2", DateAdded: time.Now()},
	}

	out := exporter.ExportHTML(folders, bookmarks)

	if !strings.Contains(out, "Tools &amp; Tricks") {
		t.Error("folder title not escaped")
	}
	if !strings.Contains(out, "Ben &amp; Jerry&#39;s &lt;best&gt;") {
		t.Error("bookmark title not escaped")
	}
	if !strings.Contains(out, "https://example.com/?a=1&amp;b=2") {
		t.Error("URL not escaped")
	}
	if strings.Contains(out, "<best>") {
		t.Error("raw angle brackets leaked into output")
	}
}

func TestExportHTML_OrdersSiblings(t *testing.T) {
	folders := []model.Folder{
		{ID: "f1", Title: "Zebra", Index: 1},
		{ID: "f2", Title: "Apple", Index: 0},
		{ID: "f3", Title: "Pinned Last Index", Index: 2, Pinned: true},
	}

	out := exporter.ExportHTML(folders, nil)

	pinned := strings.Index(out, "Pinned Last Index")
	apple := strings.Index(out, "Apple")
	zebra := strings.Index(out, "Zebra")

	if pinned > apple || pinned > zebra {
		t.Error("pinned folder must come before unpinned siblings")
	}
	if apple > zebra {
		t.Error("unpinned folders must follow index order")
	}
}

func TestExportHTML_BookmarksNewestFirst(t *testing.T) {
	base := time.Unix(1700000000, 0)
	bookmarks := []model.Bookmark{
		{ID: "b1", Title: "older", URL: "https://example.com/1", DateAdded: base},
		{ID: "b2", Title: "newer", URL: "https://example.com/2", DateAdded: base.Add(time.Hour)},
	}

	out := exporter.ExportHTML(nil, bookmarks)

	if strings.Index(out, "newer") > strings.Index(out, "older") {
		t.Error("bookmarks must be listed newest first")
	}
}

func TestExportHTML_RoundTripsNesting(t *testing.T) {
	parentID := "f-parent"
	childID := "f-child"
	folders := []model.Folder{
		{ID: parentID, Title: "Parent", Index: 0},
		{ID: childID, Title: "Child", ParentID: &parentID, Index: 0},
	}
	bookmarks := []model.Bookmark{
		{ID: "b1", Title: "Deep", URL: "https://deep.example.com", FolderID: &childID, DateAdded: time.Now()},
	}

	out := exporter.ExportHTML(folders, bookmarks)

	// Two nested DL blocks plus the root one.
	if got := strings.Count(out, "<DL><p>"); got != 3 {
		t.Errorf("expected 3 list openings, got %d", got)
	}
	if strings.Count(out, "<DL><p>") != strings.Count(out, "</DL><p>") {
		t.Error("unbalanced list tags")
	}
}
