// Package importer parses browser bookmark exports (Netscape HTML) and
// feeds them through the repositories.
package importer

import (
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/tkoster/linkmark/internal/model"
	"github.com/tkoster/linkmark/internal/repo"
)

// FavoritesFolderName is the pseudo-folder some browsers export for starred
// bookmarks. Its entries become favorited bookmarks rather than members of
// a real folder.
const FavoritesFolderName = "Favorites"

// ParseHTMLBookmarks parses Netscape bookmark HTML and returns folders and
// bookmarks. Folder parents appear before their children in the returned
// slice. Entries under a top-level "Favorites" folder carry the favorite
// flag instead of a folder membership.
func ParseHTMLBookmarks(r io.Reader) ([]model.Folder, []model.Bookmark, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, nil, err
	}

	var folders []model.Folder
	var bookmarks []model.Bookmark

	// frame tracks the enclosing list: which folder we are in (nil = top
	// level) and whether we are inside the favorites pseudo-folder.
	type frame struct {
		folderID *string
		favorite bool
	}
	var stack []frame
	var pending *frame // frame waiting to be pushed on the next DL

	current := func() frame {
		if len(stack) > 0 {
			return stack[len(stack)-1]
		}
		return frame{}
	}

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				name := getTextContent(n)
				if name == "" {
					return
				}
				enclosing := current()

				if name == FavoritesFolderName && enclosing.folderID == nil && !enclosing.favorite {
					pending = &frame{favorite: true}
					return
				}

				folder := model.NewFolder(model.NewFolderParams{
					Title:    name,
					ParentID: enclosing.folderID,
				})
				folders = append(folders, folder)
				id := folder.ID
				pending = &frame{folderID: &id, favorite: enclosing.favorite}
				return // don't recurse into H3

			case "a":
				href := getAttr(n, "href")
				if href == "" {
					return // skip bookmarks without URL
				}

				title := getTextContent(n)
				if title == "" {
					title = href // fall back to URL as title
				}

				enclosing := current()

				dateAdded := time.Now()
				if addDate := getAttr(n, "add_date"); addDate != "" {
					if ts, err := strconv.ParseInt(addDate, 10, 64); err == nil {
						dateAdded = time.Unix(ts, 0)
					}
				}

				bookmarks = append(bookmarks, model.NewBookmark(model.NewBookmarkParams{
					Title:     title,
					URL:       href,
					FolderID:  enclosing.folderID,
					Favorite:  enclosing.favorite,
					DateAdded: dateAdded,
				}))
				return // don't recurse into A

			case "dl":
				pushed := false
				if pending != nil {
					stack = append(stack, *pending)
					pending = nil
					pushed = true
				}

				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}

				if pushed && len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	return folders, bookmarks, nil
}

// Import parses r and adds every entry through the repositories, so scope
// indices, URL sanitization and reload signals all apply. Returns the
// number of folders and bookmarks added.
func Import(r io.Reader, folders *repo.Folders, bookmarks *repo.Bookmarks) (int, int, error) {
	parsedFolders, parsedBookmarks, err := ParseHTMLBookmarks(r)
	if err != nil {
		return 0, 0, err
	}

	// Parent folders precede children, so one pass maps old ids to the
	// repository-assigned ones.
	idMap := make(map[string]string, len(parsedFolders))
	addedFolders := 0
	for _, f := range parsedFolders {
		var parentID *string
		if f.ParentID != nil {
			if mapped, ok := idMap[*f.ParentID]; ok {
				parentID = &mapped
			}
		}
		added, err := folders.Add(model.NewFolderParams{
			Title:       f.Title,
			Symbol:      f.Symbol,
			AccentColor: f.AccentColor,
			ParentID:    parentID,
		})
		if err != nil {
			return addedFolders, 0, err
		}
		idMap[f.ID] = added.ID
		addedFolders++
	}

	addedBookmarks := 0
	for _, b := range parsedBookmarks {
		var folderID *string
		if b.FolderID != nil {
			if mapped, ok := idMap[*b.FolderID]; ok {
				folderID = &mapped
			}
		}
		if _, err := bookmarks.Add(model.NewBookmarkParams{
			Title:     b.Title,
			Notes:     b.Notes,
			URL:       b.URL,
			FolderID:  folderID,
			Favorite:  b.Favorite,
			DateAdded: b.DateAdded,
		}); err != nil {
			return addedFolders, addedBookmarks, err
		}
		addedBookmarks++
	}

	return addedFolders, addedBookmarks, nil
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}
