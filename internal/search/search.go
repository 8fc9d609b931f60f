package search

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/tkoster/linkmark/internal/model"
)

// Matches reports whether a bookmark matches the query: a case-insensitive
// substring test over the title, host, notes and the title of the
// containing folder (empty when the bookmark has none).
func Matches(b model.Bookmark, folderTitle string, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	haystack := strings.ToLower(strings.Join([]string{b.Title, b.Host, b.Notes, folderTitle}, " "))
	return strings.Contains(haystack, query)
}

// Result represents a fuzzy search match.
type Result struct {
	Bookmark       model.Bookmark
	MatchedIndexes []int
	Score          int
}

// bookmarkTitles implements fuzzy.Source for a bookmark slice.
type bookmarkTitles []model.Bookmark

func (bt bookmarkTitles) String(i int) string {
	return bt[i].Title
}

func (bt bookmarkTitles) Len() int {
	return len(bt)
}

// FuzzyByTitle searches bookmarks by title using fuzzy matching.
// Returns results sorted by match score (best first).
func FuzzyByTitle(bookmarks []model.Bookmark, query string) []Result {
	if query == "" {
		return nil
	}

	matches := fuzzy.FindFrom(query, bookmarkTitles(bookmarks))

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Bookmark:       bookmarks[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}
