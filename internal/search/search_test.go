package search_test

import (
	"testing"

	"github.com/tkoster/linkmark/internal/model"
	"github.com/tkoster/linkmark/internal/search"
)

func TestMatches(t *testing.T) {
	b := model.Bookmark{
		Title: "SwiftUI Tips",
		Host:  "developer.example.com",
		Notes: "view builders and layout",
	}

	tests := []struct {
		name        string
		query       string
		folderTitle string
		want        bool
	}{
		{"title substring", "Swift", "", true},
		{"case-insensitive", "swiftui", "", true},
		{"host substring", "developer.example", "", true},
		{"notes substring", "layout", "", true},
		{"folder title substring", "Reading", "Reading List", true},
		{"no match anywhere", "rust", "", false},
		{"empty query matches", "", "", true},
		{"whitespace query matches", "   ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := search.Matches(b, tt.folderTitle, tt.query); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestMatches_NegativeExample(t *testing.T) {
	b := model.Bookmark{Title: "Go Concurrency"}
	if search.Matches(b, "", "Swift") {
		t.Error("'Go Concurrency' must not match 'Swift'")
	}
}

func TestFuzzyByTitle(t *testing.T) {
	bookmarks := []model.Bookmark{
		{ID: "b1", Title: "TanStack Router"},
		{ID: "b2", Title: "Terminal Setup"},
		{ID: "b3", Title: "Cooking Recipes"},
	}

	results := search.FuzzyByTitle(bookmarks, "tr")
	if len(results) == 0 {
		t.Fatal("expected fuzzy matches for 'tr'")
	}
	for _, r := range results {
		if r.Bookmark.ID == "b3" {
			t.Error("'Cooking Recipes' should not fuzzy-match 'tr'")
		}
	}

	if got := search.FuzzyByTitle(bookmarks, ""); got != nil {
		t.Errorf("empty query should return nil, got %v", got)
	}
}
