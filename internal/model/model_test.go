package model_test

import (
	"testing"
	"time"

	"github.com/tkoster/linkmark/internal/model"
)

func stringPtr(s string) *string { return &s }

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare host gains https", "example.com", "https://example.com"},
		{"existing http preserved", "http://example.com", "http://example.com"},
		{"existing https preserved", "https://example.com/path", "https://example.com/path"},
		{"whitespace trimmed", "  example.com ", "https://example.com"},
		{"empty stays empty", "", ""},
		{"host with path", "example.com/a/b", "https://example.com/a/b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := model.SanitizeURL(tt.in); got != tt.want {
				t.Errorf("SanitizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewBookmark_Defaults(t *testing.T) {
	before := time.Now()
	b := model.NewBookmark(model.NewBookmarkParams{
		Title: "Example",
		URL:   "example.com",
	})

	if b.ID == "" {
		t.Error("expected generated ID")
	}
	if b.URL != "https://example.com" {
		t.Errorf("expected sanitized URL, got %q", b.URL)
	}
	if b.Host != "example.com" {
		t.Errorf("expected derived host 'example.com', got %q", b.Host)
	}
	if b.DateAdded.Before(before) {
		t.Error("expected DateAdded to default to now")
	}
	if b.FolderID != nil {
		t.Error("expected no folder by default")
	}
}

func TestNewBookmark_ExplicitIDAndDate(t *testing.T) {
	added := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	b := model.NewBookmark(model.NewBookmarkParams{
		ID:        "b1",
		Title:     "Pinned id",
		URL:       "http://example.com",
		FolderID:  stringPtr("f1"),
		DateAdded: added,
	})

	if b.ID != "b1" {
		t.Errorf("expected explicit id to stick, got %q", b.ID)
	}
	if !b.DateAdded.Equal(added) {
		t.Errorf("expected explicit DateAdded to stick, got %v", b.DateAdded)
	}
	if b.URL != "http://example.com" {
		t.Errorf("expected http scheme preserved, got %q", b.URL)
	}
}

func TestPreviewState_Terminal(t *testing.T) {
	if model.PreviewLoading.Terminal() {
		t.Error("loading must not be terminal")
	}
	for _, s := range []model.PreviewState{model.PreviewThumbnail, model.PreviewIcon, model.PreviewFirstLetter} {
		if !s.Terminal() {
			t.Errorf("expected %q to be terminal", s)
		}
	}
}
