package model

import (
	"net/url"
	"strings"
	"time"
)

// Bookmark represents a saved URL with metadata.
type Bookmark struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Notes     string    `json:"notes"`
	URL       string    `json:"url"`
	Host      string    `json:"host"`
	FolderID  *string   `json:"folderId"` // nil = no folder, reachable via "all bookmarks" only
	Favorite  bool      `json:"favorite"`
	DateAdded time.Time `json:"dateAdded"`
}

// NewBookmarkParams holds parameters for creating a new Bookmark.
// ID and DateAdded are optional and default to a fresh UUID and now.
type NewBookmarkParams struct {
	ID        string
	Title     string
	Notes     string
	URL       string
	FolderID  *string
	Favorite  bool
	DateAdded time.Time
}

// NewBookmark creates a Bookmark with a sanitized URL and derived host.
func NewBookmark(params NewBookmarkParams) Bookmark {
	id := params.ID
	if id == "" {
		id = GenerateUUID()
	}
	dateAdded := params.DateAdded
	if dateAdded.IsZero() {
		dateAdded = time.Now()
	}

	sanitized := SanitizeURL(params.URL)

	return Bookmark{
		ID:        id,
		Title:     params.Title,
		Notes:     params.Notes,
		URL:       sanitized,
		Host:      HostOf(sanitized),
		FolderID:  params.FolderID,
		Favorite:  params.Favorite,
		DateAdded: dateAdded,
	}
}

// SanitizeURL coerces a bare host like "example.com" to "https://example.com".
// Inputs that already carry a scheme are returned unchanged.
func SanitizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	if u, err := url.Parse(raw); err == nil && u.Scheme != "" {
		return raw
	}
	return "https://" + raw
}

// HostOf returns the host component of a URL, or "" if it cannot be parsed.
// The host is derived once at creation time and persisted independently.
func HostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}
