package model

// PreviewState classifies a cached link preview.
// Loading is the only non-terminal state; a preview never reverts to it.
type PreviewState string

const (
	PreviewLoading     PreviewState = "loading"
	PreviewThumbnail   PreviewState = "thumbnail"   // full preview image was available
	PreviewIcon        PreviewState = "icon"        // only a site icon was available
	PreviewFirstLetter PreviewState = "firstLetter" // no image, render the title's first letter
)

// Terminal reports whether the state ends the preview fetch state machine.
func (s PreviewState) Terminal() bool {
	return s == PreviewThumbnail || s == PreviewIcon || s == PreviewFirstLetter
}

// CachedPreview is a local, disposable preview record keyed by bookmark id.
// It is not part of the synced entity model.
type CachedPreview struct {
	BookmarkID string       `json:"bookmarkId"`
	Image      []byte       `json:"image,omitempty"`
	State      PreviewState `json:"state"`
}
