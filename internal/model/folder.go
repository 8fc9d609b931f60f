package model

// Folder represents a container for bookmarks and other folders.
// Folders form a forest: a folder has zero or one parent.
type Folder struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Symbol      string  `json:"symbol"`      // icon identifier
	AccentColor string  `json:"accentColor"` // palette key
	Index       int     `json:"index"`       // position within the sibling scope
	Pinned      bool    `json:"pinned"`
	ParentID    *string `json:"parentId"` // nil = top level
}

// NewFolderParams holds parameters for creating a new Folder.
type NewFolderParams struct {
	Title       string
	Symbol      string
	AccentColor string
	ParentID    *string
}

// NewFolder creates a Folder with a generated UUID. The sibling-scope index
// is assigned by the folder repository, not here.
func NewFolder(params NewFolderParams) Folder {
	return Folder{
		ID:          GenerateUUID(),
		Title:       params.Title,
		Symbol:      params.Symbol,
		AccentColor: params.AccentColor,
		ParentID:    params.ParentID,
	}
}

// DeletionAction controls what happens to a deleted folder's contents.
type DeletionAction int

const (
	// DeletionKeep reparents the folder's bookmarks and child folders to the
	// deleted folder's parent (or top level).
	DeletionKeep DeletionAction = iota
	// DeletionDelete removes the folder's bookmarks and the entire child
	// subtree recursively.
	DeletionDelete
)
