package repo

import (
	"fmt"
	"sort"

	"github.com/tkoster/linkmark/internal/logger"
	"github.com/tkoster/linkmark/internal/model"
	"github.com/tkoster/linkmark/internal/notify"
	"github.com/tkoster/linkmark/internal/store"
)

// Folders is the folder repository. It owns sibling-scope ordering: every
// membership change ends with contiguous indices in the affected scopes.
type Folders struct {
	store    *store.Store
	notifier *notify.Notifier
	log      logger.Logger
}

// FoldersParams holds the collaborators for a Folders repository.
type FoldersParams struct {
	Store    *store.Store
	Notifier *notify.Notifier
	Log      logger.Logger
}

// NewFolders creates a Folders repository.
func NewFolders(p FoldersParams) *Folders {
	return &Folders{store: p.Store, notifier: p.Notifier, log: p.Log}
}

// GetAll returns all folders sorted by index ascending.
func (r *Folders) GetAll() []model.Folder {
	return r.GetAllWhere(func(model.Folder) bool { return true })
}

// GetAllWhere returns folders matching the predicate, sorted by index.
func (r *Folders) GetAllWhere(pred func(model.Folder) bool) []model.Folder {
	r.store.Lock()
	defer r.store.Unlock()

	var result []model.Folder
	for _, f := range r.store.Folders {
		if pred(f) {
			result = append(result, f)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Index < result[j].Index
	})
	return result
}

// TopLevel returns the pinned or unpinned top-level scope, in index order.
func (r *Folders) TopLevel(pinned bool) []model.Folder {
	return r.GetAllWhere(func(f model.Folder) bool {
		return f.ParentID == nil && f.Pinned == pinned
	})
}

// Children returns the child scope of a folder, in index order.
func (r *Folders) Children(parentID string) []model.Folder {
	return r.GetAllWhere(func(f model.Folder) bool {
		return f.ParentID != nil && *f.ParentID == parentID
	})
}

// Add creates a folder at the end of its sibling scope and persists it.
func (r *Folders) Add(params model.NewFolderParams) (model.Folder, error) {
	r.store.Lock()
	defer r.store.Unlock()

	if params.ParentID != nil && r.store.FolderByID(*params.ParentID) == nil {
		return model.Folder{}, fmt.Errorf("parent folder %s: %w", *params.ParentID, ErrIntegrity)
	}

	f := model.NewFolder(params)
	f.Index = nextIndex(scopeMembers(r.store, f.ParentID, false))

	r.store.Folders = append(r.store.Folders, f)
	if err := r.store.SaveLocked(); err != nil {
		return f, fmt.Errorf("add folder: %w", err)
	}

	r.notifier.ReloadPresentations()
	return f, nil
}

// Find returns the folder with the given id. Folder ids are referenced by
// persisted bookmarks and pinned shortcuts, so a miss is an integrity
// error, not a routine not-found.
func (r *Folders) Find(id string) (model.Folder, error) {
	r.store.Lock()
	defer r.store.Unlock()

	f := r.store.FolderByID(id)
	if f == nil {
		return model.Folder{}, fmt.Errorf("folder %s: %w", id, ErrIntegrity)
	}
	return *f, nil
}

// Exists is the non-throwing existence check for externally supplied folder
// ids, e.g. widget configuration referencing a folder deleted elsewhere.
func (r *Folders) Exists(id string) bool {
	r.store.Lock()
	defer r.store.Unlock()
	return r.store.FolderByID(id) != nil
}

// Update applies mutate to the folder's presentation fields (title, symbol,
// accent color) and persists. Structural fields go through Move, SetPinned
// and Reorder so scope invariants hold.
func (r *Folders) Update(id string, mutate func(*model.Folder)) error {
	r.store.Lock()
	defer r.store.Unlock()

	f := r.store.FolderByID(id)
	if f == nil {
		return fmt.Errorf("folder %s: %w", id, ErrIntegrity)
	}

	keepIndex, keepPinned, keepParent := f.Index, f.Pinned, f.ParentID
	mutate(f)
	f.Index, f.Pinned, f.ParentID = keepIndex, keepPinned, keepParent

	if err := r.store.SaveLocked(); err != nil {
		return fmt.Errorf("update folder: %w", err)
	}

	r.notifier.ReloadPresentations()
	return nil
}

// SetPinned toggles a top-level folder between the pinned and unpinned
// scopes. The folder joins the end of the destination scope and both
// top-level scopes are renumbered.
func (r *Folders) SetPinned(id string, pinned bool) error {
	r.store.Lock()
	defer r.store.Unlock()

	f := r.store.FolderByID(id)
	if f == nil {
		return fmt.Errorf("folder %s: %w", id, ErrIntegrity)
	}
	if f.Pinned == pinned {
		return nil
	}

	f.Pinned = pinned
	// The pinned split only exists at top level; a nested folder keeps its
	// position in its parent's scope.
	if f.ParentID == nil {
		f.Index = nextIndex(scopeMembers(r.store, nil, pinned))
		renumberTopLevel(r.store)
	}

	if err := r.store.SaveLocked(); err != nil {
		return fmt.Errorf("pin folder: %w", err)
	}

	r.notifier.ReloadPresentations()
	return nil
}

// Move reparents a folder. Moving a folder under itself or one of its own
// descendants is rejected: the forest must stay acyclic.
func (r *Folders) Move(id string, newParentID *string) error {
	r.store.Lock()
	defer r.store.Unlock()

	f := r.store.FolderByID(id)
	if f == nil {
		return fmt.Errorf("folder %s: %w", id, ErrIntegrity)
	}
	if store.PtrEqual(f.ParentID, newParentID) {
		return nil
	}

	if newParentID != nil {
		if r.store.FolderByID(*newParentID) == nil {
			return fmt.Errorf("parent folder %s: %w", *newParentID, ErrIntegrity)
		}
		if *newParentID == id || r.isDescendant(id, *newParentID) {
			return fmt.Errorf("folder %s: %w", id, ErrFolderCycle)
		}
	}

	oldParent, oldPinned := f.ParentID, f.Pinned
	f.ParentID = newParentID
	f.Index = nextIndex(scopeMembers(r.store, newParentID, f.Pinned))

	renumberScope(r.store, oldParent, oldPinned)
	if oldParent == nil || newParentID == nil {
		renumberTopLevel(r.store)
	}

	if err := r.store.SaveLocked(); err != nil {
		return fmt.Errorf("move folder: %w", err)
	}

	r.notifier.ReloadPresentations()
	return nil
}

// Reorder moves a folder to the given position within its sibling scope.
func (r *Folders) Reorder(id string, position int) error {
	r.store.Lock()
	defer r.store.Unlock()

	f := r.store.FolderByID(id)
	if f == nil {
		return fmt.Errorf("folder %s: %w", id, ErrIntegrity)
	}

	members := scopeMembers(r.store, f.ParentID, f.Pinned)
	if !reorderWithin(members, id, position) {
		return fmt.Errorf("folder %s: %w", id, ErrIntegrity)
	}

	if err := r.store.SaveLocked(); err != nil {
		return fmt.Errorf("reorder folder: %w", err)
	}

	r.notifier.ReloadPresentations()
	return nil
}

// Delete removes a folder. With DeletionKeep its bookmarks and child
// folders move up to the deleted folder's parent; with DeletionDelete the
// bookmarks and the entire child subtree are removed recursively. Affected
// sibling scopes are renumbered before the save.
func (r *Folders) Delete(id string, action model.DeletionAction) error {
	r.store.Lock()
	defer r.store.Unlock()

	f := r.store.FolderByID(id)
	if f == nil {
		return fmt.Errorf("folder %s: %w", id, ErrNotFound)
	}

	oldParent, oldPinned := f.ParentID, f.Pinned
	newParent := f.ParentID

	switch action {
	case model.DeletionKeep:
		for i := range r.store.Folders {
			child := &r.store.Folders[i]
			if child.ParentID != nil && *child.ParentID == id {
				child.ParentID = newParent
				child.Index = nextIndex(scopeMembers(r.store, newParent, child.Pinned))
			}
		}
		for i := range r.store.Bookmarks {
			b := &r.store.Bookmarks[i]
			if b.FolderID != nil && *b.FolderID == id {
				b.FolderID = newParent
			}
		}
	case model.DeletionDelete:
		r.deleteSubtree(id)
	}

	r.store.RemoveFolder(id)

	renumberScope(r.store, oldParent, oldPinned)
	if oldParent == nil {
		renumberTopLevel(r.store)
	}
	if action == model.DeletionKeep && newParent != nil {
		renumberScope(r.store, newParent, false)
	}

	if err := r.store.SaveLocked(); err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}

	r.notifier.ReloadPresentations()
	return nil
}

// deleteSubtree removes a folder's bookmarks and recurses into its children
// before the folder itself is removed by the caller.
func (r *Folders) deleteSubtree(id string) {
	var childIDs []string
	for _, f := range r.store.Folders {
		if f.ParentID != nil && *f.ParentID == id {
			childIDs = append(childIDs, f.ID)
		}
	}
	for _, childID := range childIDs {
		r.deleteSubtree(childID)
		r.store.RemoveFolder(childID)
	}

	kept := r.store.Bookmarks[:0]
	for _, b := range r.store.Bookmarks {
		if b.FolderID != nil && *b.FolderID == id {
			continue
		}
		kept = append(kept, b)
	}
	r.store.Bookmarks = kept
}

// isDescendant reports whether candidate sits somewhere below ancestor.
func (r *Folders) isDescendant(ancestorID, candidateID string) bool {
	f := r.store.FolderByID(candidateID)
	for f != nil && f.ParentID != nil {
		if *f.ParentID == ancestorID {
			return true
		}
		f = r.store.FolderByID(*f.ParentID)
	}
	return false
}
