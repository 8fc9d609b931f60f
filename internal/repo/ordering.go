package repo

import (
	"sort"

	"github.com/tkoster/linkmark/internal/model"
	"github.com/tkoster/linkmark/internal/store"
)

// Sibling scopes: {pinned top-level}, {unpinned top-level} and {children of
// F} for every folder F. Within each scope the position indices form a
// contiguous 0..n-1 run. The helpers below restore that invariant after any
// membership change; callers hold the store lock and save afterwards.

// scopeMembers returns pointers into the store's folder table for one
// sibling scope, sorted by index. The pinned split only applies at top
// level; a child scope is all folders sharing the parent.
func scopeMembers(s *store.Store, parentID *string, pinned bool) []*model.Folder {
	var members []*model.Folder
	for i := range s.Folders {
		f := &s.Folders[i]
		if !store.PtrEqual(f.ParentID, parentID) {
			continue
		}
		if parentID == nil && f.Pinned != pinned {
			continue
		}
		members = append(members, f)
	}
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Index < members[j].Index
	})
	return members
}

// nextIndex returns the index for a folder appended to a scope.
func nextIndex(members []*model.Folder) int {
	next := 0
	for _, f := range members {
		if f.Index >= next {
			next = f.Index + 1
		}
	}
	return next
}

// renumber assigns 0..n-1 to the members in their current index order.
func renumber(members []*model.Folder) {
	for i, f := range members {
		f.Index = i
	}
}

// renumberScope renumbers one sibling scope in place.
func renumberScope(s *store.Store, parentID *string, pinned bool) {
	renumber(scopeMembers(s, parentID, pinned))
}

// renumberTopLevel renumbers both top-level scopes. Pin toggles and
// top-level deletions move folders between the two, so both need a pass.
func renumberTopLevel(s *store.Store) {
	renumberScope(s, nil, true)
	renumberScope(s, nil, false)
}

// reorderWithin moves the folder with the given id to position target
// inside its own scope. With the original position i and target j: for
// i < j every folder in (i, j] shifts down one, for j < i every folder in
// [j, i) shifts up one, and the moved folder takes j.
func reorderWithin(members []*model.Folder, id string, target int) bool {
	n := len(members)
	if n == 0 {
		return false
	}
	if target < 0 {
		target = 0
	}
	if target > n-1 {
		target = n - 1
	}

	from := -1
	for i, f := range members {
		if f.ID == id {
			from = i
			break
		}
	}
	if from == -1 {
		return false
	}
	if from == target {
		return true
	}

	if from < target {
		for i := from + 1; i <= target; i++ {
			members[i].Index--
		}
	} else {
		for i := target; i < from; i++ {
			members[i].Index++
		}
	}
	members[from].Index = target
	return true
}
