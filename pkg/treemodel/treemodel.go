// Package treemodel projects an owned-element graph onto a lazily expanded
// tree of observable lists.
//
// Branches are created the first time a node's children are requested
// (ChildModel) and dropped again once they become empty. The root branch,
// keyed by the absence of an owner, always exists. All entry points degrade
// to no-ops on lookup misses: an unexpanded region of the tree is a normal
// state, and the whole mapping can be rebuilt with Clear.
//
// TreeModel is not safe for concurrent use; it is driven from the UI loop.
package treemodel

import (
	"github.com/vanderheijden86/modelbrowser/pkg/debug"
	"github.com/vanderheijden86/modelbrowser/pkg/metrics"
	"github.com/vanderheijden86/modelbrowser/pkg/model"
)

// TreeModel maps tree nodes to the branches holding their children. Nodes are
// keyed by the element they wrap; the nil key is the root.
type TreeModel struct {
	branches map[*model.Element]*Branch
	renamer  Renamer
}

// New creates a tree model with an empty root branch. r is used by items to
// apply name edits and may be nil.
func New(r Renamer) *TreeModel {
	return &TreeModel{
		branches: map[*model.Element]*Branch{nil: newBranch(r)},
		renamer:  r,
	}
}

// Root returns the branch of top-level elements.
func (t *TreeModel) Root() *Branch {
	return t.branches[nil]
}

// ChildModel returns the list of children for item, materializing the
// branch on first use. It returns nil when item has no visible children.
// A nil item yields the root list.
func (t *TreeModel) ChildModel(item *TreeItem) *ListStore {
	if item == nil {
		return t.Root().Store()
	}
	e := item.Element()
	if e == nil {
		return nil
	}
	if b, ok := t.branches[e]; ok {
		return b.Store()
	}

	defer metrics.Timer(metrics.BranchMaterialize)()
	var owned []*model.Element
	for _, child := range e.OwnedElements() {
		if child.Owner() == e && Visible(child) {
			owned = append(owned, child)
		}
	}
	if len(owned) == 0 {
		return nil
	}

	b := newBranch(t.renamer)
	for _, child := range owned {
		b.Append(child)
	}
	t.branches[e] = b
	debug.Log("treemodel: materialized branch for %s (%d items)", e, len(owned))
	return b.Store()
}

// HasChildren reports whether item would yield a child list, without
// materializing anything.
func (t *TreeModel) HasChildren(item *TreeItem) bool {
	if item == nil {
		return t.Root().Len() > 0
	}
	e := item.Element()
	if e == nil {
		return false
	}
	if b, ok := t.branches[e]; ok {
		return b.Len() > 0
	}
	for _, child := range e.OwnedElements() {
		if child.Owner() == e && Visible(child) {
			return true
		}
	}
	return false
}

// OwnerBranchForElement returns the branch that holds e as a direct child,
// based on e's current owner.
func (t *TreeModel) OwnerBranchForElement(e *model.Element) *Branch {
	return t.OwnerBranch(e.Owner())
}

// OwnerBranch returns the branch holding the children of owner: the root
// branch for a nil owner, or nil when owner has not been expanded.
func (t *TreeModel) OwnerBranch(owner *model.Element) *Branch {
	if owner == nil {
		return t.Root()
	}
	return t.branches[owner]
}

// TreeItemForElement returns the row wrapping e, or nil.
func (t *TreeModel) TreeItemForElement(e *model.Element) *TreeItem {
	if e == nil {
		return nil
	}
	if b := t.OwnerBranchForElement(e); b != nil {
		return b.Item(e)
	}
	return nil
}

// AddElement inserts a row for e if its owner is expanded. If the owner is
// not expanded, the owner's row is only told that it may have children now.
func (t *TreeModel) AddElement(e *model.Element) {
	if !Visible(e) || t.TreeItemForElement(e) != nil {
		return
	}
	if b := t.OwnerBranchForElement(e); b != nil {
		b.Append(e)
	} else if owner := e.Owner(); owner != nil {
		t.NotifyChildModel(owner)
	}
}

// RemoveElement removes e and its descendants, depth-first, from the branch
// of e's current owner.
func (t *TreeModel) RemoveElement(e *model.Element) {
	t.removeElement(e, e.Owner())
}

// RemoveElementFrom is RemoveElement for an element that has already been
// detached or moved: formerOwner says which branch it used to live in.
// Descendants are still looked up by their current owner.
func (t *TreeModel) RemoveElementFrom(e, formerOwner *model.Element) {
	t.removeElement(e, formerOwner)
}

func (t *TreeModel) removeElement(e, owner *model.Element) {
	for _, child := range e.OwnedElements() {
		t.removeElement(child, child.Owner())
	}

	b := t.OwnerBranch(owner)
	if b == nil {
		return
	}
	b.Remove(e)
	if b.Len() == 0 {
		t.RemoveBranch(b)
	}
}

// RemoveBranch drops b from the mapping and refreshes the row of the node it
// belonged to. The root branch is never removed. A branch that is not in the
// mapping is left alone.
func (t *TreeModel) RemoveBranch(b *Branch) {
	if b == t.Root() {
		return
	}
	for owner, candidate := range t.branches {
		if candidate == b {
			delete(t.branches, owner)
			t.NotifyChildModel(owner)
			return
		}
	}
	debug.Log("treemodel: RemoveBranch called for a detached branch")
}

// NotifyChildModel signals a change for e's row in its parent's branch, so
// the expander state is redrawn. It never creates branches.
func (t *TreeModel) NotifyChildModel(e *model.Element) {
	if e == nil {
		return
	}
	if b, ok := t.branches[e.Owner()]; ok {
		b.Changed(e)
	}
}

// Sync refreshes the row of e after one of its attributes changed.
func (t *TreeModel) Sync(e *model.Element) {
	if !Visible(e) {
		return
	}
	b := t.OwnerBranchForElement(e)
	if b == nil {
		return
	}
	if item := b.Item(e); item != nil {
		item.Sync()
		b.Changed(e)
	}
}

// Clear empties the root branch and forgets every other branch. The root
// branch instance is kept so existing observers stay connected.
func (t *TreeModel) Clear() {
	root := t.Root()
	root.RemoveAll()
	t.branches = map[*model.Element]*Branch{nil: root}
}

// BranchCount returns the number of materialized branches, root included.
func (t *TreeModel) BranchCount() int {
	return len(t.branches)
}

// HasBranch reports whether the children of e have been materialized.
func (t *TreeModel) HasBranch(e *model.Element) bool {
	if e == nil {
		return true
	}
	_, ok := t.branches[e]
	return ok
}
