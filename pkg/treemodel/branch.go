package treemodel

import "github.com/vanderheijden86/modelbrowser/pkg/model"

// Branch holds the rows for the direct children of one tree node. A branch
// never holds two items for the same element; TreeModel.AddElement checks
// before appending.
type Branch struct {
	store   *ListStore
	renamer Renamer
}

func newBranch(r Renamer) *Branch {
	return &Branch{store: NewListStore(), renamer: r}
}

// Store returns the observable list backing the branch.
func (b *Branch) Store() *ListStore { return b.store }

// Append wraps e in a new item at the end of the branch.
func (b *Branch) Append(e *model.Element) {
	b.store.Append(NewTreeItem(e, b.renamer))
}

// Remove drops the item wrapping e. Missing elements are ignored.
func (b *Branch) Remove(e *model.Element) {
	if i := b.IndexOf(e); i >= 0 {
		b.store.Remove(i)
	}
}

// RemoveAll empties the branch.
func (b *Branch) RemoveAll() {
	b.store.RemoveAll()
}

// Changed signals that the row for e must be redrawn in place.
func (b *Branch) Changed(e *model.Element) {
	if i := b.IndexOf(e); i >= 0 {
		b.store.ItemsChanged(i, 1, 1)
	}
}

// IndexOf returns the position of the item wrapping e, or -1.
func (b *Branch) IndexOf(e *model.Element) int {
	for i, it := range b.store.items {
		if it.Wraps(e) {
			return i
		}
	}
	return -1
}

// Item returns the item wrapping e, or nil.
func (b *Branch) Item(e *model.Element) *TreeItem {
	return b.store.At(b.IndexOf(e))
}

// Len returns the number of rows.
func (b *Branch) Len() int { return b.store.Len() }

// Items returns the rows in store order.
func (b *Branch) Items() []*TreeItem { return b.store.Items() }
