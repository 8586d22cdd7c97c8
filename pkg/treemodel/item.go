package treemodel

import (
	"github.com/vanderheijden86/modelbrowser/pkg/debug"
	"github.com/vanderheijden86/modelbrowser/pkg/format"
	"github.com/vanderheijden86/modelbrowser/pkg/model"
)

// VisibleChild selects what a row shows: its label or an inline editor.
type VisibleChild string

const (
	ChildDefault VisibleChild = "default"
	ChildEditing VisibleChild = "editing"
)

const (
	noneText          = "<None>"
	relationshipsText = "<Relationships>"
)

// Renamer writes element names. *model.Graph implements it.
type Renamer interface {
	SetName(e *model.Element, name string) error
}

// TreeItem is the display projection of one element. Items compare by the
// identity of the element they wrap; an item without an element (the
// relationships placeholder) is only equal to itself.
type TreeItem struct {
	element *model.Element
	renamer Renamer

	text             string
	icon             string
	iconVisible      bool
	attributes       format.Attributes
	visibleChildName VisibleChild

	placeholder bool
}

// NewTreeItem wraps e and derives its display fields. r may be nil, in which
// case edits are dropped.
func NewTreeItem(e *model.Element, r Renamer) *TreeItem {
	item := &TreeItem{element: e, renamer: r, visibleChildName: ChildDefault}
	item.Sync()
	return item
}

// NewRelationshipItem creates the synthetic "<Relationships>" grouping row.
// It never wraps an element and cannot be edited.
func NewRelationshipItem() *TreeItem {
	return &TreeItem{
		text:             relationshipsText,
		visibleChildName: ChildDefault,
		placeholder:      true,
	}
}

// Element returns the wrapped element, or nil.
func (t *TreeItem) Element() *model.Element { return t.element }

// Text is the display label.
func (t *TreeItem) Text() string { return t.text }

// Icon is the icon identifier.
func (t *TreeItem) Icon() string { return t.icon }

// IconVisible reports whether the icon is shown.
func (t *TreeItem) IconVisible() bool { return t.iconVisible }

// Attributes are the style markers of the row.
func (t *TreeItem) Attributes() format.Attributes { return t.attributes }

// VisibleChildName reports whether the row is being edited.
func (t *TreeItem) VisibleChildName() VisibleChild { return t.visibleChildName }

// IsPlaceholder reports whether this is the relationships grouping row.
func (t *TreeItem) IsPlaceholder() bool { return t.placeholder }

// ReadOnly is true when there is no element or it has no name attribute.
func (t *TreeItem) ReadOnly() bool {
	return t.element == nil || !t.element.HasName()
}

// EditText returns the editable form of the label: the element name, or ""
// for read-only items.
func (t *TreeItem) EditText() string {
	if t.ReadOnly() {
		return ""
	}
	return t.element.Name()
}

// SetEditText renames the element. Ignored for read-only items.
func (t *TreeItem) SetEditText(text string) {
	if t.ReadOnly() || t.renamer == nil {
		return
	}
	if err := t.renamer.SetName(t.element, text); err != nil {
		debug.Log("treemodel: rename of %s dropped: %v", t.element, err)
	}
}

// Sync re-derives all display fields from the element's current state.
func (t *TreeItem) Sync() {
	e := t.element
	if e == nil {
		return
	}
	t.text = format.Format(e)
	if t.text == "" {
		t.text = noneText
	}
	t.icon = format.IconName(e)
	t.iconVisible = format.IconVisible(e)
	t.attributes = format.StyleOf(e)
}

// StartEditing switches the row to its inline editor.
func (t *TreeItem) StartEditing() {
	if t.placeholder {
		return
	}
	t.visibleChildName = ChildEditing
}

// StopEditing switches the row back to its label.
func (t *TreeItem) StopEditing() {
	t.visibleChildName = ChildDefault
}

// Wraps reports whether t is the projection of e.
func (t *TreeItem) Wraps(e *model.Element) bool {
	return e != nil && t.element == e
}

// Equal reports whether t and other denote the same tree node.
func (t *TreeItem) Equal(other *TreeItem) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.element == nil || other.element == nil {
		return t == other
	}
	return t.element == other.element
}
