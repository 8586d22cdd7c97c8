package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/modelbrowser/pkg/metrics"
	"github.com/vanderheijden86/modelbrowser/pkg/model"
	"github.com/vanderheijden86/modelbrowser/pkg/treemodel"
)

// Row is one visible line of the tree view.
type Row struct {
	Item        *treemodel.TreeItem
	Depth       int
	Expanded    bool
	HasChildren bool
}

// ID returns the element ID of the row, or "" for placeholders.
func (r Row) ID() string {
	return itemID(r.Item)
}

func itemID(item *treemodel.TreeItem) string {
	if item == nil || item.Element() == nil {
		return ""
	}
	return item.Element().ID()
}

// storeWatch tracks the child lists currently on screen. Any change to one
// of them marks the view dirty.
type storeWatch struct {
	dirty bool
	conns map[*treemodel.ListStore]func()
}

func (w *storeWatch) connect(s *treemodel.ListStore) {
	if _, ok := w.conns[s]; ok {
		return
	}
	w.conns[s] = s.Connect(func(int, int, int) { w.dirty = true })
}

// prune disconnects lists that are no longer displayed.
func (w *storeWatch) prune(keep map[*treemodel.ListStore]bool) {
	for s, disconnect := range w.conns {
		if !keep[s] {
			disconnect()
			delete(w.conns, s)
		}
	}
}

// TreeView renders a treemodel.TreeModel as an indented, navigable list.
// Only expanded nodes have their child lists requested, so branches are
// materialized as the user opens them.
type TreeView struct {
	tree     *treemodel.TreeModel
	theme    Theme
	expanded map[string]bool // element ID -> expanded
	rows     []Row
	cursor   int
	offset   int
	width    int
	height   int
	watch    *storeWatch
}

// NewTreeView creates a view of tm. Call Rebuild to populate it.
func NewTreeView(tm *treemodel.TreeModel, theme Theme) TreeView {
	return TreeView{
		tree:     tm,
		theme:    theme,
		expanded: make(map[string]bool),
		watch:    &storeWatch{conns: make(map[*treemodel.ListStore]func())},
	}
}

// SetSize sets the available width and height.
func (t *TreeView) SetSize(width, height int) {
	t.width = width
	t.height = height
	t.ensureCursorVisible()
}

// Dirty reports whether a displayed list changed since the last Rebuild.
func (t *TreeView) Dirty() bool {
	return t.watch.dirty
}

// Rebuild flattens the expanded part of the tree, keeping the selection on
// the same element when it is still visible.
func (t *TreeView) Rebuild() {
	defer metrics.Timer(metrics.TreeRebuild)()
	selected := t.SelectedID()

	t.rows = t.rows[:0]
	keep := make(map[*treemodel.ListStore]bool)
	t.appendStore(t.tree.ChildModel(nil), 0, keep)
	t.watch.prune(keep)
	t.watch.dirty = false

	if selected == "" || !t.SelectByID(selected) {
		t.clampCursor()
	}
}

func (t *TreeView) appendStore(store *treemodel.ListStore, depth int, keep map[*treemodel.ListStore]bool) {
	if store == nil {
		return
	}
	t.watch.connect(store)
	keep[store] = true

	items := store.Items()
	treemodel.SortItems(items)
	for _, item := range items {
		row := Row{
			Item:        item,
			Depth:       depth,
			Expanded:    t.expanded[itemID(item)],
			HasChildren: t.tree.HasChildren(item),
		}
		t.rows = append(t.rows, row)
		if row.Expanded && row.HasChildren {
			t.appendStore(t.tree.ChildModel(item), depth+1, keep)
		}
	}
}

// Rows returns the visible rows.
func (t *TreeView) Rows() []Row {
	return t.rows
}

// Cursor returns the index of the selected row.
func (t *TreeView) Cursor() int {
	return t.cursor
}

// SelectedRow returns the selected row, or nil for an empty tree.
func (t *TreeView) SelectedRow() *Row {
	if t.cursor < 0 || t.cursor >= len(t.rows) {
		return nil
	}
	return &t.rows[t.cursor]
}

// SelectedItem returns the item of the selected row, or nil.
func (t *TreeView) SelectedItem() *treemodel.TreeItem {
	if r := t.SelectedRow(); r != nil {
		return r.Item
	}
	return nil
}

// SelectedElement returns the element of the selected row, or nil.
func (t *TreeView) SelectedElement() *model.Element {
	if item := t.SelectedItem(); item != nil {
		return item.Element()
	}
	return nil
}

// SelectedID returns the element ID of the selected row, or "".
func (t *TreeView) SelectedID() string {
	if r := t.SelectedRow(); r != nil {
		return r.ID()
	}
	return ""
}

// SelectByID moves the cursor to the row of the given element. It returns
// false if that element is not visible.
func (t *TreeView) SelectByID(id string) bool {
	for i, r := range t.rows {
		if r.ID() == id {
			t.cursor = i
			t.ensureCursorVisible()
			return true
		}
	}
	return false
}

// Reveal expands every owner of e and selects it.
func (t *TreeView) Reveal(e *model.Element) bool {
	if e == nil {
		return false
	}
	for o := e.Owner(); o != nil; o = o.Owner() {
		t.expanded[o.ID()] = true
	}
	t.Rebuild()
	return t.SelectByID(e.ID())
}

// Expanded returns the expand state keyed by element ID.
func (t *TreeView) Expanded() map[string]bool {
	return t.expanded
}

// RestoreExpanded marks the given element IDs as expanded.
func (t *TreeView) RestoreExpanded(ids []string) {
	for _, id := range ids {
		t.expanded[id] = true
	}
}

func (t *TreeView) MoveDown() {
	if t.cursor < len(t.rows)-1 {
		t.cursor++
		t.ensureCursorVisible()
	}
}

func (t *TreeView) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
		t.ensureCursorVisible()
	}
}

func (t *TreeView) JumpToTop() {
	t.cursor = 0
	t.ensureCursorVisible()
}

func (t *TreeView) JumpToBottom() {
	t.cursor = len(t.rows) - 1
	t.clampCursor()
}

// ToggleExpand opens or closes the selected node.
func (t *TreeView) ToggleExpand() {
	r := t.SelectedRow()
	if r == nil || !r.HasChildren {
		return
	}
	t.expanded[r.ID()] = !r.Expanded
	t.Rebuild()
}

// ExpandOrMoveToChild expands a collapsed node, or steps onto the first
// child of an expanded one.
func (t *TreeView) ExpandOrMoveToChild() {
	r := t.SelectedRow()
	if r == nil || !r.HasChildren {
		return
	}
	if !r.Expanded {
		t.expanded[r.ID()] = true
		t.Rebuild()
		return
	}
	t.MoveDown()
}

// CollapseOrJumpToParent collapses an expanded node, or moves to the row of
// its owner.
func (t *TreeView) CollapseOrJumpToParent() {
	r := t.SelectedRow()
	if r == nil {
		return
	}
	if r.Expanded && r.HasChildren {
		t.expanded[r.ID()] = false
		t.Rebuild()
		return
	}
	t.JumpToParent()
}

// JumpToParent selects the owner row of the selected node.
func (t *TreeView) JumpToParent() {
	r := t.SelectedRow()
	if r == nil || r.Depth == 0 {
		return
	}
	for i := t.cursor - 1; i >= 0; i-- {
		if t.rows[i].Depth == r.Depth-1 {
			t.cursor = i
			t.ensureCursorVisible()
			return
		}
	}
}

// CollapseAll closes every node.
func (t *TreeView) CollapseAll() {
	for id := range t.expanded {
		t.expanded[id] = false
	}
	t.Rebuild()
}

func (t *TreeView) clampCursor() {
	if t.cursor >= len(t.rows) {
		t.cursor = len(t.rows) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.ensureCursorVisible()
}

func (t *TreeView) visibleCount() int {
	if t.height <= 0 {
		return len(t.rows)
	}
	return t.height
}

func (t *TreeView) ensureCursorVisible() {
	if len(t.rows) == 0 {
		t.offset = 0
		return
	}
	visible := t.visibleCount()

	if t.cursor < t.offset {
		t.offset = t.cursor
	}
	if t.cursor >= t.offset+visible {
		t.offset = t.cursor - visible + 1
	}

	maxOffset := len(t.rows) - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if t.offset > maxOffset {
		t.offset = maxOffset
	}
	if t.offset < 0 {
		t.offset = 0
	}
}

// View renders the visible window of rows. editor, when non-empty, replaces
// the label of the row being edited.
func (t *TreeView) View(editor string) string {
	if len(t.rows) == 0 {
		return t.theme.MutedText.Render("  (empty model)")
	}

	end := t.offset + t.visibleCount()
	if end > len(t.rows) {
		end = len(t.rows)
	}

	var sb strings.Builder
	for i := t.offset; i < end; i++ {
		if i > t.offset {
			sb.WriteString("\n")
		}
		sb.WriteString(t.renderRow(t.rows[i], i == t.cursor, editor))
	}
	return sb.String()
}

func (t *TreeView) renderRow(row Row, selected bool, editor string) string {
	r := t.theme.Renderer
	width := t.width
	if width <= 0 {
		width = 80
	}
	// Reduce width by 1 to prevent terminal wrapping on the exact edge
	width--

	var left strings.Builder
	left.WriteString(strings.Repeat("  ", row.Depth))
	left.WriteString(t.theme.SecondaryText.Render(expandIndicator(row)))
	left.WriteString(" ")

	item := row.Item
	if e := item.Element(); e != nil && item.IconVisible() {
		icon, color := t.theme.KindIcon(e.Kind())
		left.WriteString(r.NewStyle().Foreground(color).Render(icon))
		left.WriteString(" ")
	}
	used := lipgloss.Width(left.String())

	if item.VisibleChildName() == treemodel.ChildEditing && editor != "" {
		return left.String() + editor
	}

	label := truncate(item.Text(), width-used)
	if selected {
		// the selection border takes one cell
		label = padRight(label, width-used-1)
	}
	style := t.theme.Base
	if item.IsPlaceholder() {
		style = t.theme.MutedText
	}
	attrs := item.Attributes()
	style = style.Bold(attrs.Bold).Italic(attrs.Italic)

	line := left.String() + style.Render(label)
	if selected {
		return t.theme.Selected.Render(line)
	}
	return line
}

func expandIndicator(row Row) string {
	switch {
	case !row.HasChildren:
		return "•"
	case row.Expanded:
		return "▾"
	default:
		return "▸"
	}
}

// PositionInfo returns "n/total" for the footer.
func (t *TreeView) PositionInfo() string {
	if len(t.rows) == 0 {
		return "0/0"
	}
	return fmt.Sprintf("%d/%d", t.cursor+1, len(t.rows))
}
