// Package ui implements the mb terminal model browser.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/modelbrowser/pkg/config"
	"github.com/vanderheijden86/modelbrowser/pkg/debug"
	"github.com/vanderheijden86/modelbrowser/pkg/loader"
	"github.com/vanderheijden86/modelbrowser/pkg/model"
	"github.com/vanderheijden86/modelbrowser/pkg/propertypages"
	"github.com/vanderheijden86/modelbrowser/pkg/toolbox"
	"github.com/vanderheijden86/modelbrowser/pkg/treemodel"
	"github.com/vanderheijden86/modelbrowser/pkg/watcher"
)

// FileChangedMsg is sent when a model file changes on disk.
type FileChangedMsg struct{}

// ReadyTimeoutMsg is sent after a short delay to ensure the UI becomes ready
// even if the terminal doesn't send WindowSizeMsg promptly.
type ReadyTimeoutMsg struct{}

// ReadyTimeoutCmd returns a command that sends ReadyTimeoutMsg after 100ms.
func ReadyTimeoutCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return ReadyTimeoutMsg{}
	})
}

// WatchFileCmd returns a command that waits for file changes and sends FileChangedMsg.
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// Option configures a Model.
type Option func(*Model)

// WithConfig sets the configuration.
func WithConfig(cfg config.Config) Option {
	return func(m *Model) {
		m.cfg = cfg
	}
}

// WithModelPaths sets the files the graph was loaded from. They are read
// again on FileChangedMsg.
func WithModelPaths(paths []string) Option {
	return func(m *Model) {
		m.paths = paths
	}
}

// WithWatcher sets a started watcher for the model files.
func WithWatcher(w *watcher.Watcher) Option {
	return func(m *Model) {
		m.watcher = w
	}
}

// WithStatePath sets where the expand state is kept. Empty disables
// persistence.
func WithStatePath(path string) Option {
	return func(m *Model) {
		m.statePath = path
	}
}

// WithTheme overrides the default theme.
func WithTheme(t Theme) Option {
	return func(m *Model) {
		m.theme = t
		m.themeSet = true
	}
}

// Model is the bubbletea model of the browser.
type Model struct {
	graph   *model.Graph
	browser *treemodel.Browser
	tree    TreeView
	theme   Theme
	cfg     config.Config

	paths     []string
	statePath string
	watcher   *watcher.Watcher
	themeSet  bool

	width  int
	height int
	ready  bool

	showDetail bool
	detail     viewport.Model
	mdRenderer *glamour.TermRenderer

	rename  textinput.Model
	editing *treemodel.TreeItem

	form *activeForm

	statusMsg     string
	statusIsError bool
}

// NewModel creates a browser for g.
func NewModel(g *model.Graph, opts ...Option) Model {
	m := Model{
		graph: g,
		cfg:   config.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	if !m.themeSet {
		m.theme = DefaultTheme(lipgloss.DefaultRenderer())
	}

	m.browser = treemodel.NewBrowser(g)
	m.tree = NewTreeView(m.browser.Tree(), m.theme)
	m.tree.RestoreExpanded(LoadTreeState(m.statePath).Expanded)
	m.tree.Rebuild()

	m.showDetail = !m.cfg.UI.HideDetail
	m.detail = viewport.New(0, 0)
	m.mdRenderer = newMarkdownRenderer(m.cfg.UI.WordWrap)

	m.rename = textinput.New()
	m.rename.CharLimit = 200
	m.rename.Prompt = ""

	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{ReadyTimeoutCmd()}
	if m.watcher != nil {
		cmds = append(cmds, WatchFileCmd(m.watcher))
	}
	return tea.Batch(cmds...)
}

// Graph returns the browsed graph.
func (m Model) Graph() *model.Graph {
	return m.graph
}

// Status returns the status line text and whether it reports an error.
func (m Model) Status() (string, bool) {
	return m.statusMsg, m.statusIsError
}

// Editing reports whether a row is being renamed.
func (m Model) Editing() bool {
	return m.editing != nil
}

// FormOpen reports whether a form is shown.
func (m Model) FormOpen() bool {
	return m.form != nil
}

// Close saves the expand state and stops following the graph and files.
func (m Model) Close() {
	m.saveState()
	if m.watcher != nil {
		m.watcher.Stop()
	}
	m.browser.Close()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case FileChangedMsg:
		m.reload()
		if m.watcher != nil {
			cmds = append(cmds, WatchFileCmd(m.watcher))
		}
		m.sync()
		return m, tea.Batch(cmds...)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()

	case ReadyTimeoutMsg:
		if !m.ready {
			m.width, m.height = 80, 24
			m.ready = true
			m.layout()
		}
	}

	// huh forms need every message type, not only keys.
	if m.form != nil {
		cmd, done := m.form.update(msg)
		cmds = append(cmds, cmd)
		if done {
			f := m.form
			m.form = nil
			if f.submitted() {
				m.applyForm(f)
			}
		}
		m.sync()
		return m, tea.Batch(cmds...)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.editing != nil {
			cmds = append(cmds, m.updateRename(msg))
		} else {
			cmds = append(cmds, m.handleKey(msg))
		}
	}

	m.sync()
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.setStatus("", false)
	switch msg.String() {
	case "q", "ctrl+c":
		m.saveState()
		return tea.Quit
	case "j", "down":
		m.tree.MoveDown()
	case "k", "up":
		m.tree.MoveUp()
	case "g", "home":
		m.tree.JumpToTop()
	case "G", "end":
		m.tree.JumpToBottom()
	case "l", "right":
		m.tree.ExpandOrMoveToChild()
		m.saveState()
	case "h", "left":
		m.tree.CollapseOrJumpToParent()
		m.saveState()
	case "enter", " ":
		m.tree.ToggleExpand()
		m.saveState()
	case "Z":
		m.tree.CollapseAll()
		m.saveState()
	case "r", "f2":
		return m.startRename()
	case "d", "delete":
		m.deleteSelected()
	case "y":
		m.copyQualifiedName()
	case "i", "tab":
		m.showDetail = !m.showDetail
		m.layout()
	case "m":
		return m.openMetadataForm()
	case "p":
		return m.openPictureForm()
	case "n":
		return m.openElementForm()
	case "D":
		return m.openDiagramForm()
	case "ctrl+d", "ctrl+u", "pgdown", "pgup":
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) setStatus(msg string, isError bool) {
	m.statusMsg = msg
	m.statusIsError = isError
}

func (m *Model) startRename() tea.Cmd {
	item := m.tree.SelectedItem()
	if item == nil {
		return nil
	}
	if item.ReadOnly() {
		m.setStatus("This element has no name", true)
		return nil
	}
	item.StartEditing()
	m.editing = item
	m.rename.SetValue(item.EditText())
	m.rename.CursorEnd()
	return m.rename.Focus()
}

func (m *Model) updateRename(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		item := m.editing
		m.stopRename()
		item.SetEditText(m.rename.Value())
		return nil
	case "esc", "ctrl+c":
		m.stopRename()
		return nil
	}
	var cmd tea.Cmd
	m.rename, cmd = m.rename.Update(msg)
	return cmd
}

func (m *Model) stopRename() {
	if m.editing != nil {
		m.editing.StopEditing()
	}
	m.editing = nil
	m.rename.Blur()
}

func (m *Model) deleteSelected() {
	e := m.tree.SelectedElement()
	if e == nil {
		return
	}
	label := m.tree.SelectedItem().Text()
	if err := toolbox.DeleteSelected(m.graph, []toolbox.Presentation{{Subject: e}}); err != nil {
		m.setStatus(fmt.Sprintf("Delete failed: %v", err), true)
		return
	}
	m.setStatus(fmt.Sprintf("Deleted %s", label), false)
}

func (m *Model) copyQualifiedName() {
	e := m.tree.SelectedElement()
	if e == nil {
		return
	}
	name := model.QualifiedName(e)
	if name == "" {
		name = e.ID()
	}
	if err := clipboard.WriteAll(name); err != nil {
		m.setStatus(fmt.Sprintf("Clipboard error: %v", err), true)
		return
	}
	m.setStatus(fmt.Sprintf("Copied %s to clipboard", name), false)
}

func (m *Model) openForm(f *activeForm) tea.Cmd {
	m.form = f
	m.form.form.WithWidth(m.formWidth())
	return m.form.form.Init()
}

func (m *Model) openMetadataForm() tea.Cmd {
	e := m.tree.SelectedElement()
	for _, page := range propertypages.PagesFor(e, m.graph) {
		if p, ok := page.(*propertypages.MetadataPage); ok {
			return m.openForm(newMetadataForm(e, p))
		}
	}
	m.setStatus("Select a metadata element to edit its fields", true)
	return nil
}

func (m *Model) openPictureForm() tea.Cmd {
	e := m.tree.SelectedElement()
	if e == nil || e.Kind() != model.KindPicture {
		m.setStatus("Select a picture to load an image into", true)
		return nil
	}
	return m.openForm(newPictureForm(e))
}

// newElementOwner is the closest package at or above the selection.
func (m *Model) newElementOwner() *model.Element {
	e := m.tree.SelectedElement()
	if e == nil {
		return nil
	}
	for _, o := range model.SelfAndOwners(e) {
		if o.Kind() == model.KindPackage {
			return o
		}
	}
	return nil
}

func (m *Model) openElementForm() tea.Cmd {
	f := newElementForm(m.newElementOwner())
	if f == nil {
		m.setStatus("No element types can be created here", true)
		return nil
	}
	return m.openForm(f)
}

func (m *Model) openDiagramForm() tea.Cmd {
	return m.openForm(newDiagramForm(m.newElementOwner()))
}

func (m *Model) applyForm(f *activeForm) {
	if f.target != nil && !m.graph.Contains(f.target) {
		m.setStatus("The element was removed while editing", true)
		return
	}

	switch f.kind {
	case formMetadata:
		values := make(map[string]string, len(f.values.fields))
		for i, attr := range propertypages.MetadataAttributes {
			values[attr] = f.values.fields[i]
		}
		if err := propertypages.NewMetadataPage(f.target, m.graph).Apply(values); err != nil {
			m.setStatus(fmt.Sprintf("Metadata not saved: %v", err), true)
			return
		}
		m.setStatus("Metadata saved", false)

	case formPicture:
		err := propertypages.NewPicturePage(f.target, m.graph).OpenFile(f.values.path)
		var userErr *propertypages.UserError
		switch {
		case errors.As(err, &userErr):
			debug.Log("ui: picture load failed: %v", userErr.Err)
			m.setStatus(userErr.Message, true)
		case err != nil:
			m.setStatus(err.Error(), true)
		default:
			w, h := f.target.Size()
			m.setStatus(fmt.Sprintf("Loaded %d×%d picture", w, h), false)
		}

	case formNewElement:
		info, ok := toolbox.ElementType(f.values.choice)
		if !ok {
			return
		}
		e, err := toolbox.CreateElement(m.graph, info, f.target)
		if err != nil {
			m.setStatus(fmt.Sprintf("Cannot create %s: %v", info.Name, err), true)
			return
		}
		m.tree.Reveal(e)
		m.saveState()
		m.setStatus(fmt.Sprintf("Created %s", info.Name), false)

	case formNewDiagram:
		dt, ok := toolbox.DiagramTypeByID(f.values.choice)
		if !ok {
			return
		}
		e, err := toolbox.CreateDiagram(m.graph, dt, f.target)
		if err != nil {
			m.setStatus(fmt.Sprintf("Cannot create diagram: %v", err), true)
			return
		}
		m.tree.Reveal(e)
		m.saveState()
		m.setStatus(fmt.Sprintf("Created %s", dt.Name), false)
	}
}

// reload reads the model files again. Edits in progress refer to elements
// of the old graph contents and are discarded.
func (m *Model) reload() {
	if len(m.paths) == 0 {
		return
	}
	if m.editing != nil || m.form != nil {
		m.stopRename()
		m.form = nil
		m.setStatus("Model changed on disk; edit discarded", true)
	}

	start := time.Now()
	if err := loader.Reload(context.Background(), m.graph, m.paths); err != nil {
		m.setStatus(fmt.Sprintf("Reload failed: %v", err), true)
		return
	}
	debug.LogTiming("ui: reload", time.Since(start))
	// Reload replaces every element; selection and expand state follow IDs.
	m.tree.Rebuild()
	if !m.statusIsError {
		m.setStatus(fmt.Sprintf("Reloaded %d elements", m.graph.Len()), false)
	}
}

func (m *Model) saveState() {
	SaveTreeState(m.statePath, m.tree.Expanded())
}

// sync rebuilds the rows after model changes and refreshes the detail pane.
func (m *Model) sync() {
	if m.tree.Dirty() {
		m.tree.Rebuild()
	}
	if m.showDetail {
		m.detail.SetContent(renderMarkdown(m.mdRenderer, ElementMarkdown(m.tree.SelectedElement())))
	}
}

func (m *Model) treeWidth() int {
	if !m.showDetail {
		return m.width
	}
	w := int(float64(m.width) * m.cfg.UI.SplitRatio)
	if w < 20 {
		w = 20
	}
	if w > m.width {
		w = m.width
	}
	return w
}

func (m *Model) formWidth() int {
	if m.width <= 0 {
		return 60
	}
	return m.width - 4
}

// layout sizes the panes. One line each goes to the header and footer.
func (m *Model) layout() {
	bodyHeight := m.height - 2
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	tw := m.treeWidth()
	m.tree.SetSize(tw, bodyHeight)
	m.rename.Width = tw / 2

	dw := m.width - tw - 4
	if dw < 0 {
		dw = 0
	}
	if m.cfg.UI.DetailWidth > 0 && dw > m.cfg.UI.DetailWidth {
		dw = m.cfg.UI.DetailWidth
	}
	m.detail.Width = dw
	m.detail.Height = bodyHeight - 2
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading model..."
	}

	header := m.theme.Header.Render("mb") + " " +
		m.theme.SecondaryText.Render(fmt.Sprintf("%d elements", m.graph.Len()))

	var body string
	switch {
	case m.form != nil:
		body = m.form.form.View()
	case m.showDetail:
		editor := ""
		if m.editing != nil {
			editor = m.rename.View()
		}
		left := lipgloss.NewStyle().Width(m.treeWidth()).Render(m.tree.View(editor))
		right := m.theme.DetailBorder.Render(m.detail.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	default:
		editor := ""
		if m.editing != nil {
			editor = m.rename.View()
		}
		body = m.tree.View(editor)
	}

	return strings.Join([]string{header, body, m.footer()}, "\n")
}

func (m Model) footer() string {
	if m.statusMsg != "" {
		if m.statusIsError {
			return m.theme.ErrorText.Render(m.statusMsg)
		}
		return m.theme.StatusText.Render(m.statusMsg)
	}
	hints := "j/k move  h/l fold  r rename  d delete  n new  y copy  m metadata  p picture  i detail  q quit"
	if m.editing != nil {
		hints = "enter save  esc cancel"
	}
	return m.theme.Footer.Render(truncate(m.tree.PositionInfo()+"  "+hints, m.width))
}
