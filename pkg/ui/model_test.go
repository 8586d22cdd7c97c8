package ui

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/modelbrowser/pkg/config"
	"github.com/vanderheijden86/modelbrowser/pkg/loader"
	"github.com/vanderheijden86/modelbrowser/pkg/model"
	"github.com/vanderheijden86/modelbrowser/pkg/propertypages"
	"github.com/vanderheijden86/modelbrowser/pkg/treemodel"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, g *model.Graph, opts ...Option) Model {
	t.Helper()
	opts = append([]Option{WithTheme(TestTheme())}, opts...)
	m := NewModel(g, opts...)
	t.Cleanup(m.browser.Close)
	return send(m, tea.WindowSizeMsg{Width: 100, Height: 30})
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		m = send(m, keyMsg(k))
	}
	return m
}

func selectID(t *testing.T, m Model, id string) Model {
	t.Helper()
	if !m.tree.SelectByID(id) {
		t.Fatalf("row %s not visible", id)
	}
	return m
}

func TestModel_ViewBeforeReady(t *testing.T) {
	m := NewModel(vehicleGraph(), WithTheme(TestTheme()))
	defer m.browser.Close()
	if m.View() != "Loading model..." {
		t.Errorf("unexpected view %q", m.View())
	}
	m = send(m, ReadyTimeoutMsg{})
	if !strings.Contains(m.View(), "vehicles") {
		t.Errorf("expected tree after ready timeout, got:\n%s", m.View())
	}
}

func TestModel_NavigateAndExpand(t *testing.T) {
	m := newTestModel(t, vehicleGraph())

	m = press(m, "j", "l", "l")
	if m.tree.SelectedID() != "bus" {
		t.Fatalf("expected bus selected, got %s", m.tree.SelectedID())
	}
	m = press(m, "h", "enter")
	if len(m.tree.Rows()) != 2 {
		t.Errorf("expected vehicles collapsed again, got %v", rowTexts(&m.tree))
	}
	m = press(m, "G")
	if m.tree.SelectedID() != "vehicles" {
		t.Errorf("expected last row, got %s", m.tree.SelectedID())
	}
	m = press(m, "g")
	if m.tree.SelectedID() != "archive" {
		t.Errorf("expected first row, got %s", m.tree.SelectedID())
	}
}

func TestModel_Rename(t *testing.T) {
	g := vehicleGraph()
	m := newTestModel(t, g)
	m = press(m, "j", "l")
	m = selectID(t, m, "car")

	m = press(m, "r")
	if !m.Editing() {
		t.Fatal("expected rename editor to open")
	}
	if m.rename.Value() != "car" {
		t.Errorf("expected editor seeded with name, got %q", m.rename.Value())
	}
	if m.tree.SelectedItem().VisibleChildName() != treemodel.ChildEditing {
		t.Error("expected row to switch to its editor")
	}

	m = press(m, "backspace", "backspace", "backspace", "Truck", "enter")
	if m.Editing() {
		t.Fatal("expected editor closed after enter")
	}
	car, _ := g.Lookup("car")
	if car.Name() != "Truck" {
		t.Errorf("expected element renamed, got %q", car.Name())
	}
	if m.tree.SelectedID() != "car" || m.tree.SelectedItem().Text() != "Truck" {
		t.Errorf("expected selection kept on renamed row, got %s %q", m.tree.SelectedID(), m.tree.SelectedItem().Text())
	}
}

func TestModel_RenameCancel(t *testing.T) {
	g := vehicleGraph()
	m := newTestModel(t, g)
	m = press(m, "r", "X", "esc")

	if m.Editing() {
		t.Fatal("expected editor closed after esc")
	}
	archive, _ := g.Lookup("archive")
	if archive.Name() != "Archive" {
		t.Errorf("expected name unchanged, got %q", archive.Name())
	}
	if m.tree.SelectedItem().VisibleChildName() != treemodel.ChildDefault {
		t.Error("expected row back to its label")
	}
}

func TestModel_RenameReadOnly(t *testing.T) {
	g := vehicleGraph()
	car, _ := g.Lookup("car")
	bus, _ := g.Lookup("bus")
	g.Create(model.KindGeneralization, model.WithID("gen"), model.WithEnds(car, bus))

	m := newTestModel(t, g)
	m = selectID(t, m, "gen")
	m = press(m, "r")

	if m.Editing() {
		t.Error("expected read-only row not to open an editor")
	}
	if msg, isErr := m.Status(); !isErr || msg == "" {
		t.Errorf("expected error status, got %q", msg)
	}
}

func TestModel_Delete(t *testing.T) {
	g := vehicleGraph()
	m := newTestModel(t, g)
	m = press(m, "d")

	if _, ok := g.Lookup("archive"); ok {
		t.Error("expected archive deleted")
	}
	if got := rowTexts(&m.tree); len(got) != 1 || got[0] != "vehicles" {
		t.Errorf("expected only vehicles left, got %v", got)
	}
	if msg, _ := m.Status(); msg != "Deleted Archive" {
		t.Errorf("unexpected status %q", msg)
	}
}

func TestModel_CopyQualifiedName(t *testing.T) {
	m := newTestModel(t, vehicleGraph())
	m = press(m, "j", "l", "l", "j")
	m = press(m, "y")

	msg, _ := m.Status()
	// Headless environments have no clipboard; either outcome is reported.
	if !strings.Contains(msg, "vehicles::car") && !strings.Contains(msg, "Clipboard error") {
		t.Errorf("unexpected status %q", msg)
	}
}

func TestModel_ToggleDetail(t *testing.T) {
	g := vehicleGraph()
	car, _ := g.Lookup("car")
	if err := g.SetAttr(car, model.AttrDocumentation, "Has four wheels."); err != nil {
		t.Fatal(err)
	}
	m := newTestModel(t, g)
	m = press(m, "j", "l", "l", "j")

	if !m.showDetail {
		t.Fatal("expected detail pane shown by default")
	}
	if !strings.Contains(m.View(), "four wheels") {
		t.Errorf("expected documentation in detail pane, got:\n%s", m.View())
	}
	m = press(m, "i")
	if strings.Contains(m.View(), "four wheels") {
		t.Error("expected detail pane hidden")
	}
}

func TestModel_StatePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree-state.json")
	g := vehicleGraph()

	m := newTestModel(t, g, WithStatePath(path))
	m = press(m, "j", "l")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected state written on expand: %v", err)
	}

	m2 := newTestModel(t, g, WithStatePath(path))
	if len(m2.tree.Rows()) != 5 {
		t.Errorf("expected expand state restored, got %v", rowTexts(&m2.tree))
	}
}

func TestModel_HideDetailConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.UI.HideDetail = true
	m := newTestModel(t, vehicleGraph(), WithConfig(cfg))
	if m.showDetail {
		t.Error("expected detail pane hidden by config")
	}
}

const vehiclesFile = `version: 1
elements:
  - id: pkg
    kind: package
    name: Vehicles
  - id: car
    kind: class
    name: Car
    owner: pkg
`

func TestModel_FileChangedReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "v.model.yaml")
	if err := os.WriteFile(path, []byte(vehiclesFile), 0o644); err != nil {
		t.Fatal(err)
	}
	g, err := loader.Load(t.Context(), []string{path})
	if err != nil {
		t.Fatal(err)
	}

	m := newTestModel(t, g, WithModelPaths([]string{path}))
	m = press(m, "l", "j")
	if m.tree.SelectedID() != "car" {
		t.Fatalf("expected car selected, got %s", m.tree.SelectedID())
	}

	updated := vehiclesFile + `  - id: bike
    kind: class
    name: Bike
    owner: pkg
`
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatal(err)
	}
	m = send(m, FileChangedMsg{})

	if got := strings.Join(rowTexts(&m.tree), ","); got != "Vehicles, Bike, Car" {
		t.Errorf("expected reloaded rows with expand state kept, got %s", got)
	}
	if m.tree.SelectedID() != "car" {
		t.Errorf("expected selection to follow the ID across reload, got %s", m.tree.SelectedID())
	}
	if msg, isErr := m.Status(); isErr || msg != "Reloaded 3 elements" {
		t.Errorf("unexpected status %q", msg)
	}
}

func TestModel_FileChangedInvalidKeepsGraph(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "v.model.yaml")
	if err := os.WriteFile(path, []byte(vehiclesFile), 0o644); err != nil {
		t.Fatal(err)
	}
	g, err := loader.Load(t.Context(), []string{path})
	if err != nil {
		t.Fatal(err)
	}
	m := newTestModel(t, g, WithModelPaths([]string{path}))

	if err := os.WriteFile(path, []byte("elements: [{{"), 0o644); err != nil {
		t.Fatal(err)
	}
	m = send(m, FileChangedMsg{})

	if msg, isErr := m.Status(); !isErr || !strings.HasPrefix(msg, "Reload failed") {
		t.Errorf("expected reload error, got %q", msg)
	}
	if g.Len() != 2 || len(m.tree.Rows()) != 1 {
		t.Errorf("expected graph untouched, got %d elements", g.Len())
	}
}

func TestModel_MetadataForm(t *testing.T) {
	g := vehicleGraph()
	meta := g.Create(model.KindMetadata, model.WithID("meta"), model.WithName("info"))
	m := newTestModel(t, g)

	m = press(m, "m")
	if m.FormOpen() {
		t.Fatal("expected no form for a package")
	}
	if _, isErr := m.Status(); !isErr {
		t.Error("expected error status for a non-metadata selection")
	}

	m = selectID(t, m, "meta")
	m = press(m, "m")
	if !m.FormOpen() || m.form.kind != formMetadata {
		t.Fatal("expected metadata form")
	}

	m.form.values.fields[0] = "alice"
	m.form.values.fields[3] = "2"
	m.applyForm(m.form)

	if v, _ := meta.Attr("createdBy"); v != "alice" {
		t.Errorf("expected createdBy set, got %q", v)
	}
	if v, _ := meta.Attr("revision"); v != "2" {
		t.Errorf("expected revision set, got %q", v)
	}
	if msg, _ := m.Status(); msg != "Metadata saved" {
		t.Errorf("unexpected status %q", msg)
	}
}

func writePNG(t *testing.T, dir string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, "photo.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestModel_PictureForm(t *testing.T) {
	g := vehicleGraph()
	pic := g.Create(model.KindPicture, model.WithID("pic"), model.WithName(propertypages.DefaultPictureName))
	m := newTestModel(t, g)

	m = press(m, "p")
	if m.FormOpen() {
		t.Fatal("expected no picture form for a package")
	}

	m = selectID(t, m, "pic")
	m = press(m, "p")
	if !m.FormOpen() || m.form.kind != formPicture {
		t.Fatal("expected picture form")
	}

	m.form.values.path = writePNG(t, t.TempDir(), 7, 5)
	m.applyForm(m.form)

	if w, h := pic.Size(); w != 7 || h != 5 {
		t.Errorf("expected size 7x5, got %dx%d", w, h)
	}
	if pic.Name() != "photo" {
		t.Errorf("expected default name replaced, got %q", pic.Name())
	}
	if msg, isErr := m.Status(); isErr || msg != "Loaded 7×5 picture" {
		t.Errorf("unexpected status %q", msg)
	}
}

func TestModel_PictureFormUserError(t *testing.T) {
	g := vehicleGraph()
	pic := g.Create(model.KindPicture, model.WithID("pic"), model.WithName("logo"))
	m := newTestModel(t, g)

	bad := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(bad, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	f := newPictureForm(pic)
	f.values.path = bad
	m.applyForm(f)

	msg, isErr := m.Status()
	if !isErr || msg != "Unable to parse picture “"+bad+"”." {
		t.Errorf("unexpected status %q", msg)
	}
	if _, ok := pic.Attr(model.AttrContent); ok {
		t.Error("expected picture left untouched")
	}
}

func TestModel_NewElementForm(t *testing.T) {
	g := vehicleGraph()
	m := newTestModel(t, g)
	m = press(m, "j", "l", "l")

	m = press(m, "n")
	if !m.FormOpen() || m.form.kind != formNewElement {
		t.Fatal("expected new element form")
	}
	if m.form.target == nil || m.form.target.ID() != "vehicles" {
		t.Fatalf("expected owner to be the enclosing package, got %v", m.form.target)
	}

	m.form.values.choice = "hazard"
	m.applyForm(m.form)

	e := m.tree.SelectedElement()
	if e == nil || e.Kind() != model.KindHazard || e.Owner().ID() != "vehicles" {
		t.Fatalf("expected new hazard selected under vehicles, got %v", e)
	}
	if msg, isErr := m.Status(); isErr || msg != "Created Hazard" {
		t.Errorf("unexpected status %q", msg)
	}
}

func TestModel_NewDiagramForm(t *testing.T) {
	g := vehicleGraph()
	m := newTestModel(t, g)
	m = selectID(t, m, "archive")

	f := newDiagramForm(m.newElementOwner())
	f.values.choice = "stpa"
	m.applyForm(f)

	e := m.tree.SelectedElement()
	if e == nil || e.DiagramType() != "stpa" || e.Owner().ID() != "archive" {
		t.Fatalf("expected stpa diagram under archive, got %v", e)
	}
}

func TestModel_FormEscCancels(t *testing.T) {
	g := vehicleGraph()
	m := newTestModel(t, g)
	m = press(m, "n")
	if !m.FormOpen() {
		t.Fatal("expected form open")
	}
	before := g.Len()
	m = press(m, "esc")
	if m.FormOpen() {
		t.Error("expected esc to close the form")
	}
	if g.Len() != before {
		t.Error("expected nothing created")
	}
}

func TestModel_ApplyFormAfterTargetRemoved(t *testing.T) {
	g := vehicleGraph()
	meta := g.Create(model.KindMetadata, model.WithName("info"))
	m := newTestModel(t, g)

	f := newMetadataForm(meta, propertypages.NewMetadataPage(meta, g))
	if err := g.Delete(meta); err != nil {
		t.Fatal(err)
	}
	m.applyForm(f)
	if _, isErr := m.Status(); !isErr {
		t.Error("expected error for a removed element")
	}
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t, vehicleGraph())
	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if !quits(cmd()) {
		t.Error("expected tea.QuitMsg")
	}
}

func TestValidateImagePath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"", true},
		{"   ", true},
		{"notes.txt", true},
		{"photo.PNG", false},
		{"dir/scan.tiff", false},
	}
	for _, tt := range tests {
		if err := validateImagePath(tt.path); (err != nil) != tt.wantErr {
			t.Errorf("validateImagePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}

func quits(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case tea.QuitMsg:
		return true
	case tea.BatchMsg:
		for _, cmd := range msg {
			if cmd != nil && quits(cmd()) {
				return true
			}
		}
	}
	return false
}
