package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/vanderheijden86/modelbrowser/pkg/model"
	"github.com/vanderheijden86/modelbrowser/pkg/propertypages"
	"github.com/vanderheijden86/modelbrowser/pkg/toolbox"
)

type formKind int

const (
	formMetadata formKind = iota
	formPicture
	formNewElement
	formNewDiagram
)

// formValues holds the values bound to form fields. It lives on the heap so
// the bindings survive copies of Model.
type formValues struct {
	fields []string // parallel to propertypages.MetadataAttributes
	path   string
	choice string
}

// activeForm is a huh form embedded in the tree view, with the element it
// applies to.
type activeForm struct {
	kind   formKind
	form   *huh.Form
	values *formValues
	target *model.Element
}

func newEmbeddedForm(groups ...*huh.Group) *huh.Form {
	keys := huh.NewDefaultKeyMap()
	keys.Quit = key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "cancel"))
	return huh.NewForm(groups...).
		WithTheme(huh.ThemeDracula()).
		WithKeyMap(keys).
		WithShowHelp(true)
}

func newMetadataForm(e *model.Element, page *propertypages.MetadataPage) *activeForm {
	current := page.Fields()
	values := &formValues{fields: make([]string, len(current))}
	inputs := make([]huh.Field, 0, len(current))
	for i, f := range current {
		values.fields[i] = f.Value
		inputs = append(inputs, huh.NewInput().
			Title(f.Name).
			Value(&values.fields[i]))
	}
	return &activeForm{
		kind:   formMetadata,
		form:   newEmbeddedForm(huh.NewGroup(inputs...).Title("Metadata")),
		values: values,
		target: e,
	}
}

func validateImagePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("enter a file path")
	}
	if !propertypages.IsImageFile(path) {
		return errors.New("not an image file")
	}
	return nil
}

func newPictureForm(e *model.Element) *activeForm {
	values := &formValues{}
	return &activeForm{
		kind: formPicture,
		form: newEmbeddedForm(huh.NewGroup(
			huh.NewInput().
				Title("Picture file").
				Description(strings.Join(propertypages.ImageExtensions, " ")).
				Validate(validateImagePath).
				Value(&values.path),
		)),
		values: values,
		target: e,
	}
}

// newElementForm offers the element types that owner may hold. It returns
// nil when there is nothing to offer.
func newElementForm(owner *model.Element) *activeForm {
	var options []huh.Option[string]
	for _, info := range toolbox.RAAMLElementTypes {
		if info.Allows(owner) {
			options = append(options, huh.NewOption(info.Name, info.ID))
		}
	}
	if len(options) == 0 {
		return nil
	}
	values := &formValues{choice: options[0].Value}
	title := "New element"
	if owner != nil {
		title = "New element in " + owner.Name()
	}
	return &activeForm{
		kind: formNewElement,
		form: newEmbeddedForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Options(options...).
				Value(&values.choice),
		)),
		values: values,
		target: owner,
	}
}

func newDiagramForm(owner *model.Element) *activeForm {
	options := make([]huh.Option[string], 0, len(toolbox.RAAMLDiagramTypes))
	for _, dt := range toolbox.RAAMLDiagramTypes {
		options = append(options, huh.NewOption(dt.Name, dt.ID))
	}
	values := &formValues{choice: toolbox.RAAMLDiagramTypes[0].ID}
	return &activeForm{
		kind: formNewDiagram,
		form: newEmbeddedForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("New diagram").
				Options(options...).
				Value(&values.choice),
		)),
		values: values,
		target: owner,
	}
}

// update forwards msg to the form. It reports whether the form finished,
// either submitted or aborted.
func (f *activeForm) update(msg tea.Msg) (tea.Cmd, bool) {
	next, cmd := f.form.Update(msg)
	if form, ok := next.(*huh.Form); ok {
		f.form = form
	}
	switch f.form.State {
	case huh.StateCompleted, huh.StateAborted:
		return nil, true
	}
	return cmd, false
}

func (f *activeForm) submitted() bool {
	return f.form.State == huh.StateCompleted
}
