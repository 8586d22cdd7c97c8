package toolbox

import (
	"slices"
	"strings"

	"github.com/vanderheijden86/modelbrowser/pkg/model"
)

// ItemDef describes how elements of one kind are presented on a diagram.
// Label returns the text lines of the item's shape, top to bottom.
type ItemDef struct {
	Name           string
	Width, Height  int
	MovableHandles bool
	Watches        []string
	Label          func(e *model.Element) []string
}

// Watching reports whether a change to attribute requires the item to be
// redrawn.
func (d ItemDef) Watching(attribute string) bool {
	return slices.Contains(d.Watches, attribute)
}

var itemDefs = map[model.Kind]ItemDef{}

// Represents registers def as the presentation of kind, replacing any earlier
// registration.
func Represents(kind model.Kind, def ItemDef) {
	itemDefs[kind] = def
}

// ItemFor returns the presentation registered for kind.
func ItemFor(kind model.Kind) (ItemDef, bool) {
	def, ok := itemDefs[kind]
	return def, ok
}

// TopEventItem is drawn as a box with a "Top Event" compartment heading.
var TopEventItem = ItemDef{
	Name:           "TopEventItem",
	MovableHandles: true,
	Watches:        []string{model.AttributeName, "namespace.name"},
	Label: func(e *model.Element) []string {
		lines := []string{"Top Event", e.Name()}
		if owner := e.Owner(); owner != nil && owner.Name() != "" {
			lines = append(lines, "(from "+owner.Name()+")")
		}
		return lines
	},
}

// DiagramItem is drawn as a fixed-size icon box showing the diagram type,
// stereotypes and name.
var DiagramItem = ItemDef{
	Name:    "DiagramItem",
	Width:   30,
	Height:  30,
	Watches: []string{model.AttributeName, model.AttributeDiagramType, model.AttributeStereotype},
	Label: func(e *model.Element) []string {
		var lines []string
		if t := e.DiagramType(); t != "" {
			lines = append(lines, t)
		}
		if s := model.StereotypesString(e); s != "" {
			lines = append(lines, s)
		}
		return append(lines, e.Name())
	},
}

func init() {
	Represents(model.KindTopEvent, TopEventItem)
	Represents(model.KindDiagram, DiagramItem)
}

// Describe renders the presentation of e as a single line, or "" when no
// item is registered for its kind.
func Describe(e *model.Element) string {
	if e == nil {
		return ""
	}
	def, ok := ItemFor(e.Kind())
	if !ok {
		return ""
	}
	var parts []string
	for _, l := range def.Label(e) {
		if l != "" {
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, " | ")
}
