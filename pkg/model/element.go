package model

// Well-known attribute keys stored in Element attrs.
const (
	AttrDocumentation = "documentation"
	AttrType          = "type"    // type name of a Property or Parameter
	AttrReturn        = "return"  // return type of an Operation
	AttrContent       = "content" // base64 picture data
)

// Element is a node in the model graph. Elements are identified by reference;
// the ID is stable across reloads of the same model file.
//
// All mutation goes through Graph so that observers are notified.
type Element struct {
	id          string
	kind        Kind
	name        string
	owner       *Element
	owned       []*Element
	abstract    bool
	diagramType string
	attrs       map[string]string
	source      *Element
	target      *Element
	stereotypes []string
	width       int
	height      int

	seq int // creation order within the graph
}

// ID returns the element's identifier.
func (e *Element) ID() string { return e.id }

// Kind returns the element's metaclass.
func (e *Element) Kind() Kind { return e.kind }

// Owner returns the owning element, or nil for a root element.
func (e *Element) Owner() *Element { return e.owner }

// OwnedElements returns the directly owned elements in ownership order.
// The returned slice is a copy.
func (e *Element) OwnedElements() []*Element {
	out := make([]*Element, len(e.owned))
	copy(out, e.owned)
	return out
}

// HasName reports whether the element carries a name attribute at all.
func (e *Element) HasName() bool { return e.kind.Nameable() }

// Name returns the element's name. Elements without a name attribute always
// return "".
func (e *Element) Name() string { return e.name }

// IsAbstract reports the isAbstract flag of classifiers and behavioral features.
func (e *Element) IsAbstract() bool { return e.abstract }

// DiagramType returns the notation identifier of a diagram ("fta", "stpa").
func (e *Element) DiagramType() string { return e.diagramType }

// Attr returns a string attribute and whether it is set.
func (e *Element) Attr(key string) (string, bool) {
	v, ok := e.attrs[key]
	return v, ok
}

// Source returns the source end of a relationship.
func (e *Element) Source() *Element { return e.source }

// Target returns the target end of a relationship.
func (e *Element) Target() *Element { return e.target }

// Stereotypes returns the names of applied stereotypes.
func (e *Element) Stereotypes() []string {
	out := make([]string, len(e.stereotypes))
	copy(out, e.stereotypes)
	return out
}

// Size returns the presentation size stored with the element (pictures).
func (e *Element) Size() (width, height int) { return e.width, e.height }

// Is reports whether the element's kind carries trait t.
func (e *Element) Is(t Trait) bool { return e != nil && e.kind.Is(t) }

func (e *Element) String() string {
	if e == nil {
		return "<nil>"
	}
	if e.name != "" {
		return string(e.kind) + ":" + e.name
	}
	return string(e.kind) + ":" + e.id
}

func (e *Element) removeOwned(child *Element) {
	for i, c := range e.owned {
		if c == child {
			e.owned = append(e.owned[:i], e.owned[i+1:]...)
			return
		}
	}
}
