package model

// Event is a change notification emitted by a Graph.
type Event interface {
	event()
}

// ElementCreated is emitted after an element has been created and, when an
// owner was given, attached to it.
type ElementCreated struct {
	Element *Element
}

// ElementDeleted is emitted after an element was detached from the graph.
// The element keeps its owned elements so observers can cascade depth-first;
// its Owner() is already nil, FormerOwner tells where it used to live.
type ElementDeleted struct {
	Element     *Element
	FormerOwner *Element
}

// OwnerChanged is emitted after an element moved to a new owner.
type OwnerChanged struct {
	Element     *Element
	FormerOwner *Element
}

// AttributeUpdated is emitted after a single attribute of an element changed.
type AttributeUpdated struct {
	Element   *Element
	Attribute string
}

// ModelFlushed is emitted after all elements were dropped from the graph.
type ModelFlushed struct{}

// ModelReady is emitted once a model has been fully loaded.
type ModelReady struct{}

func (ElementCreated) event()   {}
func (ElementDeleted) event()   {}
func (OwnerChanged) event()     {}
func (AttributeUpdated) event() {}
func (ModelFlushed) event()     {}
func (ModelReady) event()       {}

// Attribute names carried by AttributeUpdated.
const (
	AttributeName        = "name"
	AttributeAbstract    = "isAbstract"
	AttributeDiagramType = "diagramType"
	AttributeStereotype  = "appliedStereotype"
	AttributeSize        = "size"
)
