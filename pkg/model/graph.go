package model

import (
	"errors"
	"fmt"
	"sort"

	"github.com/oklog/ulid/v2"
)

// Common errors.
var (
	ErrNotNameable    = errors.New("element has no name attribute")
	ErrOwnershipCycle = errors.New("ownership cycle")
	ErrUnknownElement = errors.New("element does not belong to this graph")
	ErrDuplicateID    = errors.New("duplicate element id")
)

// Graph is a mutable, single-threaded graph of owned elements. Every change is
// reported to subscribers; inside a Transaction the notifications are queued
// and delivered when the transaction completes.
type Graph struct {
	elements map[string]*Element
	seq      int

	subscribers []subscriber
	nextSubID   int

	txDepth int
	pending []Event
}

type subscriber struct {
	id int
	fn func(Event)
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{elements: make(map[string]*Element)}
}

// Option configures an element at creation time.
type Option func(*Element)

// WithID sets an explicit identifier instead of a generated ULID.
func WithID(id string) Option {
	return func(e *Element) { e.id = id }
}

// WithName sets the element's name. Ignored for kinds without a name attribute.
func WithName(name string) Option {
	return func(e *Element) {
		if e.kind.Nameable() {
			e.name = name
		}
	}
}

// WithOwner attaches the new element to owner.
func WithOwner(owner *Element) Option {
	return func(e *Element) { e.owner = owner }
}

// Abstract marks the element abstract.
func Abstract() Option {
	return func(e *Element) { e.abstract = true }
}

// WithDiagramType sets the notation of a diagram.
func WithDiagramType(t string) Option {
	return func(e *Element) { e.diagramType = t }
}

// WithAttr sets a string attribute.
func WithAttr(key, value string) Option {
	return func(e *Element) {
		if e.attrs == nil {
			e.attrs = make(map[string]string)
		}
		e.attrs[key] = value
	}
}

// WithEnds sets the source and target of a relationship.
func WithEnds(source, target *Element) Option {
	return func(e *Element) {
		e.source = source
		e.target = target
	}
}

// WithStereotypes applies stereotypes by name.
func WithStereotypes(names ...string) Option {
	return func(e *Element) { e.stereotypes = append(e.stereotypes, names...) }
}

// WithSize sets the presentation size.
func WithSize(width, height int) Option {
	return func(e *Element) {
		e.width = width
		e.height = height
	}
}

// Create adds a new element of the given kind. It panics when an explicit ID
// is already in use; callers loading external data should check Lookup first.
func (g *Graph) Create(kind Kind, opts ...Option) *Element {
	g.seq++
	e := &Element{kind: kind, seq: g.seq}
	for _, opt := range opts {
		opt(e)
	}
	if e.id == "" {
		e.id = ulid.Make().String()
	}
	if _, exists := g.elements[e.id]; exists {
		panic(fmt.Sprintf("%v: %s", ErrDuplicateID, e.id))
	}
	g.elements[e.id] = e
	if e.owner != nil {
		e.owner.owned = append(e.owner.owned, e)
	}
	g.emit(ElementCreated{Element: e})
	return e
}

// Lookup returns the element with the given ID.
func (g *Graph) Lookup(id string) (*Element, bool) {
	e, ok := g.elements[id]
	return e, ok
}

// Contains reports whether e is part of this graph.
func (g *Graph) Contains(e *Element) bool {
	if e == nil {
		return false
	}
	found, ok := g.elements[e.id]
	return ok && found == e
}

// Len returns the number of elements in the graph.
func (g *Graph) Len() int {
	return len(g.elements)
}

// Select returns all elements matching pred in creation order.
func (g *Graph) Select(pred func(*Element) bool) []*Element {
	var out []*Element
	for _, e := range g.elements {
		if pred == nil || pred(e) {
			out = append(out, e)
		}
	}
	sortBySeq(out)
	return out
}

// Roots returns all elements without an owner in creation order.
func (g *Graph) Roots() []*Element {
	return g.Select(func(e *Element) bool { return e.owner == nil })
}

// SetOwner moves e under owner. A nil owner makes e a root element.
func (g *Graph) SetOwner(e, owner *Element) error {
	if !g.Contains(e) || (owner != nil && !g.Contains(owner)) {
		return ErrUnknownElement
	}
	if e.owner == owner {
		return nil
	}
	for o := owner; o != nil; o = o.owner {
		if o == e {
			return fmt.Errorf("%w: %s cannot own %s", ErrOwnershipCycle, owner, e)
		}
	}

	former := e.owner
	if former != nil {
		former.removeOwned(e)
	}
	e.owner = owner
	if owner != nil {
		owner.owned = append(owner.owned, e)
	}
	g.emit(OwnerChanged{Element: e, FormerOwner: former})
	return nil
}

// SetName renames e.
func (g *Graph) SetName(e *Element, name string) error {
	if !g.Contains(e) {
		return ErrUnknownElement
	}
	if !e.HasName() {
		return fmt.Errorf("%w: %s", ErrNotNameable, e.kind)
	}
	if e.name == name {
		return nil
	}
	e.name = name
	g.emit(AttributeUpdated{Element: e, Attribute: AttributeName})
	return nil
}

// SetAbstract updates the isAbstract flag.
func (g *Graph) SetAbstract(e *Element, abstract bool) error {
	if !g.Contains(e) {
		return ErrUnknownElement
	}
	if e.abstract == abstract {
		return nil
	}
	e.abstract = abstract
	g.emit(AttributeUpdated{Element: e, Attribute: AttributeAbstract})
	return nil
}

// SetDiagramType updates the notation of a diagram.
func (g *Graph) SetDiagramType(e *Element, t string) error {
	if !g.Contains(e) {
		return ErrUnknownElement
	}
	e.diagramType = t
	g.emit(AttributeUpdated{Element: e, Attribute: AttributeDiagramType})
	return nil
}

// SetAttr sets a string attribute. An empty value removes the attribute.
func (g *Graph) SetAttr(e *Element, key, value string) error {
	if !g.Contains(e) {
		return ErrUnknownElement
	}
	if value == "" {
		delete(e.attrs, key)
	} else {
		if e.attrs == nil {
			e.attrs = make(map[string]string)
		}
		e.attrs[key] = value
	}
	g.emit(AttributeUpdated{Element: e, Attribute: key})
	return nil
}

// SetSize updates the presentation size.
func (g *Graph) SetSize(e *Element, width, height int) error {
	if !g.Contains(e) {
		return ErrUnknownElement
	}
	e.width, e.height = width, height
	g.emit(AttributeUpdated{Element: e, Attribute: AttributeSize})
	return nil
}

// Delete removes e and everything it owns from the graph. The deleted subtree
// stays intact below e so that observers can walk it.
func (g *Graph) Delete(e *Element) error {
	if !g.Contains(e) {
		return ErrUnknownElement
	}
	var unindex func(*Element)
	unindex = func(el *Element) {
		for _, c := range el.owned {
			unindex(c)
		}
		delete(g.elements, el.id)
	}
	unindex(e)

	former := e.owner
	if former != nil {
		former.removeOwned(e)
	}
	e.owner = nil
	g.emit(ElementDeleted{Element: e, FormerOwner: former})
	return nil
}

// Flush drops all elements.
func (g *Graph) Flush() {
	g.elements = make(map[string]*Element)
	g.emit(ModelFlushed{})
}

// Ready announces that a model has been loaded completely.
func (g *Graph) Ready() {
	g.emit(ModelReady{})
}

// Subscribe registers fn for all events. The returned function unsubscribes.
func (g *Graph) Subscribe(fn func(Event)) func() {
	g.nextSubID++
	id := g.nextSubID
	g.subscribers = append(g.subscribers, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range g.subscribers {
			if s.id == id {
				g.subscribers = append(g.subscribers[:i], g.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Transaction runs fn and delivers the queued notifications afterwards.
// Changes made before fn fails stay in the graph, so their notifications are
// delivered as well and the error is returned after delivery.
func (g *Graph) Transaction(fn func() error) error {
	g.txDepth++
	err := fn()
	g.txDepth--
	if g.txDepth > 0 {
		return err
	}

	pending := g.pending
	g.pending = nil
	for _, ev := range pending {
		g.dispatch(ev)
	}
	return err
}

func (g *Graph) emit(ev Event) {
	if g.txDepth > 0 {
		g.pending = append(g.pending, ev)
		return
	}
	g.dispatch(ev)
}

func (g *Graph) dispatch(ev Event) {
	subs := make([]subscriber, len(g.subscribers))
	copy(subs, g.subscribers)
	for _, s := range subs {
		s.fn(ev)
	}
}

func sortBySeq(elements []*Element) {
	if len(elements) <= 1 {
		return
	}
	sort.Slice(elements, func(i, j int) bool { return elements[i].seq < elements[j].seq })
}
