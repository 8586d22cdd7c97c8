package treemodel

import (
	"github.com/vanderheijden86/modelbrowser/pkg/debug"
	"github.com/vanderheijden86/modelbrowser/pkg/model"
)

// Browser keeps a TreeModel in sync with a model graph by translating graph
// events into TreeModel calls.
type Browser struct {
	graph       *model.Graph
	tree        *TreeModel
	unsubscribe func()
}

// NewBrowser creates a tree model for g, fills the root branch and starts
// following changes. Call Close to stop.
func NewBrowser(g *model.Graph) *Browser {
	b := &Browser{graph: g, tree: New(g)}
	b.Refresh()
	b.unsubscribe = g.Subscribe(b.handle)
	return b
}

// Tree returns the synchronized tree model.
func (b *Browser) Tree() *TreeModel { return b.tree }

// Graph returns the followed graph.
func (b *Browser) Graph() *model.Graph { return b.graph }

// Refresh rebuilds the tree from scratch: every branch except the root is
// forgotten and the root is refilled with the graph's top-level elements.
func (b *Browser) Refresh() {
	b.tree.Clear()
	for _, e := range b.graph.Roots() {
		b.tree.AddElement(e)
	}
}

// Close stops following graph changes.
func (b *Browser) Close() {
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
}

func (b *Browser) handle(ev model.Event) {
	switch ev := ev.(type) {
	case model.ElementCreated:
		b.tree.AddElement(ev.Element)
	case model.ElementDeleted:
		b.tree.RemoveElementFrom(ev.Element, ev.FormerOwner)
	case model.OwnerChanged:
		b.tree.RemoveElementFrom(ev.Element, ev.FormerOwner)
		b.tree.AddElement(ev.Element)
	case model.AttributeUpdated:
		b.tree.Sync(ev.Element)
		// Operation labels include their parameters.
		if ev.Element.Kind() == model.KindParameter {
			b.tree.Sync(ev.Element.Owner())
		}
	case model.ModelFlushed:
		b.tree.Clear()
	case model.ModelReady:
		b.Refresh()
	default:
		debug.Log("treemodel: ignoring event %T", ev)
	}
}
