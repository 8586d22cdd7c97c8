package toolbox

import (
	"fmt"
	"slices"

	"github.com/vanderheijden86/modelbrowser/pkg/model"
)

// Presentation is a selected item: the element it shows and the diagram it
// is shown on. Diagram is nil for selections made in the model tree.
type Presentation struct {
	Subject *model.Element
	Diagram *model.Element
}

// DeleteSelected removes the selected items in one transaction. A subject
// that is the diagram itself or one of the diagram's owners is not deleted;
// the diagram is detached from its owner instead. Every other subject is
// deleted from the graph.
func DeleteSelected(g *model.Graph, items []Presentation) error {
	return g.Transaction(func() error {
		for _, it := range items {
			if it.Subject == nil || !g.Contains(it.Subject) {
				continue
			}
			if it.Diagram != nil && slices.Contains(model.SelfAndOwners(it.Diagram), it.Subject) {
				if err := g.SetOwner(it.Diagram, nil); err != nil {
					return fmt.Errorf("detach diagram %s: %w", it.Diagram, err)
				}
				continue
			}
			if err := g.Delete(it.Subject); err != nil {
				return fmt.Errorf("delete %s: %w", it.Subject, err)
			}
		}
		return nil
	})
}
