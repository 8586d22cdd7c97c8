package treemodel

import "github.com/vanderheijden86/modelbrowser/pkg/model"

// Visible reports whether e belongs in the tree: relationships, named
// elements and diagrams, except instance and occurrence specifications.
func Visible(e *model.Element) bool {
	if e == nil {
		return false
	}
	if e.Is(model.TraitInstanceSpecification) || e.Is(model.TraitOccurrenceSpecification) {
		return false
	}
	return e.Is(model.TraitRelationship) || e.Is(model.TraitNamedElement) || e.Is(model.TraitDiagram)
}
