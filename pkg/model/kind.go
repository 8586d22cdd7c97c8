package model

import "sort"

// Kind identifies the metaclass of an element. The set is closed: every kind
// has a fixed trait set, looked up once instead of inspecting types at runtime.
type Kind string

const (
	KindPackage        Kind = "package"
	KindClass          Kind = "class"
	KindInterface      Kind = "interface"
	KindComponent      Kind = "component"
	KindStereotype     Kind = "stereotype"
	KindProperty       Kind = "property"
	KindOperation      Kind = "operation"
	KindParameter      Kind = "parameter"
	KindAssociation    Kind = "association"
	KindDependency     Kind = "dependency"
	KindGeneralization Kind = "generalization"
	KindRealization    Kind = "realization"
	KindUsage          Kind = "usage"
	KindDiagram        Kind = "diagram"
	KindComment        Kind = "comment"
	KindSlot           Kind = "slot"
	KindPicture        Kind = "picture"
	KindMetadata       Kind = "metadata"

	KindInstanceSpecification          Kind = "instance_specification"
	KindMessageOccurrenceSpecification Kind = "message_occurrence_specification"

	// RAAML notation kinds
	KindTopEvent  Kind = "top_event"
	KindLoss      Kind = "loss"
	KindHazard    Kind = "hazard"
	KindSituation Kind = "situation"
)

// Trait is a category an element kind belongs to.
type Trait uint16

const (
	TraitNamedElement Trait = 1 << iota
	TraitRelationship
	TraitDiagram
	TraitInstanceSpecification
	TraitOccurrenceSpecification
	TraitClassifier
	TraitBehavioralFeature
	TraitFeature // Parameter, Property, Operation
)

const named = TraitNamedElement

var kindTraits = map[Kind]Trait{
	KindPackage:        named,
	KindClass:          named | TraitClassifier,
	KindInterface:      named | TraitClassifier,
	KindComponent:      named | TraitClassifier,
	KindStereotype:     named | TraitClassifier,
	KindProperty:       named | TraitFeature,
	KindOperation:      named | TraitFeature | TraitBehavioralFeature,
	KindParameter:      named | TraitFeature,
	KindAssociation:    named | TraitRelationship | TraitClassifier,
	KindDependency:     named | TraitRelationship,
	KindGeneralization: TraitRelationship,
	KindRealization:    named | TraitRelationship,
	KindUsage:          named | TraitRelationship,
	KindDiagram:        TraitDiagram,
	KindComment:        0,
	KindSlot:           0,
	KindPicture:        named,
	KindMetadata:       named,

	KindInstanceSpecification:          named | TraitInstanceSpecification,
	KindMessageOccurrenceSpecification: named | TraitOccurrenceSpecification,

	KindTopEvent:  named | TraitClassifier,
	KindLoss:      named | TraitClassifier,
	KindHazard:    named | TraitClassifier,
	KindSituation: named | TraitClassifier,
}

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	_, ok := kindTraits[k]
	return ok
}

// Traits returns the trait set of k. Unknown kinds have no traits.
func (k Kind) Traits() Trait {
	return kindTraits[k]
}

// Is reports whether k carries every trait in t.
func (k Kind) Is(t Trait) bool {
	return t != 0 && kindTraits[k]&t == t
}

// Nameable reports whether elements of this kind carry a name attribute.
func (k Kind) Nameable() bool {
	return k.Is(TraitNamedElement) || k.Is(TraitDiagram)
}

// Kinds returns all known kinds, sorted.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindTraits))
	for k := range kindTraits {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
