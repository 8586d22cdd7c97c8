// Package toolbox defines the notations mb knows about: the tool sections
// offered per diagram type, the element types that can be created from the
// tree, and the presentation item definitions registered per element kind.
package toolbox

import (
	"errors"
	"fmt"
	"slices"

	"github.com/vanderheijden86/modelbrowser/pkg/model"
)

// ErrOwnerNotAllowed is returned when an element type cannot be created below
// the requested owner.
var ErrOwnerNotAllowed = errors.New("owner not allowed")

// ToolDef describes one tool in the palette. Tools without an ItemKind do not
// create model elements (pointer, magnet).
type ToolDef struct {
	ID       string
	Name     string
	IconName string
	Shortcut string
	ItemKind model.Kind
}

// ToolSection groups related tools under a heading.
type ToolSection struct {
	Name  string
	Tools []ToolDef
}

// ToolboxDefinition is the ordered list of sections shown for a notation.
type ToolboxDefinition []ToolSection

// DiagramType is a kind of diagram that can be created, with the sections
// its palette shows.
type DiagramType struct {
	ID       string
	Name     string
	Sections []ToolSection
}

// ElementCreateInfo describes an element that can be created directly in
// the model tree. AllowedOwners lists the kinds that may own it.
type ElementCreateInfo struct {
	ID            string
	Name          string
	Kind          model.Kind
	AllowedOwners []model.Kind
}

// Allows reports whether owner may own an element of this type. A nil owner
// places the element at the top level and is always allowed.
func (i ElementCreateInfo) Allows(owner *model.Element) bool {
	if owner == nil {
		return true
	}
	return slices.Contains(i.AllowedOwners, owner.Kind())
}

// General holds the tools available in every diagram.
var General = ToolSection{
	Name: "General",
	Tools: []ToolDef{
		{ID: "toolbox-pointer", Name: "Pointer", IconName: "pointer", Shortcut: "Escape"},
		{ID: "toolbox-magnet", Name: "Magnet", IconName: "magnet"},
		{ID: "toolbox-comment", Name: "Comment", IconName: "comment", Shortcut: "k", ItemKind: model.KindComment},
		{ID: "toolbox-metadata", Name: "Metadata", IconName: "metadata", ItemKind: model.KindMetadata},
		{ID: "toolbox-picture", Name: "Picture", IconName: "picture", ItemKind: model.KindPicture},
	},
}

// FTA holds the fault tree analysis tools.
var FTA = ToolSection{
	Name: "Fault Tree Analysis",
	Tools: []ToolDef{
		{ID: "toolbox-top-event", Name: "Top Event", IconName: "top-event", ItemKind: model.KindTopEvent},
	},
}

// STPA holds the system theoretic process analysis tools.
var STPA = ToolSection{
	Name: "Systems Theoretic Process Analysis",
	Tools: []ToolDef{
		{ID: "toolbox-loss", Name: "Loss", IconName: "loss", ItemKind: model.KindLoss},
		{ID: "toolbox-hazard", Name: "Hazard", IconName: "hazard", ItemKind: model.KindHazard},
		{ID: "toolbox-situation", Name: "Situation", IconName: "situation", ItemKind: model.KindSituation},
	},
}

// RAAMLToolboxActions is the full RAAML palette.
var RAAMLToolboxActions = ToolboxDefinition{General, FTA, STPA}

// RAAMLDiagramTypes lists the RAAML diagrams.
var RAAMLDiagramTypes = []DiagramType{
	{ID: "fta", Name: "FTA Diagram", Sections: []ToolSection{FTA}},
	{ID: "stpa", Name: "STPA Diagram", Sections: []ToolSection{STPA}},
}

// RAAMLElementTypes lists the RAAML elements that can be created in the tree.
var RAAMLElementTypes = []ElementCreateInfo{
	{ID: "package", Name: "Package", Kind: model.KindPackage, AllowedOwners: []model.Kind{model.KindPackage}},
	{ID: "topevent", Name: "Top Event", Kind: model.KindTopEvent, AllowedOwners: []model.Kind{model.KindPackage}},
	{ID: "loss", Name: "Loss", Kind: model.KindLoss, AllowedOwners: []model.Kind{model.KindPackage}},
	{ID: "hazard", Name: "Hazard", Kind: model.KindHazard, AllowedOwners: []model.Kind{model.KindPackage}},
	{ID: "situation", Name: "Situation", Kind: model.KindSituation, AllowedOwners: []model.Kind{model.KindPackage}},
}

// Tool looks up a tool by ID across all sections.
func (d ToolboxDefinition) Tool(id string) (ToolDef, bool) {
	for _, s := range d {
		for _, t := range s.Tools {
			if t.ID == id {
				return t, true
			}
		}
	}
	return ToolDef{}, false
}

// ElementType looks up an element type by ID.
func ElementType(id string) (ElementCreateInfo, bool) {
	for _, info := range RAAMLElementTypes {
		if info.ID == id {
			return info, true
		}
	}
	return ElementCreateInfo{}, false
}

// DiagramTypeByID looks up a diagram type by ID.
func DiagramTypeByID(id string) (DiagramType, bool) {
	for _, dt := range RAAMLDiagramTypes {
		if dt.ID == id {
			return dt, true
		}
	}
	return DiagramType{}, false
}

// CreateElement creates an element of the given type below owner, named
// after the type.
func CreateElement(g *model.Graph, info ElementCreateInfo, owner *model.Element) (*model.Element, error) {
	if owner != nil && !g.Contains(owner) {
		return nil, fmt.Errorf("create %s: %w", info.ID, model.ErrUnknownElement)
	}
	if !info.Allows(owner) {
		return nil, fmt.Errorf("%w: %s cannot own %s", ErrOwnerNotAllowed, owner.Kind(), info.ID)
	}
	return g.Create(info.Kind, model.WithName(info.Name), model.WithOwner(owner)), nil
}

// CreateDiagram creates a diagram of type dt below owner.
func CreateDiagram(g *model.Graph, dt DiagramType, owner *model.Element) (*model.Element, error) {
	if owner != nil && !g.Contains(owner) {
		return nil, fmt.Errorf("create %s diagram: %w", dt.ID, model.ErrUnknownElement)
	}
	return g.Create(model.KindDiagram,
		model.WithName(dt.Name),
		model.WithDiagramType(dt.ID),
		model.WithOwner(owner),
	), nil
}
