package propertypages

import (
	"fmt"

	"github.com/vanderheijden86/modelbrowser/pkg/format"
	"github.com/vanderheijden86/modelbrowser/pkg/model"
)

// MetadataAttributes are the editable fields of a metadata block, in display
// order.
var MetadataAttributes = []string{
	"createdBy",
	"description",
	"website",
	"revision",
	"license",
	"createdOn",
	"updatedOn",
}

// Field is one editable metadata value.
type Field struct {
	Attr  string // model attribute, e.g. createdBy
	Name  string // kebab-case field name, e.g. created-by
	Value string
}

// MetadataPage edits the fields of a Metadata element.
type MetadataPage struct {
	element *model.Element
	graph   *model.Graph
}

// NewMetadataPage creates a page for e.
func NewMetadataPage(e *model.Element, g *model.Graph) *MetadataPage {
	return &MetadataPage{element: e, graph: g}
}

// Title implements Page.
func (p *MetadataPage) Title() string { return "Metadata" }

// Fields returns the current value of every metadata field. Unset fields
// are empty.
func (p *MetadataPage) Fields() []Field {
	fields := make([]Field, 0, len(MetadataAttributes))
	for _, a := range MetadataAttributes {
		v, _ := p.element.Attr(a)
		fields = append(fields, Field{Attr: a, Name: format.ToKebabCase(a), Value: v})
	}
	return fields
}

// SetField stores text in the metadata attribute attr.
func (p *MetadataPage) SetField(attr, text string) error {
	if !isMetadataAttribute(attr) {
		return fmt.Errorf("unknown metadata field %q", attr)
	}
	return p.graph.Transaction(func() error {
		return p.graph.SetAttr(p.element, attr, text)
	})
}

// Apply stores several fields in one transaction.
func (p *MetadataPage) Apply(values map[string]string) error {
	return p.graph.Transaction(func() error {
		for _, a := range MetadataAttributes {
			v, ok := values[a]
			if !ok {
				continue
			}
			if cur, _ := p.element.Attr(a); cur == v {
				continue
			}
			if err := p.graph.SetAttr(p.element, a, v); err != nil {
				return fmt.Errorf("set %s: %w", a, err)
			}
		}
		return nil
	})
}

func isMetadataAttribute(attr string) bool {
	for _, a := range MetadataAttributes {
		if a == attr {
			return true
		}
	}
	return false
}
