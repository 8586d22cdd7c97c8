// Package propertypages provides editors for the attributes of individual
// element kinds: metadata blocks and pictures.
package propertypages

import (
	"github.com/vanderheijden86/modelbrowser/pkg/model"
)

// Page edits one aspect of an element.
type Page interface {
	Title() string
}

// Factory builds a page for e. It returns nil when the page does not apply.
type Factory func(e *model.Element, g *model.Graph) Page

var registry = map[model.Kind][]Factory{}

// Register adds a page factory for kind.
func Register(kind model.Kind, f Factory) {
	registry[kind] = append(registry[kind], f)
}

// PagesFor builds all pages registered for the kind of e, in registration
// order.
func PagesFor(e *model.Element, g *model.Graph) []Page {
	if e == nil {
		return nil
	}
	var pages []Page
	for _, f := range registry[e.Kind()] {
		if p := f(e, g); p != nil {
			pages = append(pages, p)
		}
	}
	return pages
}

func init() {
	Register(model.KindMetadata, func(e *model.Element, g *model.Graph) Page {
		return NewMetadataPage(e, g)
	})
	Register(model.KindPicture, func(e *model.Element, g *model.Graph) Page {
		return NewPicturePage(e, g)
	})
}
