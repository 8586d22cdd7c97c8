package model

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SelfAndOwners returns e followed by its owners up to the root.
func SelfAndOwners(e *Element) []*Element {
	var out []*Element
	for o := e; o != nil; o = o.owner {
		out = append(out, o)
	}
	return out
}

// QualifiedName joins the names of e and its owners with "::", root first.
// Unnamed owners are skipped.
func QualifiedName(e *Element) string {
	chain := SelfAndOwners(e)
	parts := make([]string, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		if n := chain[i].name; n != "" {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, "::")
}

// StereotypeName returns the display form of a stereotype name: the first
// character is lowercased unless the second character is uppercase
// (so "Block" becomes "block" but "UML" stays "UML").
func StereotypeName(name string) string {
	if name == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(name)
	if rest := name[size:]; rest != "" {
		second, _ := utf8.DecodeRuneInString(rest)
		if unicode.IsUpper(second) {
			return name
		}
	}
	return string(unicode.ToLower(first)) + name[size:]
}

// StereotypesString renders the applied stereotypes of e, preceded by extra,
// as «a, b». It returns "" when there is nothing to show. e may be nil.
func StereotypesString(e *Element, extra ...string) string {
	names := append([]string(nil), extra...)
	if e != nil {
		for _, s := range e.stereotypes {
			names = append(names, StereotypeName(s))
		}
	}
	if len(names) == 0 {
		return ""
	}
	return "«" + strings.Join(names, ", ") + "»"
}

// ApplyStereotype applies the named stereotype to e. Applying the same
// stereotype twice is a no-op.
func (g *Graph) ApplyStereotype(e *Element, stereotype string) error {
	if !g.Contains(e) {
		return ErrUnknownElement
	}
	for _, s := range e.stereotypes {
		if s == stereotype {
			return nil
		}
	}
	e.stereotypes = append(e.stereotypes, stereotype)
	g.emit(AttributeUpdated{Element: e, Attribute: AttributeStereotype})
	return nil
}

// RemoveStereotype removes the named stereotype from e, if applied.
func (g *Graph) RemoveStereotype(e *Element, stereotype string) error {
	if !g.Contains(e) {
		return ErrUnknownElement
	}
	for i, s := range e.stereotypes {
		if s == stereotype {
			e.stereotypes = append(e.stereotypes[:i], e.stereotypes[i+1:]...)
			g.emit(AttributeUpdated{Element: e, Attribute: AttributeStereotype})
			return nil
		}
	}
	return nil
}
