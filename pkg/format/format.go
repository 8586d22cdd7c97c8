// Package format derives display text, icon names and text styles for model
// elements.
package format

import (
	"strings"
	"unicode"

	"github.com/vanderheijden86/modelbrowser/pkg/model"
)

// Format returns the display label of e. Elements without a meaningful label
// (unnamed relationships, comments) yield "".
func Format(e *model.Element) string {
	if e == nil {
		return ""
	}
	switch e.Kind() {
	case model.KindProperty:
		return "+ " + typed(e.Name(), attr(e, model.AttrType))
	case model.KindOperation:
		return formatOperation(e)
	case model.KindParameter:
		return typed(e.Name(), attr(e, model.AttrType))
	case model.KindGeneralization:
		if t := e.Target(); t != nil && t.Name() != "" {
			return "general: " + t.Name()
		}
		return ""
	case model.KindComment:
		body := attr(e, model.AttrDocumentation)
		if i := strings.IndexByte(body, '\n'); i >= 0 {
			body = body[:i]
		}
		return body
	}
	return e.Name()
}

func formatOperation(e *model.Element) string {
	var params []string
	for _, p := range e.OwnedElements() {
		if p.Kind() == model.KindParameter {
			params = append(params, typed(p.Name(), attr(p, model.AttrType)))
		}
	}
	s := "+ " + e.Name() + "(" + strings.Join(params, ", ") + ")"
	if ret := attr(e, model.AttrReturn); ret != "" {
		s += ": " + ret
	}
	return s
}

func typed(name, typ string) string {
	if typ == "" {
		return name
	}
	return name + ": " + typ
}

func attr(e *model.Element, key string) string {
	v, _ := e.Attr(key)
	return v
}

// IconName returns the icon identifier of e: its kind in kebab case.
func IconName(e *model.Element) string {
	if e == nil {
		return ""
	}
	return ToKebabCase(string(e.Kind()))
}

// IconVisible reports whether the icon of e is shown next to its label.
// Features (parameters, properties, operations) render without an icon.
func IconVisible(e *model.Element) bool {
	return IconName(e) != "" && !e.Is(model.TraitFeature)
}

// ToKebabCase converts camelCase and snake_case identifiers to kebab-case:
// "createdBy" -> "created-by", "top_event" -> "top-event".
func ToKebabCase(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 4)
	prevLower := false
	for _, r := range s {
		switch {
		case r == '_' || r == ' ':
			sb.WriteByte('-')
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				sb.WriteByte('-')
			}
			sb.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			sb.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	return sb.String()
}

// Attributes are the text style markers of a tree row.
type Attributes struct {
	Bold   bool
	Italic bool
}

// StyleOf returns bold for diagrams and italic for abstract classifiers and
// behavioral features.
func StyleOf(e *model.Element) Attributes {
	if e == nil {
		return Attributes{}
	}
	return Attributes{
		Bold: e.Is(model.TraitDiagram),
		Italic: (e.Is(model.TraitClassifier) || e.Is(model.TraitBehavioralFeature)) &&
			e.IsAbstract(),
	}
}
