package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/modelbrowser/pkg/format"
	"github.com/vanderheijden86/modelbrowser/pkg/model"
	"github.com/vanderheijden86/modelbrowser/pkg/propertypages"
	"github.com/vanderheijden86/modelbrowser/pkg/toolbox"
)

// newMarkdownRenderer returns a glamour renderer, or nil if none could be
// created. Callers fall back to the raw markdown.
func newMarkdownRenderer(wordWrap int) *glamour.TermRenderer {
	if wordWrap <= 0 {
		wordWrap = 60
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return nil
	}
	return r
}

// ElementMarkdown describes e for the detail pane.
func ElementMarkdown(e *model.Element) string {
	if e == nil {
		return "_Nothing selected._"
	}

	var sb strings.Builder
	title := format.Format(e)
	if title == "" {
		title = "<None>"
	}
	fmt.Fprintf(&sb, "## %s\n\n", title)
	fmt.Fprintf(&sb, "`%s`", e.Kind())
	if qn := model.QualifiedName(e); qn != "" {
		fmt.Fprintf(&sb, " in **%s**", qn)
	}
	sb.WriteString("\n\n")

	if st := model.StereotypesString(e); st != "" {
		fmt.Fprintf(&sb, "Stereotypes: %s\n\n", st)
	}
	if e.IsAbstract() {
		sb.WriteString("_abstract_\n\n")
	}
	if dt := e.DiagramType(); dt != "" {
		fmt.Fprintf(&sb, "Diagram type: `%s`\n\n", dt)
	}
	if src, dst := e.Source(), e.Target(); src != nil || dst != nil {
		fmt.Fprintf(&sb, "%s → %s\n\n", endName(src), endName(dst))
	}
	if d := toolbox.Describe(e); d != "" {
		fmt.Fprintf(&sb, "> %s\n\n", d)
	}

	for _, page := range propertypages.PagesFor(e, nil) {
		switch p := page.(type) {
		case *propertypages.MetadataPage:
			sb.WriteString("| Field | Value |\n|---|---|\n")
			for _, f := range p.Fields() {
				fmt.Fprintf(&sb, "| %s | %s |\n", f.Name, strings.ReplaceAll(f.Value, "|", `\|`))
			}
			sb.WriteString("\n")
		case *propertypages.PicturePage:
			w, h := e.Size()
			if _, ok := e.Attr(model.AttrContent); ok {
				fmt.Fprintf(&sb, "Picture: %d×%d\n\n", w, h)
			} else {
				sb.WriteString("Picture: _no image loaded_ (press `p`)\n\n")
			}
		}
	}

	if doc, ok := e.Attr(model.AttrDocumentation); ok && doc != "" {
		sb.WriteString("---\n\n")
		sb.WriteString(doc)
		sb.WriteString("\n")
	}
	return sb.String()
}

func endName(e *model.Element) string {
	if e == nil {
		return "?"
	}
	if n := e.Name(); n != "" {
		return n
	}
	return string(e.Kind())
}

func renderMarkdown(r *glamour.TermRenderer, md string) string {
	if r == nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
