// Package export writes the browser tree in machine-readable and document
// formats.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/modelbrowser/pkg/metrics"
	"github.com/vanderheijden86/modelbrowser/pkg/model"
	"github.com/vanderheijden86/modelbrowser/pkg/treemodel"
)

// Node is one row of an exported tree.
type Node struct {
	Text     string `json:"text"`
	Icon     string `json:"icon,omitempty"`
	Kind     string `json:"kind,omitempty"`
	ID       string `json:"id,omitempty"`
	Bold     bool   `json:"bold,omitempty"`
	Italic   bool   `json:"italic,omitempty"`
	Children []Node `json:"children,omitempty"`
}

// Snapshot is the document written by WriteJSON.
type Snapshot struct {
	Version  int    `json:"version"`
	Elements int    `json:"elements"`
	Roots    []Node `json:"roots"`
}

// SnapshotVersion is the schema version of Snapshot.
const SnapshotVersion = 1

// TreeSnapshot walks the tree from the root, sorted as it is displayed.
// Branches are materialized through ChildModel on the way down. A maxDepth
// of zero or less means no limit; depth 1 is the top level only.
func TreeSnapshot(tm *treemodel.TreeModel, maxDepth int) []Node {
	return snapshotStore(tm, tm.ChildModel(nil), 1, maxDepth)
}

func snapshotStore(tm *treemodel.TreeModel, store *treemodel.ListStore, depth, maxDepth int) []Node {
	if store == nil || store.Len() == 0 {
		return nil
	}
	items := store.Items()
	treemodel.SortItems(items)

	nodes := make([]Node, 0, len(items))
	for _, item := range items {
		n := nodeFor(item)
		if maxDepth <= 0 || depth < maxDepth {
			n.Children = snapshotStore(tm, tm.ChildModel(item), depth+1, maxDepth)
		}
		nodes = append(nodes, n)
	}
	return nodes
}

func nodeFor(item *treemodel.TreeItem) Node {
	attrs := item.Attributes()
	n := Node{
		Text:   item.Text(),
		Bold:   attrs.Bold,
		Italic: attrs.Italic,
	}
	if item.IconVisible() {
		n.Icon = item.Icon()
	}
	if e := item.Element(); e != nil {
		n.Kind = string(e.Kind())
		n.ID = e.ID()
	}
	return n
}

// Count returns the number of nodes in the forest.
func Count(nodes []Node) int {
	total := len(nodes)
	for _, n := range nodes {
		total += Count(n.Children)
	}
	return total
}

// WriteJSON writes the tree of g as an indented Snapshot.
func WriteJSON(w io.Writer, g *model.Graph, tm *treemodel.TreeModel, maxDepth int) error {
	defer metrics.Timer(metrics.TreeExport)()
	snap := Snapshot{
		Version:  SnapshotVersion,
		Elements: g.Len(),
		Roots:    TreeSnapshot(tm, maxDepth),
	}
	if snap.Roots == nil {
		snap.Roots = []Node{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encoding tree: %w", err)
	}
	return nil
}

// WriteMarkdown writes nodes as a nested bullet list. Diagrams are bold and
// abstract elements italic, as in the tree view.
func WriteMarkdown(w io.Writer, title string, nodes []Node) error {
	var sb strings.Builder
	if title != "" {
		fmt.Fprintf(&sb, "# %s\n\n", title)
	}
	writeOutline(&sb, nodes, 0)
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeOutline(sb *strings.Builder, nodes []Node, depth int) {
	for _, n := range nodes {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString("- ")
		sb.WriteString(markdownText(n))
		if n.Kind != "" {
			fmt.Fprintf(sb, " `%s`", n.Kind)
		}
		sb.WriteString("\n")
		writeOutline(sb, n.Children, depth+1)
	}
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"<", "&lt;",
	">", "&gt;",
)

func markdownText(n Node) string {
	text := markdownEscaper.Replace(n.Text)
	if n.Italic {
		text = "*" + text + "*"
	}
	if n.Bold {
		text = "**" + text + "**"
	}
	return text
}
