package treemodel

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Compare orders rows for presentation. Placeholders come first; other rows
// are ordered by their NFC-normalized, case-folded labels.
func Compare(a, b *TreeItem) int {
	switch {
	case a.IsPlaceholder() && b.IsPlaceholder():
		return 0
	case a.IsPlaceholder():
		return -1
	case b.IsPlaceholder():
		return 1
	}
	return strings.Compare(sortKey(a.text), sortKey(b.text))
}

func sortKey(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// SortItems sorts items in place with Compare, keeping the relative order of
// equal rows.
func SortItems(items []*TreeItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return Compare(items[i], items[j]) < 0
	})
}
