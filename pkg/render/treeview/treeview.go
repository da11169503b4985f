// Package treeview draws the ownership tree for terminals.
//
// Collapsed items are shown with a marker and their hidden item count; their
// children are not drawn.
package treeview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/opgraph/opgraph/pkg/item"
	"github.com/opgraph/opgraph/pkg/model"
)

// Source provides the root items to draw, such as a model.
type Source interface {
	Roots() []item.Item
}

// Options configures the tree.
type Options struct {
	// Columns are appended to each line as "Header=value".
	Columns []item.Column

	// Styled enables colors. Leave it off for plain text output.
	Styled bool

	// Root labels the top of the tree. Defaults to "cluster".
	Root string
}

var (
	siteStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	programStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	functionStyle = lipgloss.NewStyle()
	branchStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).MarginRight(1)
)

// Render draws the items of src, sites first, in row order.
func Render(src Source, opts Options) string {
	root := opts.Root
	if root == "" {
		root = "cluster"
	}
	t := tree.Root(root).Enumerator(tree.RoundedEnumerator)
	if opts.Styled {
		t = t.EnumeratorStyle(branchStyle).RootStyle(siteStyle)
	}
	for _, r := range src.Roots() {
		t.Child(node(r, opts))
	}
	return t.String()
}

func node(it item.Item, opts Options) any {
	n := it.Base()
	label := Line(it, opts.Columns)
	if opts.Styled {
		label = styleFor(n.Kind()).Render(label)
	}
	if n.ChildCount() == 0 || n.Collapsed() {
		return label
	}
	sub := tree.Root(label)
	if opts.Styled {
		sub = sub.EnumeratorStyle(branchStyle)
	}
	for _, c := range n.VisibleChildren() {
		sub.Child(node(c, opts))
	}
	return sub
}

// Line formats a single item: its name, a collapse marker and the
// requested columns.
func Line(it item.Item, cols []item.Column) string {
	n := it.Base()
	var b strings.Builder
	b.WriteString(model.Cell(it, item.ColName))
	if n.Collapsed() {
		hidden := -1
		item.Walk(it, func(item.Item, int) bool {
			hidden++
			return true
		})
		fmt.Fprintf(&b, " [+%d]", hidden)
	}
	for _, c := range cols {
		if c == item.ColName {
			continue
		}
		if v := model.Cell(it, c); v != "" {
			fmt.Fprintf(&b, "  %s=%s", c.Header(), v)
		}
	}
	return b.String()
}

func styleFor(k item.Kind) lipgloss.Style {
	switch k {
	case item.KindSite:
		return siteStyle
	case item.KindProgram:
		return programStyle
	}
	return functionStyle
}
