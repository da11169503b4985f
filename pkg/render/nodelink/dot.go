package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/opgraph/opgraph/pkg/item"
	"github.com/opgraph/opgraph/pkg/model"
)

// Source provides the root items to draw, such as a model.
type Source interface {
	Roots() []item.Item
}

// Options configures node-link diagram rendering.
type Options struct {
	// Columns are added below the function name in node labels, one
	// "Header: value" line each. Empty values are skipped.
	Columns []item.Column

	// Title is shown above the diagram when set.
	Title string
}

// ToDOT converts the operations tree to Graphviz DOT format.
// Sites and programs become nested clusters and functions become boxes,
// joined by their dataflow edges.
//
// A collapsed site or program is drawn as a single box standing in for
// everything it owns. Edges touching a hidden function are drawn to that
// box instead, and edges that end up inside a single box are dropped.
func ToDOT(src Source, opts Options) string {
	w := &dotWriter{opts: opts, ids: make(map[item.Item]string)}
	w.buf.WriteString("digraph G {\n")
	w.buf.WriteString("  rankdir=LR;\n")
	w.buf.WriteString("  compound=true;\n")
	w.buf.WriteString("  bgcolor=\"transparent\";\n")
	w.buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.2,0.1\"];\n")
	w.buf.WriteString("  ranksep=0.5;\n")
	w.buf.WriteString("  nodesep=0.3;\n")
	if opts.Title != "" {
		fmt.Fprintf(&w.buf, "  label=%q;\n  labelloc=t;\n", opts.Title)
	}
	w.buf.WriteString("\n")

	roots := src.Roots()
	for _, r := range roots {
		w.item(r, 1)
	}

	w.buf.WriteString("\n")
	for _, r := range roots {
		item.Walk(r, func(it item.Item, _ int) bool {
			w.edges(it)
			return true
		})
	}

	w.buf.WriteString("}\n")
	return w.buf.String()
}

type dotWriter struct {
	buf      bytes.Buffer
	opts     Options
	ids      map[item.Item]string
	clusters int
	seen     map[[2]string]bool
}

func (w *dotWriter) id(it item.Item) string {
	if id, ok := w.ids[it]; ok {
		return id
	}
	id := "n" + strconv.Itoa(len(w.ids))
	w.ids[it] = id
	return id
}

func (w *dotWriter) item(it item.Item, depth int) {
	n := it.Base()
	indent := strings.Repeat("  ", depth)

	if n.Kind() == item.KindFunction || n.Collapsed() || n.ChildCount() == 0 {
		attrs := []string{fmt.Sprintf("label=%q", w.label(it))}
		if fill := n.Style().Fill; fill != "" {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill))
		}
		if n.Collapsed() {
			attrs = append(attrs, "peripheries=2")
		}
		if f, ok := it.(*item.Function); ok && f.Worker() != nil && f.Worker().TopHalf {
			attrs = append(attrs, "style=\"rounded,filled,dashed\"")
		}
		fmt.Fprintf(&w.buf, "%s%s [%s];\n", indent, w.id(it), strings.Join(attrs, ", "))
		return
	}

	w.clusters++
	fmt.Fprintf(&w.buf, "%ssubgraph cluster_%d {\n", indent, w.clusters)
	fmt.Fprintf(&w.buf, "%s  label=%q;\n", indent, w.label(it))
	w.buf.WriteString(indent + "  style=\"rounded,filled\";\n")
	if fill := n.Style().Fill; fill != "" {
		fmt.Fprintf(&w.buf, "%s  fillcolor=%q;\n", indent, fill)
	}
	for _, c := range n.VisibleChildren() {
		w.item(c, depth+1)
	}
	fmt.Fprintf(&w.buf, "%s}\n", indent)
}

func (w *dotWriter) label(it item.Item) string {
	n := it.Base()
	name := model.Cell(it, item.ColName)
	if n.Collapsed() {
		name += fmt.Sprintf(" (+%d)", countDescendants(it))
	}
	if n.Kind() != item.KindFunction {
		return name
	}
	lines := []string{name}
	for _, c := range w.opts.Columns {
		if c == item.ColName {
			continue
		}
		if v := model.Cell(it, c); v != "" {
			lines = append(lines, c.Header()+": "+v)
		}
	}
	return strings.Join(lines, "\n")
}

func (w *dotWriter) edges(it item.Item) {
	to := Representative(it)
	for _, p := range it.Base().Predecessors() {
		from := Representative(p)
		if from == to {
			continue
		}
		key := [2]string{w.id(from), w.id(to)}
		if w.seen == nil {
			w.seen = make(map[[2]string]bool)
		}
		if w.seen[key] {
			continue
		}
		w.seen[key] = true
		fmt.Fprintf(&w.buf, "  %s -> %s;\n", key[0], key[1])
	}
}

// Representative returns the item drawn in place of it: it when visible,
// otherwise its outermost collapsed ancestor.
func Representative(it item.Item) item.Item {
	rep := it
	for p := it.Base().Parent(); p != nil; p = p.Base().Parent() {
		if p.Base().Collapsed() {
			rep = p
		}
	}
	return rep
}

func countDescendants(it item.Item) int {
	n := -1
	item.Walk(it, func(item.Item, int) bool {
		n++
		return true
	})
	return n
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	svg, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(svg), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
