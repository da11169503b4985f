package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/opgraph/opgraph/pkg/item"
)

// Source provides the items to export, such as a model.
type Source interface {
	Roots() []item.Item
}

// Document is the exported form of a model.
type Document struct {
	Sites []Node `json:"sites"`
	Edges []Edge `json:"edges"`
}

// Node is one exported item with its children.
type Node struct {
	Name      string         `json:"name"`
	Path      string         `json:"path"`
	Kind      string         `json:"kind"`
	Row       int            `json:"row"`
	Collapsed bool           `json:"collapsed,omitempty"`
	X         float64        `json:"x"`
	Y         float64        `json:"y"`
	Fill      string         `json:"fill,omitempty"`
	Columns   map[string]any `json:"columns,omitempty"`
	Parents   []string       `json:"parents,omitempty"`
	Children  []Node         `json:"children,omitempty"`
}

// Edge is a dataflow edge between two function paths.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Options selects what goes into the export.
type Options struct {
	// Columns to export for each item. Nil exports every column; columns
	// without data are always left out.
	Columns []item.Column
}

// Export builds the document for src.
func Export(src Source, opts Options) Document {
	cols := opts.Columns
	if cols == nil {
		cols = item.Columns()
	}
	doc := Document{Sites: []Node{}, Edges: []Edge{}}
	for _, r := range src.Roots() {
		doc.Sites = append(doc.Sites, exportNode(r, cols))
		item.Walk(r, func(it item.Item, _ int) bool {
			for _, p := range it.Base().Predecessors() {
				doc.Edges = append(doc.Edges, Edge{From: p.Base().Path(), To: it.Base().Path()})
			}
			return true
		})
	}
	return doc
}

func exportNode(it item.Item, cols []item.Column) Node {
	n := it.Base()
	out := Node{
		Name:      n.Name(),
		Path:      n.Path(),
		Kind:      n.Kind().String(),
		Row:       n.Row(),
		Collapsed: n.Collapsed(),
		X:         n.Pos().X,
		Y:         n.Pos().Y,
		Fill:      n.Style().Fill,
	}
	for _, c := range cols {
		if c == item.ColName || c == item.ColActionButton {
			continue
		}
		v, err := it.Data(c)
		if err != nil || v == nil {
			continue
		}
		if out.Columns == nil {
			out.Columns = make(map[string]any)
		}
		out.Columns[c.Header()] = v
	}
	for _, p := range n.Predecessors() {
		out.Parents = append(out.Parents, p.Base().Path())
	}
	for _, c := range n.Children() {
		out.Children = append(out.Children, exportNode(c, cols))
	}
	return out
}

// WriteJSON encodes the items of src as JSON and writes it to w.
// The output holds the ownership tree, with rows, positions, collapse flags
// and column values, followed by the dataflow edges.
func WriteJSON(src Source, w io.Writer, opts Options) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Export(src, opts)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes the items of src to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(src Source, path string, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(src, f, opts); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
