package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/opgraph/opgraph/pkg/item"
)

// ReadJSON decodes a document written by [WriteJSON].
func ReadJSON(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &doc, nil
}

// ImportJSON reads a document from a JSON file at path.
func ImportJSON(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// Collapser toggles the collapse state of items, such as a model.
type Collapser interface {
	FindPath(path string) (item.Item, bool)
	SetCollapsed(it item.Item, collapsed bool)
}

// RestoreCollapsed applies the collapse flags recorded in doc to the items
// of c with the same path. Items missing from either side are left alone.
// It returns the number of items collapsed.
func RestoreCollapsed(c Collapser, doc *Document) int {
	n := 0
	var visit func(nodes []Node)
	visit = func(nodes []Node) {
		for _, nd := range nodes {
			if nd.Collapsed {
				if it, ok := c.FindPath(nd.Path); ok {
					c.SetCollapsed(it, true)
					n++
				}
			}
			visit(nd.Children)
		}
	}
	visit(doc.Sites)
	return n
}
