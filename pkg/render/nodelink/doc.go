// Package nodelink renders the operations tree as a node-link diagram.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz.
// Sites and programs appear as nested clusters, functions as boxes, and
// dataflow edges as arrows from the upstream function to the one reading
// from it.
//
// # Usage
//
// Convert a model to DOT format, then render to SVG or PNG:
//
//	dot := nodelink.ToDOT(m, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # Collapsed Items
//
// Collapsing a site or program hides its children from the diagram. The
// collapsed item is drawn as a double-bordered box labelled with the number
// of hidden items, and every edge touching a hidden function is redirected
// to it. [Representative] tells which item stands in for a hidden one.
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Columns: extra "Header: value" lines in function labels
//   - Title: a caption above the diagram
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering.
package nodelink
