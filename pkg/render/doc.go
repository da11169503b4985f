// Package render provides the visual outputs of the operations model.
//
// # Overview
//
// Two renderers are available, both honouring the collapse state of sites
// and programs:
//
//   - Node-link diagrams (in [nodelink] subpackage)
//   - Terminal trees (in [treeview] subpackage)
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders the tree and its dataflow edges using
// Graphviz:
//
//	dot := nodelink.ToDOT(m, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Terminal Trees
//
// The [treeview] subpackage draws the ownership tree with box-drawing
// characters, one item per line:
//
//	fmt.Println(treeview.Render(m, treeview.Options{}))
//
// [nodelink]: github.com/opgraph/opgraph/pkg/render/nodelink
// [treeview]: github.com/opgraph/opgraph/pkg/render/treeview
package render
