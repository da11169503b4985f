// Package lineage answers dataflow questions over the functions of a
// model: what feeds a function, what it feeds, in which order functions can
// be started, and which of them read from each other in a loop.
//
// A [Graph] is a snapshot: build a new one after the model changes.
package lineage

import (
	"cmp"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"

	"github.com/opgraph/opgraph/pkg/item"
)

// Source is anything that can enumerate items, such as a model.
type Source interface {
	Walk(fn func(it item.Item, depth int) bool)
}

// Graph is the dataflow graph between functions. Edges point downstream,
// from a predecessor to the function reading from it.
type Graph struct {
	down  *simple.DirectedGraph
	up    *simple.DirectedGraph
	items map[int64]item.Item
}

// Step is an item reached by a traversal, with its distance in edges.
type Step struct {
	Item  item.Item
	Depth int
}

// Build snapshots the live dataflow edges of src.
func Build(src Source) *Graph {
	g := &Graph{
		down:  simple.NewDirectedGraph(),
		up:    simple.NewDirectedGraph(),
		items: make(map[int64]item.Item),
	}
	var funcs []item.Item
	src.Walk(func(it item.Item, _ int) bool {
		if it.Base().Kind() == item.KindFunction {
			funcs = append(funcs, it)
			id := it.Base().Handle().ID()
			g.items[id] = it
			g.down.AddNode(simple.Node(id))
			g.up.AddNode(simple.Node(id))
		}
		return true
	})
	for _, f := range funcs {
		to := f.Base().Handle().ID()
		for _, p := range f.Base().Predecessors() {
			from := p.Base().Handle().ID()
			if _, ok := g.items[from]; !ok || from == to {
				continue
			}
			g.down.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
			g.up.SetEdge(simple.Edge{F: simple.Node(to), T: simple.Node(from)})
		}
	}
	return g
}

// Len returns the number of functions.
func (g *Graph) Len() int { return len(g.items) }

// EdgeCount returns the number of dataflow edges.
func (g *Graph) EdgeCount() int { return g.down.Edges().Len() }

// Upstream returns every function it reads from, directly or not, nearest
// first.
func (g *Graph) Upstream(it item.Item) []Step {
	return g.walk(g.up, it)
}

// Downstream returns every function reading from it, directly or not,
// nearest first.
func (g *Graph) Downstream(it item.Item) []Step {
	return g.walk(g.down, it)
}

func (g *Graph) walk(dg *simple.DirectedGraph, it item.Item) []Step {
	start := dg.Node(it.Base().Handle().ID())
	if start == nil {
		return nil
	}
	var out []Step
	var bf traverse.BreadthFirst
	bf.Walk(dg, start, func(n graph.Node, depth int) bool {
		if n.ID() != start.ID() {
			out = append(out, Step{Item: g.items[n.ID()], Depth: depth})
		}
		return false
	})
	slices.SortFunc(out, func(a, b Step) int {
		return cmp.Or(cmp.Compare(a.Depth, b.Depth), cmp.Compare(a.Item.Base().Path(), b.Item.Base().Path()))
	})
	return out
}

// Sources returns the functions with no upstream, sorted by path.
func (g *Graph) Sources() []item.Item {
	return g.filter(func(id int64) bool { return g.up.From(id).Len() == 0 })
}

// Sinks returns the functions nothing reads from, sorted by path.
func (g *Graph) Sinks() []item.Item {
	return g.filter(func(id int64) bool { return g.down.From(id).Len() == 0 })
}

func (g *Graph) filter(keep func(id int64) bool) []item.Item {
	var out []item.Item
	for id, it := range g.items {
		if keep(id) {
			out = append(out, it)
		}
	}
	sortByPath(out)
	return out
}

// Order returns the functions so that every function comes after the
// functions it reads from. Ties are broken by path. When the graph has
// cycles, the functions on them are left out and the error lists them.
func (g *Graph) Order() ([]item.Item, error) {
	nodes, err := topo.SortStabilized(g.down, g.byPath)
	out := make([]item.Item, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, g.items[n.ID()])
		}
	}
	if err != nil {
		return out, fmt.Errorf("dataflow is not acyclic: %w", err)
	}
	return out, nil
}

// Cycles returns the elementary loops of the dataflow, each as the list of
// functions along it, starting from the one with the smallest path.
func (g *Graph) Cycles() [][]item.Item {
	var out [][]item.Item
	for _, c := range topo.DirectedCyclesIn(g.down) {
		// The first node is repeated at the end.
		if len(c) > 1 && c[0].ID() == c[len(c)-1].ID() {
			c = c[:len(c)-1]
		}
		cycle := make([]item.Item, len(c))
		for i, n := range c {
			cycle[i] = g.items[n.ID()]
		}
		out = append(out, rotateToMin(cycle))
	}
	slices.SortFunc(out, func(a, b []item.Item) int {
		return slices.CompareFunc(a, b, func(x, y item.Item) int {
			return cmp.Compare(x.Base().Path(), y.Base().Path())
		})
	})
	return out
}

func (g *Graph) byPath(nodes []graph.Node) {
	slices.SortFunc(nodes, func(a, b graph.Node) int {
		return cmp.Compare(g.items[a.ID()].Base().Path(), g.items[b.ID()].Base().Path())
	})
}

func rotateToMin(cycle []item.Item) []item.Item {
	if len(cycle) == 0 {
		return cycle
	}
	m := 0
	for i, it := range cycle {
		if it.Base().Path() < cycle[m].Base().Path() {
			m = i
		}
	}
	return append(slices.Clone(cycle[m:]), cycle[:m]...)
}

func sortByPath(items []item.Item) {
	slices.SortFunc(items, func(a, b item.Item) int {
		return cmp.Compare(a.Base().Path(), b.Base().Path())
	})
}
