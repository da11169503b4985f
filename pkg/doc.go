// Package pkg provides the core libraries of opgraph, a viewer for the
// operations of a stream-processing cluster.
//
// # Overview
//
// A cluster is described by a configuration snapshot: a flat list of keys
// such as "sites/s1/workers/demo/agg/worker". opgraph turns the snapshot
// into two structures sharing the same items:
//
//  1. An ownership tree: sites own programs, programs own functions.
//  2. A dataflow graph: each function records the functions it reads from.
//
// The pkg directory is organized around that model:
//
//  1. [item] - The item node: tree membership, predecessor handles,
//     columns, collapse state
//  2. [conf] - Keys and pre-decoded values, and [conf/snapshot] decoding
//  3. [model] - The owning model applying key updates and removals
//  4. [lineage] - Dataflow analysis (upstream, downstream, order, cycles)
//  5. [render] - Node-link diagrams and terminal trees
//  6. [pipeline] - Orchestration (load → DOT → render), with [cache]
//
// # Architecture
//
// The typical data flow through opgraph:
//
//	Snapshot file (YAML, TOML, JSON)
//	         ↓
//	    [conf/snapshot] package (decode entries)
//	         ↓
//	    [model] package (tree + predecessor graph)
//	         ↓
//	    [render] / [io] / [lineage]
//	         ↓
//	    SVG/PNG/DOT/JSON output
//
// # Quick Start
//
//	m, err := model.Load(ctx, "cluster.yaml", model.Options{})
//	if err != nil {
//	    return err
//	}
//	dot := nodelink.ToDOT(m, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Supporting Packages
//
// [errors] - Coded errors for the application boundary.
//
// [observability] - Hooks for load and model events, no-op by default.
//
// [settings] - The user configuration file.
//
// [watcher] - Debounced file watching for live reload.
//
// [item]: https://pkg.go.dev/github.com/opgraph/opgraph/pkg/item
// [conf]: https://pkg.go.dev/github.com/opgraph/opgraph/pkg/conf
// [conf/snapshot]: https://pkg.go.dev/github.com/opgraph/opgraph/pkg/conf/snapshot
// [model]: https://pkg.go.dev/github.com/opgraph/opgraph/pkg/model
// [lineage]: https://pkg.go.dev/github.com/opgraph/opgraph/pkg/lineage
// [render]: https://pkg.go.dev/github.com/opgraph/opgraph/pkg/render
// [io]: https://pkg.go.dev/github.com/opgraph/opgraph/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/opgraph/opgraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/opgraph/opgraph/pkg/cache
// [errors]: https://pkg.go.dev/github.com/opgraph/opgraph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/opgraph/opgraph/pkg/observability
// [settings]: https://pkg.go.dev/github.com/opgraph/opgraph/pkg/settings
// [watcher]: https://pkg.go.dev/github.com/opgraph/opgraph/pkg/watcher
package pkg
