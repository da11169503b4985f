// Package item provides the nodes shared by the operations tree view and
// the dataflow graph view.
//
// # Two relations
//
// Every [Item] takes part in two independent relations:
//
//   - The ownership tree. A [Site] owns its [Program]s, which own their
//     [Function]s. A node is attached to its parent when constructed and is
//     never reparented. [Node.Destroy] tears down the whole owned subtree.
//   - The predecessor graph. A [Function] lists the functions it reads from
//     as [Handle]s into a shared [Registry]. Handles do not own anything:
//     once the target is destroyed, [Registry.Resolve] reports it absent, so
//     a stale edge can never be followed.
//
// # Rows and reordering
//
// The row of a node is its position among its siblings. After children are
// added or removed the owner calls [Item.Reorder] on the parent, which
// assigns rows 0..n-1 and repositions children whose row changed. Sites sort
// their programs by name; programs keep functions in insertion order.
//
// # Collapse
//
// [Node.SetCollapsed] hides the group holding a node's children. It is a
// display toggle only: children stay owned, keep their data and keep their
// own collapse flag.
//
// # Concurrency
//
// Items are not safe for concurrent use. The owning model serializes every
// structural edit.
package item
