// Package io provides JSON export of the operations model.
//
// # Overview
//
// The export is meant for external tools and for keeping view state across
// sessions. It holds the ownership tree with rows, positions, collapse
// flags and column values, plus the dataflow edges.
//
// # JSON Format
//
//	{
//	  "sites": [
//	    {
//	      "name": "s1", "path": "s1", "kind": "site", "row": 0,
//	      "x": 0, "y": 0,
//	      "columns": {"Children": 1},
//	      "children": [
//	        {
//	          "name": "web", "path": "s1/web", "kind": "program", ...
//	          "children": [
//	            {"name": "req", "path": "s1/web/req", "kind": "function",
//	             "columns": {"Enabled": true, "Parents": 0}, ...}
//	          ]
//	        }
//	      ]
//	    }
//	  ],
//	  "edges": [{"from": "s1/web/req", "to": "s1/web/resp"}]
//	}
//
// Column values are keyed by header and keep their type: numbers, booleans
// or strings. Columns without data are left out.
//
// # Export
//
// Use [ExportJSON] to write a model to a file, or [WriteJSON] to write to
// any io.Writer:
//
//	err := io.ExportJSON(m, "cluster.json", io.Options{})
//
// # Import
//
// Configuration is not imported from this format: load a snapshot into a
// model instead. [ReadJSON] and [ImportJSON] decode an export so that
// [RestoreCollapsed] can reapply its collapse flags to a fresh model.
package io
