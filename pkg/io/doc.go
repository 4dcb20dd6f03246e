// Package io reads and writes commit graphs as JSON or TOML files.
//
// # Format
//
// Both encodings carry the same three fields: the layout direction, the
// commits and the branches. In JSON:
//
//	{
//	  "direction": "LR",
//	  "commits": [
//	    {"id": "a1", "seq": 0, "message": "init"},
//	    {"id": "b2", "seq": 1, "parents": ["a1"]},
//	    {"id": "c3", "seq": 2, "parents": ["a1"]},
//	    {"id": "m4", "seq": 3, "parents": ["b2", "c3"]}
//	  ],
//	  "branches": [
//	    {"name": "main", "head": "m4"},
//	    {"name": "feature", "head": "c3"}
//	  ]
//	}
//
// and in TOML:
//
//	direction = "BT"
//
//	[[commits]]
//	id = "a1"
//	seq = 0
//
//	[[branches]]
//	name = "main"
//	head = "a1"
//
// Direction is "LR" (left to right, the default) or "BT" (bottom to top).
// Parent order is significant for merges: the first parent continues the
// branch, the second one is the merged branch. Branch order is the order in
// which branches get their lanes.
//
// # Import
//
// [Import] picks the decoder from the file extension. [ReadJSON] and
// [ReadTOML] decode from any reader. Decoded graphs are validated with
// [gitgraph.Graph.Validate]; a parent that is not listed is allowed and
// marks the edge of the known history.
//
// # Export
//
// [WriteJSON] and [WriteTOML] emit commits ordered by sequence number, so
// exports are stable and diff well. Round trips preserve every field.
//
// [gitgraph.Graph.Validate]: github.com/matzehuels/commitgraph/pkg/gitgraph.Graph.Validate
package io
