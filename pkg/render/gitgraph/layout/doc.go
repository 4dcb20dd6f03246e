// Package layout places commit graph nodes and routes the connectors
// between them.
//
// # Overview
//
// A render walks every branch of a [gitgraph.Graph] in order. For each branch
// the walker places the head and its unplaced ancestors, then the connector
// pass draws an edge from every commit on the branch to its parents. Nodes
// are placed on a grid:
//
//	LeftToRight:  x = seq*NodeSpacing + LeftMargin    y = lane*BranchOffset
//	BottomToTop:  x = lane*BranchOffset + LeftMargin  y = (commits-seq)*NodeSpacing
//
// # Lanes
//
// The first branch starts on lane 1 and each following branch one lane
// further out. Within a branch, the second parent of a merge and its
// unplaced ancestors are placed one lane beyond the current one; the lane is
// restored once that subtree is placed, however deeply merges nest.
//
// # Connectors
//
// A connector is routed between the bounding boxes the driver reports for
// the two nodes. When the parent is more than one NodeSpacing away along the
// history axis, the connector is a dogleg: a rounded bend into the parent's
// lane followed by a straight run. Otherwise it is a single rounded bend.
// Exactly one spacing apart counts as near.
//
// # Failures
//
// Parents that are not part of the graph mark the edge of the known history;
// traversal stops there without error. Any driver failure or panic stops the
// render and is reported in [Result.Err]. Whatever was drawn before remains
// on the canvas.
//
// [gitgraph.Graph]: github.com/matzehuels/commitgraph/pkg/gitgraph.Graph
package layout
