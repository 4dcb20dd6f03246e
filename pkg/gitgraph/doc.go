// Package gitgraph provides the commit graph model consumed by the layout engine.
//
// # Overview
//
// A [Graph] is a simplified git history: linear commits, two-parent merges and
// named branches pointing at head commits. Every commit carries a sequence
// number ([Commit.Seq]) that orders commits by age; the root has the lowest
// value and every child has a strictly larger value than its parents.
//
// # Building Graphs
//
//	g := gitgraph.New(gitgraph.LeftToRight)
//	_ = g.AddCommit(gitgraph.Commit{ID: "a", Seq: 0})
//	_ = g.AddCommit(gitgraph.Commit{ID: "b", Seq: 1, Parents: []string{"a"}})
//	_ = g.AddBranch(gitgraph.Branch{Name: "main", Head: "b"})
//
// Parents that are not part of the graph are allowed. They mark the boundary
// of the known history (for example a shallow clone) and stop traversal.
//
// # Directions
//
// Two layout directions are supported: [LeftToRight] ("LR") places history
// along the x axis with branches stacked vertically, [BottomToTop] ("BT")
// places the newest commit at the top with branches side by side.
//
// # Concurrency
//
// A Graph is not safe for concurrent mutation. Once built it is only read by
// the layout engine, so concurrent renders of the same graph are safe.
package gitgraph
