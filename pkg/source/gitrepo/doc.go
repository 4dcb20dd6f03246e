// Package gitrepo builds a commit graph from a real git repository.
//
// The repository is opened with go-git, so no git binary is needed. Every
// local branch contributes its head; the history reachable from all heads
// is collected and numbered in topological order, oldest first, with the
// committer time breaking ties:
//
//	g, err := gitrepo.Load(ctx, ".", gitrepo.Options{MaxCommits: 200})
//
// Commits are identified by abbreviated hashes (seven characters, longer if
// that would be ambiguous) and carry their subject line as message. Merges
// keep their first two parents; octopus merges lose the rest.
//
// Branches are ordered by name, with the branch HEAD points at moved to the
// front so the checked-out branch gets the first lane.
//
// With MaxCommits set only the newest commits are kept. Parents that fall
// outside the cut stay referenced by id; the layout treats them as the edge
// of the known history. Branches whose head falls outside the cut are
// dropped.
package gitrepo
