package gitgraph

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	// ErrInvalidCommitID is returned by [Graph.AddCommit] when the commit ID is empty.
	ErrInvalidCommitID = errors.New("commit ID must not be empty")

	// ErrDuplicateCommitID is returned by [Graph.AddCommit] when a commit with
	// the same ID already exists. Commit IDs must be unique.
	ErrDuplicateCommitID = errors.New("duplicate commit ID")

	// ErrNegativeSeq is returned by [Graph.AddCommit] for a negative sequence number.
	ErrNegativeSeq = errors.New("commit sequence must not be negative")

	// ErrTooManyParents is returned by [Graph.AddCommit] when a commit lists
	// more than two parents. Octopus merges are not supported.
	ErrTooManyParents = errors.New("commit has more than two parents")

	// ErrInvalidBranchName is returned by [Graph.AddBranch] for an empty name.
	ErrInvalidBranchName = errors.New("branch name must not be empty")

	// ErrDuplicateBranch is returned by [Graph.AddBranch] when the name is taken.
	ErrDuplicateBranch = errors.New("duplicate branch name")

	// ErrUnknownHead is returned by [Graph.Validate] when a branch points at a
	// commit that is not part of the graph.
	ErrUnknownHead = errors.New("branch head not found")

	// ErrSeqOrder is returned by [Graph.Validate] when a commit's sequence
	// number is not strictly greater than that of each known parent.
	ErrSeqOrder = errors.New("commit sequence must exceed parent sequence")
)

// Commit is a single node of the history.
//
// Parents holds zero, one or two commit IDs. For merges the order matters:
// the first parent continues the current lane, the second parent is drawn
// on a new lane.
type Commit struct {
	ID      string   `json:"id" toml:"id"`
	Seq     int      `json:"seq" toml:"seq"`
	Parents []string `json:"parents,omitempty" toml:"parents,omitempty"`
	Message string   `json:"message,omitempty" toml:"message,omitempty"`
}

// IsRoot reports whether the commit has no parents.
func (c Commit) IsRoot() bool { return len(c.Parents) == 0 }

// IsMerge reports whether the commit has two parents.
func (c Commit) IsMerge() bool { return len(c.Parents) == 2 }

// FirstParent returns the first parent ID, or "" for a root commit.
func (c Commit) FirstParent() string {
	if len(c.Parents) == 0 {
		return ""
	}
	return c.Parents[0]
}

// Branch is a named reference to a head commit. The graph does not own the
// head; it only refers to it by ID.
type Branch struct {
	Name string `json:"name" toml:"name"`
	Head string `json:"head" toml:"head"`
}

// Graph is a commit history with ordered branches.
//
// The zero value is not usable - use [New].
type Graph struct {
	Direction Direction
	commits   map[string]*Commit
	branches  []Branch
}

// New creates an empty graph laid out in the given direction.
func New(dir Direction) *Graph {
	return &Graph{
		Direction: dir,
		commits:   make(map[string]*Commit),
	}
}

// AddCommit adds a commit to the graph. The parents slice is copied.
func (g *Graph) AddCommit(c Commit) error {
	if c.ID == "" {
		return ErrInvalidCommitID
	}
	if _, exists := g.commits[c.ID]; exists {
		return ErrDuplicateCommitID
	}
	if c.Seq < 0 {
		return ErrNegativeSeq
	}
	if len(c.Parents) > 2 {
		return ErrTooManyParents
	}
	if len(c.Parents) == 0 {
		c.Parents = nil
	} else {
		c.Parents = slices.Clone(c.Parents)
	}
	g.commits[c.ID] = &c
	return nil
}

// AddBranch appends a branch. Branch order is significant: it is the order
// in which the layout engine assigns baseline lanes.
func (g *Graph) AddBranch(b Branch) error {
	if b.Name == "" {
		return ErrInvalidBranchName
	}
	for _, existing := range g.branches {
		if existing.Name == b.Name {
			return ErrDuplicateBranch
		}
	}
	g.branches = append(g.branches, b)
	return nil
}

// Commit returns the commit with the given ID.
func (g *Graph) Commit(id string) (*Commit, bool) {
	c, ok := g.commits[id]
	return c, ok
}

// Commits returns the commit dictionary. Callers must not modify it.
func (g *Graph) Commits() map[string]*Commit { return g.commits }

// Branches returns the branches in insertion order.
func (g *Graph) Branches() []Branch { return g.branches }

// Len returns the number of commits.
func (g *Graph) Len() int { return len(g.commits) }

// SortedCommits returns all commits ordered by sequence number, ties broken by ID.
func (g *Graph) SortedCommits() []*Commit {
	out := slices.Collect(maps.Values(g.commits))
	slices.SortFunc(out, func(a, b *Commit) int {
		if c := cmp.Compare(a.Seq, b.Seq); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// BranchAt returns the first branch (in branch order) whose head is the
// given commit.
func (g *Graph) BranchAt(commitID string) (Branch, bool) {
	for _, b := range g.branches {
		if b.Head == commitID {
			return b, true
		}
	}
	return Branch{}, false
}

// Validate checks graph-wide invariants that AddCommit cannot enforce on
// its own: every branch head exists and every known parent has a smaller
// sequence number than its child. Parents missing from the graph are allowed.
func (g *Graph) Validate() error {
	for _, b := range g.branches {
		if _, ok := g.commits[b.Head]; !ok {
			return fmt.Errorf("%w: branch %s -> %s", ErrUnknownHead, b.Name, b.Head)
		}
	}
	for _, c := range g.SortedCommits() {
		for _, pid := range c.Parents {
			p, ok := g.commits[pid]
			if !ok {
				continue
			}
			if p.Seq >= c.Seq {
				return fmt.Errorf("%w: %s(%d) -> %s(%d)", ErrSeqOrder, c.ID, c.Seq, p.ID, p.Seq)
			}
		}
	}
	return nil
}
