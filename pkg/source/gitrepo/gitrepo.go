package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/emirpasic/gods/trees/binaryheap"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/matzehuels/commitgraph/pkg/gitgraph"
)

// ErrNoBranches is returned when the repository has no local branches.
var ErrNoBranches = errors.New("repository has no branches")

const minIDLength = 7

// Options controls how a repository is turned into a graph.
type Options struct {
	// Direction is copied onto the resulting graph.
	Direction gitgraph.Direction
	// MaxCommits keeps only the newest commits. Zero keeps all.
	MaxCommits int
	// Branches restricts the graph to the named branches. Empty means all.
	Branches []string
	// Logger receives progress output. Nil discards it.
	Logger *log.Logger
}

type node struct {
	hash     plumbing.Hash
	parents  []plumbing.Hash
	when     time.Time
	subject  string
	children []plumbing.Hash
	pending  int
}

// Load opens the repository containing path and builds its commit graph.
func Load(ctx context.Context, path string, opts Options) (*gitgraph.Graph, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", path, err)
	}
	return FromRepository(ctx, repo, opts)
}

// FromRepository builds the commit graph of an open repository.
func FromRepository(ctx context.Context, repo *git.Repository, opts Options) (*gitgraph.Graph, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	heads, err := branchHeads(repo, opts.Branches)
	if err != nil {
		return nil, err
	}
	if len(heads) == 0 {
		return nil, ErrNoBranches
	}

	nodes, err := walk(ctx, repo, heads)
	if err != nil {
		return nil, err
	}
	order := topoOrder(nodes)
	if opts.MaxCommits > 0 && len(order) > opts.MaxCommits {
		logger.Debug("truncating history", "commits", len(order), "max", opts.MaxCommits)
		order = order[len(order)-opts.MaxCommits:]
	}
	logger.Debug("walked repository", "branches", len(heads), "commits", len(order))

	return build(opts.Direction, heads, order)
}

// Fingerprint summarizes the branch heads selected by opts. It changes
// whenever a selected branch moves, so it can key cached graphs without
// walking history.
func Fingerprint(path string, opts Options) (string, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("open repository %s: %w", path, err)
	}
	heads, err := branchHeads(repo, opts.Branches)
	if err != nil {
		return "", err
	}
	if len(heads) == 0 {
		return "", ErrNoBranches
	}
	var b strings.Builder
	for _, h := range heads {
		fmt.Fprintf(&b, "%s=%s\n", h.name, h.hash)
	}
	return b.String(), nil
}

type head struct {
	name string
	hash plumbing.Hash
}

// branchHeads returns local branches sorted by name with the HEAD branch first.
func branchHeads(repo *git.Repository, only []string) ([]head, error) {
	iter, err := repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	var heads []head
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		if len(only) == 0 || slices.Contains(only, name) {
			heads = append(heads, head{name: name, hash: ref.Hash()})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}

	current := ""
	if ref, err := repo.Head(); err == nil && ref.Name().IsBranch() {
		current = ref.Name().Short()
	}
	slices.SortFunc(heads, func(a, b head) int {
		switch {
		case a.name == current && b.name != current:
			return -1
		case b.name == current && a.name != current:
			return 1
		}
		return strings.Compare(a.name, b.name)
	})
	return heads, nil
}

// walk collects every commit reachable from the heads.
func walk(ctx context.Context, repo *git.Repository, heads []head) (map[plumbing.Hash]*node, error) {
	nodes := make(map[plumbing.Hash]*node)
	stack := make([]plumbing.Hash, 0, len(heads))
	for _, h := range heads {
		stack = append(stack, h.hash)
	}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := nodes[h]; seen {
			continue
		}

		c, err := repo.CommitObject(h)
		if err != nil {
			return nil, fmt.Errorf("read commit %s: %w", h, err)
		}
		parents := c.ParentHashes
		if len(parents) > 2 {
			parents = parents[:2]
		}
		nodes[h] = &node{
			hash:    h,
			parents: slices.Clone(parents),
			when:    c.Committer.When,
			subject: subject(c.Message),
		}
		stack = append(stack, parents...)
	}
	return nodes, nil
}

// topoOrder orders nodes parents-first. Among commits whose parents are all
// ordered, the oldest committer time goes first, then the smaller hash.
func topoOrder(nodes map[plumbing.Hash]*node) []*node {
	for _, n := range nodes {
		for _, p := range n.parents {
			if parent, ok := nodes[p]; ok {
				parent.children = append(parent.children, n.hash)
				n.pending++
			}
		}
	}

	ready := binaryheap.NewWith(func(a, b interface{}) int {
		x, y := a.(*node), b.(*node)
		if c := x.when.Compare(y.when); c != 0 {
			return c
		}
		return strings.Compare(x.hash.String(), y.hash.String())
	})
	for _, n := range nodes {
		if n.pending == 0 {
			ready.Push(n)
		}
	}

	order := make([]*node, 0, len(nodes))
	for !ready.Empty() {
		v, _ := ready.Pop()
		n := v.(*node)
		order = append(order, n)
		for _, ch := range n.children {
			child := nodes[ch]
			child.pending--
			if child.pending == 0 {
				ready.Push(child)
			}
		}
	}
	return order
}

func build(dir gitgraph.Direction, heads []head, order []*node) (*gitgraph.Graph, error) {
	ids := shortIDs(order)
	g := gitgraph.New(dir)

	for seq, n := range order {
		c := gitgraph.Commit{ID: ids[n.hash], Seq: seq, Message: n.subject}
		for _, p := range n.parents {
			id, ok := ids[p]
			if !ok {
				id = p.String()[:len(c.ID)]
			}
			c.Parents = append(c.Parents, id)
		}
		if err := g.AddCommit(c); err != nil {
			return nil, fmt.Errorf("commit %s: %w", n.hash, err)
		}
	}

	for _, h := range heads {
		id, ok := ids[h.hash]
		if !ok {
			continue
		}
		if err := g.AddBranch(gitgraph.Branch{Name: h.name, Head: id}); err != nil {
			return nil, fmt.Errorf("branch %s: %w", h.name, err)
		}
	}
	if len(g.Branches()) == 0 {
		return nil, ErrNoBranches
	}
	return g, nil
}

// shortIDs abbreviates hashes to the shortest common length, starting at
// seven characters, that keeps them unique.
func shortIDs(order []*node) map[plumbing.Hash]string {
	for n := minIDLength; ; n++ {
		ids := make(map[plumbing.Hash]string, len(order))
		seen := make(map[string]bool, len(order))
		unique := true
		for _, c := range order {
			id := c.hash.String()[:n]
			if seen[id] {
				unique = false
				break
			}
			seen[id] = true
			ids[c.hash] = id
		}
		if unique || n >= len(plumbing.ZeroHash.String()) {
			return ids
		}
	}
}

// subject returns the first line of a commit message.
func subject(msg string) string {
	msg = strings.TrimSpace(msg)
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return strings.TrimSpace(msg)
}
