package pipeline

import (
	"context"
	"errors"
	"os"

	"github.com/go-git/go-git/v5"

	errs "github.com/matzehuels/commitgraph/pkg/errors"
	"github.com/matzehuels/commitgraph/pkg/gitgraph"
	graphio "github.com/matzehuels/commitgraph/pkg/io"
	"github.com/matzehuels/commitgraph/pkg/source/gitrepo"
)

// Load reads the graph named by opts and applies the direction override.
func Load(ctx context.Context, opts Options) (*gitgraph.Graph, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}

	g := opts.Graph
	if g == nil {
		var err error
		switch opts.Source {
		case SourceGit:
			g, err = gitrepo.Load(ctx, opts.Input, gitrepo.Options{
				MaxCommits: opts.MaxCommits,
				Branches:   opts.Branches,
				Logger:     opts.Logger,
			})
		default:
			g, err = graphio.Import(opts.Input)
		}
		if err != nil {
			return nil, classifyLoadError(opts.Input, err)
		}
	}

	if opts.Direction != "" {
		d, _ := gitgraph.ParseDirection(opts.Direction)
		g.Direction = d
	}
	return g, nil
}

// classifyLoadError attaches an error code to loader failures.
func classifyLoadError(input string, err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return errs.Wrap(errs.ErrCodeFileNotFound, err, "cannot read %s", input)
	case errors.Is(err, graphio.ErrUnsupportedFormat):
		return errs.Wrap(errs.ErrCodeInvalidFormat, err, "cannot read %s", input)
	case errors.Is(err, git.ErrRepositoryNotExists):
		return errs.Wrap(errs.ErrCodeNotFound, err, "no git repository at %s", input)
	case errors.Is(err, gitrepo.ErrNoBranches):
		return errs.Wrap(errs.ErrCodeNotFound, err, "no branches in %s", input)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return errs.Wrap(errs.ErrCodeTimeout, err, "loading %s", input)
	case isGraphError(err):
		return errs.Wrap(errs.ErrCodeInvalidGraph, err, "invalid graph in %s", input)
	}
	return errs.Wrap(errs.ErrCodeInvalidInput, err, "cannot load %s", input)
}

func isGraphError(err error) bool {
	for _, target := range []error{
		gitgraph.ErrInvalidDirection,
		gitgraph.ErrInvalidCommitID,
		gitgraph.ErrDuplicateCommitID,
		gitgraph.ErrNegativeSeq,
		gitgraph.ErrTooManyParents,
		gitgraph.ErrInvalidBranchName,
		gitgraph.ErrDuplicateBranch,
		gitgraph.ErrUnknownHead,
		gitgraph.ErrSeqOrder,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
