package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/commitgraph/pkg/gitgraph"
)

func fromGraph(g *gitgraph.Graph) file {
	out := file{
		Direction: g.Direction,
		Commits:   make([]gitgraph.Commit, 0, g.Len()),
		Branches:  append([]gitgraph.Branch(nil), g.Branches()...),
	}
	for _, c := range g.SortedCommits() {
		out.Commits = append(out.Commits, *c)
	}
	return out
}

// WriteJSON encodes g as indented JSON. Commits are written in sequence order.
func WriteJSON(g *gitgraph.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fromGraph(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteTOML encodes g as TOML. Commits are written in sequence order.
func WriteTOML(g *gitgraph.Graph, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(fromGraph(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Export writes g to path, choosing the encoder by extension.
func Export(g *gitgraph.Graph, path string) error {
	var write func(*gitgraph.Graph, io.Writer) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		write = WriteJSON
	case ".toml":
		write = WriteTOML
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(g, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
