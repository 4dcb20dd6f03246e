package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/commitgraph/pkg/gitgraph"
)

// ErrUnsupportedFormat is returned by [Import] and [Export] for a file
// extension other than .json or .toml.
var ErrUnsupportedFormat = errors.New("unsupported graph file format")

// file is the on-disk shape shared by the JSON and TOML encodings.
type file struct {
	Direction gitgraph.Direction `json:"direction" toml:"direction"`
	Commits   []gitgraph.Commit  `json:"commits" toml:"commits"`
	Branches  []gitgraph.Branch  `json:"branches" toml:"branches"`
}

// ReadJSON decodes a JSON commit graph from r.
//
// ReadJSON returns an error if the JSON is malformed, a commit or branch is
// rejected by the graph, or the decoded graph fails validation. Errors are
// wrapped with the offending commit or branch. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*gitgraph.Graph, error) {
	var data file
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return data.build()
}

// ReadTOML decodes a TOML commit graph from r. Unknown keys are rejected.
func ReadTOML(r io.Reader) (*gitgraph.Graph, error) {
	var data file
	md, err := toml.NewDecoder(r).Decode(&data)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("decode: unknown keys %v", undecoded)
	}
	return data.build()
}

// ImportJSON reads a JSON file at path.
func ImportJSON(path string) (*gitgraph.Graph, error) {
	return importWith(path, ReadJSON)
}

// ImportTOML reads a TOML file at path.
func ImportTOML(path string) (*gitgraph.Graph, error) {
	return importWith(path, ReadTOML)
}

// Import reads a graph file, choosing the decoder by extension.
func Import(path string) (*gitgraph.Graph, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return ImportJSON(path)
	case ".toml":
		return ImportTOML(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func importWith(path string, read func(io.Reader) (*gitgraph.Graph, error)) (*gitgraph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

func (f file) build() (*gitgraph.Graph, error) {
	g := gitgraph.New(f.Direction)
	for _, c := range f.Commits {
		if err := g.AddCommit(c); err != nil {
			return nil, fmt.Errorf("commit %s: %w", c.ID, err)
		}
	}
	for _, b := range f.Branches {
		if err := g.AddBranch(b); err != nil {
			return nil, fmt.Errorf("branch %s: %w", b.Name, err)
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
