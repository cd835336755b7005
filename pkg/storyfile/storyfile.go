// Package storyfile loads story definitions from TOML files.
//
// A story file declares a root id and a flat list of nodes:
//
//	title = "The Cavern"
//	root  = "1"
//
//	[[nodes]]
//	id       = "1"
//	text     = "You stand at the mouth of a cave."
//	children = ["2", "3"]
//
// The loader builds the graph exclusively through the public construction
// operations of [story.Tree], so file order never matters: edges may name
// nodes declared later in the file. Several nodes may list the same child
// (converging paths), and cycles are allowed.
package storyfile

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/fabulatree/fabula/pkg/errors"
	"github.com/fabulatree/fabula/pkg/story"
)

// Story is a loaded story definition: the built tree plus file metadata.
type Story struct {
	Title string
	Tree  *story.Tree[string]
}

// storyFile mirrors the TOML document structure.
type storyFile struct {
	Title string    `toml:"title"`
	Root  string    `toml:"root"`
	Nodes []nodeDef `toml:"nodes"`
}

type nodeDef struct {
	ID       string   `toml:"id"`
	Text     string   `toml:"text"`
	Children []string `toml:"children"`
}

// Load reads and parses a story file from disk.
func Load(path string) (*Story, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "story file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read story file %s", path)
	}
	return Parse(data)
}

// Parse decodes a TOML story definition and builds the tree.
//
// Validation rejects definitions the construction operations could not
// faithfully express: duplicate or empty ids, an undeclared root, children
// referencing undeclared ids, and non-root nodes that no other node lists
// as a child (their text could never be applied, since only root
// designation and child linking carry payloads).
func Parse(data []byte) (*Story, error) {
	var f storyFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode story definition")
	}

	if err := validate(&f); err != nil {
		return nil, err
	}

	text := make(map[string]string, len(f.Nodes))
	for _, n := range f.Nodes {
		text[n.ID] = n.Text
	}

	tr := story.New[string]()
	tr.SetRoot(f.Root, text[f.Root])
	for _, n := range f.Nodes {
		for _, child := range n.Children {
			tr.Link(n.ID, child, text[child])
		}
	}

	return &Story{Title: f.Title, Tree: tr}, nil
}

func validate(f *storyFile) error {
	if f.Root == "" {
		return errors.New(errors.ErrCodeNoRoot, "story declares no root")
	}
	if len(f.Nodes) == 0 {
		return errors.New(errors.ErrCodeInvalidStory, "story declares no nodes")
	}

	declared := make(map[string]bool, len(f.Nodes))
	for _, n := range f.Nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidStory, "node with empty id")
		}
		if declared[n.ID] {
			return errors.New(errors.ErrCodeDuplicateNode, "node %q declared twice", n.ID)
		}
		declared[n.ID] = true
	}

	if !declared[f.Root] {
		return errors.New(errors.ErrCodeNoRoot, "root %q is not declared", f.Root)
	}

	referenced := make(map[string]bool, len(f.Nodes))
	for _, n := range f.Nodes {
		for _, child := range n.Children {
			if !declared[child] {
				return errors.New(errors.ErrCodeUnknownNode, "node %q references undeclared child %q", n.ID, child)
			}
			referenced[child] = true
		}
	}

	for _, n := range f.Nodes {
		if n.ID != f.Root && !referenced[n.ID] {
			return errors.New(errors.ErrCodeInvalidStory, "node %q is neither the root nor anyone's child", n.ID)
		}
	}
	return nil
}
