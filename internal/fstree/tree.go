// Package fstree reconstructs a directory tree from a shell trace and
// aggregates directory sizes.
//
// Directories live in an arena and refer to each other by index. The root is
// always at RootIndex. Nodes are only appended; nothing is ever removed.
package fstree

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/povarna/generative-ai-agents/fs-agent/internal/models"
)

const RootIndex = 0

var ErrSizeOverflow = errors.New("total size overflows int64")

type Tree struct {
	nodes []models.Directory
	// sum of every file size; bounds every directory total
	total int64
}

// New returns a tree holding only the root directory.
func New() *Tree {
	return &Tree{
		nodes: []models.Directory{{Name: "/", Parent: -1}},
	}
}

func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns a copy of the directory at idx. The Files and Children slices
// are copied too, so the caller may modify them freely.
func (t *Tree) Node(idx int) models.Directory {
	node := t.nodes[idx]
	node.Files = slices.Clone(node.Files)
	node.Children = slices.Clone(node.Children)
	return node
}

// AddDir appends an empty directory under parent and returns its index.
// Names are not deduplicated; a repeated name creates a distinct sibling.
func (t *Tree) AddDir(parent int, name string) int {
	idx := len(t.nodes)
	t.nodes = append(t.nodes, models.Directory{Name: name, Parent: parent})
	t.nodes[parent].Children = append(t.nodes[parent].Children, idx)
	return idx
}

// AddFile appends file to dir. It fails with ErrSizeOverflow when the total
// of all files would no longer fit in an int64; since sizes are never
// negative, every directory total then fits as well.
func (t *Tree) AddFile(dir int, file models.FileEntry) error {
	if file.Size > math.MaxInt64-t.total {
		return fmt.Errorf("%w: %s (%d bytes)", ErrSizeOverflow, file.Name, file.Size)
	}
	t.total += file.Size
	t.nodes[dir].Files = append(t.nodes[dir].Files, file)
	return nil
}

// Child returns the first subdirectory of dir named name, in listing order.
func (t *Tree) Child(dir int, name string) (int, bool) {
	for _, child := range t.nodes[dir].Children {
		if t.nodes[child].Name == name {
			return child, true
		}
	}
	return 0, false
}

// Path returns the absolute slash separated path of idx.
func (t *Tree) Path(idx int) string {
	if idx == RootIndex {
		return "/"
	}

	var parts []string
	for cur := idx; cur != RootIndex; cur = t.nodes[cur].Parent {
		parts = append(parts, t.nodes[cur].Name)
	}

	var sb strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		sb.WriteByte('/')
		sb.WriteString(parts[i])
	}
	return sb.String()
}

// Size returns the total size of the files below idx, recursively.
func (t *Tree) Size(idx int) int64 {
	node := t.nodes[idx]

	var total int64
	for _, f := range node.Files {
		total += f.Size
	}
	for _, child := range node.Children {
		total += t.Size(child)
	}
	return total
}

func (t *Tree) RootSize() int64 {
	return t.Size(RootIndex)
}

// Sizes returns one entry per directory in pre-order (a directory before its
// children, children in listing order). Empty directories are reported with
// size 0. The tree is not modified.
func (t *Tree) Sizes() []models.DirSize {
	totals := make([]int64, len(t.nodes))
	t.fillTotals(RootIndex, totals)

	sizes := make([]models.DirSize, 0, len(t.nodes))
	var walk func(idx int)
	walk = func(idx int) {
		sizes = append(sizes, models.DirSize{Path: t.Path(idx), Size: totals[idx]})
		for _, child := range t.nodes[idx].Children {
			walk(child)
		}
	}
	walk(RootIndex)

	return sizes
}

// fillTotals computes every subtree total in a single post-order pass.
func (t *Tree) fillTotals(idx int, totals []int64) int64 {
	var total int64
	for _, f := range t.nodes[idx].Files {
		total += f.Size
	}
	for _, child := range t.nodes[idx].Children {
		total += t.fillTotals(child, totals)
	}
	totals[idx] = total
	return total
}
