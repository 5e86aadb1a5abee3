package fstree

import (
	"bytes"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/povarna/generative-ai-agents/fs-agent/internal/models"
	"github.com/povarna/generative-ai-agents/fs-agent/internal/trace"
	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

var exampleTrace = []string{
	"$ cd /",
	"$ ls",
	"dir a",
	"14848514 b.txt",
	"8504156 c.dat",
	"dir d",
	"$ cd a",
	"$ ls",
	"dir e",
	"29116 f",
	"2557 g",
	"62596 h.lst",
	"$ cd e",
	"$ ls",
	"584 i",
	"$ cd ..",
	"$ cd ..",
	"$ cd d",
	"$ ls",
	"4060174 j",
	"8033020 d.log",
	"5626152 d.ext",
	"7214296 k",
}

func buildExample(t *testing.T) *Tree {
	t.Helper()
	tree, err := NewBuilder(newTestLogger()).Build(exampleTrace)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	return tree
}

func TestBuild_Example(t *testing.T) {
	tree := buildExample(t)

	expected := []models.DirSize{
		{Path: "/", Size: 48381165},
		{Path: "/a", Size: 94853},
		{Path: "/a/e", Size: 584},
		{Path: "/d", Size: 24933642},
	}

	if got := tree.Sizes(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Sizes() = %v; want %v", got, expected)
	}
	if tree.RootSize() != 48381165 {
		t.Errorf("expected root size 48381165, got %d", tree.RootSize())
	}
}

func TestBuild_AbbreviatedExample(t *testing.T) {
	// Same session without the nested "e" directory.
	lines := []string{
		"$ cd /",
		"$ ls",
		"dir a",
		"14848514 b.txt",
		"8504156 c.dat",
		"dir d",
		"$ cd a",
		"$ ls",
		"29116 f",
		"2557 g",
		"62596 h.lst",
		"$ cd ..",
		"$ cd d",
		"$ ls",
		"4060174 j",
		"8033020 d.log",
		"5626152 d.ext",
		"7214296 k",
	}

	tree, err := NewBuilder(newTestLogger()).Build(lines)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	a, _ := tree.Child(RootIndex, "a")
	d, _ := tree.Child(RootIndex, "d")
	if tree.Size(a) != 94269 {
		t.Errorf("expected a=94269, got %d", tree.Size(a))
	}
	if tree.Size(d) != 24933642 {
		t.Errorf("expected d=24933642, got %d", tree.Size(d))
	}
	if tree.RootSize() != 48380581 {
		t.Errorf("expected root=48380581, got %d", tree.RootSize())
	}
}

func TestSizeInvariant(t *testing.T) {
	tree := buildExample(t)

	for idx := 0; idx < tree.Len(); idx++ {
		node := tree.Node(idx)

		var expected int64
		for _, f := range node.Files {
			expected += f.Size
		}
		for _, child := range node.Children {
			expected += tree.Size(child)
		}

		if got := tree.Size(idx); got != expected {
			t.Errorf("%s: Size() = %d; want %d", tree.Path(idx), got, expected)
		}
	}
}

func TestSizes_Idempotent(t *testing.T) {
	tree := buildExample(t)

	first := tree.Sizes()
	second := tree.Sizes()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Sizes() not idempotent: %v vs %v", first, second)
	}
}

func TestSizes_EmptyLeafReportsZero(t *testing.T) {
	lines := []string{
		"$ cd /",
		"$ ls",
		"dir empty",
		"100 file",
		"$ cd empty",
		"$ ls",
	}

	tree, err := NewBuilder(newTestLogger()).Build(lines)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	sizes := tree.Sizes()
	if len(sizes) != 2 {
		t.Fatalf("expected 2 directories, got %d", len(sizes))
	}
	if sizes[1].Path != "/empty" || sizes[1].Size != 0 {
		t.Errorf("expected /empty with size 0, got %+v", sizes[1])
	}
}

func TestSizes_RootOnly(t *testing.T) {
	tree := New()
	sizes := tree.Sizes()

	if len(sizes) != 1 || sizes[0].Size != 0 || sizes[0].Path != "/" {
		t.Errorf("expected single empty root, got %v", sizes)
	}
}

func TestBuild_DuplicateDirectoriesStayDistinct(t *testing.T) {
	lines := []string{
		"$ cd /",
		"$ ls",
		"dir x",
		"dir x",
		"$ cd x",
		"$ ls",
		"10 f",
	}

	tree, err := NewBuilder(newTestLogger()).Build(lines)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	root := tree.Node(RootIndex)
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 sibling directories, got %d", len(root.Children))
	}

	first, second := root.Children[0], root.Children[1]
	if tree.Size(first) != 10 {
		t.Errorf("expected cd to resolve to the first x (size 10), got %d", tree.Size(first))
	}
	if tree.Size(second) != 0 {
		t.Errorf("expected second x to stay empty, got %d", tree.Size(second))
	}
}

func TestBuild_CdBackToRoot(t *testing.T) {
	lines := []string{
		"$ cd /",
		"$ ls",
		"dir a",
		"dir b",
		"$ cd a",
		"$ ls",
		"dir c",
		"$ cd c",
		"$ ls",
		"5 f",
		"$ cd /",
		"$ cd b",
		"$ ls",
		"7 g",
	}

	tree, err := NewBuilder(newTestLogger()).Build(lines)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	b, ok := tree.Child(RootIndex, "b")
	if !ok {
		t.Fatal("expected directory b under root")
	}
	if tree.Size(b) != 7 {
		t.Errorf("expected b=7, got %d", tree.Size(b))
	}
	if tree.RootSize() != 12 {
		t.Errorf("expected root=12, got %d", tree.RootSize())
	}
}

func TestBuild_CdParentAtRoot(t *testing.T) {
	lines := []string{
		"$ cd /",
		"$ ls",
		"dir a",
		"$ cd ..",
		"$ ls",
		"3 f",
	}

	tree, err := NewBuilder(newTestLogger()).Build(lines)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if tree.RootSize() != 3 {
		t.Errorf("expected root=3, got %d", tree.RootSize())
	}
}

func TestBuild_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		lines    []string
		expected error
		line     int
	}{
		{
			name:     "empty trace",
			lines:    nil,
			expected: ErrEmptyTrace,
		},
		{
			name:     "missing root",
			lines:    []string{"$ ls", "10 f"},
			expected: ErrMissingRoot,
			line:     1,
		},
		{
			name:     "unknown directory",
			lines:    []string{"$ cd /", "$ ls", "dir a", "$ cd b"},
			expected: ErrDirectoryNotFound,
			line:     4,
		},
		{
			name:     "cd before listing",
			lines:    []string{"$ cd /", "$ cd a"},
			expected: ErrDirectoryNotFound,
			line:     2,
		},
		{
			name:     "invalid size",
			lines:    []string{"$ cd /", "$ ls", "12x f"},
			expected: trace.ErrInvalidSize,
			line:     3,
		},
		{
			name:     "empty line",
			lines:    []string{"$ cd /", "$ ls", "", "1 f"},
			expected: trace.ErrEmptyLine,
			line:     3,
		},
		{
			name:     "nested error",
			lines:    []string{"$ cd /", "$ ls", "dir a", "$ cd a", "$ ls", "x y"},
			expected: trace.ErrInvalidSize,
			line:     6,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tree, err := NewBuilder(newTestLogger()).Build(tc.lines)
			if tree != nil {
				t.Errorf("expected no tree on error, got %v", tree)
			}
			if !errors.Is(err, tc.expected) {
				t.Fatalf("Build() error = %v; want %v", err, tc.expected)
			}

			if tc.line == 0 {
				return
			}
			var lineErr *trace.LineError
			if !errors.As(err, &lineErr) {
				t.Fatalf("expected *trace.LineError, got %T", err)
			}
			if lineErr.Line != tc.line {
				t.Errorf("expected error on line %d, got %d", tc.line, lineErr.Line)
			}
		})
	}
}

func TestPath(t *testing.T) {
	tree := New()
	a := tree.AddDir(RootIndex, "a")
	b := tree.AddDir(a, "b")

	if got := tree.Path(RootIndex); got != "/" {
		t.Errorf("Path(root) = %q", got)
	}
	if got := tree.Path(b); got != "/a/b" {
		t.Errorf("Path(b) = %q; want /a/b", got)
	}
}

func TestNode_ReturnsIndependentCopy(t *testing.T) {
	tree := New()
	tree.AddDir(RootIndex, "a")
	if err := tree.AddFile(RootIndex, models.FileEntry{Name: "x", Size: 10}); err != nil {
		t.Fatalf("AddFile() failed: %v", err)
	}

	node := tree.Node(RootIndex)
	node.Files[0].Size = 999
	node.Children[0] = 42

	if tree.RootSize() != 10 {
		t.Errorf("expected root size 10 after mutating the copy, got %d", tree.RootSize())
	}
	if _, ok := tree.Child(RootIndex, "a"); !ok {
		t.Error("expected child a to be unaffected by mutating the copy")
	}
}

func TestAddFile_Overflow(t *testing.T) {
	tree := New()
	a := tree.AddDir(RootIndex, "a")

	if err := tree.AddFile(a, models.FileEntry{Name: "big", Size: math.MaxInt64}); err != nil {
		t.Fatalf("AddFile() failed: %v", err)
	}
	if err := tree.AddFile(RootIndex, models.FileEntry{Name: "one", Size: 1}); !errors.Is(err, ErrSizeOverflow) {
		t.Fatalf("expected ErrSizeOverflow, got %v", err)
	}
	if tree.RootSize() != math.MaxInt64 {
		t.Errorf("expected rejected file to be left out, got root size %d", tree.RootSize())
	}
}

func TestBuild_SizeOverflow(t *testing.T) {
	lines := []string{
		"$ cd /",
		"$ ls",
		"dir a",
		"9223372036854775807 big",
		"$ cd a",
		"$ ls",
		"1 f",
	}

	_, err := NewBuilder(newTestLogger()).Build(lines)
	if !errors.Is(err, ErrSizeOverflow) {
		t.Fatalf("expected ErrSizeOverflow, got %v", err)
	}

	var lineErr *trace.LineError
	if !errors.As(err, &lineErr) || lineErr.Line != 7 {
		t.Errorf("expected error on line 7, got %v", err)
	}
}

func TestBuild_TraceLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.TraceLevel)

	if _, err := NewBuilder(&logger).Build(exampleTrace); err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"dir":"/a/e"`) {
		t.Errorf("expected trace logs with directory paths, got %s", buf.String())
	}

	buf.Reset()
	quiet := zerolog.New(&buf).Level(zerolog.InfoLevel)
	if _, err := NewBuilder(&quiet).Build(exampleTrace); err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output at info level, got %s", buf.String())
	}
}
