package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/povarna/generative-ai-agents/fs-agent/internal/setup"
)

const exampleTrace = `$ cd /
$ ls
dir a
14848514 b.txt
8504156 c.dat
dir d
$ cd a
$ ls
dir e
29116 f
2557 g
62596 h.lst
$ cd e
$ ls
584 i
$ cd ..
$ cd ..
$ cd d
$ ls
4060174 j
8033020 d.log
5626152 d.ext
7214296 k
`

const expectedOutput = `Part 1 | What is the sum of the total sizes of those directories with a total size of at most 100000?
Answer: 95437
Part 2 | What is the total size of the smallest directory to be deleted to create 30000000 of free space?
Answer: 24933642
`

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}
	return path
}

func testConfig(t *testing.T) *setup.Config {
	t.Helper()
	// Point at a missing file so defaults apply regardless of the working dir
	t.Setenv("LIMITS_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	return &setup.Config{LogLevel: "disabled"}
}

func TestRun_Example(t *testing.T) {
	cfg := testConfig(t)

	var out bytes.Buffer
	if err := run(context.Background(), cfg, writeInput(t, exampleTrace), &out); err != nil {
		t.Fatalf("run() failed: %v", err)
	}

	if out.String() != expectedOutput {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", out.String(), expectedOutput)
	}
}

func TestRun_ErrorPrintsNothing(t *testing.T) {
	cfg := testConfig(t)

	testCases := []struct {
		name  string
		input string
	}{
		{name: "unknown directory", input: "$ cd /\n$ cd missing\n"},
		{name: "invalid size", input: "$ cd /\n$ ls\nabc f\n"},
		{name: "empty input", input: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := run(context.Background(), cfg, writeInput(t, tc.input), &out); err == nil {
				t.Fatal("expected error")
			}
			if out.Len() != 0 {
				t.Errorf("expected no output, got %q", out.String())
			}
		})
	}
}

func TestRun_MissingFile(t *testing.T) {
	cfg := testConfig(t)

	var out bytes.Buffer
	err := run(context.Background(), cfg, filepath.Join(t.TempDir(), "nope.txt"), &out)
	if err == nil {
		t.Fatal("expected error for missing input file")
	}
}
