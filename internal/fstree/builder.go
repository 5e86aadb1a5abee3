package fstree

import (
	"errors"
	"fmt"

	"github.com/povarna/generative-ai-agents/fs-agent/internal/models"
	"github.com/povarna/generative-ai-agents/fs-agent/internal/trace"
	"github.com/rs/zerolog"
)

var (
	ErrEmptyTrace        = errors.New("empty trace")
	ErrMissingRoot       = errors.New("trace must start with \"$ cd /\"")
	ErrDirectoryNotFound = errors.New("directory not found")
)

type Builder struct {
	logger *zerolog.Logger
}

func NewBuilder(logger *zerolog.Logger) *Builder {
	return &Builder{
		logger: logger,
	}
}

// Build interprets a trace and returns the reconstructed tree. The first line
// must be "$ cd /"; interpretation starts on the second line with the root as
// the current directory.
func (b *Builder) Build(lines []string) (*Tree, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyTrace
	}

	first, err := trace.Parse(1, lines[0])
	if err != nil {
		return nil, err
	}
	if first.Kind != trace.MoveInto || first.Name != trace.RootDirName {
		return nil, &trace.LineError{Line: 1, Text: lines[0], Err: ErrMissingRoot}
	}

	tree := New()
	b.logger.Debug().Int("lines", len(lines)).Msg("interpreting trace")

	// A level only returns early on "$ cd .." or "$ cd /". Either way the root
	// is the current directory again, so keep going until the trace ends.
	idx := 1
	for idx < len(lines) {
		idx, _, err = b.interpret(tree, lines, idx, RootIndex)
		if err != nil {
			return nil, err
		}
	}

	b.logger.Debug().
		Int("directories", tree.Len()).
		Int64("root_size", tree.RootSize()).
		Msg("trace interpreted")
	return tree, nil
}

// interpret consumes lines from idx with cwd as the current directory until
// the trace ends or a "$ cd .." is read. It returns the next unprocessed line
// index and whether the caller must unwind to the root.
func (b *Builder) interpret(tree *Tree, lines []string, idx int, cwd int) (int, bool, error) {
	for idx < len(lines) {
		stmt, err := trace.Parse(idx+1, lines[idx])
		if err != nil {
			return idx, false, err
		}

		if e := b.logger.Trace(); e.Enabled() {
			e.Str("dir", tree.Path(cwd)).
				Int("line", stmt.Line).
				Str("kind", stmt.Kind.String()).
				Msg("processing line")
		}

		switch stmt.Kind {
		case trace.List:
			idx++

		case trace.ListDir:
			tree.AddDir(cwd, stmt.Name)
			idx++

		case trace.ListFile:
			if err := tree.AddFile(cwd, models.FileEntry{Name: stmt.Name, Size: stmt.Size}); err != nil {
				return idx, false, &trace.LineError{Line: stmt.Line, Text: lines[idx], Err: err}
			}
			idx++

		case trace.MoveToParent:
			return idx + 1, false, nil

		case trace.MoveInto:
			if stmt.Name == trace.RootDirName {
				return idx + 1, true, nil
			}

			child, ok := tree.Child(cwd, stmt.Name)
			if !ok {
				return idx, false, &trace.LineError{
					Line: stmt.Line,
					Text: lines[idx],
					Err:  fmt.Errorf("%w: %q in %s", ErrDirectoryNotFound, stmt.Name, tree.Path(cwd)),
				}
			}

			b.logger.Debug().
				Str("from", tree.Path(cwd)).
				Str("to", tree.Path(child)).
				Msg("moving into subdirectory")

			next, toRoot, err := b.interpret(tree, lines, idx+1, child)
			if err != nil || toRoot {
				return next, toRoot, err
			}
			idx = next
		}
	}

	return idx, false, nil
}
