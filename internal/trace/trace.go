// Package trace classifies and parses the lines of a shell session log made of
// `$ cd`, `$ ls` commands and their listing output.
package trace

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	cmdMoveUp   = "$ cd .."
	cmdCdPrefix = "$ cd"
	cmdList     = "$ ls"
	lsDirPrefix = "dir "
	RootDirName = "/"
)

var (
	ErrEmptyLine     = errors.New("empty line")
	ErrMalformedLine = errors.New("malformed line")
	ErrInvalidSize   = errors.New("invalid file size")
)

type LineKind int

const (
	MoveToParent LineKind = iota
	MoveInto
	List
	ListDir
	ListFile
)

func (k LineKind) String() string {
	switch k {
	case MoveToParent:
		return "move to parent"
	case MoveInto:
		return "move into directory"
	case List:
		return "list directory"
	case ListDir:
		return "listing: subdirectory"
	case ListFile:
		return "listing: file"
	default:
		return fmt.Sprintf("LineKind(%d)", int(k))
	}
}

// Statement is a parsed trace line. Name is set for MoveInto, ListDir and
// ListFile; Size only for ListFile.
type Statement struct {
	Line int
	Kind LineKind
	Name string
	Size int64
}

// LineError reports a failure tied to a 1-based trace line.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Classify returns the kind of a line. The checks run in a fixed order and
// the first match wins; anything unrecognised is a file listing.
func Classify(line string) LineKind {
	switch {
	case strings.HasPrefix(line, cmdMoveUp):
		return MoveToParent
	case strings.HasPrefix(line, cmdCdPrefix):
		return MoveInto
	case strings.HasPrefix(line, cmdList):
		return List
	case strings.HasPrefix(line, lsDirPrefix):
		return ListDir
	default:
		return ListFile
	}
}

// Parse classifies line and extracts its arguments. lineNo is only used for
// error reporting.
func Parse(lineNo int, line string) (Statement, error) {
	stmt := Statement{Line: lineNo}

	if strings.TrimSpace(line) == "" {
		return stmt, &LineError{Line: lineNo, Text: line, Err: ErrEmptyLine}
	}

	stmt.Kind = Classify(line)
	fields := strings.Fields(line)

	switch stmt.Kind {
	case MoveToParent, List:
		return stmt, nil

	case MoveInto:
		if len(fields) < 3 {
			return stmt, &LineError{Line: lineNo, Text: line, Err: fmt.Errorf("%w: cd without target", ErrMalformedLine)}
		}
		stmt.Name = fields[2]
		return stmt, nil

	case ListDir:
		if len(fields) < 2 {
			return stmt, &LineError{Line: lineNo, Text: line, Err: fmt.Errorf("%w: dir without name", ErrMalformedLine)}
		}
		stmt.Name = fields[1]
		return stmt, nil

	default:
		if len(fields) < 2 {
			return stmt, &LineError{Line: lineNo, Text: line, Err: fmt.Errorf("%w: expected \"<size> <name>\"", ErrMalformedLine)}
		}
		size, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil || size < 0 {
			return stmt, &LineError{Line: lineNo, Text: line, Err: fmt.Errorf("%w: %q", ErrInvalidSize, fields[0])}
		}
		stmt.Name = fields[1]
		stmt.Size = size
		return stmt, nil
	}
}

// SplitLines splits a trace into lines. Carriage returns are trimmed and the
// empty string left by a terminating newline is dropped.
func SplitLines(input string) []string {
	if input == "" {
		return nil
	}

	lines := strings.Split(input, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
