package batch

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rs/zerolog"
)

const (
	FormatJSONL   = "jsonl"
	FormatSummary = "summary"
)

var ErrUnsupportedFormat = errors.New("unsupported output format")

// Writer emits results either as JSON Lines or as a table with one row per
// trace, flushed on Close.
type Writer struct {
	format string
	enc    *json.Encoder
	table  *tabwriter.Writer
	total  int
	failed int
	logger *zerolog.Logger
}

func NewWriter(w io.Writer, format string, logger *zerolog.Logger) (*Writer, error) {
	writer := &Writer{format: format, logger: logger}

	switch format {
	case FormatJSONL:
		writer.enc = json.NewEncoder(w)
	case FormatSummary:
		writer.table = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(writer.table, "ID\tLINE\tSMALL DIRS TOTAL\tDELETE SIZE\tDELETE PATH\tERROR")
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	return writer, nil
}

func (w *Writer) Write(result Result) error {
	w.total++
	if result.Failed() {
		w.failed++
	}

	if w.enc != nil {
		return w.enc.Encode(result)
	}

	if result.Failed() {
		_, err := fmt.Fprintf(w.table, "%s\t%d\t-\t-\t-\t%s\n", result.ID, result.LineNumber, result.Error)
		return err
	}

	_, err := fmt.Fprintf(w.table, "%s\t%d\t%d\t%d\t%s\t\n",
		result.ID,
		result.LineNumber,
		result.Report.SmallDirsTotal,
		result.Report.DeleteCandidate.Size,
		result.Report.DeleteCandidate.Path,
	)
	return err
}

// Close flushes the summary table. JSON Lines output needs no flushing.
func (w *Writer) Close() error {
	w.logger.Debug().Int("total", w.total).Int("failed", w.failed).Msg("Writer closed")

	if w.table == nil {
		return nil
	}

	fmt.Fprintf(w.table, "\ntotal: %d, failed: %d\n", w.total, w.failed)
	return w.table.Flush()
}
