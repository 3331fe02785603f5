// Package report prints the tcrd reports as tab-separated lines or, for
// interactive use, as pterm tables.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"tcrdcore/internal/errors"
)

// Writer emits report lines and sections. The first write error sticks and
// turns later calls into no-ops; lines already written stay written.
type Writer struct {
	out   io.Writer
	table bool
	err   error
}

// New returns a Writer. table selects pterm rendering for sections.
func New(out io.Writer, table bool) *Writer {
	return &Writer{out: out, table: table}
}

// Err returns the first write error.
func (w *Writer) Err() error { return w.err }

// Linef writes one formatted line.
func (w *Writer) Linef(format string, args ...any) {
	if w.err != nil {
		return
	}
	if _, err := fmt.Fprintf(w.out, format+"\n", args...); err != nil {
		w.err = errors.MarkIO(err, "write report")
	}
}

// Blank writes an empty line.
func (w *Writer) Blank() { w.Linef("") }

// Section writes a header row followed by rows. A nil header writes rows only.
func (w *Writer) Section(header []string, rows [][]string) {
	if w.err != nil {
		return
	}
	if w.table && len(rows) > 0 {
		w.renderTable(header, rows)
		return
	}
	if header != nil {
		w.Linef("%s", strings.Join(header, "\t"))
	}
	for _, row := range rows {
		w.Linef("%s", strings.Join(row, "\t"))
	}
}

func (w *Writer) renderTable(header []string, rows [][]string) {
	data := make(pterm.TableData, 0, len(rows)+1)
	if header != nil {
		data = append(data, header)
	}
	data = append(data, rows...)
	out, err := pterm.DefaultTable.
		WithHasHeader(header != nil).
		WithBoxed(true).
		WithData(data).
		Srender()
	if err != nil {
		w.err = errors.Wrap(err, "render table")
		return
	}
	w.Linef("%s", strings.TrimRight(out, "\n"))
}

// Float formats an optional float the way the reports print it.
func Float(v *float64) string {
	if v == nil {
		return "null"
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

// Str formats an optional string, with null for absent values.
func Str(v *string) string {
	if v == nil {
		return "null"
	}
	return *v
}
