package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tangomine/tangomine/internal/model"
)

// csvHeader is the fixed column order of the word list.
// Tools built against the exported list depend on these positions.
var csvHeader = []string{
	"word",
	"index",
	"frequency",
	"frequency_normalized",
	"reading",
	"definition",
	"tags",
}

// CSVWriter outputs the word table as delimiter-separated values.
// This format is designed for spreadsheets and flashcard importers.
//
// Design decision: We use encoding/csv rather than hand-rolled joining
// because definitions routinely contain commas, quotes, and line breaks,
// and the csv package handles the quoting rules correctly.
type CSVWriter struct {
	baseWriter

	// delimiter separates fields. Comma by default, tab for TSV output.
	delimiter rune
}

// CSVWriterOption configures a CSVWriter.
type CSVWriterOption func(*CSVWriter)

// WithDelimiter sets the field delimiter.
// Pass '\t' for tab-separated output.
func WithDelimiter(delimiter rune) CSVWriterOption {
	return func(w *CSVWriter) {
		if delimiter != 0 {
			w.delimiter = delimiter
		}
	}
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer, opts ...CSVWriterOption) *CSVWriter {
	w := &CSVWriter{
		baseWriter: newBaseWriter(output),
		delimiter:  ',',
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the word table, one row per word ordered by first
// occurrence, preceded by a header row.
func (w *CSVWriter) Write(report *model.MiningReport) (int, error) {
	var buf bytes.Buffer

	cw := csv.NewWriter(&buf)
	cw.Comma = w.delimiter

	if err := cw.Write(csvHeader); err != nil {
		return 0, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, word := range report.Words.Sorted() {
		row := []string{
			word.Lemma,
			strconv.Itoa(word.FirstIndex),
			strconv.Itoa(word.Frequency),
			strconv.FormatFloat(word.Score, 'f', -1, 64),
			word.Reading,
			word.Definition,
			strings.Join(word.SortedTags(), ";"),
		}
		if err := cw.Write(row); err != nil {
			return 0, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("failed to flush csv output: %w", err)
	}

	return w.output.Write(buf.Bytes())
}
