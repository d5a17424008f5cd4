package export

import (
	"encoding/csv"
	"io"
	"time"

	"labelscan/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the summary header row shared by the CSV and XLSX exports.
var columns = []string{
	"File Name",
	"Status",
	"Failure Kind",
	"Extracted Text",
	"Message",
	"Batch ID",
	"Finished At",
}

const (
	statusSucceeded = "succeeded"
	statusFailed    = "failed"
)

// Writer wraps csv.Writer for exporting a batch outcome as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteOutcome writes one row per result followed by one row per failure.
func (w *Writer) WriteOutcome(outcome *domain.BatchOutcome) error {
	for _, row := range outcomeRows(outcome) {
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// WriteCSV writes a complete CSV summary, BOM included, to out.
func WriteCSV(out io.Writer, outcome *domain.BatchOutcome) error {
	if _, err := out.Write(BOM); err != nil {
		return err
	}
	w := NewWriter(out)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteOutcome(outcome); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func outcomeRows(outcome *domain.BatchOutcome) [][]string {
	rows := make([][]string, 0, len(outcome.Results)+len(outcome.Failures))
	batchID := outcome.ID.String()
	finished := formatTime(outcome.FinishedAt)

	for _, r := range outcome.Results {
		rows = append(rows, []string{r.Filename, statusSucceeded, "", r.ExtractedText, "", batchID, finished})
	}
	for _, f := range outcome.Failures {
		rows = append(rows, []string{f.Filename, statusFailed, string(f.Kind), "", f.Message, batchID, finished})
	}
	return rows
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
