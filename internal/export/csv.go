// Package export writes a field mapping out as CSV or XLSX.
package export

import (
	"encoding/csv"
	"io"

	"glrfill/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the header row shared by every export format.
var columns = []string{"Placeholder", "Value"}

// Writer wraps csv.Writer for exporting a field mapping as CSV.
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

// WriteFields writes one row per placeholder, in Keys order.
func (w *Writer) WriteFields(fields domain.FieldMapping) error {
	for _, k := range fields.Keys() {
		if err := w.csv.Write([]string{k, fields[k]}); err != nil {
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

// WriteCSV writes the BOM, header and rows for fields to out.
func WriteCSV(out io.Writer, fields domain.FieldMapping) error {
	if _, err := out.Write(BOM); err != nil {
		return err
	}
	w := NewWriter(out)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteFields(fields); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
