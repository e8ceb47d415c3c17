package report

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"checadas.com/ponches/model"
)

// Write serializes the ordered rows in the configured format and layout.
// Rows are written as given.
func Write(w io.Writer, rows []model.ReportRow, opts Options) error {
	switch opts.Format {
	case CSV:
		return writeCSV(w, rows, opts)
	case XLSX, "":
		return writeXLSX(w, rows, opts)
	}
	return fmt.Errorf("unknown report format %q", opts.Format)
}

func Bytes(rows []model.ReportRow, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, rows, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile renders the whole report in memory before creating path.
func WriteFile(path string, rows []model.ReportRow, opts Options) error {
	data, err := Bytes(rows, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
