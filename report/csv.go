package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"checadas.com/ponches/model"
)

// utf-8 byte order mark, so spreadsheet software reads the accented headers
const bom = "\ufeff"

func writeCSV(w io.Writer, rows []model.ReportRow, opts Options) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header(opts.Mode)); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(opts.record(r)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
