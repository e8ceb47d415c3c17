package report

import (
	"fmt"
	"io"
	"unicode/utf8"

	"checadas.com/ponches/model"
	"github.com/xuri/excelize/v2"
)

const (
	columnPadding  = 4
	dateTimeNumFmt = "yyyy-mm-dd hh:mm:ss"
)

func writeXLSX(w io.Writer, rows []model.ReportRow, opts Options) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := opts.Sheet()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet %s: %w", sheet, err)
	}

	header := Header(opts.Mode)
	widths := make([]int, len(header))
	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
		widths[i] = utf8.RuneCountInString(h)
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := opts.values(r)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
		for c, text := range opts.record(r) {
			if n := utf8.RuneCountInString(text); n > widths[c] {
				widths[c] = n
			}
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return err
	}

	if opts.Mode == Detailed && len(rows) > 0 {
		numFmt := dateTimeNumFmt
		style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
		if err != nil {
			return err
		}
		end, err := excelize.CoordinatesToCellName(2, len(rows)+1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "B2", end, style); err != nil {
			return err
		}
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, float64(width+columnPadding)); err != nil {
			return fmt.Errorf("failed to set width of column %s: %w", col, err)
		}
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:      sheet,
		Creator:    "ponches",
		Identifier: opts.RunID,
	}); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}
