package report

import (
	"fmt"
	"strconv"
	"strings"

	"checadas.com/ponches/model"
)

// Mode picks the column layout of the report.
type Mode string

const (
	// Basic is one row per punch with date and time in separate columns.
	Basic Mode = "basic"
	// Detailed is the attendance import layout with a combined timestamp and
	// the fixed work code, reason and comment columns.
	Detailed Mode = "detailed"
)

type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

var (
	basicHeader    = []string{"Empleado", "Fecha", "Hora", "EntradaSalida"}
	detailedHeader = []string{
		"Empleado",
		"Fecha y Hora de Checada",
		"Estado de Asistencia",
		"Código de Trabajo",
		"Motivo",
		"Comentarios",
	}
)

type Options struct {
	Format    Format
	Mode      Mode
	SheetName string
	WorkCode  int
	Reason    string
	Comment   string
	RunID     string
}

func DefaultOptions() Options {
	return Options{
		Format:   XLSX,
		Mode:     Basic,
		WorkCode: 1,
		Reason:   "Manual",
	}
}

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", Basic:
		return Basic, nil
	case Detailed:
		return Detailed, nil
	}
	return "", fmt.Errorf("unknown report mode %q", s)
}

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))) {
	case "", XLSX:
		return XLSX, nil
	case CSV:
		return CSV, nil
	}
	return "", fmt.Errorf("unknown report format %q", s)
}

func (f Format) Extension() string {
	return "." + string(f)
}

func (f Format) ContentType() string {
	if f == CSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Sheet returns the configured sheet name or the default one for the mode.
func (o Options) Sheet() string {
	if o.SheetName != "" {
		return o.SheetName
	}
	if o.Mode == Detailed {
		return "Checadas"
	}
	return "Ponches"
}

func Header(mode Mode) []string {
	if mode == Detailed {
		return detailedHeader
	}
	return basicHeader
}

// values returns the typed cells of a row. The timestamp is kept as a
// time.Time in detailed mode so spreadsheets get a real date cell.
func (o Options) values(r model.ReportRow) []any {
	if o.Mode == Detailed {
		return []any{r.EmployeeID, r.Timestamp(), int(r.Flag), o.WorkCode, o.Reason, o.Comment}
	}
	return []any{r.EmployeeID, r.Date(), r.Time(), int(r.Flag)}
}

// record renders a row as text.
func (o Options) record(r model.ReportRow) []string {
	if o.Mode == Detailed {
		return []string{
			r.EmployeeID,
			r.Timestamp().Format(model.DateTimeLayout),
			strconv.Itoa(int(r.Flag)),
			strconv.Itoa(o.WorkCode),
			o.Reason,
			o.Comment,
		}
	}
	return []string{r.EmployeeID, r.Date(), r.Time(), strconv.Itoa(int(r.Flag))}
}
