package core

import (
	"fmt"
	"sort"
	"strings"

	"checadas.com/ponches/model"
)

// IDOrder selects how employee ids are compared when sorting the report.
type IDOrder string

const (
	// NumericOrder sorts ids by their numeric value, so "2" comes before "10".
	NumericOrder IDOrder = "numeric"
	// LexicalOrder sorts ids as plain strings, so "10" comes before "2".
	LexicalOrder IDOrder = "lexical"
)

func ParseIDOrder(s string) (IDOrder, error) {
	switch IDOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", NumericOrder:
		return NumericOrder, nil
	case LexicalOrder:
		return LexicalOrder, nil
	}
	return "", fmt.Errorf("unknown id order %q", s)
}

// CompareEmployeeIDs returns -1, 0 or 1. Normalized ids are digit runs
// without leading zeros, so a shorter id is always the smaller number and
// ids of equal length compare like strings. This holds for ids too long for
// any integer type.
func CompareEmployeeIDs(a, b string, order IDOrder) int {
	if order != LexicalOrder && len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// Assemble sorts the rows by employee, day, time of day and flag. The input
// slice is left untouched.
func Assemble(rows []model.ReportRow, order IDOrder) []model.ReportRow {
	out := make([]model.ReportRow, len(rows))
	copy(out, rows)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if c := CompareEmployeeIDs(a.EmployeeID, b.EmployeeID, order); c != 0 {
			return c < 0
		}
		if !a.Day.Equal(b.Day) {
			return a.Day.Before(b.Day)
		}
		if a.TimeOfDay != b.TimeOfDay {
			return a.TimeOfDay < b.TimeOfDay
		}
		return a.Flag < b.Flag
	})
	return out
}
