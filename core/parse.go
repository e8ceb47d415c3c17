package core

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"checadas.com/ponches/model"
)

// Whitespace includes \v, NEL and Unicode separators such as NBSP, which
// leniently decoded exports carry as padding.
const space = `\s\v\x{85}\p{Z}`

// employee > yyyy/m/d:hh:mm, with - or / between date parts and : or
// whitespace between date and time
var lineRE = regexp.MustCompile(`^[` + space + `]*(\d+)[` + space + `]*>[` + space + `]*` +
	`(\d{4})[/-](\d{1,2})[/-](\d{1,2})[` + space + `]*[:` + space + `][` + space + `]*` +
	`(\d{1,2}):(\d{2})[` + space + `]*$`)

// ParseLine turns one raw terminal line into a punch event. Lines that do
// not match the terminal format, or whose date or time is not a real
// calendar value, report ok=false.
func ParseLine(line string) (model.PunchEvent, bool) {
	m := lineRE.FindStringSubmatch(line)
	if m == nil {
		return model.PunchEvent{}, false
	}

	var fields [5]int
	for i := range fields {
		n, err := strconv.Atoi(m[i+2])
		if err != nil {
			return model.PunchEvent{}, false
		}
		fields[i] = n
	}

	ts, ok := NewTimestamp(fields[0], fields[1], fields[2], fields[3], fields[4])
	if !ok {
		return model.PunchEvent{}, false
	}

	return model.NewPunchEvent(NormalizeEmployeeID(m[1]), ts), true
}

// NormalizeEmployeeID strips leading zeros. An id made only of zeros
// becomes "0".
func NormalizeEmployeeID(raw string) string {
	id := strings.TrimLeft(strings.TrimSpace(raw), "0")
	if id == "" {
		return "0"
	}
	return id
}

// NewTimestamp builds a wall clock time from its parts. time.Date silently
// rolls overflowing values into the next unit, so the result is compared
// back against the inputs and rejected when anything moved.
func NewTimestamp(year, month, day, hour, minute int) (time.Time, bool) {
	if year < 1 || month < 1 || month > 12 || day < 1 || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
