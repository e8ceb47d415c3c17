package model

import (
	"fmt"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// Flag marks a report row as the first (entry) or last (exit) punch of the day.
type Flag int

const (
	Entry Flag = iota
	Exit
)

func (f Flag) String() string {
	switch f {
	case Entry:
		return "entry"
	case Exit:
		return "exit"
	default:
		return fmt.Sprintf("flag(%d)", int(f))
	}
}

// PunchEvent is a single badge event with a normalized employee id and a
// minute precision wall clock timestamp. Fields are unexported so an event
// can only be built through NewPunchEvent and never changed afterwards.
type PunchEvent struct {
	employeeID string
	timestamp  time.Time
}

func NewPunchEvent(employeeID string, timestamp time.Time) PunchEvent {
	return PunchEvent{
		employeeID: employeeID,
		timestamp:  timestamp.Truncate(time.Minute),
	}
}

func (p PunchEvent) EmployeeID() string {
	return p.employeeID
}

func (p PunchEvent) Timestamp() time.Time {
	return p.timestamp
}

// Day is the calendar date of the punch, at midnight.
func (p PunchEvent) Day() time.Time {
	t := p.timestamp
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// TimeOfDay is the offset of the punch from the start of its day.
func (p PunchEvent) TimeOfDay() time.Duration {
	return p.timestamp.Sub(p.Day())
}

func (p PunchEvent) String() string {
	return fmt.Sprintf("%s@%s", p.employeeID, p.timestamp.Format("2006-01-02 15:04"))
}

// ReportRow is one line of the consolidated report.
type ReportRow struct {
	EmployeeID string
	Day        time.Time
	TimeOfDay  time.Duration
	Flag       Flag
}

func NewReportRow(p PunchEvent, flag Flag) ReportRow {
	return ReportRow{
		EmployeeID: p.EmployeeID(),
		Day:        p.Day(),
		TimeOfDay:  p.TimeOfDay(),
		Flag:       flag,
	}
}

// Timestamp recombines the row's day and time of day.
func (r ReportRow) Timestamp() time.Time {
	return r.Day.Add(r.TimeOfDay)
}

func (r ReportRow) Date() string {
	return r.Day.Format(DateLayout)
}

func (r ReportRow) Time() string {
	return r.Timestamp().Format(TimeLayout)
}
