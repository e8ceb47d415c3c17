package core

import (
	"sort"
	"time"

	"checadas.com/ponches/model"
	"checadas.com/ponches/utils"
)

type dayKey struct {
	employeeID string
	day        time.Time
}

// RecordGroup holds every punch of one employee on one calendar day,
// sorted by time. Punches sharing a timestamp keep their input order.
type RecordGroup struct {
	EmployeeID string
	Day        time.Time
	Records    []model.PunchEvent
}

func (rg *RecordGroup) GetClockIn() (model.PunchEvent, bool) {
	if len(rg.Records) == 0 {
		return model.PunchEvent{}, false
	}
	return rg.Records[0], true
}

// GetClockOut returns the latest punch of the day. When several punches
// share the latest time the one seen first in the input wins.
func (rg *RecordGroup) GetClockOut() (model.PunchEvent, bool) {
	if len(rg.Records) == 0 {
		return model.PunchEvent{}, false
	}
	last := len(rg.Records) - 1
	latest := rg.Records[last].Timestamp()
	for last > 0 && rg.Records[last-1].Timestamp().Equal(latest) {
		last--
	}
	return rg.Records[last], true
}

// DistinctTimes counts the different times of day present in the group.
func (rg *RecordGroup) DistinctTimes() int {
	n := 0
	for i, r := range rg.Records {
		if i == 0 || !r.Timestamp().Equal(rg.Records[i-1].Timestamp()) {
			n++
		}
	}
	return n
}

func GroupRecords(events []model.PunchEvent) []*RecordGroup {
	grouped := utils.GroupBy(events, func(e model.PunchEvent) dayKey {
		return dayKey{employeeID: e.EmployeeID(), day: e.Day()}
	})

	groups := make([]*RecordGroup, 0, len(grouped))
	for _, g := range grouped {
		records := g.Items
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Timestamp().Before(records[j].Timestamp())
		})
		groups = append(groups, &RecordGroup{
			EmployeeID: g.Key.employeeID,
			Day:        g.Key.day,
			Records:    records,
		})
	}
	return groups
}

// ReduceDaily keeps only the bounding punches of every employee day: the
// earliest as Entry and, when the day has a second distinct time, the latest
// as Exit. Punches in between are dropped.
func ReduceDaily(events []model.PunchEvent) []model.ReportRow {
	var rows []model.ReportRow
	for _, g := range GroupRecords(events) {
		in, ok := g.GetClockIn()
		if !ok {
			continue
		}
		rows = append(rows, model.NewReportRow(in, model.Entry))

		if g.DistinctTimes() < 2 {
			continue
		}
		out, _ := g.GetClockOut()
		rows = append(rows, model.NewReportRow(out, model.Exit))
	}
	return rows
}
