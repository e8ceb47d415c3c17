package core

import (
	"time"

	"checadas.com/ponches/model"
	"checadas.com/ponches/utils"
)

type punchKey struct {
	employeeID string
	timestamp  time.Time
}

// Dedupe drops every event whose employee and timestamp were already seen
// earlier in the sequence. The first occurrence wins and the relative order
// of the survivors is kept.
func Dedupe(events []model.PunchEvent) []model.PunchEvent {
	seen := make(map[punchKey]struct{}, len(events))
	return utils.Filter(events, func(e model.PunchEvent) bool {
		key := punchKey{employeeID: e.EmployeeID(), timestamp: e.Timestamp()}
		if _, ok := seen[key]; ok {
			return false
		}
		seen[key] = struct{}{}
		return true
	})
}
