package utils

import (
	"fmt"
	"time"
)

func MustParseDate(dateStr string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", dateStr, time.UTC)
	if err != nil {
		panic(fmt.Sprintf("invalid date %q: %v", dateStr, err))
	}
	return t
}

// MustParseDateTime parses "2006-01-02 15:04" and panics on bad input. It
// is meant for fixtures.
func MustParseDateTime(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", s, time.UTC)
	if err != nil {
		panic(fmt.Sprintf("invalid date time %q: %v", s, err))
	}
	return t
}
