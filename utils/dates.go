package utils

import (
	"fmt"
	"time"
)

// DateLocation is the application's timezone
var DateLocation = time.UTC

// InitializeDateLocation sets up the application's timezone
func InitializeDateLocation(timezone string) error {
	if timezone == "" {
		timezone = "Africa/Johannesburg"
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return err
	}
	DateLocation = loc
	return nil
}

// ParseDateRange turns yyyy-mm-dd filter values into a half-open [from, to)
// range. Either side may be empty.
func ParseDateRange(startDate, endDate string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if startDate != "" {
		t, err := time.ParseInLocation("2006-01-02", startDate, DateLocation)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid start_date %q: %w", startDate, err)
		}
		from = &t
	}
	if endDate != "" {
		t, err := time.ParseInLocation("2006-01-02", endDate, DateLocation)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid end_date %q: %w", endDate, err)
		}
		next := t.AddDate(0, 0, 1)
		to = &next
	}
	return from, to, nil
}
