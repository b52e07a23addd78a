package domain

import (
	"time"

	apperrors "github.com/lorrc/soc-metrics-backend/internal/core/errors"
)

// HolidayDateLayout is the key format for the holiday set.
const HolidayDateLayout = "2006-01-02"

// WorkingHoursConfig defines the working-time calendar for one analysis run.
// It is loaded once per run and never mutated while the run executes. All
// instants fed to the engine are interpreted in Location.
type WorkingHoursConfig struct {
	// BusinessDays is the set of weekdays that count as working days.
	BusinessDays map[time.Weekday]bool
	// StartHour and EndHour bound the daily working window, as hours of the
	// day in Location. The window is [StartHour, EndHour).
	StartHour int
	EndHour   int
	// Holidays holds non-working dates keyed by HolidayDateLayout.
	Holidays map[string]bool
	// Location is the timezone every timestamp is normalized to before the
	// calendar walk.
	Location *time.Location
}

// DefaultWorkingHours returns the 9-to-5, Monday-to-Friday calendar in UTC.
func DefaultWorkingHours() WorkingHoursConfig {
	return WorkingHoursConfig{
		BusinessDays: map[time.Weekday]bool{
			time.Monday:    true,
			time.Tuesday:   true,
			time.Wednesday: true,
			time.Thursday:  true,
			time.Friday:    true,
		},
		StartHour: 9,
		EndHour:   17,
		Holidays:  map[string]bool{},
		Location:  time.UTC,
	}
}

// Validate rejects calendars that would silently produce all-zero durations.
// The engine refuses to run with an invalid calendar.
func (c WorkingHoursConfig) Validate() error {
	if len(c.BusinessDays) == 0 {
		return apperrors.ErrNoBusinessDays
	}
	anyBusinessDay := false
	for _, enabled := range c.BusinessDays {
		if enabled {
			anyBusinessDay = true
			break
		}
	}
	if !anyBusinessDay {
		return apperrors.ErrNoBusinessDays
	}
	if c.StartHour < 0 || c.EndHour > 24 || c.EndHour <= c.StartHour {
		return apperrors.ErrInvalidWorkingWindow
	}
	return nil
}

// IsWorkingDay reports whether the given day is a business day and not a
// holiday. Only the date portion of t is considered.
func (c WorkingHoursConfig) IsWorkingDay(t time.Time) bool {
	if !c.BusinessDays[t.Weekday()] {
		return false
	}
	return !c.Holidays[t.Format(HolidayDateLayout)]
}

// SLAThresholds maps a ticket priority to the maximum allowed resolution
// duration in working-hours seconds. Priorities without an entry are treated
// as having no SLA.
type SLAThresholds map[TicketPriority]int64
