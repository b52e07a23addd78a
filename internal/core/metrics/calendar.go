// Package metrics is the SOC metrics calculation engine. It converts raw
// timestamped ticket records into calendar and working-hours durations,
// aggregates them into per-group statistics, evaluates SLA compliance, flags
// statistical outliers and builds the weekly trend series. Every run is a
// pure function of (tickets, calendar, thresholds); the package keeps no
// state between runs.
package metrics

import (
	"time"

	"github.com/lorrc/soc-metrics-backend/internal/core/domain"
)

// WorkingDuration returns the number of working seconds between start and
// end under the given calendar. The result is never negative: end at or
// before start yields 0. Arithmetic is in whole seconds.
//
// The walk visits each calendar day overlapping [start, end] and adds the
// intersection of that day's working window with the portion of the interval
// inside the day. Days outside the business-day set and holiday dates
// contribute nothing. Both instants are normalized to the calendar's
// location first; the engine performs no other timezone conversion.
func WorkingDuration(start, end time.Time, cfg domain.WorkingHoursConfig) int64 {
	if !end.After(start) {
		return 0
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	start = start.In(loc)
	end = end.In(loc)

	var total int64
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	for day.Before(end) {
		if cfg.IsWorkingDay(day) {
			windowStart := day.Add(time.Duration(cfg.StartHour) * time.Hour)
			windowEnd := day.Add(time.Duration(cfg.EndHour) * time.Hour)

			lo := windowStart
			if start.After(lo) {
				lo = start
			}
			hi := windowEnd
			if end.Before(hi) {
				hi = end
			}
			if hi.After(lo) {
				total += int64(hi.Sub(lo) / time.Second)
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return total
}
