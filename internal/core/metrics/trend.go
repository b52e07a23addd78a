package metrics

import (
	"time"

	"github.com/lorrc/soc-metrics-backend/internal/core/domain"
)

// WeekStart returns the configured week-start day at or before t, truncated
// to day granularity in the given location.
func WeekStart(t time.Time, startDay time.Weekday, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	offset := (int(day.Weekday()) - int(startDay) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

// BuildWeeklyTrend buckets tickets by the week of their created timestamp
// and returns one point per week, ordered by week start ascending. Weeks
// inside the observed range with no tickets are still emitted, with volume
// zero and nil means, so a chart shows the gap instead of compressing it.
func BuildWeeklyTrend(tickets []domain.TicketMetrics, startDay time.Weekday, loc *time.Location) []domain.TrendPoint {
	if len(tickets) == 0 {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}

	type bucket struct {
		volume          int
		detCal, detWork float64
		detCount        int
		resCal, resWork float64
		resCount        int
	}
	buckets := make(map[time.Time]*bucket)

	var first, last time.Time
	for _, t := range tickets {
		week := WeekStart(t.Ticket.Created, startDay, loc)
		if first.IsZero() || week.Before(first) {
			first = week
		}
		if last.IsZero() || week.After(last) {
			last = week
		}

		b := buckets[week]
		if b == nil {
			b = &bucket{}
			buckets[week] = b
		}
		b.volume++
		if t.Detection != nil {
			b.detCal += float64(t.Detection.CalendarSeconds)
			b.detWork += float64(t.Detection.WorkingSeconds)
			b.detCount++
		}
		if t.Resolution != nil {
			b.resCal += float64(t.Resolution.CalendarSeconds)
			b.resWork += float64(t.Resolution.WorkingSeconds)
			b.resCount++
		}
	}

	var points []domain.TrendPoint
	for week := first; !week.After(last); week = week.AddDate(0, 0, 7) {
		point := domain.TrendPoint{WeekStart: week}
		if b := buckets[week]; b != nil {
			point.Volume = b.volume
			if b.detCount > 0 {
				point.MeanDetection = &domain.DurationMean{
					CalendarSeconds: b.detCal / float64(b.detCount),
					WorkingSeconds:  b.detWork / float64(b.detCount),
				}
			}
			if b.resCount > 0 {
				point.MeanResolution = &domain.DurationMean{
					CalendarSeconds: b.resCal / float64(b.resCount),
					WorkingSeconds:  b.resWork / float64(b.resCount),
				}
			}
		}
		points = append(points, point)
	}
	return points
}
