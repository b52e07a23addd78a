package metrics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lorrc/soc-metrics-backend/internal/core/domain"
	"github.com/lorrc/soc-metrics-backend/internal/core/metrics"
)

func defaultCalendar() domain.WorkingHoursConfig {
	return domain.DefaultWorkingHours()
}

func TestWorkingDuration_EndBeforeOrAtStart(t *testing.T) {
	cfg := defaultCalendar()
	start := time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC) // Monday

	assert.Zero(t, metrics.WorkingDuration(start, start, cfg))
	assert.Zero(t, metrics.WorkingDuration(start, start.Add(-time.Hour), cfg))
}

func TestWorkingDuration_FullBusinessDay(t *testing.T) {
	cfg := defaultCalendar()
	// Monday 2024-01-08 midnight to Tuesday midnight spans exactly one
	// 9-to-17 working day.
	start := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, int64(8*3600), metrics.WorkingDuration(start, end, cfg))
}

func TestWorkingDuration_PartialDayClipping(t *testing.T) {
	cfg := defaultCalendar()

	t.Run("inside the window", func(t *testing.T) {
		start := time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)
		end := time.Date(2024, 1, 8, 12, 30, 0, 0, time.UTC)
		assert.Equal(t, int64(9000), metrics.WorkingDuration(start, end, cfg))
	})

	t.Run("starts before the window opens", func(t *testing.T) {
		start := time.Date(2024, 1, 8, 6, 0, 0, 0, time.UTC)
		end := time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)
		assert.Equal(t, int64(3600), metrics.WorkingDuration(start, end, cfg))
	})

	t.Run("ends after the window closes", func(t *testing.T) {
		start := time.Date(2024, 1, 8, 16, 0, 0, 0, time.UTC)
		end := time.Date(2024, 1, 8, 23, 0, 0, 0, time.UTC)
		assert.Equal(t, int64(3600), metrics.WorkingDuration(start, end, cfg))
	})
}

func TestWorkingDuration_SkipsWeekendsAndHolidays(t *testing.T) {
	cfg := defaultCalendar()

	t.Run("weekend contributes nothing", func(t *testing.T) {
		// Saturday 2024-01-06 all day.
		start := time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
		assert.Zero(t, metrics.WorkingDuration(start, end, cfg))
	})

	t.Run("friday evening to monday morning", func(t *testing.T) {
		start := time.Date(2024, 1, 5, 16, 0, 0, 0, time.UTC) // Friday
		end := time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)   // Monday
		// One hour Friday + one hour Monday.
		assert.Equal(t, int64(7200), metrics.WorkingDuration(start, end, cfg))
	})

	t.Run("holiday contributes nothing", func(t *testing.T) {
		cfg := defaultCalendar()
		cfg.Holidays["2024-01-08"] = true
		start := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)
		assert.Zero(t, metrics.WorkingDuration(start, end, cfg))
	})
}

func TestWorkingDuration_MonotonicInEnd(t *testing.T) {
	cfg := defaultCalendar()
	start := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC) // Friday noon

	var prev int64
	for hours := 1; hours <= 120; hours++ {
		end := start.Add(time.Duration(hours) * time.Hour)
		got := metrics.WorkingDuration(start, end, cfg)
		assert.GreaterOrEqual(t, got, prev, "end=%s", end)
		prev = got
	}
}

func TestWorkingDuration_MultiDaySpan(t *testing.T) {
	cfg := defaultCalendar()
	// Monday 10:00 to Wednesday 14:00: 7h Monday + 8h Tuesday + 5h Wednesday.
	start := time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 10, 14, 0, 0, 0, time.UTC)

	assert.Equal(t, int64(20*3600), metrics.WorkingDuration(start, end, cfg))
}

func TestWorkingHoursConfig_Validate(t *testing.T) {
	t.Run("valid default", func(t *testing.T) {
		assert.NoError(t, domain.DefaultWorkingHours().Validate())
	})

	t.Run("no business days", func(t *testing.T) {
		cfg := domain.DefaultWorkingHours()
		cfg.BusinessDays = map[time.Weekday]bool{}
		assert.Error(t, cfg.Validate())
	})

	t.Run("all business days disabled", func(t *testing.T) {
		cfg := domain.DefaultWorkingHours()
		cfg.BusinessDays = map[time.Weekday]bool{time.Monday: false}
		assert.Error(t, cfg.Validate())
	})

	t.Run("inverted window", func(t *testing.T) {
		cfg := domain.DefaultWorkingHours()
		cfg.StartHour, cfg.EndHour = 17, 9
		assert.Error(t, cfg.Validate())
	})

	t.Run("empty window", func(t *testing.T) {
		cfg := domain.DefaultWorkingHours()
		cfg.StartHour, cfg.EndHour = 9, 9
		assert.Error(t, cfg.Validate())
	})
}
