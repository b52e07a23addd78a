package metrics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/soc-metrics-backend/internal/core/domain"
	apperrors "github.com/lorrc/soc-metrics-backend/internal/core/errors"
	"github.com/lorrc/soc-metrics-backend/internal/core/metrics"
)

// allHoursCalendar counts every second of every day as working time, so
// working durations equal calendar durations in these scenarios.
func allHoursCalendar() domain.WorkingHoursConfig {
	return domain.WorkingHoursConfig{
		BusinessDays: map[time.Weekday]bool{
			time.Monday: true, time.Tuesday: true, time.Wednesday: true,
			time.Thursday: true, time.Friday: true, time.Saturday: true, time.Sunday: true,
		},
		StartHour: 0,
		EndHour:   24,
		Holidays:  map[string]bool{},
		Location:  time.UTC,
	}
}

func TestNewEngine_RejectsBrokenCalendar(t *testing.T) {
	t.Run("no business days", func(t *testing.T) {
		opts := metrics.Options{WorkingHours: domain.WorkingHoursConfig{
			StartHour: 9, EndHour: 17, Location: time.UTC,
		}}
		_, err := metrics.NewEngine(opts)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrNoBusinessDays)
	})

	t.Run("inverted window", func(t *testing.T) {
		cfg := domain.DefaultWorkingHours()
		cfg.StartHour, cfg.EndHour = 17, 9
		_, err := metrics.NewEngine(metrics.Options{WorkingHours: cfg})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidWorkingWindow)
	})
}

func TestEngine_EndToEnd(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) // Monday

	mkTicket := func(key string, p domain.TicketPriority, resolutionSeconds int64) domain.TicketRecord {
		detected := base
		resolved := base.Add(time.Duration(resolutionSeconds) * time.Second)
		return domain.TicketRecord{
			Key:        key,
			Priority:   p,
			Resolution: domain.ResolutionDone,
			Created:    base,
			Detected:   &detected,
			Resolved:   &resolved,
		}
	}

	tickets := []domain.TicketRecord{
		mkTicket("SOC-1", domain.PriorityCritical, 3600),
		mkTicket("SOC-2", domain.PriorityHigh, 7200),
		mkTicket("SOC-3", domain.PriorityHigh, 14400),
		mkTicket("SOC-4", domain.PriorityMedium, 28800),
		mkTicket("SOC-5", domain.PriorityLow, 50000),
	}

	engine, err := metrics.NewEngine(metrics.Options{
		WorkingHours: allHoursCalendar(),
		Thresholds: domain.SLAThresholds{
			domain.PriorityCritical: 7200,
			domain.PriorityHigh:     14400,
			domain.PriorityMedium:   28800,
			domain.PriorityLow:      100000,
		},
		WeekStartDay: time.Monday,
	})
	require.NoError(t, err)

	bundle := engine.Run(tickets)

	assert.Equal(t, 5, bundle.TotalTickets)
	assert.Zero(t, bundle.OpenTickets)
	assert.Empty(t, bundle.Warnings)

	// Every priority is fully compliant.
	for _, p := range domain.Priorities {
		row := bundle.SLACompliance[p]
		assert.Zero(t, row.Breach, "priority %s", p)
		if row.Compliant > 0 {
			require.NotNil(t, row.ComplianceRate)
			assert.Equal(t, 1.0, *row.ComplianceRate)
		}
	}

	// Global resolution p50 over [3600 7200 14400 28800 50000].
	global := bundle.Global[domain.DimensionResolution].Working
	require.True(t, global.HasData())
	assert.Equal(t, 5, global.Count)
	assert.Equal(t, 14400.0, global.Summary.P50)

	// Per-priority counts sum to the global count.
	var subgroupTotal int
	for _, dims := range bundle.ByPriority {
		subgroupTotal += dims[domain.DimensionResolution].Working.Count
	}
	assert.Equal(t, global.Count, subgroupTotal)

	assert.Equal(t, 5, bundle.ResolutionBreakdown[domain.ResolutionDone])
	assert.Zero(t, bundle.ResolutionBreakdown[domain.ResolutionFalsePositive])

	require.Len(t, bundle.WeeklyTrend, 1)
	assert.Equal(t, base, bundle.WeeklyTrend[0].WeekStart)
	assert.Equal(t, 5, bundle.WeeklyTrend[0].Volume)
}

func TestEngine_OpenAndDirtyTickets(t *testing.T) {
	base := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)

	detectedEarly := base.Add(-time.Hour)
	resolved := base.Add(2 * time.Hour)
	tickets := []domain.TicketRecord{
		// Open ticket: counted in volume, excluded from resolution stats.
		{Key: "SOC-1", Priority: domain.PriorityHigh, Created: base},
		// Detected before created: clamped and flagged.
		{Key: "SOC-2", Priority: domain.PriorityHigh, Resolution: domain.ResolutionTruePositive,
			Created: base, Detected: &detectedEarly, Resolved: &resolved},
	}

	engine, err := metrics.NewEngine(metrics.Options{WorkingHours: allHoursCalendar()})
	require.NoError(t, err)

	bundle := engine.Run(tickets)

	assert.Equal(t, 2, bundle.TotalTickets)
	assert.Equal(t, 1, bundle.OpenTickets)
	assert.Equal(t, 1, bundle.Global[domain.DimensionResolution].Working.Count)

	// Both dirty tickets are flagged: SOC-1 for the absent detection
	// timestamp, SOC-2 for the clamped negative interval.
	require.Len(t, bundle.Warnings, 2)
	warningsByKey := map[string]string{}
	for _, w := range bundle.Warnings {
		warningsByKey[w.TicketKey] = w.Reason
	}
	assert.Contains(t, warningsByKey["SOC-1"], "detected timestamp absent")
	assert.Contains(t, warningsByKey["SOC-2"], "clamped")
}

func TestEngine_DeterministicAcrossRuns(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var tickets []domain.TicketRecord
	for i, seconds := range []int64{100, 100, 100, 100, 5000, 7200, 50} {
		detected := base.Add(time.Minute)
		resolved := base.Add(time.Duration(seconds) * time.Second)
		tickets = append(tickets, domain.TicketRecord{
			Key:        string(rune('A' + i)),
			Priority:   domain.PriorityMedium,
			Resolution: domain.ResolutionFalsePositive,
			Created:    base,
			Detected:   &detected,
			Resolved:   &resolved,
		})
	}

	engine, err := metrics.NewEngine(metrics.Options{WorkingHours: allHoursCalendar()})
	require.NoError(t, err)

	first := engine.Run(tickets)
	second := engine.Run(tickets)

	assert.Equal(t, first.Outliers, second.Outliers)
	assert.Equal(t, first.Global, second.Global)
	assert.Equal(t, first.WeeklyTrend, second.WeeklyTrend)
}
