package metrics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/soc-metrics-backend/internal/core/domain"
	"github.com/lorrc/soc-metrics-backend/internal/core/metrics"
)

func ts(t time.Time) *time.Time { return &t }

func TestExtractDurations_ResolvedTicket(t *testing.T) {
	cfg := defaultCalendar()
	created := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC) // Monday 09:00
	ticket := domain.TicketRecord{
		Key:      "SOC-1",
		Priority: domain.PriorityHigh,
		Created:  created,
		Detected: ts(created.Add(30 * time.Minute)),
		Resolved: ts(created.Add(150 * time.Minute)),
	}

	m, warnings := metrics.ExtractDurations(ticket, cfg)

	assert.Empty(t, warnings)
	require.NotNil(t, m.Detection)
	require.NotNil(t, m.Resolution)
	require.NotNil(t, m.Total)

	assert.Equal(t, int64(1800), m.Detection.CalendarSeconds)
	assert.Equal(t, int64(1800), m.Detection.WorkingSeconds)
	assert.Equal(t, int64(7200), m.Resolution.CalendarSeconds)
	assert.Equal(t, int64(7200), m.Resolution.WorkingSeconds)
	assert.Equal(t, int64(9000), m.Total.CalendarSeconds)
	assert.Equal(t, int64(9000), m.Total.WorkingSeconds)
}

func TestExtractDurations_DetectedAbsent(t *testing.T) {
	cfg := defaultCalendar()
	created := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	ticket := domain.TicketRecord{
		Key:      "SOC-2",
		Created:  created,
		Resolved: ts(created.Add(time.Hour)),
	}

	m, warnings := metrics.ExtractDurations(ticket, cfg)

	assert.Nil(t, m.Detection)
	require.NotNil(t, m.Resolution)
	// Resolution falls back to created when detected is absent.
	assert.Equal(t, int64(3600), m.Resolution.CalendarSeconds)
	require.Len(t, warnings, 1)
	assert.Equal(t, "SOC-2", warnings[0].TicketKey)
	assert.Contains(t, warnings[0].Reason, "detected timestamp absent")
}

func TestExtractDurations_OpenTicket(t *testing.T) {
	cfg := defaultCalendar()
	created := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	ticket := domain.TicketRecord{
		Key:      "SOC-3",
		Created:  created,
		Detected: ts(created.Add(10 * time.Minute)),
	}

	m, warnings := metrics.ExtractDurations(ticket, cfg)

	assert.Empty(t, warnings)
	assert.NotNil(t, m.Detection)
	assert.Nil(t, m.Resolution)
	assert.Nil(t, m.Total)
	assert.True(t, m.Ticket.IsOpen())
}

func TestExtractDurations_NegativeIntervalsClampedAndFlagged(t *testing.T) {
	cfg := defaultCalendar()
	created := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)

	t.Run("detected before created", func(t *testing.T) {
		ticket := domain.TicketRecord{
			Key:      "SOC-4",
			Created:  created,
			Detected: ts(created.Add(-time.Hour)),
			Resolved: ts(created.Add(time.Hour)),
		}

		m, warnings := metrics.ExtractDurations(ticket, cfg)

		require.NotNil(t, m.Detection)
		assert.Equal(t, domain.DurationPair{}, *m.Detection)
		require.NotEmpty(t, warnings)
		assert.Contains(t, warnings[0].Reason, "detection interval is negative")
	})

	t.Run("resolved before detected", func(t *testing.T) {
		ticket := domain.TicketRecord{
			Key:      "SOC-5",
			Created:  created,
			Detected: ts(created.Add(2 * time.Hour)),
			Resolved: ts(created.Add(time.Hour)),
		}

		m, warnings := metrics.ExtractDurations(ticket, cfg)

		require.NotNil(t, m.Resolution)
		assert.Equal(t, domain.DurationPair{}, *m.Resolution)
		require.NotNil(t, m.Total)
		assert.Equal(t, int64(3600), m.Total.CalendarSeconds)

		require.Len(t, warnings, 1)
		assert.Equal(t, "SOC-5", warnings[0].TicketKey)
		assert.Contains(t, warnings[0].Reason, "resolution interval is negative")
	})
}

func TestExtractDurations_DetectedEqualToCreated(t *testing.T) {
	cfg := defaultCalendar()
	created := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	ticket := domain.TicketRecord{
		Key:      "SOC-6",
		Created:  created,
		Detected: ts(created),
		Resolved: ts(created.Add(time.Hour)),
	}

	m, warnings := metrics.ExtractDurations(ticket, cfg)

	assert.Empty(t, warnings)
	require.NotNil(t, m.Detection)
	assert.Zero(t, m.Detection.CalendarSeconds)
	assert.Zero(t, m.Detection.WorkingSeconds)
}
