package metrics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/soc-metrics-backend/internal/core/domain"
	"github.com/lorrc/soc-metrics-backend/internal/core/metrics"
)

func byPriorityKey(m domain.TicketMetrics) domain.TicketPriority { return m.Ticket.Priority }

func TestDetectOutliers_ZeroStdDevNeverFlags(t *testing.T) {
	tickets := []domain.TicketMetrics{
		resolvedTicket("SOC-1", domain.PriorityHigh, 500),
		resolvedTicket("SOC-2", domain.PriorityHigh, 500),
		resolvedTicket("SOC-3", domain.PriorityHigh, 500),
	}

	out := metrics.DetectOutliers(tickets, byPriorityKey, domain.DimensionResolution, domain.KindWorking, 0.0001)
	assert.Empty(t, out)
}

func TestDetectOutliers_FlagsAtThreshold(t *testing.T) {
	// Four identical values plus one spike: the spike sits exactly at
	// z = 2.0 (mean 280, population stddev 360).
	tickets := []domain.TicketMetrics{
		resolvedTicket("SOC-1", domain.PriorityHigh, 100),
		resolvedTicket("SOC-2", domain.PriorityHigh, 100),
		resolvedTicket("SOC-3", domain.PriorityHigh, 100),
		resolvedTicket("SOC-4", domain.PriorityHigh, 100),
		resolvedTicket("SOC-5", domain.PriorityHigh, 1000),
	}

	out := metrics.DetectOutliers(tickets, byPriorityKey, domain.DimensionResolution, domain.KindWorking, metrics.DefaultZThreshold)

	require.Len(t, out, 1)
	assert.Equal(t, "SOC-5", out[0].TicketKey)
	assert.Equal(t, domain.DimensionResolution, out[0].Dimension)
	assert.InDelta(t, 2.0, out[0].ZScore, 1e-9)
}

func TestDetectOutliers_DeterministicOrdering(t *testing.T) {
	// Symmetric pair: both tickets land at |z| = 1; ties break on key.
	tickets := []domain.TicketMetrics{
		resolvedTicket("SOC-9", domain.PriorityHigh, 0),
		resolvedTicket("SOC-2", domain.PriorityHigh, 100),
	}

	first := metrics.DetectOutliers(tickets, byPriorityKey, domain.DimensionResolution, domain.KindWorking, 1.0)
	second := metrics.DetectOutliers(tickets, byPriorityKey, domain.DimensionResolution, domain.KindWorking, 1.0)

	require.Len(t, first, 2)
	assert.Equal(t, "SOC-2", first[0].TicketKey)
	assert.Equal(t, "SOC-9", first[1].TicketKey)
	assert.Equal(t, first, second)
}

func TestDetectOutliers_GroupsAreIndependent(t *testing.T) {
	// A value that is extreme within its own group but ordinary globally
	// must still be flagged, and vice versa.
	tickets := []domain.TicketMetrics{
		resolvedTicket("SOC-1", domain.PriorityHigh, 10),
		resolvedTicket("SOC-2", domain.PriorityHigh, 10),
		resolvedTicket("SOC-3", domain.PriorityHigh, 10),
		resolvedTicket("SOC-4", domain.PriorityHigh, 10),
		resolvedTicket("SOC-5", domain.PriorityHigh, 100),
		resolvedTicket("SOC-6", domain.PriorityLow, 100000),
		resolvedTicket("SOC-7", domain.PriorityLow, 100000),
	}

	out := metrics.DetectOutliers(tickets, byPriorityKey, domain.DimensionResolution, domain.KindWorking, metrics.DefaultZThreshold)

	require.Len(t, out, 1)
	assert.Equal(t, "SOC-5", out[0].TicketKey)
	assert.Equal(t, domain.PriorityHigh, out[0].Priority)
}
