package metrics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/soc-metrics-backend/internal/core/domain"
	"github.com/lorrc/soc-metrics-backend/internal/core/metrics"
)

func TestEvaluateSLA(t *testing.T) {
	thresholds := domain.SLAThresholds{
		domain.PriorityCritical: 4 * 3600,
		domain.PriorityHigh:     8 * 3600,
	}

	t.Run("exactly at the threshold is compliant", func(t *testing.T) {
		m := resolvedTicket("SOC-1", domain.PriorityCritical, 4*3600)
		assert.Equal(t, domain.SLACompliant, metrics.EvaluateSLA(m, thresholds))
	})

	t.Run("one second over is a breach", func(t *testing.T) {
		m := resolvedTicket("SOC-2", domain.PriorityCritical, 4*3600+1)
		assert.Equal(t, domain.SLABreach, metrics.EvaluateSLA(m, thresholds))
	})

	t.Run("open ticket is not applicable", func(t *testing.T) {
		m := domain.TicketMetrics{Ticket: domain.TicketRecord{Key: "SOC-3", Priority: domain.PriorityCritical}}
		assert.Equal(t, domain.SLANotApplicable, metrics.EvaluateSLA(m, thresholds))
	})

	t.Run("unconfigured priority is not applicable", func(t *testing.T) {
		m := resolvedTicket("SOC-4", domain.PriorityLow, 100)
		assert.Equal(t, domain.SLANotApplicable, metrics.EvaluateSLA(m, thresholds))
	})
}

func TestComplianceByPriority(t *testing.T) {
	withVerdict := func(key string, p domain.TicketPriority, v domain.SLAVerdict) domain.TicketMetrics {
		m := resolvedTicket(key, p, 0)
		m.SLA = v
		return m
	}

	tickets := []domain.TicketMetrics{
		withVerdict("SOC-1", domain.PriorityHigh, domain.SLACompliant),
		withVerdict("SOC-2", domain.PriorityHigh, domain.SLACompliant),
		withVerdict("SOC-3", domain.PriorityHigh, domain.SLABreach),
		withVerdict("SOC-4", domain.PriorityHigh, domain.SLANotApplicable),
		withVerdict("SOC-5", domain.PriorityLow, domain.SLANotApplicable),
	}

	rows := metrics.ComplianceByPriority(tickets)

	high := rows[domain.PriorityHigh]
	assert.Equal(t, 2, high.Compliant)
	assert.Equal(t, 1, high.Breach)
	assert.Equal(t, 1, high.NotApplicable)
	// NotApplicable is excluded from the denominator: 2 / 3.
	require.NotNil(t, high.ComplianceRate)
	assert.InDelta(t, 2.0/3.0, *high.ComplianceRate, 1e-9)

	// Only NotApplicable verdicts: no rate at all, not 0%.
	low := rows[domain.PriorityLow]
	assert.Equal(t, 1, low.NotApplicable)
	assert.Nil(t, low.ComplianceRate)

	// Every known priority has a row even with no tickets.
	medium, ok := rows[domain.PriorityMedium]
	require.True(t, ok)
	assert.Zero(t, medium.Compliant+medium.Breach+medium.NotApplicable)
	assert.Nil(t, medium.ComplianceRate)
}
