package metrics

import (
	"github.com/lorrc/soc-metrics-backend/internal/core/domain"
)

// EvaluateSLA classifies one ticket's resolution time against the threshold
// table. Open tickets and priorities without a configured threshold are
// NotApplicable. The boundary is inclusive: a resolution working duration
// exactly equal to the threshold is Compliant; one second over is a Breach.
func EvaluateSLA(m domain.TicketMetrics, thresholds domain.SLAThresholds) domain.SLAVerdict {
	if m.Resolution == nil {
		return domain.SLANotApplicable
	}
	limit, ok := thresholds[m.Ticket.Priority]
	if !ok {
		return domain.SLANotApplicable
	}
	if m.Resolution.WorkingSeconds > limit {
		return domain.SLABreach
	}
	return domain.SLACompliant
}

// ComplianceByPriority builds the per-priority SLA table. Every known
// priority gets a row. The compliance rate excludes NotApplicable tickets
// from the denominator and is nil when no ticket of the priority has a
// verdict.
func ComplianceByPriority(tickets []domain.TicketMetrics) map[domain.TicketPriority]domain.SLAComplianceRow {
	rows := make(map[domain.TicketPriority]domain.SLAComplianceRow, len(domain.Priorities))
	for _, p := range domain.Priorities {
		rows[p] = domain.SLAComplianceRow{}
	}

	for _, t := range tickets {
		row := rows[t.Ticket.Priority]
		switch t.SLA {
		case domain.SLACompliant:
			row.Compliant++
		case domain.SLABreach:
			row.Breach++
		default:
			row.NotApplicable++
		}
		rows[t.Ticket.Priority] = row
	}

	for p, row := range rows {
		if applicable := row.Compliant + row.Breach; applicable > 0 {
			rate := float64(row.Compliant) / float64(applicable)
			row.ComplianceRate = &rate
			rows[p] = row
		}
	}
	return rows
}
