package metrics

import (
	"fmt"
	"time"

	"github.com/lorrc/soc-metrics-backend/internal/core/domain"
)

// ExtractDurations computes the three duration pairs for one ticket.
//
// Exclusion rules:
//   - Detected absent: the detection pair is nil and the ticket drops out of
//     detection statistics only; resolution is then measured from Created.
//   - Resolved absent: the ticket is open, the resolution and total pairs
//     are nil, and the ticket is counted in the open-ticket volume instead.
//
// Any negative interval (clock skew or bad source data) is clamped to zero
// and reported as a DataQualityWarning; tickets are never silently dropped.
func ExtractDurations(ticket domain.TicketRecord, cfg domain.WorkingHoursConfig) (domain.TicketMetrics, []domain.DataQualityWarning) {
	m := domain.TicketMetrics{Ticket: ticket, SLA: domain.SLANotApplicable}
	var warnings []domain.DataQualityWarning

	clamped := func(interval string, start, end time.Time) *domain.DurationPair {
		if end.Before(start) {
			warnings = append(warnings, domain.DataQualityWarning{
				TicketKey: ticket.Key,
				Reason:    fmt.Sprintf("%s interval is negative, clamped to zero", interval),
			})
			return &domain.DurationPair{}
		}
		return &domain.DurationPair{
			CalendarSeconds: int64(end.Sub(start) / time.Second),
			WorkingSeconds:  WorkingDuration(start, end, cfg),
		}
	}

	if ticket.Detected != nil {
		m.Detection = clamped("detection", ticket.Created, *ticket.Detected)
	} else {
		warnings = append(warnings, domain.DataQualityWarning{
			TicketKey: ticket.Key,
			Reason:    "detected timestamp absent, excluded from detection statistics",
		})
	}

	if ticket.Resolved != nil {
		resolutionStart := ticket.Created
		if ticket.Detected != nil {
			resolutionStart = *ticket.Detected
		}
		m.Resolution = clamped("resolution", resolutionStart, *ticket.Resolved)
		m.Total = clamped("total", ticket.Created, *ticket.Resolved)
	}

	return m, warnings
}
