package metrics

import (
	"time"

	"github.com/lorrc/soc-metrics-backend/internal/core/domain"
	apperrors "github.com/lorrc/soc-metrics-backend/internal/core/errors"
)

// Options configures one analysis run.
type Options struct {
	WorkingHours domain.WorkingHoursConfig
	Thresholds   domain.SLAThresholds
	ZThreshold   float64
	WeekStartDay time.Weekday
}

// Engine runs the full metrics pipeline over one in-memory batch of ticket
// records. Engines are stateless; concurrent runs with independent inputs
// need no coordination.
type Engine struct {
	opts Options
}

// NewEngine validates the options once and returns an engine bound to them.
// A calendar that defines no business days or an inverted daily window is a
// configuration error and fails here, before any ticket is processed.
func NewEngine(opts Options) (*Engine, error) {
	if err := opts.WorkingHours.Validate(); err != nil {
		return nil, apperrors.NewConfigurationError(err)
	}
	if opts.ZThreshold == 0 {
		opts.ZThreshold = DefaultZThreshold
	}
	if opts.ZThreshold < 0 {
		return nil, apperrors.NewConfigurationError(apperrors.ErrInvalidZThreshold)
	}
	return &Engine{opts: opts}, nil
}

// Run transforms the ticket batch into a StatBundle. Data-quality problems
// accumulate as warnings inside the bundle and never interrupt the batch;
// the run either completes fully or fails before producing output.
func (e *Engine) Run(tickets []domain.TicketRecord) *domain.StatBundle {
	bundle := &domain.StatBundle{
		TotalTickets:        len(tickets),
		ResolutionBreakdown: make(map[domain.ResolutionCategory]int, len(domain.ResolutionCategories)),
		Global:              make(map[domain.Dimension]domain.DimensionStats, len(domain.Dimensions)),
		ByPriority:          make(map[domain.TicketPriority]map[domain.Dimension]domain.DimensionStats),
		ByCategory:          make(map[domain.ResolutionCategory]map[domain.Dimension]domain.DimensionStats),
		Warnings:            []domain.DataQualityWarning{},
		Outliers:            []domain.Outlier{},
	}
	for _, c := range domain.ResolutionCategories {
		bundle.ResolutionBreakdown[c] = 0
	}

	measured := make([]domain.TicketMetrics, 0, len(tickets))
	for _, ticket := range tickets {
		m, warnings := ExtractDurations(ticket, e.opts.WorkingHours)
		m.SLA = EvaluateSLA(m, e.opts.Thresholds)
		bundle.Warnings = append(bundle.Warnings, warnings...)
		if ticket.IsOpen() {
			bundle.OpenTickets++
		} else {
			bundle.ResolutionBreakdown[normalizeCategory(ticket.Resolution)]++
		}
		measured = append(measured, m)
	}

	byPriority := func(m domain.TicketMetrics) domain.TicketPriority { return m.Ticket.Priority }
	byCategory := func(m domain.TicketMetrics) domain.ResolutionCategory { return normalizeCategory(m.Ticket.Resolution) }

	for _, dim := range domain.Dimensions {
		bundle.Global[dim] = domain.DimensionStats{
			Calendar: AggregateAll(measured, dim, domain.KindCalendar),
			Working:  AggregateAll(measured, dim, domain.KindWorking),
		}
		mergeGrouped(bundle.ByPriority, dim, Aggregate(measured, byPriority, dim, domain.KindCalendar), Aggregate(measured, byPriority, dim, domain.KindWorking))
		mergeGrouped(bundle.ByCategory, dim, Aggregate(measured, byCategory, dim, domain.KindCalendar), Aggregate(measured, byCategory, dim, domain.KindWorking))
	}

	bundle.SLACompliance = ComplianceByPriority(measured)

	for _, dim := range []domain.Dimension{domain.DimensionDetection, domain.DimensionResolution} {
		bundle.Outliers = append(bundle.Outliers,
			DetectOutliers(measured, byPriority, dim, domain.KindWorking, e.opts.ZThreshold)...)
	}

	bundle.WeeklyTrend = BuildWeeklyTrend(measured, e.opts.WeekStartDay, e.opts.WorkingHours.Location)

	return bundle
}

// mergeGrouped folds per-kind aggregation results into the keyed two-level
// table of the bundle.
func mergeGrouped[K comparable](dst map[K]map[domain.Dimension]domain.DimensionStats, dim domain.Dimension, calendar, working map[K]domain.GroupStats) {
	keys := make(map[K]struct{}, len(calendar)+len(working))
	for k := range calendar {
		keys[k] = struct{}{}
	}
	for k := range working {
		keys[k] = struct{}{}
	}
	for k := range keys {
		if dst[k] == nil {
			dst[k] = make(map[domain.Dimension]domain.DimensionStats, len(domain.Dimensions))
		}
		dst[k][dim] = domain.DimensionStats{
			Calendar: calendar[k],
			Working:  working[k],
		}
	}
}

// normalizeCategory folds unknown source categories into Other so breakdown
// tables stay closed over the known set.
func normalizeCategory(c domain.ResolutionCategory) domain.ResolutionCategory {
	for _, known := range domain.ResolutionCategories {
		if c == known {
			return c
		}
	}
	return domain.ResolutionOther
}
