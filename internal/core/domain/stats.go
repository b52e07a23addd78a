package domain

import (
	"time"

	"github.com/google/uuid"
)

// Summary holds the spread statistics for one group of duration values, in
// seconds. Percentiles use linear interpolation between the bounding order
// statistics; the standard deviation is the population form.
type Summary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"stdDev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P25    float64 `json:"p25"`
	P50    float64 `json:"p50"`
	P75    float64 `json:"p75"`
	P90    float64 `json:"p90"`
	P95    float64 `json:"p95"`
	P99    float64 `json:"p99"`
}

// GroupStats is the aggregate for one group along one dimension and time
// base. A nil Summary is the insufficient-data sentinel: the group had no
// contributing tickets and renderers must not read it as zero.
type GroupStats struct {
	Count   int      `json:"count"`
	Summary *Summary `json:"summary,omitempty"`
}

// HasData reports whether the group produced statistics.
func (g GroupStats) HasData() bool {
	return g.Summary != nil
}

// DimensionStats pairs the calendar and working-hours aggregates of one
// group along one dimension.
type DimensionStats struct {
	Calendar GroupStats `json:"calendar"`
	Working  GroupStats `json:"working"`
}

// Stats returns the aggregate for the requested time base.
func (d DimensionStats) Stats(kind ValueKind) GroupStats {
	if kind == KindWorking {
		return d.Working
	}
	return d.Calendar
}

// SLAComplianceRow summarizes SLA verdicts for one priority. ComplianceRate
// is Compliant / (Compliant + Breach); it is nil when no ticket of the
// priority has a verdict other than NotApplicable.
type SLAComplianceRow struct {
	Compliant      int      `json:"compliant"`
	Breach         int      `json:"breach"`
	NotApplicable  int      `json:"notApplicable"`
	ComplianceRate *float64 `json:"complianceRate,omitempty"`
}

// Outlier is one ticket flagged by the z-score detector.
type Outlier struct {
	TicketKey string         `json:"ticketKey"`
	Priority  TicketPriority `json:"priority"`
	Dimension Dimension      `json:"dimension"`
	Kind      ValueKind      `json:"kind"`
	Seconds   float64        `json:"seconds"`
	ZScore    float64        `json:"zScore"`
}

// DurationMean is the average of one dimension over one week bucket, in
// seconds for both time bases.
type DurationMean struct {
	CalendarSeconds float64 `json:"calendarSeconds"`
	WorkingSeconds  float64 `json:"workingSeconds"`
}

// TrendPoint is one week bucket of the trend series. Weeks inside the
// observed range with no tickets are emitted with Volume 0 and nil means so
// charts show gaps instead of compressing the time axis.
type TrendPoint struct {
	WeekStart      time.Time     `json:"weekStart"`
	Volume         int           `json:"volume"`
	MeanDetection  *DurationMean `json:"meanDetection,omitempty"`
	MeanResolution *DurationMean `json:"meanResolution,omitempty"`
}

// StatBundle is the complete output of one analysis run. It is produced once
// per invocation and handed to renderers as a read-only value; the engine
// itself keeps no state between runs.
type StatBundle struct {
	TotalTickets        int                                                 `json:"totalTickets"`
	OpenTickets         int                                                 `json:"openTickets"`
	ResolutionBreakdown map[ResolutionCategory]int                          `json:"resolutionBreakdown"`
	Global              map[Dimension]DimensionStats                        `json:"global"`
	ByPriority          map[TicketPriority]map[Dimension]DimensionStats     `json:"byPriority"`
	ByCategory          map[ResolutionCategory]map[Dimension]DimensionStats `json:"byCategory"`
	SLACompliance       map[TicketPriority]SLAComplianceRow                 `json:"slaCompliance"`
	Outliers            []Outlier                                           `json:"outliers"`
	WeeklyTrend         []TrendPoint                                        `json:"weeklyTrend"`
	Warnings            []DataQualityWarning                                `json:"warnings"`
}

// Report is one archived analysis run: the bundle plus the parameters that
// produced it.
type Report struct {
	ID          uuid.UUID    `json:"id"`
	PeriodStart time.Time    `json:"periodStart"`
	PeriodEnd   time.Time    `json:"periodEnd"`
	TicketCount int          `json:"ticketCount"`
	Bundle      *StatBundle  `json:"bundle,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}
