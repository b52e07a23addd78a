package domain

// Dimension identifies one of the three measured ticket intervals.
type Dimension string

const (
	DimensionDetection  Dimension = "detection"
	DimensionResolution Dimension = "resolution"
	DimensionTotal      Dimension = "total"
)

// Dimensions lists all duration dimensions in reporting order.
var Dimensions = []Dimension{DimensionDetection, DimensionResolution, DimensionTotal}

// ValueKind distinguishes calendar elapsed time from working-hours time.
type ValueKind string

const (
	KindCalendar ValueKind = "calendar"
	KindWorking  ValueKind = "working"
)

// ValueKinds lists both time bases.
var ValueKinds = []ValueKind{KindCalendar, KindWorking}

// DurationPair holds one measured interval in both time bases, in whole
// seconds. Values are derived once during extraction and never mutated.
type DurationPair struct {
	CalendarSeconds int64 `json:"calendarSeconds"`
	WorkingSeconds  int64 `json:"workingSeconds"`
}

// Seconds returns the pair's value for the requested time base.
func (d DurationPair) Seconds(kind ValueKind) int64 {
	if kind == KindWorking {
		return d.WorkingSeconds
	}
	return d.CalendarSeconds
}

// SLAVerdict classifies a ticket's resolution time against its SLA threshold.
type SLAVerdict string

const (
	SLACompliant     SLAVerdict = "COMPLIANT"
	SLABreach        SLAVerdict = "BREACH"
	SLANotApplicable SLAVerdict = "NOT_APPLICABLE"
)

// TicketMetrics couples one ticket with its derived durations and verdicts.
// A nil pair means the ticket does not participate in that dimension.
type TicketMetrics struct {
	Ticket     TicketRecord
	Detection  *DurationPair
	Resolution *DurationPair
	Total      *DurationPair
	SLA        SLAVerdict
}

// Duration returns the pair for the given dimension, or nil when the ticket
// is excluded from that dimension.
func (m TicketMetrics) Duration(dim Dimension) *DurationPair {
	switch dim {
	case DimensionDetection:
		return m.Detection
	case DimensionResolution:
		return m.Resolution
	case DimensionTotal:
		return m.Total
	}
	return nil
}

// Value returns the ticket's duration in seconds for one dimension and time
// base. The second return is false when the ticket is excluded from the
// dimension.
func (m TicketMetrics) Value(dim Dimension, kind ValueKind) (float64, bool) {
	pair := m.Duration(dim)
	if pair == nil {
		return 0, false
	}
	return float64(pair.Seconds(kind)), true
}

// DataQualityWarning records a ticket whose timestamps were missing or out of
// order. Warnings accumulate alongside the result; they never abort a run.
type DataQualityWarning struct {
	TicketKey string `json:"ticketKey"`
	Reason    string `json:"reason"`
}
