package domain

import (
	"time"
)

// TicketPriority represents the urgency of a security ticket, ordered from
// most to least urgent.
type TicketPriority string

const (
	PriorityCritical TicketPriority = "CRITICAL"
	PriorityHigh     TicketPriority = "HIGH"
	PriorityMedium   TicketPriority = "MEDIUM"
	PriorityLow      TicketPriority = "LOW"
)

// Priorities lists all known priorities in descending urgency order.
var Priorities = []TicketPriority{
	PriorityCritical,
	PriorityHigh,
	PriorityMedium,
	PriorityLow,
}

// Rank returns the position of the priority in the urgency ordering.
// Lower rank means more urgent. Unknown priorities sort last.
func (p TicketPriority) Rank() int {
	for i, known := range Priorities {
		if p == known {
			return i
		}
	}
	return len(Priorities)
}

// IsValid reports whether the priority is one of the known values.
func (p TicketPriority) IsValid() bool {
	return p.Rank() < len(Priorities)
}

// ResolutionCategory classifies how a security ticket was closed.
type ResolutionCategory string

const (
	ResolutionDone             ResolutionCategory = "DONE"
	ResolutionFalsePositive    ResolutionCategory = "FALSE_POSITIVE"
	ResolutionTruePositive     ResolutionCategory = "TRUE_POSITIVE"
	ResolutionDuplicate        ResolutionCategory = "DUPLICATE"
	ResolutionTesting          ResolutionCategory = "TESTING"
	ResolutionExpectedActivity ResolutionCategory = "EXPECTED_ACTIVITY"
	ResolutionOther            ResolutionCategory = "OTHER"
)

// ResolutionCategories lists every known resolution category. Breakdown
// tables include all of them even when a category has zero tickets.
var ResolutionCategories = []ResolutionCategory{
	ResolutionDone,
	ResolutionFalsePositive,
	ResolutionTruePositive,
	ResolutionDuplicate,
	ResolutionTesting,
	ResolutionExpectedActivity,
	ResolutionOther,
}

// TicketRecord is one ticket lifecycle record as ingested from the ticket
// source. Created is always present; Detected and Resolved may be absent.
// A nil Resolved means the ticket is still open.
type TicketRecord struct {
	Key        string
	Summary    string
	Priority   TicketPriority
	Resolution ResolutionCategory
	Created    time.Time
	Detected   *time.Time
	Resolved   *time.Time
}

// IsOpen reports whether the ticket has not been resolved yet.
func (t TicketRecord) IsOpen() bool {
	return t.Resolved == nil
}
