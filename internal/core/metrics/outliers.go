package metrics

import (
	"math"
	"sort"

	"github.com/lorrc/soc-metrics-backend/internal/core/domain"
)

// DefaultZThreshold flags tickets more than two standard deviations from
// their group mean. Labeling |z| >= 3 as "extreme" is a renderer concern.
const DefaultZThreshold = 2.0

// DetectOutliers computes a z-score for every ticket's duration relative to
// its group and returns those at or beyond the threshold, ordered by |z|
// descending with ties broken by ticket key ascending so reruns over the
// same input produce the same sequence.
//
// Groups with zero standard deviation never flag a ticket: identical values
// carry no deviation, and dividing by zero would poison the result.
func DetectOutliers[K comparable](tickets []domain.TicketMetrics, key KeyFunc[K], dim domain.Dimension, kind domain.ValueKind, zThreshold float64) []domain.Outlier {
	type member struct {
		metrics domain.TicketMetrics
		value   float64
	}
	grouped := make(map[K][]member)
	for _, t := range tickets {
		v, ok := t.Value(dim, kind)
		if !ok {
			continue
		}
		k := key(t)
		grouped[k] = append(grouped[k], member{metrics: t, value: v})
	}

	var outliers []domain.Outlier
	for _, members := range grouped {
		var sum float64
		for _, m := range members {
			sum += m.value
		}
		mean := sum / float64(len(members))

		var sqDiff float64
		for _, m := range members {
			d := m.value - mean
			sqDiff += d * d
		}
		stdDev := math.Sqrt(sqDiff / float64(len(members)))
		if stdDev == 0 {
			continue
		}

		for _, m := range members {
			z := (m.value - mean) / stdDev
			if math.Abs(z) < zThreshold {
				continue
			}
			outliers = append(outliers, domain.Outlier{
				TicketKey: m.metrics.Ticket.Key,
				Priority:  m.metrics.Ticket.Priority,
				Dimension: dim,
				Kind:      kind,
				Seconds:   m.value,
				ZScore:    z,
			})
		}
	}

	sort.Slice(outliers, func(i, j int) bool {
		ai, aj := math.Abs(outliers[i].ZScore), math.Abs(outliers[j].ZScore)
		if ai != aj {
			return ai > aj
		}
		return outliers[i].TicketKey < outliers[j].TicketKey
	})
	return outliers
}
