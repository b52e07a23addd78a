package metrics

import (
	"math"
	"sort"

	"github.com/lorrc/soc-metrics-backend/internal/core/domain"
)

// KeyFunc extracts the grouping key for one ticket. Grouping by priority,
// resolution category or week bucket are all instances of the same
// parameterized reduction; there is one aggregation path, not three.
type KeyFunc[K comparable] func(domain.TicketMetrics) K

// Aggregate reduces the tickets into per-group statistics along one
// dimension and time base. Tickets without a duration for the dimension do
// not contribute. A group missing from the result simply had no members;
// callers wanting zero-count rows for known keys merge them in afterwards.
func Aggregate[K comparable](tickets []domain.TicketMetrics, key KeyFunc[K], dim domain.Dimension, kind domain.ValueKind) map[K]domain.GroupStats {
	grouped := make(map[K][]float64)
	for _, t := range tickets {
		v, ok := t.Value(dim, kind)
		if !ok {
			continue
		}
		k := key(t)
		grouped[k] = append(grouped[k], v)
	}

	out := make(map[K]domain.GroupStats, len(grouped))
	for k, values := range grouped {
		out[k] = Summarize(values)
	}
	return out
}

// AggregateAll computes the unkeyed global statistics over the whole set.
func AggregateAll(tickets []domain.TicketMetrics, dim domain.Dimension, kind domain.ValueKind) domain.GroupStats {
	var values []float64
	for _, t := range tickets {
		if v, ok := t.Value(dim, kind); ok {
			values = append(values, v)
		}
	}
	return Summarize(values)
}

// Summarize computes the full statistic set for one slice of values. An
// empty slice yields the insufficient-data sentinel (nil Summary) rather
// than NaN; renderers must treat it as "insufficient data", never as zero.
func Summarize(values []float64) domain.GroupStats {
	n := len(values)
	if n == 0 {
		return domain.GroupStats{Count: 0}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(n)

	var sqDiff float64
	for _, v := range sorted {
		d := v - mean
		sqDiff += d * d
	}
	// Population standard deviation: divide by N, not N-1.
	stdDev := math.Sqrt(sqDiff / float64(n))

	return domain.GroupStats{
		Count: n,
		Summary: &domain.Summary{
			Mean:   mean,
			Median: Percentile(sorted, 50),
			StdDev: stdDev,
			Min:    sorted[0],
			Max:    sorted[n-1],
			P25:    Percentile(sorted, 25),
			P50:    Percentile(sorted, 50),
			P75:    Percentile(sorted, 75),
			P90:    Percentile(sorted, 90),
			P95:    Percentile(sorted, 95),
			P99:    Percentile(sorted, 99),
		},
	}
}

// Percentile returns the p-th percentile of sorted using linear
// interpolation between the two bounding order statistics: for N values the
// rank is p/100*(N-1), interpolated between its floor and ceil neighbours.
// p 0 returns the minimum and p 100 the maximum. sorted must be ascending
// and non-empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[n-1]
	}

	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
