package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/soc-metrics-backend/internal/core/domain"
	apperrors "github.com/lorrc/soc-metrics-backend/internal/core/errors"
)

func sampleReport(createdAt time.Time) *domain.Report {
	rate := 0.75
	return &domain.Report{
		ID:          uuid.New(),
		PeriodStart: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		TicketCount: 4,
		CreatedAt:   createdAt,
		Bundle: &domain.StatBundle{
			TotalTickets: 4,
			OpenTickets:  1,
			ResolutionBreakdown: map[domain.ResolutionCategory]int{
				domain.ResolutionDone:          2,
				domain.ResolutionFalsePositive: 1,
			},
			Global: map[domain.Dimension]domain.DimensionStats{
				domain.DimensionResolution: {
					Working: domain.GroupStats{
						Count: 3,
						Summary: &domain.Summary{
							Mean: 7200, Median: 7200, Min: 3600, Max: 10800,
							P25: 5400, P50: 7200, P75: 9000, P90: 10080, P95: 10440, P99: 10728,
						},
					},
				},
			},
			SLACompliance: map[domain.TicketPriority]domain.SLAComplianceRow{
				domain.PriorityHigh: {Compliant: 3, Breach: 1, ComplianceRate: &rate},
			},
			Outliers: []domain.Outlier{
				{
					TicketKey: "SOC-7",
					Priority:  domain.PriorityHigh,
					Dimension: domain.DimensionResolution,
					Kind:      domain.KindWorking,
					Seconds:   10800,
					ZScore:    2.4,
				},
			},
			WeeklyTrend: []domain.TrendPoint{
				{
					WeekStart:      time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
					Volume:         4,
					MeanResolution: &domain.DurationMean{CalendarSeconds: 9000, WorkingSeconds: 7200},
				},
			},
			Warnings: []domain.DataQualityWarning{
				{TicketKey: "SOC-2", Reason: "detected timestamp absent, excluded from detection statistics"},
			},
		},
	}
}

func TestReportRepository_SaveAndGetByID(t *testing.T) {
	ctx := context.Background()
	repo := NewReportRepository(testPool)

	report := sampleReport(time.Now().UTC().Truncate(time.Microsecond))

	require.NoError(t, repo.Save(ctx, report))

	got, err := repo.GetByID(ctx, report.ID)
	require.NoError(t, err)

	assert.Equal(t, report.ID, got.ID)
	assert.Equal(t, report.TicketCount, got.TicketCount)
	assert.True(t, report.PeriodStart.Equal(got.PeriodStart))
	assert.True(t, report.PeriodEnd.Equal(got.PeriodEnd))

	require.NotNil(t, got.Bundle)
	assert.Equal(t, report.Bundle.TotalTickets, got.Bundle.TotalTickets)
	assert.Equal(t, report.Bundle.OpenTickets, got.Bundle.OpenTickets)
	assert.Equal(t, report.Bundle.ResolutionBreakdown, got.Bundle.ResolutionBreakdown)
	assert.Equal(t, report.Bundle.SLACompliance, got.Bundle.SLACompliance)
	assert.Equal(t, report.Bundle.Outliers, got.Bundle.Outliers)
	assert.Equal(t, report.Bundle.Warnings, got.Bundle.Warnings)

	resolution := got.Bundle.Global[domain.DimensionResolution].Working
	require.True(t, resolution.HasData())
	assert.InDelta(t, 7200, resolution.Summary.Mean, 1e-9)
}

func TestReportRepository_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewReportRepository(testPool)

	_, err := repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrReportNotFound)
}

func TestReportRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := NewReportRepository(testPool)

	base := time.Now().UTC().Truncate(time.Microsecond)
	older := sampleReport(base.Add(-2 * time.Hour))
	newer := sampleReport(base.Add(-1 * time.Hour))

	require.NoError(t, repo.Save(ctx, older))
	require.NoError(t, repo.Save(ctx, newer))

	reports, err := repo.List(ctx, 50, 0)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(reports), 2)

	// Newest first, bundles omitted.
	for i := 1; i < len(reports); i++ {
		assert.False(t, reports[i].CreatedAt.After(reports[i-1].CreatedAt))
	}
	var sawOlder, sawNewer bool
	for _, r := range reports {
		assert.Nil(t, r.Bundle)
		if r.ID == older.ID {
			sawOlder = true
		}
		if r.ID == newer.ID {
			sawNewer = true
		}
	}
	assert.True(t, sawOlder)
	assert.True(t, sawNewer)

	limited, err := repo.List(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
