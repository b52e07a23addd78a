package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lorrc/soc-metrics-backend/internal/core/domain"
	apperrors "github.com/lorrc/soc-metrics-backend/internal/core/errors"
	"github.com/lorrc/soc-metrics-backend/internal/core/ports"
)

// ReportRepository is the secondary adapter for report persistence. The
// stat bundle is stored as a JSONB document: reports are written once and
// never queried by their internals.
type ReportRepository struct {
	pool *pgxpool.Pool
}

var _ ports.ReportRepository = (*ReportRepository)(nil)

// NewReportRepository creates a new report repository.
func NewReportRepository(pool *pgxpool.Pool) ports.ReportRepository {
	return &ReportRepository{pool: pool}
}

// Save persists a completed analysis run.
func (r *ReportRepository) Save(ctx context.Context, report *domain.Report) error {
	bundle, err := json.Marshal(report.Bundle)
	if err != nil {
		return fmt.Errorf("encoding report bundle: %w", err)
	}

	const query = `
INSERT INTO report_runs (id, period_start, period_end, ticket_count, bundle, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
`

	_, err = r.pool.Exec(ctx, query,
		report.ID,
		report.PeriodStart,
		report.PeriodEnd,
		report.TicketCount,
		bundle,
		report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting report run: %w", err)
	}

	return nil
}

// GetByID retrieves one archived run including its full stat bundle.
func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	const query = `
SELECT id, period_start, period_end, ticket_count, bundle, created_at
FROM report_runs
WHERE id = $1
`

	var (
		report domain.Report
		bundle []byte
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&report.ID,
		&report.PeriodStart,
		&report.PeriodEnd,
		&report.TicketCount,
		&bundle,
		&report.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrReportNotFound
		}
		return nil, fmt.Errorf("fetching report run: %w", err)
	}

	report.Bundle = &domain.StatBundle{}
	if err := json.Unmarshal(bundle, report.Bundle); err != nil {
		return nil, fmt.Errorf("decoding report bundle: %w", err)
	}

	return &report, nil
}

// List returns archived runs newest first. Bundles are left out; the
// listing endpoint only shows run metadata.
func (r *ReportRepository) List(ctx context.Context, limit, offset int) ([]*domain.Report, error) {
	const query = `
SELECT id, period_start, period_end, ticket_count, created_at
FROM report_runs
ORDER BY created_at DESC
LIMIT $1 OFFSET $2
`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing report runs: %w", err)
	}
	defer rows.Close()

	reports := make([]*domain.Report, 0)
	for rows.Next() {
		var report domain.Report
		if err := rows.Scan(
			&report.ID,
			&report.PeriodStart,
			&report.PeriodEnd,
			&report.TicketCount,
			&report.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning report run: %w", err)
		}
		reports = append(reports, &report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating report runs: %w", err)
	}

	return reports, nil
}
