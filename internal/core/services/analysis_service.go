package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lorrc/soc-metrics-backend/internal/core/domain"
	apperrors "github.com/lorrc/soc-metrics-backend/internal/core/errors"
	"github.com/lorrc/soc-metrics-backend/internal/core/metrics"
	"github.com/lorrc/soc-metrics-backend/internal/core/ports"
)

// Listing pagination bounds, shared with the HTTP layer so response
// metadata always reflects the limit actually applied.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// ClampListLimit normalizes a requested page size to the allowed range.
func ClampListLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// AnalysisService orchestrates one analysis run: materialize the ticket
// batch from the source, run the metrics engine, archive the result.
type AnalysisService struct {
	source           ports.TicketSource
	reportRepo       ports.ReportRepository
	engineOpts       metrics.Options
	defaultMaxIssues int
	logger           *slog.Logger
}

var _ ports.AnalysisService = (*AnalysisService)(nil)

// NewAnalysisService creates a new analysis service. The engine options are
// validated on the first run; an invalid calendar fails the run before any
// ticket is fetched. defaultMaxIssues caps a run whose request does not set
// its own cap; zero means unbounded.
func NewAnalysisService(
	source ports.TicketSource,
	reportRepo ports.ReportRepository,
	engineOpts metrics.Options,
	defaultMaxIssues int,
	logger *slog.Logger,
) ports.AnalysisService {
	return &AnalysisService{
		source:           source,
		reportRepo:       reportRepo,
		engineOpts:       engineOpts,
		defaultMaxIssues: defaultMaxIssues,
		logger:           logger,
	}
}

// RunAnalysis executes the full pipeline for one period and persists the
// resulting report.
func (s *AnalysisService) RunAnalysis(ctx context.Context, params ports.RunAnalysisParams) (*domain.Report, error) {
	if !params.To.After(params.From) {
		return nil, apperrors.ErrInvalidPeriod
	}

	// Configuration errors abort before any ticket is fetched.
	engine, err := metrics.NewEngine(s.engineOpts)
	if err != nil {
		return nil, err
	}

	maxIssues := params.MaxIssues
	if maxIssues <= 0 {
		maxIssues = s.defaultMaxIssues
	}

	tickets, err := s.source.FetchTickets(ctx, ports.FetchParams{
		From:       params.From,
		To:         params.To,
		MaxResults: maxIssues,
	})
	if err != nil {
		return nil, apperrors.NewUpstreamError(err)
	}

	tickets = excludeCategories(tickets, params.ExcludeCategories)

	s.logger.Info("running metrics analysis",
		"ticket_count", len(tickets),
		"period_start", params.From,
		"period_end", params.To,
	)

	bundle := engine.Run(tickets)

	report := &domain.Report{
		ID:          uuid.New(),
		PeriodStart: params.From,
		PeriodEnd:   params.To,
		TicketCount: len(tickets),
		Bundle:      bundle,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.reportRepo.Save(ctx, report); err != nil {
		return nil, fmt.Errorf("archiving report: %w", err)
	}

	s.logger.Info("analysis complete",
		"report_id", report.ID,
		"open_tickets", bundle.OpenTickets,
		"warnings", len(bundle.Warnings),
		"outliers", len(bundle.Outliers),
	)

	return report, nil
}

// GetReport retrieves one archived run with its full bundle.
func (s *AnalysisService) GetReport(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	return s.reportRepo.GetByID(ctx, id)
}

// ListReports returns archived runs newest first.
func (s *AnalysisService) ListReports(ctx context.Context, limit, offset int) ([]*domain.Report, error) {
	limit = ClampListLimit(limit)
	if offset < 0 {
		offset = 0
	}
	return s.reportRepo.List(ctx, limit, offset)
}

func excludeCategories(tickets []domain.TicketRecord, excluded []domain.ResolutionCategory) []domain.TicketRecord {
	if len(excluded) == 0 {
		return tickets
	}
	drop := make(map[domain.ResolutionCategory]bool, len(excluded))
	for _, c := range excluded {
		drop[c] = true
	}
	kept := tickets[:0]
	for _, t := range tickets {
		if !drop[t.Resolution] {
			kept = append(kept, t)
		}
	}
	return kept
}
