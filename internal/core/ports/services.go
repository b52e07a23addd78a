package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lorrc/soc-metrics-backend/internal/core/domain"
)

// RunAnalysisParams defines the input for one analysis run.
type RunAnalysisParams struct {
	From      time.Time
	To        time.Time
	MaxIssues int
	// ExcludeCategories drops tickets of the given resolution categories
	// before the engine runs, e.g. Testing and Duplicate for a
	// production-incidents-only report.
	ExcludeCategories []domain.ResolutionCategory
}

// AnalysisService runs the metrics pipeline and manages the report archive.
type AnalysisService interface {
	RunAnalysis(ctx context.Context, params RunAnalysisParams) (*domain.Report, error)
	GetReport(ctx context.Context, id uuid.UUID) (*domain.Report, error)
	ListReports(ctx context.Context, limit, offset int) ([]*domain.Report, error)
}

// AuthService authenticates API callers and issues access tokens.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// TokenIssuer mints signed access tokens for authenticated callers.
type TokenIssuer interface {
	GenerateToken(subject string) (string, error)
}
