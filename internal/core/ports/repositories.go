package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lorrc/soc-metrics-backend/internal/core/domain"
)

// FetchParams scopes one ticket retrieval from the external source.
type FetchParams struct {
	From       time.Time
	To         time.Time
	MaxResults int
}

// TicketSource is the read-only boundary to the external ticket tracker.
// The engine never talks to it directly; the analysis service materializes
// the batch before any metric is computed.
type TicketSource interface {
	FetchTickets(ctx context.Context, params FetchParams) ([]domain.TicketRecord, error)
}

// ReportRepository archives completed analysis runs.
type ReportRepository interface {
	Save(ctx context.Context, report *domain.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error)
	// List returns archived runs newest first, without their bundles.
	List(ctx context.Context, limit, offset int) ([]*domain.Report, error)
}

// ResponseCache caches raw upstream responses between fetches.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
