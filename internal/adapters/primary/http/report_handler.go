package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	mw "github.com/lorrc/soc-metrics-backend/internal/adapters/primary/http/middleware"
	"github.com/lorrc/soc-metrics-backend/internal/core/domain"
	apperrors "github.com/lorrc/soc-metrics-backend/internal/core/errors"
	"github.com/lorrc/soc-metrics-backend/internal/core/ports"
	"github.com/lorrc/soc-metrics-backend/internal/core/services"
)

// ReportHandler exposes the analysis pipeline and the report archive.
type ReportHandler struct {
	analysisService ports.AnalysisService
	errorHandler    *ErrorHandler
	logger          *slog.Logger
}

// NewReportHandler creates a new report handler.
func NewReportHandler(analysisService ports.AnalysisService, errorHandler *ErrorHandler, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		analysisService: analysisService,
		errorHandler:    errorHandler,
		logger:          logger.With("handler", "reports"),
	}
}

// RunReportRequest is the payload for starting an analysis run. From and To
// accept RFC 3339 timestamps or plain dates.
type RunReportRequest struct {
	From              string   `json:"from"`
	To                string   `json:"to"`
	MaxIssues         int      `json:"maxIssues,omitempty"`
	ExcludeCategories []string `json:"excludeCategories,omitempty"`
}

// HandleRun executes the full pipeline for the requested period and returns
// the archived report.
func (h *ReportHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	var req RunReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid JSON body"))
		return
	}

	from, err := parseTimestamp(req.From)
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid 'from' timestamp"))
		return
	}
	to, err := parseTimestamp(req.To)
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid 'to' timestamp"))
		return
	}

	excluded, err := parseCategories(req.ExcludeCategories)
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, err.Error()))
		return
	}

	report, err := h.analysisService.RunAnalysis(r.Context(), ports.RunAnalysisParams{
		From:              from,
		To:                to,
		MaxIssues:         req.MaxIssues,
		ExcludeCategories: excluded,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	attrs := []any{
		"report_id", report.ID,
		"ticket_count", report.TicketCount,
	}
	if claims, ok := mw.GetOperatorClaims(r.Context()); ok {
		attrs = append(attrs, "operator", claims.Username)
	}
	h.logger.Info("report generated", attrs...)

	WriteCreated(w, report)
}

// HandleGet returns one archived report with its full stat bundle.
func (h *ReportHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid report ID"))
		return
	}

	report, err := h.analysisService.GetReport(r.Context(), id)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, report)
}

// HandleList returns archived report metadata, newest first.
func (h *ReportHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", services.DefaultListLimit)
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid 'limit' parameter"))
		return
	}
	// Clamp here so the pagination metadata reflects the limit the service
	// actually applies.
	limit = services.ClampListLimit(limit)
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid 'offset' parameter"))
		return
	}

	reports, err := h.analysisService.ListReports(r.Context(), limit, offset)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WritePaginated(w, reports, limit, offset)
}

// RegisterRoutes registers report routes on the given router.
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.HandleRun)
	r.Get("/", h.HandleList)
	r.Get("/{id}", h.HandleGet)
}

// parseTimestamp accepts RFC 3339 or a bare date. Bare dates mean midnight
// UTC, matching how analysis periods are usually requested.
func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("timestamp is required")
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q is not RFC 3339 or YYYY-MM-DD", value)
	}
	return t, nil
}

func parseCategories(names []string) ([]domain.ResolutionCategory, error) {
	if len(names) == 0 {
		return nil, nil
	}
	categories := make([]domain.ResolutionCategory, 0, len(names))
	for _, name := range names {
		category := domain.ResolutionCategory(strings.ToUpper(strings.TrimSpace(name)))
		if !knownCategory(category) {
			return nil, fmt.Errorf("unknown resolution category %q", name)
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func knownCategory(category domain.ResolutionCategory) bool {
	for _, known := range domain.ResolutionCategories {
		if category == known {
			return true
		}
	}
	return false
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", key)
	}
	return value, nil
}
