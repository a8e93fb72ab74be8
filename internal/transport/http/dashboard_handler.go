package http

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"campaignpulse/internal/analytics"
	apierrors "campaignpulse/internal/errors"
	"campaignpulse/internal/middleware"
	"campaignpulse/internal/presentation"
	"campaignpulse/internal/services"
)

// DashboardRenderer writes a dashboard view model as a page
type DashboardRenderer interface {
	Render(w io.Writer, d *presentation.Dashboard) error
}

// DashboardHandler renders the HTML dashboard
type DashboardHandler struct {
	service      ReportServiceInterface
	validator    *middleware.Validator
	builder      *presentation.Builder
	renderer     DashboardRenderer
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a dashboard handler
func NewDashboardHandler(service ReportServiceInterface, validator *middleware.Validator, builder *presentation.Builder, renderer DashboardRenderer, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		validator:    validator,
		builder:      builder,
		renderer:     renderer,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// ServeDashboard handles GET / with the filter in the query string
func (h *DashboardHandler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	info, err := h.service.Platforms(ctx)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defaults, err := h.service.DefaultFilter()
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	f, err := parseReportQuery(r).Filter(h.validator, defaults)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	state := presentation.NewFilterState(f.Start, f.End, f.SelectedPlatforms(), info.Platforms, info.MinDate, info.MaxDate)

	var dashboard *presentation.Dashboard
	report, err := h.service.BuildReport(ctx, services.SourceDashboard, f)
	switch {
	case errors.Is(err, analytics.ErrEmptyFilterResult):
		dashboard = h.builder.NoData(state)
	case err != nil:
		h.errorHandler.HandleError(w, r, err)
		return
	default:
		dashboard = h.builder.Build(report, state)
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, dashboard); err != nil {
		h.logger.ErrorContext(ctx, "dashboard render failed", slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(ctx, "dashboard write interrupted", slog.String("error", err.Error()))
	}
}
