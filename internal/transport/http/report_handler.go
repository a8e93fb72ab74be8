package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"campaignpulse/internal/analytics"
	apierrors "campaignpulse/internal/errors"
	"campaignpulse/internal/exporter"
	"campaignpulse/internal/middleware"
	"campaignpulse/internal/presentation"
	"campaignpulse/internal/services"
	"campaignpulse/pkg/contracts/domain"
)

// Report response statuses
const (
	StatusOK     = "ok"
	StatusNoData = "no_data"
)

// ReportResponse wraps a report. Report is nil when the filter matched no posts.
type ReportResponse struct {
	Status  string               `json:"status"`
	Message string               `json:"message,omitempty"`
	Filter  domain.ReportFilter  `json:"filter"`
	Report  *domain.Report       `json:"report,omitempty"`
	Charts  *presentation.Charts `json:"charts,omitempty"`
}

// ReportHandler serves report data, platform metadata and exports
type ReportHandler struct {
	service      ReportServiceInterface
	validator    *middleware.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewReportHandler creates a new report handler
func NewReportHandler(service ReportServiceInterface, validator *middleware.Validator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReportHandler {
	return &ReportHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "report_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the report routes
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(render.SetContentType(render.ContentTypeJSON)).Get("/platforms", h.GetPlatforms)
	r.Route("/report", func(r chi.Router) {
		r.With(render.SetContentType(render.ContentTypeJSON)).Get("/", h.GetReport)
		r.Get("/export", h.ExportReport)
	})

	return r
}

// GetPlatforms handles GET /api/platforms
func (h *ReportHandler) GetPlatforms(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Platforms(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, info)
}

// GetReport handles GET /api/report
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	f, err := h.filter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	report, err := h.service.BuildReport(r.Context(), services.SourceAPI, f)
	if errors.Is(err, analytics.ErrEmptyFilterResult) {
		render.JSON(w, r, ReportResponse{
			Status:  StatusNoData,
			Message: presentation.NoDataMessage,
			Filter:  reportFilter(f),
		})
		return
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	charts := presentation.BuildCharts(report, nil)
	render.JSON(w, r, ReportResponse{
		Status: StatusOK,
		Filter: report.Filter,
		Report: report,
		Charts: &charts,
	})
}

// ExportReport handles GET /api/report/export?format=csv|xlsx
func (h *ReportHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	rawFormat := r.URL.Query().Get("format")
	if rawFormat == "" {
		rawFormat = string(exporter.FormatCSV)
	}
	format, err := exporter.ParseFormat(rawFormat)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.UnsupportedFormat(rawFormat, exporter.SupportedFormats))
		return
	}

	f, err := h.filter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	report, err := h.service.BuildReport(r.Context(), services.SourceExport, f)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), &buf, report, format); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ExportError(string(format), err))
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.FileName(report)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "export write interrupted",
			slog.String("format", string(format)),
			slog.String("error", err.Error()))
	}
}

func (h *ReportHandler) filter(r *http.Request) (analytics.Filter, error) {
	defaults, err := h.service.DefaultFilter()
	if err != nil {
		return analytics.Filter{}, err
	}
	return parseReportQuery(r).Filter(h.validator, defaults)
}

func reportFilter(f analytics.Filter) domain.ReportFilter {
	return domain.ReportFilter{
		Start:     domain.CalendarDay(f.Start),
		End:       domain.CalendarDay(f.End),
		Platforms: f.SelectedPlatforms(),
	}
}
