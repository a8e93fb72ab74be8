package http

import (
	"context"
	"io"

	"campaignpulse/internal/analytics"
	"campaignpulse/internal/exporter"
	"campaignpulse/internal/services"
	"campaignpulse/pkg/contracts/domain"
)

// ReportServiceInterface defines the report operations the handlers need
type ReportServiceInterface interface {
	Platforms(ctx context.Context) (*services.PlatformsInfo, error)
	DefaultFilter() (analytics.Filter, error)
	BuildReport(ctx context.Context, source string, f analytics.Filter) (*domain.Report, error)
	Export(ctx context.Context, w io.Writer, report *domain.Report, format exporter.Format) error
}
