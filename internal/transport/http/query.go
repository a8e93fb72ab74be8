package http

import (
	"net/http"
	"strings"
	"time"

	"campaignpulse/internal/analytics"
	apierrors "campaignpulse/internal/errors"
	"campaignpulse/internal/middleware"
)

// ReportQuery holds the filter parameters of report requests.
// Absent parameters fall back to the whole dataset.
type ReportQuery struct {
	Start     string   `query:"start" validate:"omitempty,datetime=2006-01-02"`
	End       string   `query:"end" validate:"omitempty,datetime=2006-01-02"`
	Platforms []string `query:"platform" validate:"max=50,dive,platform"`
}

// parseReportQuery reads start, end and repeated platform parameters.
// Each platform parameter is one name; commas are part of the name.
func parseReportQuery(r *http.Request) ReportQuery {
	values := r.URL.Query()
	q := ReportQuery{
		Start: strings.TrimSpace(values.Get("start")),
		End:   strings.TrimSpace(values.Get("end")),
	}
	for _, raw := range values["platform"] {
		if p := strings.TrimSpace(raw); p != "" {
			q.Platforms = append(q.Platforms, p)
		}
	}
	return q
}

// Filter validates the query and merges it over defaults
func (q ReportQuery) Filter(v *middleware.Validator, defaults analytics.Filter) (analytics.Filter, error) {
	if err := v.ValidateStruct(q); err != nil {
		return analytics.Filter{}, err
	}

	f := defaults
	if q.Start != "" {
		f.Start, _ = time.Parse(time.DateOnly, q.Start)
	}
	if q.End != "" {
		f.End, _ = time.Parse(time.DateOnly, q.End)
	}
	if len(q.Platforms) > 0 {
		f.Platforms = q.Platforms
	}

	if f.End.Before(f.Start) {
		return analytics.Filter{}, apierrors.ErrValidation("end", "end must not be before start")
	}
	return f, nil
}
