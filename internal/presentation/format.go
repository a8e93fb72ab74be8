package presentation

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"campaignpulse/pkg/contracts/domain"
)

// Formatter renders numbers for display with locale-aware grouping
type Formatter struct {
	printer *message.Printer
}

// NewFormatter creates a formatter for the given BCP 47 tag.
// Unknown tags fall back to English.
func NewFormatter(tag string) *Formatter {
	lang, err := language.Parse(tag)
	if err != nil {
		lang = language.English
	}
	return &Formatter{printer: message.NewPrinter(lang)}
}

// DefaultFormatter formats with English grouping, e.g. 1,234,567
func DefaultFormatter() *Formatter {
	return NewFormatter("en")
}

// Count formats an integer count with thousands separators
func (f *Formatter) Count(n int64) string {
	return f.printer.Sprintf("%d", n)
}

// Value formats a metric value. Whole numbers have no decimals,
// fractional benchmark means keep one.
func (f *Formatter) Value(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return f.printer.Sprintf("%d", int64(v))
	}
	return f.printer.Sprintf("%.1f", v)
}

// Rate formats an engagement rate in percent with two decimals
func (f *Formatter) Rate(pct float64) string {
	return f.printer.Sprintf("%.2f %%", pct)
}

// Delta formats a performance delta. The label itself never uses grouping
// so that it matches the exported and JSON label exactly.
func (f *Formatter) Delta(d domain.Delta) string {
	return d.Label()
}

// Date formats a calendar day
func (f *Formatter) Date(t time.Time) string {
	return t.Format(time.DateOnly)
}
