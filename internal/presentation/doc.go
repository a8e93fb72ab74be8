// Package presentation turns an assembled report into what people look at:
// chart series, formatted numbers, tier colors, the HTML dashboard and the
// terminal tables of the report CLI.
//
// The analytics engine never deals with colors or labels. Everything here is
// derived from a *domain.Report and is safe to rebuild on every request.
package presentation
