// Package http implements the HTTP handlers of the campaign dashboard.
//
// Handlers are thin: they parse and validate the query string, call the
// report service and render the result. Errors go through the shared
// errors.ErrorHandler and are answered as RFC 7807 problem details.
//
// # Routes
//
//	GET /                     HTML dashboard (start, end, platform)
//	GET /api/platforms        platforms and date bounds of the dataset
//	GET /api/report           report JSON, {"status":"no_data"} on an empty filter
//	GET /api/report/export    CSV or XLSX download (format=csv|xlsx)
//	GET /api/health[/live|/ready], /api/version
//	GET /metrics              Prometheus scrape endpoint
//
// # Query parameters
//
// start and end are inclusive calendar days in YYYY-MM-DD form. platform may
// be repeated or comma separated. Absent parameters cover the whole dataset.
package http
