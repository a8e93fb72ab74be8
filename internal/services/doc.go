// Package services implements the application layer between the HTTP
// handlers and the report engine.
//
// ReportService owns the dataset loaded at startup. The dataset is never
// mutated after load, so concurrent requests read it without locking.
// Every build runs the analytics engine on the current filter and records
// report metrics:
//
//	svc := services.NewReportService(engine, services.ReportServiceOptions{
//	    Metrics: metrics,
//	}, logger)
//	if err := svc.LoadDataset(ctx, loader, postsPath, benchmarksPath); err != nil {
//	    return err
//	}
//	report, err := svc.BuildReport(ctx, services.SourceAPI, filter)
//	if errors.Is(err, analytics.ErrEmptyFilterResult) {
//	    // render the no-data state
//	}
//
// HealthService exposes liveness, readiness and version information.
// Readiness depends on the dataset being loaded.
package services
