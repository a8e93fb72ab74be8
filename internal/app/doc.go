// Package app wires the campaign dashboard server together.
//
// # Initialization Flow
//
//  1. Load configuration from defaults, the config file and PULSE_* variables
//  2. Initialize logging and OpenTelemetry (Prometheus metrics, optional stdout traces)
//  3. Load the post export and the benchmark file into an in-memory dataset
//  4. Build the report and health services
//  5. Set up middleware, handlers and the HTTP server
//
// A dataset that cannot be loaded aborts startup. Once loaded, the dataset is
// read-only for the life of the process.
//
// # Usage
//
//	application, err := app.NewApplication(ctx)
//	if err != nil {
//	    // log and exit
//	}
//	if err := application.Run(); err != nil {
//	    // log and exit
//	}
//
// # Graceful Shutdown
//
// Run serves until SIGINT or SIGTERM, then drains in-flight requests within
// the configured shutdown timeout and flushes the telemetry providers. The
// package never calls os.Exit.
package app
