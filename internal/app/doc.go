// Package app wires the dashboard server together: configuration, logging,
// OpenTelemetry, the dataset store, the event hub, the services and the chi
// router.
//
// # Initialization
//
// New builds every component for a configuration:
//
//  1. Resolve and create the data, logs and exports directories
//  2. Initialize OpenTelemetry and the business metrics
//  3. Create the dataset store and the websocket hub
//  4. Register the reload hooks (page cache purge, hub broadcast)
//  5. Create the services and load the dataset
//  6. Mount the handlers and middleware
//
// A dataset that cannot be loaded at startup does not stop the server. The
// store serves an empty fallback dataset and readiness reports degraded until
// a reload succeeds.
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// Run blocks until SIGINT or SIGTERM, then drains HTTP requests, closes the
// websocket clients and flushes telemetry.
package app
