// Package http implements the HTTP handlers of the sales dashboard API.
// Handlers are a thin layer between chi routing and the services package:
// they parse and validate query parameters, call a service, and write either
// the success envelope or an RFC 7807 problem.
//
// # Routes
//
// Each handler exposes Routes() and is mounted by the application router:
//
//	/api/health      health, readiness and liveness checks
//	/api/dataset     active dataset info and reload
//	/api/dashboard   precomputed dashboard pages
//	/api/analytics   group, market share, top-N, trends and growth
//	/api/export      CSV, XLSX and JSON downloads
//	/api/logs        log file listing, tail and cleanup
//
// # Responses
//
// Successful responses use the envelope
//
//	{"status": "success", "data": ..., "count": 3}
//
// where count is only present for list results. Errors are rendered by
// errors.ErrorHandler as problem details:
//
//	{
//	    "type": "/errors/validation",
//	    "title": "Bad Request",
//	    "status": 400,
//	    "detail": "Request validation failed",
//	    "instance": "/api/analytics/top/genre",
//	    "error_code": "VALIDATION_ERROR"
//	}
//
// # Filters
//
// The dashboard, analytics and export endpoints accept the same filter
// parameters: start_year, end_year, platforms, genres, publishers and
// min_sales. platforms and genres may be repeated or comma separated.
// publishers must be repeated, one name per parameter, since publisher names
// can contain commas:
//
//	/api/dashboard/overview?platforms=Wii,DS&publishers=Nintendo&publishers=Mastertronic,%20Inc.
//
// # Testing
//
// Handlers depend on the service interfaces in interfaces.go and are tested
// through Routes() with testify mocks and httptest.
package http
