// Package services implements the business logic layer of the sales dashboard.
// It sits between the HTTP handlers and the dataset store so that handlers
// only parse requests and render responses.
//
// # Available Services
//
//   - DatasetService: reports on and reloads the active dataset
//   - DashboardService: page payloads (overview, sales, genres, platforms,
//     publishers, regions, filters) with a TTL cache purged on reload
//   - AnalyticsService: group, market share, ranking, trend and growth queries
//   - ExportService: CSV, XLSX and JSON table downloads
//   - LogService: lists, tails and prunes log files
//   - HealthService: health, readiness and liveness checks
//
// # Error Handling
//
// Services return the sentinel errors in errors.go, wrapped with context via
// fmt.Errorf("...: %w", err). Dataset loading failures surface as
// *dataprocessing.DataLoadingError. Handlers translate both into RFC 7807
// problem responses.
package services
