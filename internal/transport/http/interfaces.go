package http

import (
	"context"

	"vgsales/internal/analytics"
	"vgsales/internal/services"
	api "vgsales/pkg/contracts/api/v1"
	"vgsales/pkg/contracts/domain"
)

// DatasetServiceInterface defines the dataset operations used by DatasetHandler
type DatasetServiceInterface interface {
	Info(ctx context.Context) api.DatasetInfo
	Reload(ctx context.Context) (api.DatasetInfo, error)
}

// DashboardServiceInterface defines the page operations used by DashboardHandler
type DashboardServiceInterface interface {
	Overview(ctx context.Context, f analytics.Filter) (*services.OverviewPage, error)
	Sales(ctx context.Context, f analytics.Filter) (*services.SalesPage, error)
	Genres(ctx context.Context, f analytics.Filter) (*services.CategoryPage, error)
	Platforms(ctx context.Context, f analytics.Filter) (*services.CategoryPage, error)
	Publishers(ctx context.Context, f analytics.Filter) (*services.CategoryPage, error)
	Regions(ctx context.Context, f analytics.Filter) (*services.RegionsPage, error)
	Filters(ctx context.Context) (*services.FiltersPage, error)
}

// AnalyticsServiceInterface defines the aggregation operations used by AnalyticsHandler
type AnalyticsServiceInterface interface {
	Group(ctx context.Context, dimension, metric string, f analytics.Filter) ([]domain.GroupStat, error)
	MarketShare(ctx context.Context, dimension, metric string, f analytics.Filter) ([]domain.ShareEntry, error)
	Top(ctx context.Context, dimension, metric string, n int, f analytics.Filter) (services.Ranking, error)
	Trends(ctx context.Context, f analytics.Filter) []domain.YearStat
	Growth(ctx context.Context, f analytics.Filter) []domain.GrowthWindow
}

// ExportServiceInterface defines the export operations used by ExportHandler
type ExportServiceInterface interface {
	Tables() []string
	Export(ctx context.Context, req services.ExportRequest) (*services.ExportResult, error)
}

// LogServiceInterface defines the log file operations used by LogHandler
type LogServiceInterface interface {
	List(ctx context.Context) ([]api.LogFile, error)
	Tail(ctx context.Context, name string, n int) (api.LogTail, error)
	Prune(ctx context.Context, keepDays int) (api.PruneResult, error)
}
