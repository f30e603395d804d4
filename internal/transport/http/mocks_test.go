package http

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"vgsales/internal/analytics"
	apierrors "vgsales/internal/errors"
	"vgsales/internal/middleware"
	"vgsales/internal/services"
	api "vgsales/pkg/contracts/api/v1"
	"vgsales/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDeps() (*QueryParser, *apierrors.ErrorHandler) {
	logger := testLogger()
	return NewQueryParser(middleware.NewValidator(logger)), apierrors.NewErrorHandler(logger, false)
}

// MockDatasetService is a mock implementation of DatasetServiceInterface
type MockDatasetService struct {
	mock.Mock
}

func (m *MockDatasetService) Info(ctx context.Context) api.DatasetInfo {
	return m.Called().Get(0).(api.DatasetInfo)
}

func (m *MockDatasetService) Reload(ctx context.Context) (api.DatasetInfo, error) {
	args := m.Called()
	return args.Get(0).(api.DatasetInfo), args.Error(1)
}

// MockDashboardService is a mock implementation of DashboardServiceInterface
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Overview(ctx context.Context, f analytics.Filter) (*services.OverviewPage, error) {
	args := m.Called(f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.OverviewPage), args.Error(1)
}

func (m *MockDashboardService) Sales(ctx context.Context, f analytics.Filter) (*services.SalesPage, error) {
	args := m.Called(f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SalesPage), args.Error(1)
}

func (m *MockDashboardService) Genres(ctx context.Context, f analytics.Filter) (*services.CategoryPage, error) {
	args := m.Called(f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CategoryPage), args.Error(1)
}

func (m *MockDashboardService) Platforms(ctx context.Context, f analytics.Filter) (*services.CategoryPage, error) {
	args := m.Called(f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CategoryPage), args.Error(1)
}

func (m *MockDashboardService) Publishers(ctx context.Context, f analytics.Filter) (*services.CategoryPage, error) {
	args := m.Called(f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CategoryPage), args.Error(1)
}

func (m *MockDashboardService) Regions(ctx context.Context, f analytics.Filter) (*services.RegionsPage, error) {
	args := m.Called(f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.RegionsPage), args.Error(1)
}

func (m *MockDashboardService) Filters(ctx context.Context) (*services.FiltersPage, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.FiltersPage), args.Error(1)
}

// MockAnalyticsService is a mock implementation of AnalyticsServiceInterface
type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) Group(ctx context.Context, dimension, metric string, f analytics.Filter) ([]domain.GroupStat, error) {
	args := m.Called(dimension, metric, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GroupStat), args.Error(1)
}

func (m *MockAnalyticsService) MarketShare(ctx context.Context, dimension, metric string, f analytics.Filter) ([]domain.ShareEntry, error) {
	args := m.Called(dimension, metric, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ShareEntry), args.Error(1)
}

func (m *MockAnalyticsService) Top(ctx context.Context, dimension, metric string, n int, f analytics.Filter) (services.Ranking, error) {
	args := m.Called(dimension, metric, n, f)
	return args.Get(0).(services.Ranking), args.Error(1)
}

func (m *MockAnalyticsService) Trends(ctx context.Context, f analytics.Filter) []domain.YearStat {
	return m.Called(f).Get(0).([]domain.YearStat)
}

func (m *MockAnalyticsService) Growth(ctx context.Context, f analytics.Filter) []domain.GrowthWindow {
	return m.Called(f).Get(0).([]domain.GrowthWindow)
}

// MockExportService is a mock implementation of ExportServiceInterface
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Tables() []string {
	return m.Called().Get(0).([]string)
}

func (m *MockExportService) Export(ctx context.Context, req services.ExportRequest) (*services.ExportResult, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ExportResult), args.Error(1)
}

// MockLogService is a mock implementation of LogServiceInterface
type MockLogService struct {
	mock.Mock
}

func (m *MockLogService) List(ctx context.Context) ([]api.LogFile, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]api.LogFile), args.Error(1)
}

func (m *MockLogService) Tail(ctx context.Context, name string, n int) (api.LogTail, error) {
	args := m.Called(name, n)
	return args.Get(0).(api.LogTail), args.Error(1)
}

func (m *MockLogService) Prune(ctx context.Context, keepDays int) (api.PruneResult, error) {
	args := m.Called(keepDays)
	return args.Get(0).(api.PruneResult), args.Error(1)
}
