package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"vgsales/internal/analytics"
	"vgsales/internal/config"
	"vgsales/internal/exporter"
	"vgsales/internal/infrastructure"
	"vgsales/pkg/contracts/domain"
)

// DashboardService computes the dashboard page payloads from the active
// dataset. Payloads are cached per page and filter until the dataset changes.
type DashboardService struct {
	source     DatasetSource
	processing config.ProcessingConfig
	cache      *expirable.LRU[string, interface{}]
	metrics    *infrastructure.BusinessMetrics
	tracer     trace.Tracer
	logger     *slog.Logger
}

// NewDashboardService creates a dashboard service. A disabled cache config or
// zero MaxEntries turns caching off.
func NewDashboardService(source DatasetSource, processing config.ProcessingConfig, cacheCfg config.CacheConfig,
	metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	s := &DashboardService{
		source:     source,
		processing: withProcessingDefaults(processing),
		metrics:    metrics,
		tracer:     otel.Tracer("vgsales/services"),
		logger:     logger.With(slog.String("service", "dashboard")),
	}
	if cacheCfg.Enabled && cacheCfg.MaxEntries > 0 {
		s.cache = expirable.NewLRU[string, interface{}](cacheCfg.MaxEntries, nil, cacheCfg.TTL)
	}
	return s
}

func withProcessingDefaults(p config.ProcessingConfig) config.ProcessingConfig {
	if p.TopPublishers <= 0 {
		p.TopPublishers = 15
	}
	if p.TopPlatforms <= 0 {
		p.TopPlatforms = 10
	}
	if p.TopGenres <= 0 {
		p.TopGenres = 10
	}
	if p.TopGames <= 0 {
		p.TopGames = 10
	}
	return p
}

// Purge drops every cached payload. It is registered as a dataset reload hook.
func (s *DashboardService) Purge() {
	if s.cache == nil {
		return
	}
	n := s.cache.Len()
	s.cache.Purge()
	s.logger.Info("Dashboard cache purged", slog.Int("entries", n))
}

// CacheLen returns the number of cached payloads.
func (s *DashboardService) CacheLen() int {
	if s.cache == nil {
		return 0
	}
	return s.cache.Len()
}

// page resolves the filtered records of the current dataset and runs compute,
// serving and storing the result through the cache.
func (s *DashboardService) page(ctx context.Context, name string, f analytics.Filter,
	compute func(ctx context.Context, records []domain.Record) (interface{}, error)) (interface{}, error) {
	ds := s.source.Current()
	key := fmt.Sprintf("%s|%s|%d|%s", name, ds.Path, ds.LoadedAt.UnixNano(), f.Key())

	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			infrastructure.RecordAggregationMetrics(ctx, s.metrics, name, 0, true)
			return v, nil
		}
	}

	ctx, span := s.tracer.Start(ctx, "dashboard."+name,
		trace.WithAttributes(
			attribute.String("dashboard.page", name),
			attribute.String("dashboard.filter", f.Key()),
		))
	defer span.End()

	start := time.Now()
	records := analytics.Apply(ds.Records(), f)
	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{"dashboard.records": len(records)})

	v, err := compute(ctx, records)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}
	elapsed := time.Since(start)
	infrastructure.RecordAggregationMetrics(ctx, s.metrics, name, elapsed, false)

	s.logger.DebugContext(ctx, "Dashboard page computed",
		slog.String("page", name),
		slog.Int("records", len(records)),
		slog.Duration("duration", elapsed))

	if s.cache != nil {
		s.cache.Add(key, v)
	}
	return v, nil
}

// Overview builds the landing page. Independent sections are computed
// concurrently and abandoned when ctx is cancelled.
func (s *DashboardService) Overview(ctx context.Context, f analytics.Filter) (*OverviewPage, error) {
	v, err := s.page(ctx, PageOverview, f, func(ctx context.Context, records []domain.Record) (interface{}, error) {
		p := &OverviewPage{}
		g, ctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			p.KPIs = s.overviewKPIs(records)
			return ctx.Err()
		})
		g.Go(func() error {
			p.Insights = buildInsights(records)
			return ctx.Err()
		})
		g.Go(func() error {
			p.SalesTrend = analytics.YearlyTrends(records)
			p.RegionalShare = analytics.RegionalDistribution(records)
			return ctx.Err()
		})
		g.Go(func() error {
			p.GenreDistribution = analytics.MarketShare(records, domain.DimensionGenre)
			p.TopGenres = analytics.TopPerformers(records, domain.DimensionGenre, domain.MetricGlobal, 5)
			return ctx.Err()
		})
		g.Go(func() error {
			p.TopPlatforms = analytics.TopPerformers(records, domain.DimensionPlatform, domain.MetricGlobal, s.processing.TopPlatforms)
			p.TopPublishers = analytics.TopPerformers(records, domain.DimensionPublisher, domain.MetricGlobal, 5)
			return ctx.Err()
		})
		g.Go(func() error {
			p.TopGames = analytics.TopGames(records, 5)
			return ctx.Err()
		})

		if err := g.Wait(); err != nil {
			return nil, err
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*OverviewPage), nil
}

func (s *DashboardService) overviewKPIs(records []domain.Record) OverviewKPIs {
	summary := analytics.SalesSummary(records)
	kpis := OverviewKPIs{
		TotalSales:      summary.Total,
		TotalSalesLabel: exporter.FormatSales(summary.Total),
		TotalGames:      len(records),
		Unique:          analytics.UniqueCounts(records),
		Summary:         summary,
	}
	if top := analytics.TopPerformers(records, domain.DimensionGenre, domain.MetricGlobal, 1); len(top) > 0 {
		kpis.TopGenre = &top[0]
	}
	if yr, ok := analytics.YearRange(records); ok {
		kpis.YearRange = &yr
	}
	return kpis
}

func buildInsights(records []domain.Record) Insights {
	in := Insights{YoYGrowth: analytics.LatestYoYGrowth(records)}

	if shares := analytics.MarketShare(records, domain.DimensionPublisher); len(shares) > 0 {
		leader := shares[0]
		in.MarketLeader = &leader
	}

	in.GenreCount = analytics.UniqueCounts(records).Genres
	if in.GenreCount > 0 {
		in.AvgSalesPerGenre = analytics.TotalSales(records).Global / float64(in.GenreCount)
	}
	return in
}

// Sales builds the sales analysis page.
func (s *DashboardService) Sales(ctx context.Context, f analytics.Filter) (*SalesPage, error) {
	v, err := s.page(ctx, PageSales, f, func(ctx context.Context, records []domain.Record) (interface{}, error) {
		p := &SalesPage{
			Summary:       analytics.SalesSummary(records),
			Trends:        analytics.YearlyTrends(records),
			Growth:        analytics.GrowthRates(records),
			Regional:      analytics.RegionalDistribution(records),
			ByGenre:       analytics.TopPerformers(records, domain.DimensionGenre, domain.MetricGlobal, s.processing.TopGenres),
			ByPlatform:    analytics.TopPerformers(records, domain.DimensionPlatform, domain.MetricGlobal, s.processing.TopPlatforms),
			TopGames:      analytics.TopGames(records, s.processing.TopGames),
			MultiPlatform: analytics.MultiPlatformTitles(records, s.processing.TopGames),
		}
		if peak, ok := analytics.PeakYear(records); ok {
			p.PeakYear = &peak
		}
		return p, ctx.Err()
	})
	if err != nil {
		return nil, err
	}
	return v.(*SalesPage), nil
}

// Genres builds the genre analysis page.
func (s *DashboardService) Genres(ctx context.Context, f analytics.Filter) (*CategoryPage, error) {
	return s.categoryPage(ctx, PageGenres, domain.DimensionGenre, s.processing.TopGenres, f)
}

// Platforms builds the platform analysis page.
func (s *DashboardService) Platforms(ctx context.Context, f analytics.Filter) (*CategoryPage, error) {
	return s.categoryPage(ctx, PagePlatforms, domain.DimensionPlatform, s.processing.TopPlatforms, f)
}

// Publishers builds the publisher analysis page.
func (s *DashboardService) Publishers(ctx context.Context, f analytics.Filter) (*CategoryPage, error) {
	return s.categoryPage(ctx, PagePublishers, domain.DimensionPublisher, s.processing.TopPublishers, f)
}

func (s *DashboardService) categoryPage(ctx context.Context, name string, dim domain.Dimension, topN int, f analytics.Filter) (*CategoryPage, error) {
	v, err := s.page(ctx, name, f, func(ctx context.Context, records []domain.Record) (interface{}, error) {
		stats := analytics.GroupBy(records, dim)
		p := &CategoryPage{
			Dimension:   dim,
			Count:       len(stats),
			Stats:       truncate(stats, topN),
			MarketShare: analytics.MarketShare(records, dim),
			Timeline:    topLines(analytics.Pivot(records, dim), stats, topN),
			ShareTrends: topLines(analytics.ShareTrends(records, dim), stats, topN),
			Regional:    truncate(analytics.RegionalBreakdown(records, dim), topN),
			PeakYears:   truncate(analytics.PeakYears(records, dim), topN),
			TopGames:    analytics.TopGames(records, s.processing.TopGames),
		}
		if top := analytics.TopPerformers(records, dim, domain.MetricGlobal, 1); len(top) > 0 {
			p.Leader = &top[0]
		}
		if most, ok := analytics.MostReleases(records, dim); ok {
			p.MostReleases = &most
		}
		if leader, ok := analytics.FastestGrowing(records, dim); ok {
			p.FastestGrowing = &leader
		}
		if dim != domain.DimensionGenre {
			ct := analytics.CrossTab(records, dim, domain.DimensionGenre)
			p.CrossTab = &ct
		}
		return p, ctx.Err()
	})
	if err != nil {
		return nil, err
	}
	return v.(*CategoryPage), nil
}

// Regions builds the regional analysis page.
func (s *DashboardService) Regions(ctx context.Context, f analytics.Filter) (*RegionsPage, error) {
	v, err := s.page(ctx, PageRegions, f, func(ctx context.Context, records []domain.Record) (interface{}, error) {
		p := &RegionsPage{
			Totals:       analytics.TotalSales(records),
			Distribution: analytics.RegionalDistribution(records),
			ByGenre:      analytics.RegionalBreakdown(records, domain.DimensionGenre),
			ByPlatform:   truncate(analytics.RegionalBreakdown(records, domain.DimensionPlatform), s.processing.TopPlatforms),
			TopGames:     make(map[domain.Region][]domain.RankedEntry, len(domain.Regions)),
		}
		for _, region := range domain.Regions {
			p.TopGames[region] = analytics.TopPerformers(records, domain.DimensionName, region.Metric(), s.processing.TopGames)
		}
		return p, ctx.Err()
	})
	if err != nil {
		return nil, err
	}
	return v.(*RegionsPage), nil
}

// Filters lists the selectable filter values of the whole dataset.
func (s *DashboardService) Filters(ctx context.Context) (*FiltersPage, error) {
	v, err := s.page(ctx, PageFilters, analytics.Filter{}, func(ctx context.Context, records []domain.Record) (interface{}, error) {
		p := &FiltersPage{
			Values:  analytics.UniqueValues(records),
			Counts:  analytics.UniqueCounts(records),
			Records: len(records),
		}
		if yr, ok := analytics.YearRange(records); ok {
			p.YearRange = &yr
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*FiltersPage), nil
}

func truncate[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}

// topLines keeps the series of the n highest ranked groups, in rank order.
func topLines(series domain.YearSeries, ranked []domain.GroupStat, n int) domain.YearSeries {
	byKey := make(map[domain.Category]domain.SeriesLine, len(series.Lines))
	for _, line := range series.Lines {
		byKey[line.Key] = line
	}
	out := domain.YearSeries{Years: series.Years, Lines: make([]domain.SeriesLine, 0, n)}
	for _, st := range truncate(ranked, n) {
		if line, ok := byKey[st.Key]; ok {
			out.Lines = append(out.Lines, line)
		}
	}
	return out
}
