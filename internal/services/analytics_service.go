package services

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"vgsales/internal/analytics"
	"vgsales/internal/infrastructure"
	"vgsales/pkg/contracts/domain"
)

// Ranking is the result of a top-N query. Games is set for the name
// dimension, Entries otherwise.
type Ranking struct {
	Dimension domain.Dimension     `json:"dimension"`
	Metric    domain.Metric        `json:"metric"`
	Entries   []domain.RankedEntry `json:"entries,omitempty"`
	Games     []domain.GameEntry   `json:"games,omitempty"`
}

// Len returns the number of ranked rows.
func (r Ranking) Len() int {
	return len(r.Entries) + len(r.Games)
}

// AnalyticsService exposes the aggregation primitives over the active dataset.
type AnalyticsService struct {
	source DatasetSource
	tracer trace.Tracer
	logger *slog.Logger
}

// NewAnalyticsService creates an analytics service.
func NewAnalyticsService(source DatasetSource, logger *slog.Logger) *AnalyticsService {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &AnalyticsService{
		source: source,
		tracer: otel.Tracer("vgsales/services"),
		logger: logger.With(slog.String("service", "analytics")),
	}
}

// ParseDimension validates a dimension name.
func ParseDimension(s string) (domain.Dimension, error) {
	dim, ok := domain.ParseDimension(s)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidDimension, s)
	}
	return dim, nil
}

// ParseMetric validates a metric name. Empty selects global sales.
func ParseMetric(s string) (domain.Metric, error) {
	m, ok := domain.ParseMetric(s)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidMetric, s)
	}
	return m, nil
}

func (s *AnalyticsService) records(ctx context.Context, op string, f analytics.Filter) (context.Context, trace.Span, []domain.Record) {
	ctx, span := s.tracer.Start(ctx, "analytics."+op,
		trace.WithAttributes(attribute.String("analytics.filter", f.Key())))
	records := analytics.Apply(s.source.Current().Records(), f)
	span.SetAttributes(attribute.Int("analytics.records", len(records)))
	return ctx, span, records
}

// Group aggregates metric by dimension.
func (s *AnalyticsService) Group(ctx context.Context, dimension, metric string, f analytics.Filter) ([]domain.GroupStat, error) {
	dim, err := ParseDimension(dimension)
	if err != nil {
		return nil, err
	}
	m, err := ParseMetric(metric)
	if err != nil {
		return nil, err
	}
	_, span, records := s.records(ctx, "group", f)
	defer span.End()
	return analytics.GroupByMetric(records, dim, m), nil
}

// MarketShare returns each group's share of metric.
func (s *AnalyticsService) MarketShare(ctx context.Context, dimension, metric string, f analytics.Filter) ([]domain.ShareEntry, error) {
	dim, err := ParseDimension(dimension)
	if err != nil {
		return nil, err
	}
	m, err := ParseMetric(metric)
	if err != nil {
		return nil, err
	}
	_, span, records := s.records(ctx, "market_share", f)
	defer span.End()
	return analytics.MarketShareMetric(records, dim, m), nil
}

// Top ranks the n best groups. The name dimension ranks individual releases
// by global sales.
func (s *AnalyticsService) Top(ctx context.Context, dimension, metric string, n int, f analytics.Filter) (Ranking, error) {
	dim, err := ParseDimension(dimension)
	if err != nil {
		return Ranking{}, err
	}
	m, err := ParseMetric(metric)
	if err != nil {
		return Ranking{}, err
	}
	ctx, span, records := s.records(ctx, "top", f)
	defer span.End()

	r := Ranking{Dimension: dim, Metric: m}
	if dim == domain.DimensionName && m == domain.MetricGlobal {
		r.Games = analytics.TopGames(records, n)
	} else {
		r.Entries = analytics.TopPerformers(records, dim, m, n)
	}
	s.logger.DebugContext(ctx, "Ranking computed",
		slog.String("dimension", string(dim)),
		slog.String("metric", string(m)),
		slog.Int("rows", r.Len()))
	return r, nil
}

// Trends returns the yearly sales series.
func (s *AnalyticsService) Trends(ctx context.Context, f analytics.Filter) []domain.YearStat {
	_, span, records := s.records(ctx, "trends", f)
	defer span.End()
	return analytics.YearlyTrends(records)
}

// Growth returns the last-year and five-year growth windows.
func (s *AnalyticsService) Growth(ctx context.Context, f analytics.Filter) []domain.GrowthWindow {
	_, span, records := s.records(ctx, "growth", f)
	defer span.End()
	return analytics.GrowthRates(records)
}
