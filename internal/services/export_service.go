package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"vgsales/internal/analytics"
	"vgsales/internal/exporter"
	"vgsales/internal/infrastructure"
)

// ExportRequest selects a table, its format and the records it covers.
type ExportRequest struct {
	Table  string
	Format string
	Filter analytics.Filter
	TopN   int
	BOM    bool
}

// ExportResult is a rendered export ready to be sent as a download.
type ExportResult struct {
	FileName    string
	ContentType string
	Rows        int
	Body        []byte
}

// ExportService renders dashboard tables as CSV, XLSX or JSON.
type ExportService struct {
	source  DatasetSource
	metrics *infrastructure.BusinessMetrics
	tracer  trace.Tracer
	now     func() time.Time
	logger  *slog.Logger
}

// NewExportService creates an export service.
func NewExportService(source DatasetSource, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *ExportService {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &ExportService{
		source:  source,
		metrics: metrics,
		tracer:  otel.Tracer("vgsales/services"),
		now:     time.Now,
		logger:  logger.With(slog.String("service", "export")),
	}
}

// Tables lists the exportable table names.
func (s *ExportService) Tables() []string {
	return exporter.TableNames()
}

// Export builds and renders one table. The whole body is rendered before
// returning so that errors never reach a half written response.
func (s *ExportService) Export(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	format, err := exporter.ParseFormat(req.Format)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "export.render",
		trace.WithAttributes(
			attribute.String("export.table", req.Table),
			attribute.String("export.format", string(format)),
		))
	defer span.End()

	records := analytics.Apply(s.source.Current().Records(), req.Filter)
	table, err := exporter.BuildTable(req.Table, records, req.TopN)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if format == exporter.FormatCSV {
		err = exporter.NewCSVWriter(nil).WriteTable(&buf, table, req.BOM)
	} else {
		err = exporter.Write(&buf, format, table)
	}
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, fmt.Errorf("render %s as %s: %w", table.Name, format, err)
	}

	infrastructure.RecordExportMetrics(ctx, s.metrics, table.Name, string(format))
	s.logger.InfoContext(ctx, "Table exported",
		slog.String("table", table.Name),
		slog.String("format", string(format)),
		slog.Int("rows", len(table.Rows)),
		slog.Int("bytes", buf.Len()))

	return &ExportResult{
		FileName:    exporter.FileName(table.Name, format, s.now()),
		ContentType: format.ContentType(),
		Rows:        len(table.Rows),
		Body:        buf.Bytes(),
	}, nil
}
