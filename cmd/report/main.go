// Command report loads the sales CSV and writes the export tables to disk
// without starting the server. XLSX output is a single workbook with one sheet
// per table; CSV and JSON write one file per table.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vgsales/internal/config"
	"vgsales/internal/dataprocessing"
	"vgsales/internal/exporter"
	"vgsales/internal/infrastructure"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		slog.Error("Report failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

type options struct {
	in      string
	out     string
	format  exporter.Format
	tables  []string
	topN    int
	minYear int
	level   string
}

func parseFlags(args []string, cfg *config.Config) (options, error) {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	in := fs.String("in", cfg.Data.CSVPath, "input sales CSV (relative paths resolve against the base directory)")
	out := fs.String("out", "", "output directory (defaults to the exports directory)")
	format := fs.String("format", "xlsx", "output format: xlsx, csv or json")
	tables := fs.String("tables", "", "comma separated tables to write (defaults to all)")
	topN := fs.Int("top", cfg.Processing.TopGames, "rows in the top-games table")
	minYear := fs.Int("min-year", cfg.Data.MinYear, "earliest valid release year")
	level := fs.String("log-level", "warn", "log level")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	f, err := exporter.ParseFormat(*format)
	if err != nil {
		return options{}, err
	}
	opts := options{
		in:      *in,
		out:     *out,
		format:  f,
		topN:    *topN,
		minYear: *minYear,
		level:   *level,
		tables:  exporter.TableNames(),
	}
	if *tables != "" {
		opts.tables = nil
		for _, t := range strings.Split(*tables, ",") {
			if t = strings.TrimSpace(t); t != "" {
				opts.tables = append(opts.tables, t)
			}
		}
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	opts, err := parseFlags(args, cfg)
	if err != nil {
		return err
	}
	paths, err := cfg.ResolvedPaths()
	if err != nil {
		return err
	}
	outDir := paths.ExportsDir
	if opts.out != "" {
		outDir = opts.out
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	logger := infrastructure.NewLogger(os.Stderr, opts.level)
	raw, err := dataprocessing.NewLoader(logger).Load(ctx, paths.Resolve(opts.in))
	if err != nil {
		return err
	}
	records, report := dataprocessing.NewCleaner(logger, dataprocessing.WithMinYear(opts.minYear)).Clean(raw)
	logger.Info("Dataset loaded",
		slog.Int("records", len(records)),
		slog.Int("invalid_years", report.InvalidYears))

	tables := make([]exporter.Table, 0, len(opts.tables))
	for _, name := range opts.tables {
		t, err := exporter.BuildTable(name, records, opts.topN)
		if err != nil {
			return err
		}
		tables = append(tables, t)
	}

	now := time.Now()
	if opts.format == exporter.FormatXLSX {
		path := filepath.Join(outDir, exporter.FileName("report", opts.format, now))
		if err := exporter.NewXLSXWriter().SaveAs(path, tables...); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s (%d sheets)\n", path, len(tables))
		return nil
	}

	for _, t := range tables {
		path := filepath.Join(outDir, exporter.FileName(t.Name, opts.format, now))
		if err := writeFile(path, opts.format, t); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s (%d rows)\n", path, len(t.Rows))
	}
	return nil
}

func writeFile(path string, format exporter.Format, t exporter.Table) error {
	if format == exporter.FormatCSV {
		return exporter.NewCSVWriter(nil).WriteTableFile(path, t)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := exporter.Write(f, format, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
