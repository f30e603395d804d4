package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"vgsales/internal/config"
	"vgsales/internal/exporter"
)

const salesCSV = `Rank,Name,Platform,Year,Genre,Publisher,NA_Sales,EU_Sales,JP_Sales,Other_Sales,Global_Sales
1,Wii Sports,Wii,2006,Sports,Nintendo,41.49,29.02,3.77,8.46,82.74
2,Super Mario Bros.,NES,1985,Platform,Nintendo,29.08,3.58,6.81,0.77,40.24
3,Mario Kart Wii,Wii,2008,Racing,Nintendo,15.85,12.88,3.79,3.31,35.82
`

func writeCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vgsales.csv")
	require.NoError(t, os.WriteFile(path, []byte(salesCSV), 0644))
	return path
}

func TestParseFlags(t *testing.T) {
	cfg := config.Default()

	opts, err := parseFlags(nil, cfg)
	require.NoError(t, err)
	assert.Equal(t, exporter.FormatXLSX, opts.format)
	assert.Equal(t, exporter.TableNames(), opts.tables)
	assert.Equal(t, cfg.Processing.TopGames, opts.topN)

	opts, err = parseFlags([]string{"-format", "csv", "-tables", "records, ,trends"}, cfg)
	require.NoError(t, err)
	assert.Equal(t, exporter.FormatCSV, opts.format)
	assert.Equal(t, []string{"records", "trends"}, opts.tables)

	_, err = parseFlags([]string{"-format", "pdf"}, cfg)
	assert.ErrorIs(t, err, exporter.ErrInvalidFormat)
}

func TestRunWritesCSVTables(t *testing.T) {
	out := t.TempDir()
	var stdout bytes.Buffer

	err := run(context.Background(), []string{
		"-in", writeCSV(t), "-out", out, "-format", "csv", "-tables", "records,trends",
	}, &stdout)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "(3 rows)")

	matches, err := filepath.Glob(filepath.Join(out, "vgsales-records-*.csv"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "Mario Kart Wii")
}

func TestRunWritesWorkbook(t *testing.T) {
	out := t.TempDir()
	var stdout bytes.Buffer

	require.NoError(t, run(context.Background(), []string{"-in", writeCSV(t), "-out", out}, &stdout))

	matches, err := filepath.Glob(filepath.Join(out, "vgsales-report-*.xlsx"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	f, err := excelize.OpenFile(matches[0])
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, f.GetSheetList(), len(exporter.TableNames()))
}

func TestRunRejectsUnknownTable(t *testing.T) {
	err := run(context.Background(), []string{
		"-in", writeCSV(t), "-out", t.TempDir(), "-tables", "consoles",
	}, &bytes.Buffer{})
	assert.ErrorIs(t, err, exporter.ErrUnknownTable)
}

func TestRunMissingInput(t *testing.T) {
	err := run(context.Background(), []string{
		"-in", filepath.Join(t.TempDir(), "missing.csv"), "-out", t.TempDir(),
	}, &bytes.Buffer{})
	assert.Error(t, err)
}
