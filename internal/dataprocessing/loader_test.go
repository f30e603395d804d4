package dataprocessing

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vgsales/internal/infrastructure"
	"vgsales/pkg/contracts/domain"
)

func TestLoaderLoad(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "vgsales.csv", sampleCSV)

	rows, err := NewLoader(testLogger()).Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, rows, 5)

	first := rows[0]
	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, domain.Known("Wii Sports"), first.Name)
	assert.Equal(t, domain.Known("Wii"), first.Platform)
	assert.Equal(t, domain.Some(2006), first.Year)
	assert.Equal(t, domain.Some(41.49), first.NASales)
	assert.Equal(t, domain.Some(82.74), first.GlobalSales)

	tetris := rows[4]
	assert.False(t, tetris.Year.Valid, "N/A year is missing")
	assert.False(t, tetris.Publisher.Valid, "empty publisher is missing")
	assert.Equal(t, domain.Known("Puzzle"), tetris.Genre)
}

func TestLoaderLogsComponent(t *testing.T) {
	var buf bytes.Buffer
	path := writeCSV(t, t.TempDir(), "vgsales.csv", sampleCSV)

	_, err := NewLoader(infrastructure.NewLogger(&buf, "info")).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"component":"loader"`)
	assert.Contains(t, buf.String(), `"rows":5`)
}

func TestLoaderMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.csv")

	_, err := NewLoader(testLogger()).Load(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataLoading))

	var loadErr *DataLoadingError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, KindMissingFile, loadErr.Kind)
	assert.Contains(t, err.Error(), path)
}

func TestLoaderParse(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantKind LoadErrorKind
		wantMsg  []string
		wantRows int
	}{
		{
			name:     "missing columns",
			content:  "Rank,Name,Platform,Year,Genre\n1,A,Wii,2006,Sports\n",
			wantKind: KindMissingColumns,
			wantMsg:  []string{"Publisher", "NA_Sales", "Global_Sales"},
		},
		{
			name:     "empty file",
			content:  "",
			wantKind: KindMissingColumns,
			wantMsg:  []string{"Rank"},
		},
		{
			name: "invalid sales value",
			content: "Rank,Name,Platform,Year,Genre,Publisher,NA_Sales,EU_Sales,JP_Sales,Other_Sales,Global_Sales\n" +
				"1,A,Wii,2006,Sports,Nintendo,1,2,3,4,10\n" +
				"2,B,Wii,2007,Sports,Nintendo,lots,2,3,4,10\n",
			wantKind: KindInvalidType,
			wantMsg:  []string{"NA_Sales", "line 3", `"lots"`},
		},
		{
			name: "invalid year",
			content: "Rank,Name,Platform,Year,Genre,Publisher,NA_Sales,EU_Sales,JP_Sales,Other_Sales,Global_Sales\n" +
				"1,A,Wii,two thousand,Sports,Nintendo,1,2,3,4,10\n",
			wantKind: KindInvalidType,
			wantMsg:  []string{"Year", "line 2"},
		},
		{
			name: "invalid value after multi-line field",
			content: "Rank,Name,Platform,Year,Genre,Publisher,NA_Sales,EU_Sales,JP_Sales,Other_Sales,Global_Sales\n" +
				"1,\"Two\nLines\",Wii,2006,Sports,Nintendo,1,2,3,4,10\n" +
				"2,B,Wii,2007,Sports,Nintendo,lots,2,3,4,10\n",
			wantKind: KindInvalidType,
			wantMsg:  []string{"NA_Sales", "line 4"},
		},
		{
			name: "duplicated name column",
			content: "Rank,Name,Platform,Year,Genre,Publisher,NA_Sales,EU_Sales,JP_Sales,Other_Sales,Global_Sales,Name\n" +
				"1,A,Wii,2006,Sports,Nintendo,1,2,3,4,10,A\n",
			wantKind: KindReadFailure,
			wantMsg:  []string{"duplicate columns", "Name"},
		},
		{
			name: "duplicated year column",
			content: "Rank,Name,Platform,Year,Year,Genre,Publisher,NA_Sales,EU_Sales,JP_Sales,Other_Sales,Global_Sales\n" +
				"1,A,Wii,2006,2006,Sports,Nintendo,1,2,3,4,10\n",
			wantKind: KindReadFailure,
			wantMsg:  []string{"duplicate columns", "Year"},
		},
		{
			name:     "duplicated column in header only file",
			content:  "Rank,Name,Platform,Year,Genre,Publisher,NA_Sales,EU_Sales,JP_Sales,Other_Sales,Global_Sales,Year\n",
			wantKind: KindReadFailure,
			wantMsg:  []string{"Year"},
		},
		{
			name: "fractional rank",
			content: "Rank,Name,Platform,Year,Genre,Publisher,NA_Sales,EU_Sales,JP_Sales,Other_Sales,Global_Sales\n" +
				"1.5,A,Wii,2006,Sports,Nintendo,1,2,3,4,10\n",
			wantKind: KindInvalidType,
			wantMsg:  []string{"Rank"},
		},
		{
			name:     "header only",
			content:  "Rank,Name,Platform,Year,Genre,Publisher,NA_Sales,EU_Sales,JP_Sales,Other_Sales,Global_Sales\n",
			wantRows: 0,
		},
		{
			name: "quoted field spanning lines",
			content: "Rank,Name,Platform,Year,Genre,Publisher,NA_Sales,EU_Sales,JP_Sales,Other_Sales,Global_Sales\n" +
				"1,\"Two\nLines\",Wii,2006,Sports,Nintendo,1,2,3,4,10\n" +
				"2,B,Wii,2007,Sports,Nintendo,1,2,3,4,10\n",
			wantRows: 2,
		},
		{
			name: "reordered and extra columns with bom",
			content: "\xEF\xBB\xBFGlobal_Sales,Name,Rank,Platform,Year,Genre,Publisher,NA_Sales,EU_Sales,JP_Sales,Other_Sales,Notes\n" +
				"10,A,1,Wii,2006,Sports,Nintendo,1,2,3,4,ignored\n" +
				"5,B,2,PS2,null,,None,NaN,1,1,1,\n",
			wantRows: 2,
		},
	}

	loader := NewLoader(testLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := loader.Parse(strings.NewReader(tt.content), "test.csv")
			if tt.wantKind == "" {
				require.NoError(t, err)
				assert.Len(t, rows, tt.wantRows)
				return
			}

			require.Error(t, err)
			var loadErr *DataLoadingError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, tt.wantKind, loadErr.Kind)
			for _, msg := range tt.wantMsg {
				assert.Contains(t, err.Error(), msg)
			}
		})
	}
}

func TestLoaderParseNullTokens(t *testing.T) {
	content := "Rank,Name,Platform,Year,Genre,Publisher,NA_Sales,EU_Sales,JP_Sales,Other_Sales,Global_Sales\n" +
		"2,B,PS2,null,,None,NaN,1,1,1,\n"

	rows, err := NewLoader(testLogger()).Parse(strings.NewReader(content), "test.csv")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.False(t, r.Year.Valid)
	assert.False(t, r.Genre.Valid)
	assert.False(t, r.Publisher.Valid)
	assert.False(t, r.NASales.Valid)
	assert.False(t, r.GlobalSales.Valid)
	assert.Equal(t, domain.Some(1), r.EUSales)
}

func TestLoaderKeepsLiteralUnknown(t *testing.T) {
	content := "Rank,Name,Platform,Year,Genre,Publisher,NA_Sales,EU_Sales,JP_Sales,Other_Sales,Global_Sales\n" +
		"1,A,Wii,2006,Sports,Unknown,1,1,1,1,4\n"

	rows, err := NewLoader(testLogger()).Parse(strings.NewReader(content), "test.csv")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.Known("Unknown"), rows[0].Publisher)
}

func TestDataLoadingErrorMessages(t *testing.T) {
	err := &DataLoadingError{Kind: KindMissingColumns, Path: "x.csv", Columns: []string{"Year", "Genre"}}
	assert.Equal(t, "missing required columns in x.csv: Year, Genre", err.Error())

	wrapped := &DataLoadingError{Kind: KindReadFailure, Path: "x.csv", Err: errors.New("boom")}
	assert.Contains(t, wrapped.Error(), "boom")
	assert.Equal(t, "boom", errors.Unwrap(wrapped).Error())
	assert.ErrorIs(t, wrapped, ErrDataLoading)
}
