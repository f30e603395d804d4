package dataprocessing

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"vgsales/internal/infrastructure"
	"vgsales/pkg/contracts/domain"
)

// Column names of the sales CSV.
const (
	ColRank        = "Rank"
	ColName        = "Name"
	ColPlatform    = "Platform"
	ColYear        = "Year"
	ColGenre       = "Genre"
	ColPublisher   = "Publisher"
	ColNASales     = "NA_Sales"
	ColEUSales     = "EU_Sales"
	ColJPSales     = "JP_Sales"
	ColOtherSales  = "Other_Sales"
	ColGlobalSales = "Global_Sales"
)

// RequiredColumns is the expected header, in file order.
var RequiredColumns = []string{
	ColRank, ColName, ColPlatform, ColYear, ColGenre, ColPublisher,
	ColNASales, ColEUSales, ColJPSales, ColOtherSales, ColGlobalSales,
}

// nullTokens are cell values read as missing.
var nullTokens = []string{"", "n/a", "na", "nan", "null", "none", "<nil>"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var errDuplicateColumns = errors.New("duplicate columns")

// Loader reads and validates the sales CSV.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader. A nil logger falls back to the global one.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Loader{logger: infrastructure.WithComponent(logger, "loader")}
}

// Load reads path and returns validated raw rows. Every failure is a *DataLoadingError.
func (l *Loader) Load(ctx context.Context, path string) ([]domain.RawRecord, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &DataLoadingError{Kind: KindMissingFile, Path: path, Err: err}
		}
		return nil, &DataLoadingError{Kind: KindReadFailure, Path: path, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := l.Parse(bytes.NewReader(content), path)
	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "Dataset file loaded",
		slog.String("path", path),
		slog.Int("rows", len(records)),
		slog.Int("bytes", len(content)))
	return records, nil
}

// Parse reads CSV content from r. name is used in error messages.
func (l *Loader) Parse(r io.Reader, name string) ([]domain.RawRecord, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, &DataLoadingError{Kind: KindReadFailure, Path: name, Err: err}
	}
	content = bytes.TrimPrefix(content, utf8BOM)

	header, lines, err := scanRecords(content)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &DataLoadingError{Kind: KindMissingColumns, Path: name, Columns: RequiredColumns}
		}
		return nil, &DataLoadingError{Kind: KindReadFailure, Path: name, Err: err}
	}
	if missing := missingColumns(header); len(missing) > 0 {
		return nil, &DataLoadingError{Kind: KindMissingColumns, Path: name, Columns: missing}
	}
	if dups := duplicateColumns(header); len(dups) > 0 {
		return nil, &DataLoadingError{Kind: KindReadFailure, Path: name, Columns: dups,
			Err: fmt.Errorf("%w: %s", errDuplicateColumns, strings.Join(dups, ", "))}
	}
	if len(lines) == 0 {
		return []domain.RawRecord{}, nil
	}

	// Every column is read as text so coercion failures can name the row and column.
	df := dataframe.ReadCSV(bytes.NewReader(content),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{}),
	)
	if df.Err != nil {
		return nil, &DataLoadingError{Kind: KindReadFailure, Path: name, Err: df.Err}
	}
	if df.Nrow() != len(lines) {
		return nil, &DataLoadingError{Kind: KindReadFailure, Path: name,
			Err: fmt.Errorf("read %d records, expected %d", df.Nrow(), len(lines))}
	}

	return l.convert(df, lines, name)
}

// scanRecords returns the header and the physical line on which each data
// record starts. Quoted fields may span lines.
func scanRecords(content []byte) ([]string, []int, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	header, err := reader.Read()
	if err != nil {
		return nil, nil, err
	}
	header = append([]string(nil), header...)

	var lines []int
	for {
		_, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return header, lines, nil
		}
		if err != nil {
			return nil, nil, err
		}
		line, _ := reader.FieldPos(0)
		lines = append(lines, line)
	}
}

func (l *Loader) convert(df dataframe.DataFrame, lines []int, name string) ([]domain.RawRecord, error) {
	cols := make(map[string][]string, len(RequiredColumns))
	for _, col := range RequiredColumns {
		s := df.Col(col)
		if s.Err != nil {
			return nil, &DataLoadingError{Kind: KindReadFailure, Path: name, Columns: []string{col}, Err: s.Err}
		}
		cols[col] = s.Records()
	}

	n := df.Nrow()
	out := make([]domain.RawRecord, n)
	for i := 0; i < n; i++ {
		line := lines[i]
		rec := domain.RawRecord{
			Name:      domain.ParseCategory(nullable(cols[ColName][i])),
			Platform:  domain.ParseCategory(nullable(cols[ColPlatform][i])),
			Genre:     domain.ParseCategory(nullable(cols[ColGenre][i])),
			Publisher: domain.ParseCategory(nullable(cols[ColPublisher][i])),
		}

		rank, err := parseOptional(cols[ColRank][i])
		if err != nil || !rank.Valid || rank.Float64 != math.Trunc(rank.Float64) {
			return nil, invalidValue(name, line, ColRank, cols[ColRank][i])
		}
		rec.Rank = int(rank.Float64)

		numeric := []struct {
			col string
			dst *domain.OptionalFloat
		}{
			{ColYear, &rec.Year},
			{ColNASales, &rec.NASales},
			{ColEUSales, &rec.EUSales},
			{ColJPSales, &rec.JPSales},
			{ColOtherSales, &rec.OtherSales},
			{ColGlobalSales, &rec.GlobalSales},
		}
		for _, f := range numeric {
			v, err := parseOptional(cols[f.col][i])
			if err != nil {
				return nil, invalidValue(name, line, f.col, cols[f.col][i])
			}
			*f.dst = v
		}
		out[i] = rec
	}
	return out, nil
}

func invalidValue(path string, line int, col, value string) error {
	return &DataLoadingError{Kind: KindInvalidType, Path: path, Row: line, Column: col, Value: value}
}

// duplicateColumns lists header names that appear more than once.
func duplicateColumns(header []string) []string {
	seen := make(map[string]int, len(header))
	var dups []string
	for _, h := range header {
		seen[h]++
		if seen[h] == 2 {
			dups = append(dups, h)
		}
	}
	return dups
}

func missingColumns(header []string) []string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	var missing []string
	for _, col := range RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

// nullable maps null tokens to the empty string.
func nullable(s string) string {
	if isNull(s) {
		return ""
	}
	return s
}

func isNull(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, tok := range nullTokens {
		if s == tok {
			return true
		}
	}
	return false
}

func parseOptional(s string) (domain.OptionalFloat, error) {
	if isNull(s) {
		return domain.OptionalFloat{}, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(v, 0) {
		return domain.OptionalFloat{}, errors.New("not a number")
	}
	return domain.Some(v), nil
}
