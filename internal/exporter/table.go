package exporter

import (
	"errors"
	"fmt"
	"strings"

	"vgsales/internal/analytics"
	"vgsales/pkg/contracts/domain"
)

// ErrUnknownTable is returned by BuildTable for an unsupported table name.
var ErrUnknownTable = errors.New("unknown export table")

// DefaultTopGames is the row count of the top-games table when none is given.
const DefaultTopGames = 10

// Table names accepted by BuildTable. Group tables are "group-<dimension>".
const (
	TableRecords  = "records"
	TableTrends   = "trends"
	TableTopGames = "top-games"
	TableRegions  = "regions"
	groupPrefix   = "group-"
)

// Table is a named grid. Cells hold string, int, float64, *float64 or nil.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

// StringRows renders every cell as text.
func (t Table) StringRows() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = formatCell(v)
		}
		out[i] = cells
	}
	return out
}

// TableNames lists the names BuildTable accepts.
func TableNames() []string {
	names := []string{TableRecords, TableTrends, TableTopGames, TableRegions}
	for _, d := range []domain.Dimension{domain.DimensionYear, domain.DimensionPlatform, domain.DimensionGenre, domain.DimensionPublisher, domain.DimensionName} {
		names = append(names, groupPrefix+string(d))
	}
	return names
}

// BuildTable builds the named table from records. topN limits the top-games
// table; values below 1 use DefaultTopGames.
func BuildTable(name string, records []domain.Record, topN int) (Table, error) {
	switch name {
	case TableRecords:
		return RecordsTable(records), nil
	case TableTrends:
		return TrendsTable(analytics.YearlyTrends(records)), nil
	case TableTopGames:
		if topN < 1 {
			topN = DefaultTopGames
		}
		return TopGamesTable(analytics.TopGames(records, topN)), nil
	case TableRegions:
		return RegionsTable(analytics.RegionalDistribution(records)), nil
	}

	if strings.HasPrefix(name, groupPrefix) {
		dim, ok := domain.ParseDimension(strings.TrimPrefix(name, groupPrefix))
		if ok {
			t := GroupTable(analytics.GroupBy(records, dim))
			t.Name = groupPrefix + string(dim)
			return t, nil
		}
	}
	return Table{}, fmt.Errorf("%w: %q", ErrUnknownTable, name)
}

func categoryCell(c domain.Category) interface{} {
	if !c.Valid {
		return nil
	}
	return c.Value
}

// RecordsTable lists cleaned records with the source CSV header.
func RecordsTable(records []domain.Record) Table {
	t := Table{
		Name: TableRecords,
		Headers: []string{"Rank", "Name", "Platform", "Year", "Genre", "Publisher",
			"NA_Sales", "EU_Sales", "JP_Sales", "Other_Sales", "Global_Sales"},
		Rows: make([][]interface{}, len(records)),
	}
	for i, r := range records {
		t.Rows[i] = []interface{}{
			r.Rank, categoryCell(r.Name), categoryCell(r.Platform), r.Year,
			categoryCell(r.Genre), categoryCell(r.Publisher),
			r.NASales, r.EUSales, r.JPSales, r.OtherSales, r.GlobalSales,
		}
	}
	return t
}

// GroupTable lists group statistics.
func GroupTable(stats []domain.GroupStat) Table {
	t := Table{
		Name: "group",
		Headers: []string{"Key", "Total_Sales", "Avg_Sales", "Count", "Unique_Titles", "Market_Share",
			"NA_Sales", "EU_Sales", "JP_Sales", "Other_Sales"},
		Rows: make([][]interface{}, len(stats)),
	}
	for i, s := range stats {
		t.Rows[i] = []interface{}{
			s.Label, s.Total, s.Mean, s.Count, s.UniqueTitles, s.MarketShare,
			s.Regional.NA, s.Regional.EU, s.Regional.JP, s.Regional.Other,
		}
	}
	return t
}

// TrendsTable lists the yearly trend series.
func TrendsTable(trends []domain.YearStat) Table {
	t := Table{
		Name: TableTrends,
		Headers: []string{"Year", "Global_Sales", "NA_Sales", "EU_Sales", "JP_Sales", "Other_Sales",
			"Count", "Avg_Sales", "YoY_Growth"},
		Rows: make([][]interface{}, len(trends)),
	}
	for i, s := range trends {
		t.Rows[i] = []interface{}{
			s.Year, s.Sales.Global, s.Sales.NA, s.Sales.EU, s.Sales.JP, s.Sales.Other,
			s.Count, s.AvgSales, s.YoYGrowth,
		}
	}
	return t
}

// TopGamesTable lists ranked games.
func TopGamesTable(games []domain.GameEntry) Table {
	t := Table{
		Name:    TableTopGames,
		Headers: []string{"Position", "Name", "Platform", "Year", "Publisher", "Global_Sales"},
		Rows:    make([][]interface{}, len(games)),
	}
	for i, g := range games {
		t.Rows[i] = []interface{}{
			g.Position, categoryCell(g.Record.Name), categoryCell(g.Record.Platform),
			g.Record.Year, categoryCell(g.Record.Publisher), g.Record.GlobalSales,
		}
	}
	return t
}

// RegionsTable lists regional sales and shares.
func RegionsTable(shares []domain.RegionShare) Table {
	t := Table{
		Name:    TableRegions,
		Headers: []string{"Region", "Name", "Sales", "Share"},
		Rows:    make([][]interface{}, len(shares)),
	}
	for i, s := range shares {
		t.Rows[i] = []interface{}{string(s.Region), s.Name, s.Sales, s.Share}
	}
	return t
}
