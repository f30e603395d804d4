package analytics

import "vgsales/pkg/contracts/domain"

// TotalSales sums every region and the global column.
func TotalSales(records []domain.Record) domain.RegionTotals {
	var t domain.RegionTotals
	for _, r := range records {
		t.Add(r)
	}
	return t
}

// SalesSummary returns record count, total, mean and max global sales, and
// regional totals.
func SalesSummary(records []domain.Record) domain.SalesSummary {
	s := domain.SalesSummary{Records: len(records), Regional: TotalSales(records)}
	s.Total = s.Regional.Global
	for i, r := range records {
		if i == 0 || r.GlobalSales > s.Max {
			s.Max = r.GlobalSales
		}
	}
	if len(records) > 0 {
		s.Average = s.Total / float64(len(records))
	}
	return s
}

// YearRange returns the first and last year present.
func YearRange(records []domain.Record) (domain.YearRange, bool) {
	if len(records) == 0 {
		return domain.YearRange{}, false
	}
	yr := domain.YearRange{Min: records[0].Year, Max: records[0].Year}
	for _, r := range records[1:] {
		if r.Year < yr.Min {
			yr.Min = r.Year
		}
		if r.Year > yr.Max {
			yr.Max = r.Year
		}
	}
	return yr, true
}

// RegionalDistribution returns each region's sales and share of global sales.
func RegionalDistribution(records []domain.Record) []domain.RegionShare {
	totals := TotalSales(records)
	out := make([]domain.RegionShare, len(domain.Regions))
	for i, region := range domain.Regions {
		sales := totals.Get(region)
		out[i] = domain.RegionShare{
			Region: region,
			Name:   region.DisplayName(),
			Sales:  sales,
			Share:  share(sales, totals.Global),
		}
	}
	return out
}

// RegionalPercentages splits one record's sales across the regions. A record
// without sales yields 0 for every region.
func RegionalPercentages(r domain.Record) map[domain.Region]float64 {
	t := domain.RegionTotals{NA: r.NASales, EU: r.EUSales, JP: r.JPSales, Other: r.OtherSales}
	return t.Shares()
}

// CrossTab sums global sales for every (rowDim, colDim) pair. Rows and columns
// are ordered by their totals descending, then key.
func CrossTab(records []domain.Record, rowDim, colDim domain.Dimension) domain.CrossTab {
	rows := orderedKeys(records, rowDim)
	cols := orderedKeys(records, colDim)
	rowPos := positions(rows)
	colPos := positions(cols)

	values := make([][]float64, len(rows))
	for i := range values {
		values[i] = make([]float64, len(cols))
	}
	for _, r := range records {
		values[rowPos[rowDim.Key(r)]][colPos[colDim.Key(r)]] += r.GlobalSales
	}
	return domain.CrossTab{Rows: rows, Columns: cols, Values: values}
}

func orderedKeys(records []domain.Record, dim domain.Dimension) []domain.Category {
	groups := groupRecords(records, dim, domain.MetricGlobal)
	sortGroups(groups)
	keys := make([]domain.Category, len(groups))
	for i, g := range groups {
		keys[i] = g.key
	}
	return keys
}

func positions(keys []domain.Category) map[domain.Category]int {
	pos := make(map[domain.Category]int, len(keys))
	for i, k := range keys {
		pos[k] = i
	}
	return pos
}
