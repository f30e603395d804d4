package analytics

import (
	"math"
	"sort"

	"vgsales/pkg/contracts/domain"
)

// Growth window names.
const (
	WindowLastYear = "last_year"
	WindowFiveYear = "five_year"
)

// Growth returns (latest/previous - 1) * 100. It is undefined, and ok is
// false, when previous is zero.
func Growth(previous, latest float64) (float64, bool) {
	if previous == 0 || math.IsNaN(previous) || math.IsNaN(latest) {
		return 0, false
	}
	return (latest/previous - 1) * 100, true
}

func growthPtr(previous, latest float64) *float64 {
	g, ok := Growth(previous, latest)
	if !ok {
		return nil
	}
	return &g
}

// YearlyTrends returns one entry per year present in records, in ascending
// order. YoYGrowth compares global sales with the previous calendar year and is
// nil when that year is absent or had no sales.
func YearlyTrends(records []domain.Record) []domain.YearStat {
	byYear := make(map[int]*domain.YearStat)
	for _, r := range records {
		s, ok := byYear[r.Year]
		if !ok {
			s = &domain.YearStat{Year: r.Year}
			byYear[r.Year] = s
		}
		s.Sales.Add(r)
		s.Count++
	}

	out := make([]domain.YearStat, 0, len(byYear))
	for _, s := range byYear {
		s.AvgSales = s.Sales.Global / float64(s.Count)
		if prev, ok := byYear[s.Year-1]; ok {
			s.YoYGrowth = growthPtr(prev.Sales.Global, s.Sales.Global)
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// LatestYoYGrowth returns the growth of the latest year over the one before it.
func LatestYoYGrowth(records []domain.Record) *float64 {
	trends := YearlyTrends(records)
	if len(trends) == 0 {
		return nil
	}
	return trends[len(trends)-1].YoYGrowth
}

// GrowthRates compares the latest year with the year before and with five
// years before. A window is omitted when its base year has no records.
func GrowthRates(records []domain.Record) []domain.GrowthWindow {
	trends := YearlyTrends(records)
	if len(trends) == 0 {
		return []domain.GrowthWindow{}
	}
	byYear := make(map[int]domain.YearStat, len(trends))
	for _, s := range trends {
		byYear[s.Year] = s
	}
	latest := trends[len(trends)-1]

	out := make([]domain.GrowthWindow, 0, 2)
	for _, w := range []struct {
		name string
		back int
	}{
		{WindowLastYear, 1},
		{WindowFiveYear, 5},
	} {
		base, ok := byYear[latest.Year-w.back]
		if !ok {
			continue
		}
		out = append(out, domain.GrowthWindow{
			Name:           w.name,
			FromYear:       base.Year,
			ToYear:         latest.Year,
			SalesGrowth:    growthPtr(base.Sales.Global, latest.Sales.Global),
			ReleaseGrowth:  growthPtr(float64(base.Count), float64(latest.Count)),
			AvgSalesGrowth: growthPtr(base.AvgSales, latest.AvgSales),
		})
	}
	return out
}

// Pivot returns global sales per year for every category of dim. Years with no
// sales for a category are 0. Lines are ordered by total descending, then key.
func Pivot(records []domain.Record, dim domain.Dimension) domain.YearSeries {
	years := distinctYears(records)
	pos := make(map[int]int, len(years))
	for i, y := range years {
		pos[y] = i
	}

	type line struct {
		key    domain.Category
		total  float64
		values []float64
	}
	index := make(map[domain.Category]*line)
	var lines []*line
	for _, r := range records {
		key := dim.Key(r)
		l, ok := index[key]
		if !ok {
			l = &line{key: key, values: make([]float64, len(years))}
			index[key] = l
			lines = append(lines, l)
		}
		l.values[pos[r.Year]] += r.GlobalSales
		l.total += r.GlobalSales
	}
	sort.Slice(lines, func(i, j int) bool {
		return ranksBefore(lines[i].total, lines[j].total, lines[i].key, lines[j].key)
	})

	out := domain.YearSeries{Years: years, Lines: make([]domain.SeriesLine, len(lines))}
	for i, l := range lines {
		out.Lines[i] = domain.SeriesLine{Key: l.key, Label: l.key.Label(), Values: l.values}
	}
	return out
}

// ShareTrends returns, per year, each category's percentage of that year's
// global sales.
func ShareTrends(records []domain.Record, dim domain.Dimension) domain.YearSeries {
	pivot := Pivot(records, dim)
	totals := make([]float64, len(pivot.Years))
	for _, l := range pivot.Lines {
		for i, v := range l.Values {
			totals[i] += v
		}
	}

	out := domain.YearSeries{Years: pivot.Years, Lines: make([]domain.SeriesLine, len(pivot.Lines))}
	for i, l := range pivot.Lines {
		values := make([]float64, len(l.Values))
		for j, v := range l.Values {
			values[j] = share(v, totals[j])
		}
		out.Lines[i] = domain.SeriesLine{Key: l.Key, Label: l.Label, Values: values}
	}
	return out
}

// FastestGrowing returns the category whose sales grew most between the first
// and last year of the dataset. Categories without first-year sales are
// skipped; ok is false when fewer than two years exist or nothing qualifies.
func FastestGrowing(records []domain.Record, dim domain.Dimension) (domain.GrowthLeader, bool) {
	pivot := Pivot(records, dim)
	if len(pivot.Years) < 2 {
		return domain.GrowthLeader{}, false
	}
	first, last := 0, len(pivot.Years)-1

	var best domain.GrowthLeader
	found := false
	for _, l := range pivot.Lines {
		rate, ok := Growth(l.Values[first], l.Values[last])
		if !ok {
			continue
		}
		if !found || ranksBefore(rate, best.Rate, l.Key, best.Key) {
			best = domain.GrowthLeader{
				Key:       l.Key,
				Label:     l.Label,
				Rate:      rate,
				FirstYear: pivot.Years[first],
				LastYear:  pivot.Years[last],
			}
			found = true
		}
	}
	return best, found
}

// PeakYear returns the year with the highest global sales. Ties go to the
// earlier year.
func PeakYear(records []domain.Record) (domain.PeakYear, bool) {
	trends := YearlyTrends(records)
	if len(trends) == 0 {
		return domain.PeakYear{}, false
	}
	best := trends[0]
	for _, s := range trends[1:] {
		if s.Sales.Global > best.Sales.Global {
			best = s
		}
	}
	return domain.PeakYear{Year: best.Year, Sales: best.Sales.Global}, true
}

// PeakYears returns the best year of every category of dim, ordered by peak
// sales descending, then key.
func PeakYears(records []domain.Record, dim domain.Dimension) []domain.CategoryPeak {
	pivot := Pivot(records, dim)
	out := make([]domain.CategoryPeak, 0, len(pivot.Lines))
	for _, l := range pivot.Lines {
		peak := domain.CategoryPeak{Key: l.Key, Label: l.Label}
		for i, v := range l.Values {
			if i == 0 || v > peak.Sales {
				peak.Year = pivot.Years[i]
				peak.Sales = v
			}
		}
		out = append(out, peak)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return ranksBefore(out[i].Sales, out[j].Sales, out[i].Key, out[j].Key)
	})
	return out
}

func distinctYears(records []domain.Record) []int {
	seen := make(map[int]struct{})
	years := make([]int, 0)
	for _, r := range records {
		if _, ok := seen[r.Year]; !ok {
			seen[r.Year] = struct{}{}
			years = append(years, r.Year)
		}
	}
	sort.Ints(years)
	return years
}
