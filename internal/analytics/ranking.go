package analytics

import (
	"sort"

	"vgsales/pkg/contracts/domain"
)

// TopPerformers returns the n groups of dim with the highest metric. Ties are
// broken by key ascending, so the result does not depend on record order.
func TopPerformers(records []domain.Record, dim domain.Dimension, metric domain.Metric, n int) []domain.RankedEntry {
	if n <= 0 {
		return []domain.RankedEntry{}
	}
	groups := groupRecords(records, dim, metric)
	sortGroups(groups)
	if len(groups) > n {
		groups = groups[:n]
	}

	out := make([]domain.RankedEntry, len(groups))
	for i, g := range groups {
		out[i] = domain.RankedEntry{
			Position: i + 1,
			Key:      g.key,
			Label:    g.key.Label(),
			Value:    g.total,
			Count:    g.count,
		}
	}
	return out
}

// TopGames ranks individual records by global sales. Ties are broken by name,
// then platform, then rank.
func TopGames(records []domain.Record, n int) []domain.GameEntry {
	if n <= 0 {
		return []domain.GameEntry{}
	}
	sorted := make([]domain.Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.GlobalSales != b.GlobalSales {
			return a.GlobalSales > b.GlobalSales
		}
		if a.Name != b.Name {
			return a.Name.Less(b.Name)
		}
		if a.Platform != b.Platform {
			return a.Platform.Less(b.Platform)
		}
		return a.Rank < b.Rank
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}

	out := make([]domain.GameEntry, len(sorted))
	for i, r := range sorted {
		out[i] = domain.GameEntry{
			Position: i + 1,
			Record:   r,
			Regional: RegionalPercentages(r),
		}
	}
	return out
}

// MultiPlatformTitles returns titles released on more than one platform,
// ordered by platform count, then total sales, then name. n <= 0 returns all.
func MultiPlatformTitles(records []domain.Record, n int) []domain.MultiPlatformTitle {
	type title struct {
		platforms map[domain.Category]struct{}
		sales     float64
	}
	titles := make(map[string]*title)
	for _, r := range records {
		if !r.Name.Valid {
			continue
		}
		t, ok := titles[r.Name.Value]
		if !ok {
			t = &title{platforms: make(map[domain.Category]struct{})}
			titles[r.Name.Value] = t
		}
		t.platforms[r.Platform] = struct{}{}
		t.sales += r.GlobalSales
	}

	out := make([]domain.MultiPlatformTitle, 0)
	for name, t := range titles {
		if len(t.platforms) < 2 {
			continue
		}
		out = append(out, domain.MultiPlatformTitle{
			Name:       domain.Known(name),
			Platforms:  len(t.platforms),
			TotalSales: t.sales,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Platforms != out[j].Platforms {
			return out[i].Platforms > out[j].Platforms
		}
		return ranksBefore(out[i].TotalSales, out[j].TotalSales, out[i].Name, out[j].Name)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
