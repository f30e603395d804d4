package analytics

import (
	"sort"

	"vgsales/pkg/contracts/domain"
)

type group struct {
	key      domain.Category
	total    float64
	count    int
	titles   map[string]struct{}
	regional domain.RegionTotals
}

// groupRecords buckets records by dimension, summing metric. Groups come back
// in first-seen order.
func groupRecords(records []domain.Record, dim domain.Dimension, metric domain.Metric) []*group {
	index := make(map[domain.Category]*group)
	var order []*group
	for _, r := range records {
		key := dim.Key(r)
		g, ok := index[key]
		if !ok {
			g = &group{key: key, titles: make(map[string]struct{})}
			index[key] = g
			order = append(order, g)
		}
		g.total += r.Sales(metric)
		g.count++
		if r.Name.Valid {
			g.titles[r.Name.Value] = struct{}{}
		}
		g.regional.Add(r)
	}
	return order
}

// ranksBefore orders by value descending, then key ascending.
func ranksBefore(va, vb float64, ka, kb domain.Category) bool {
	if va != vb {
		return va > vb
	}
	return ka.Less(kb)
}

func sortGroups(groups []*group) {
	sort.Slice(groups, func(i, j int) bool {
		return ranksBefore(groups[i].total, groups[j].total, groups[i].key, groups[j].key)
	})
}

func share(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}

// GroupBy aggregates global sales per group.
func GroupBy(records []domain.Record, dim domain.Dimension) []domain.GroupStat {
	return GroupByMetric(records, dim, domain.MetricGlobal)
}

// GroupByMetric aggregates metric per group: total, mean, record count,
// distinct titles, regional sums and market share. Groups are ordered by total
// descending, then key.
func GroupByMetric(records []domain.Record, dim domain.Dimension, metric domain.Metric) []domain.GroupStat {
	groups := groupRecords(records, dim, metric)
	sortGroups(groups)

	var total float64
	for _, g := range groups {
		total += g.total
	}

	out := make([]domain.GroupStat, len(groups))
	for i, g := range groups {
		out[i] = domain.GroupStat{
			Key:          g.key,
			Label:        g.key.Label(),
			Total:        g.total,
			Mean:         g.total / float64(g.count),
			Count:        g.count,
			UniqueTitles: len(g.titles),
			MarketShare:  share(g.total, total),
			Regional:     g.regional,
		}
	}
	return out
}

// MarketShare returns each group's percentage of total global sales.
func MarketShare(records []domain.Record, dim domain.Dimension) []domain.ShareEntry {
	return MarketShareMetric(records, dim, domain.MetricGlobal)
}

// MarketShareMetric is MarketShare over an arbitrary metric. When the total is
// positive the shares sum to 100.
func MarketShareMetric(records []domain.Record, dim domain.Dimension, metric domain.Metric) []domain.ShareEntry {
	stats := GroupByMetric(records, dim, metric)
	out := make([]domain.ShareEntry, len(stats))
	for i, s := range stats {
		out[i] = domain.ShareEntry{
			Key:   s.Key,
			Label: s.Label,
			Value: s.Total,
			Share: s.MarketShare,
		}
	}
	return out
}

// RegionalBreakdown returns the regional sales split of every group, ordered
// like GroupBy.
func RegionalBreakdown(records []domain.Record, dim domain.Dimension) []domain.RegionalGroup {
	groups := groupRecords(records, dim, domain.MetricGlobal)
	sortGroups(groups)

	out := make([]domain.RegionalGroup, len(groups))
	for i, g := range groups {
		out[i] = domain.RegionalGroup{
			Key:    g.key,
			Label:  g.key.Label(),
			Sales:  g.regional,
			Shares: g.regional.Shares(),
		}
	}
	return out
}

// MostReleases returns the group with the most records.
func MostReleases(records []domain.Record, dim domain.Dimension) (domain.RankedEntry, bool) {
	groups := groupRecords(records, dim, domain.MetricGlobal)
	if len(groups) == 0 {
		return domain.RankedEntry{}, false
	}
	best := groups[0]
	for _, g := range groups[1:] {
		if ranksBefore(float64(g.count), float64(best.count), g.key, best.key) {
			best = g
		}
	}
	return domain.RankedEntry{
		Position: 1,
		Key:      best.key,
		Label:    best.key.Label(),
		Value:    best.total,
		Count:    best.count,
	}, true
}

// UniqueCounts counts distinct present values. Missing categories are not
// counted as a value.
func UniqueCounts(records []domain.Record) domain.UniqueCounts {
	v := uniqueSets(records)
	return domain.UniqueCounts{
		Games:      len(v.names),
		Platforms:  len(v.platforms),
		Genres:     len(v.genres),
		Publishers: len(v.publishers),
	}
}

// UniqueValues lists the sorted distinct present platforms, genres and publishers.
func UniqueValues(records []domain.Record) domain.UniqueValues {
	v := uniqueSets(records)
	return domain.UniqueValues{
		Platforms:  sortedKeys(v.platforms),
		Genres:     sortedKeys(v.genres),
		Publishers: sortedKeys(v.publishers),
	}
}

type valueSets struct {
	names, platforms, genres, publishers map[string]struct{}
}

func uniqueSets(records []domain.Record) valueSets {
	v := valueSets{
		names:      map[string]struct{}{},
		platforms:  map[string]struct{}{},
		genres:     map[string]struct{}{},
		publishers: map[string]struct{}{},
	}
	for _, r := range records {
		addPresent(v.names, r.Name)
		addPresent(v.platforms, r.Platform)
		addPresent(v.genres, r.Genre)
		addPresent(v.publishers, r.Publisher)
	}
	return v
}

func addPresent(set map[string]struct{}, c domain.Category) {
	if c.Valid {
		set[c.Value] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
