package analytics

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vgsales/pkg/contracts/domain"
)

func TestGroupBy(t *testing.T) {
	stats := GroupBy(sampleRecords(), domain.DimensionPublisher)
	require.Len(t, stats, 3)

	nintendo := stats[0]
	assert.Equal(t, domain.Known("Nintendo"), nintendo.Key)
	assert.Equal(t, 3, nintendo.Count)
	assert.Equal(t, 3, nintendo.UniqueTitles)
	assert.InDelta(t, 158.81, nintendo.Total, 1e-9)
	assert.InDelta(t, 158.81/3, nintendo.Mean, 1e-9)
	assert.InDelta(t, 86.42, nintendo.Regional.NA, 1e-9)

	take2 := stats[1]
	assert.Equal(t, 2, take2.Count)
	assert.Equal(t, 1, take2.UniqueTitles)

	missing := stats[2]
	assert.False(t, missing.Key.Valid)
	assert.Equal(t, domain.UnknownLabel, missing.Label)

	var shares float64
	for _, s := range stats {
		shares += s.MarketShare
	}
	assert.InDelta(t, 100, shares, 1e-9)
}

func TestGroupByKeepsLiteralUnknownSeparate(t *testing.T) {
	records := []domain.Record{
		global("A", "Wii", 2000, 5),
		global("B", "", 2000, 5),
		global("C", "Unknown", 2000, 5),
	}

	stats := GroupBy(records, domain.DimensionPlatform)
	require.Len(t, stats, 3)
	// Equal totals order by key; missing sorts last.
	assert.Equal(t, domain.Known("Unknown"), stats[0].Key)
	assert.Equal(t, domain.Known("Wii"), stats[1].Key)
	assert.Equal(t, domain.Missing(), stats[2].Key)
}

func TestGroupByMetricCount(t *testing.T) {
	stats := GroupByMetric(sampleRecords(), domain.DimensionPlatform, domain.MetricCount)
	require.NotEmpty(t, stats)
	assert.Equal(t, domain.Known("Wii"), stats[0].Key)
	assert.Equal(t, 2.0, stats[0].Total)
	assert.Equal(t, 1.0, stats[0].Mean)
}

func TestMarketShareZeroTotal(t *testing.T) {
	records := []domain.Record{global("A", "Wii", 2000, 0), global("B", "PS2", 2000, 0)}
	for _, s := range MarketShare(records, domain.DimensionPlatform) {
		assert.Zero(t, s.Share)
	}
	assert.Empty(t, MarketShare(nil, domain.DimensionPlatform))
}

func TestRegionalBreakdown(t *testing.T) {
	out := RegionalBreakdown(sampleRecords(), domain.DimensionGenre)
	require.NotEmpty(t, out)
	assert.Equal(t, domain.Known("Sports"), out[0].Key)

	var sum float64
	for _, v := range out[0].Shares {
		sum += v
	}
	assert.InDelta(t, 100, sum, 1e-9)
}

func TestMostReleases(t *testing.T) {
	best, ok := MostReleases(sampleRecords(), domain.DimensionPublisher)
	require.True(t, ok)
	assert.Equal(t, domain.Known("Nintendo"), best.Key)
	assert.Equal(t, 3, best.Count)

	// Equal counts resolve by key.
	tie, ok := MostReleases([]domain.Record{global("A", "Z", 2000, 1), global("B", "A", 2000, 1)}, domain.DimensionPlatform)
	require.True(t, ok)
	assert.Equal(t, "A", tie.Label)

	_, ok = MostReleases(nil, domain.DimensionPlatform)
	assert.False(t, ok)
}

func TestUniqueCountsAndValues(t *testing.T) {
	records := sampleRecords()

	counts := UniqueCounts(records)
	assert.Equal(t, domain.UniqueCounts{Games: 5, Platforms: 5, Genres: 5, Publishers: 2}, counts)

	values := UniqueValues(records)
	assert.Equal(t, []string{"GB", "NES", "PS3", "Wii", "X360"}, values.Platforms)
	assert.Equal(t, []string{"Nintendo", "Take-Two Interactive"}, values.Publishers)
}

func genRecord() gopter.Gen {
	return gopter.CombineGens(
		gen.OneConstOf("Wii", "PS2", "DS", "X360", ""),
		gen.IntRange(1980, 2020),
		gen.Float64Range(0, 40),
		gen.Float64Range(0, 40),
		gen.Float64Range(0, 10),
		gen.Float64Range(0, 5),
	).Map(func(v []interface{}) domain.Record {
		return rec("Game", v[0].(string), v[1].(int), "Action", "Pub",
			v[2].(float64), v[3].(float64), v[4].(float64), v[5].(float64))
	})
}

func TestMarketShareProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("shares sum to 100 when sales exist", prop.ForAll(
		func(records []domain.Record, dim domain.Dimension) bool {
			entries := MarketShare(records, dim)
			var total, shares float64
			for _, e := range entries {
				total += e.Value
				shares += e.Share
			}
			if total == 0 {
				return shares == 0
			}
			return math.Abs(shares-100) < 1e-9
		},
		gen.SliceOf(genRecord()),
		gen.OneConstOf(domain.DimensionPlatform, domain.DimensionYear),
	))

	properties.Property("group counts cover every record", prop.ForAll(
		func(records []domain.Record) bool {
			var n int
			for _, s := range GroupBy(records, domain.DimensionPlatform) {
				n += s.Count
			}
			return n == len(records)
		},
		gen.SliceOf(genRecord()),
	))

	properties.Property("groups are ordered by total then key", prop.ForAll(
		func(records []domain.Record) bool {
			stats := GroupBy(records, domain.DimensionPlatform)
			for i := 1; i < len(stats); i++ {
				if ranksBefore(stats[i].Total, stats[i-1].Total, stats[i].Key, stats[i-1].Key) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genRecord()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
