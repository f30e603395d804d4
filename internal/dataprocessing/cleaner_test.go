package dataprocessing

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vgsales/pkg/contracts/domain"
)

func raw(year domain.OptionalFloat, na, eu, jp, other float64) domain.RawRecord {
	return domain.RawRecord{
		Rank:        1,
		Name:        domain.Known("Game"),
		Platform:    domain.Known("Wii"),
		Year:        year,
		Genre:       domain.Known("Sports"),
		Publisher:   domain.Known("Nintendo"),
		NASales:     domain.Some(na),
		EUSales:     domain.Some(eu),
		JPSales:     domain.Some(jp),
		OtherSales:  domain.Some(other),
		GlobalSales: domain.Some(na + eu + jp + other),
	}
}

func TestCleanerReplacesInvalidYearsWithMedian(t *testing.T) {
	c := NewCleaner(testLogger(), WithClock(fixedClock(2024)))

	in := []domain.RawRecord{
		raw(domain.Some(1990), 1, 0, 0, 0),
		raw(domain.Some(2000), 1, 0, 0, 0),
		raw(domain.Some(2010), 1, 0, 0, 0),
		raw(domain.OptionalFloat{}, 1, 0, 0, 0),
		raw(domain.Some(1970), 1, 0, 0, 0),
		raw(domain.Some(2050), 1, 0, 0, 0),
	}

	out, report := c.Clean(in)
	require.Len(t, out, len(in))

	years := make([]int, len(out))
	for i, r := range out {
		years[i] = r.Year
	}
	assert.Equal(t, []int{1990, 2000, 2010, 2000, 2000, 2000}, years)
	assert.Equal(t, 3, report.InvalidYears)
	assert.Equal(t, 2000.0, report.YearMedian)
	assert.Equal(t, 2024, report.CurrentYear)
}

func TestCleanerRoundsEvenMedianHalfToEven(t *testing.T) {
	c := NewCleaner(testLogger(), WithClock(fixedClock(2024)))

	out, report := c.Clean([]domain.RawRecord{
		raw(domain.Some(2000), 1, 0, 0, 0),
		raw(domain.Some(2003), 1, 0, 0, 0),
		raw(domain.OptionalFloat{}, 1, 0, 0, 0),
	})

	assert.Equal(t, 2001.5, report.YearMedian)
	assert.Equal(t, 2002, out[2].Year)
}

func TestCleanerNoValidYearsFallsBackToMinYear(t *testing.T) {
	c := NewCleaner(testLogger(), WithClock(fixedClock(2024)), WithMinYear(1985))

	out, report := c.Clean([]domain.RawRecord{
		raw(domain.OptionalFloat{}, 1, 0, 0, 0),
		raw(domain.Some(1900), 1, 0, 0, 0),
	})

	assert.Equal(t, 1985, out[0].Year)
	assert.Equal(t, 1985, out[1].Year)
	assert.Equal(t, 2, report.InvalidYears)
	assert.Equal(t, 1985, c.MinYear())
}

func TestCleanerFillsMissingValues(t *testing.T) {
	c := NewCleaner(testLogger(), WithClock(fixedClock(2024)))

	in := domain.RawRecord{
		Rank:        7,
		Name:        domain.Known("Tetris"),
		Year:        domain.Some(1989),
		Genre:       domain.Known("Puzzle"),
		NASales:     domain.Some(23.2),
		JPSales:     domain.Some(4.22),
		OtherSales:  domain.Some(0.58),
		GlobalSales: domain.Some(99),
	}

	out, report := c.Clean([]domain.RawRecord{in})
	require.Len(t, out, 1)

	r := out[0]
	assert.False(t, r.Platform.Valid)
	assert.False(t, r.Publisher.Valid)
	assert.Equal(t, domain.UnknownLabel, r.Publisher.Label())
	assert.Equal(t, 0.0, r.EUSales)
	assert.Equal(t, 23.2+0.0+4.22+0.58, r.GlobalSales)

	assert.Equal(t, 1, report.MissingCategories[ColPlatform])
	assert.Equal(t, 1, report.MissingCategories[ColPublisher])
	assert.Equal(t, 1, report.ZeroFilledSales)
	assert.Equal(t, 1, report.GlobalCorrections)
}

func TestCleanerDoesNotMutateInput(t *testing.T) {
	c := NewCleaner(testLogger(), WithClock(fixedClock(2024)))
	in := []domain.RawRecord{raw(domain.Some(1970), 1, 2, 3, 4)}
	before := in[0]

	c.Clean(in)
	assert.Equal(t, before, in[0])
}

func TestCleanerIdempotentExample(t *testing.T) {
	c := NewCleaner(testLogger(), WithClock(fixedClock(2024)))
	rows, err := NewLoader(testLogger()).Parse(stringsReader(sampleCSV), "sample.csv")
	require.NoError(t, err)

	once, _ := c.Clean(rows)
	twice, report := c.Clean(toRaw(once))

	assert.Equal(t, once, twice)
	assert.Zero(t, report.InvalidYears)
	assert.Zero(t, report.GlobalCorrections)
}

func genOptionalFloat(g gopter.Gen) gopter.Gen {
	return gopter.CombineGens(gen.Bool(), g).Map(func(vals []interface{}) domain.OptionalFloat {
		if !vals[0].(bool) {
			return domain.OptionalFloat{}
		}
		return domain.Some(vals[1].(float64))
	})
}

func genCategory() gopter.Gen {
	return gen.OneGenOf(gen.Const(domain.Missing()), gen.AlphaString().Map(domain.ParseCategory))
}

func genRawRecord() gopter.Gen {
	sales := genOptionalFloat(gen.Float64Range(0, 50))
	return gopter.CombineGens(
		gen.IntRange(1, 20000),
		genCategory(),
		genCategory(),
		genOptionalFloat(gen.Float64Range(1950, 2040)),
		genCategory(),
		genCategory(),
		sales, sales, sales, sales, sales,
	).Map(func(v []interface{}) domain.RawRecord {
		return domain.RawRecord{
			Rank:        v[0].(int),
			Name:        v[1].(domain.Category),
			Platform:    v[2].(domain.Category),
			Year:        v[3].(domain.OptionalFloat),
			Genre:       v[4].(domain.Category),
			Publisher:   v[5].(domain.Category),
			NASales:     v[6].(domain.OptionalFloat),
			EUSales:     v[7].(domain.OptionalFloat),
			JPSales:     v[8].(domain.OptionalFloat),
			OtherSales:  v[9].(domain.OptionalFloat),
			GlobalSales: v[10].(domain.OptionalFloat),
		}
	})
}

func TestCleanerProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)
	c := NewCleaner(testLogger(), WithClock(fixedClock(2024)))

	properties.Property("global sales equal the regional sum", prop.ForAll(
		func(rows []domain.RawRecord) bool {
			out, _ := c.Clean(rows)
			for _, r := range out {
				if r.GlobalSales != r.NASales+r.EUSales+r.JPSales+r.OtherSales {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genRawRecord()),
	))

	properties.Property("years lie within the valid range", prop.ForAll(
		func(rows []domain.RawRecord) bool {
			out, _ := c.Clean(rows)
			for _, r := range out {
				if r.Year < DefaultMinYear || r.Year > 2024 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genRawRecord()),
	))

	properties.Property("cleaning is idempotent", prop.ForAll(
		func(rows []domain.RawRecord) bool {
			once, _ := c.Clean(rows)
			twice, _ := c.Clean(toRaw(once))
			return reflect.DeepEqual(once, twice)
		},
		gen.SliceOf(genRawRecord()),
	))

	properties.Property("no sales value is negative or missing", prop.ForAll(
		func(rows []domain.RawRecord) bool {
			out, _ := c.Clean(rows)
			for _, r := range out {
				if r.NASales < 0 || r.EUSales < 0 || r.JPSales < 0 || r.OtherSales < 0 {
					return false
				}
			}
			return len(out) == len(rows)
		},
		gen.SliceOf(genRawRecord()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func toRaw(records []domain.Record) []domain.RawRecord {
	out := make([]domain.RawRecord, len(records))
	for i, r := range records {
		out[i] = r.ToRaw()
	}
	return out
}
