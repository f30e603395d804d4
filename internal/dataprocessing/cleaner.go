package dataprocessing

import (
	"log/slog"
	"math"
	"time"

	"github.com/go-gota/gota/series"

	"vgsales/internal/infrastructure"
	"vgsales/pkg/contracts/domain"
)

// DefaultMinYear is the earliest release year accepted as valid.
const DefaultMinYear = 1980

// Cleaner normalizes raw rows into records that satisfy the dataset invariants:
// every year lies in [minYear, current year] and GlobalSales equals the
// regional sum. Cleaning an already clean dataset changes nothing.
type Cleaner struct {
	minYear int
	now     func() time.Time
	logger  *slog.Logger
}

// CleanerOption configures a Cleaner.
type CleanerOption func(*Cleaner)

// WithClock sets the clock used to derive the current year.
func WithClock(now func() time.Time) CleanerOption {
	return func(c *Cleaner) {
		c.now = now
	}
}

// WithMinYear overrides DefaultMinYear.
func WithMinYear(year int) CleanerOption {
	return func(c *Cleaner) {
		if year > 0 {
			c.minYear = year
		}
	}
}

// NewCleaner creates a cleaner.
func NewCleaner(logger *slog.Logger, opts ...CleanerOption) *Cleaner {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	c := &Cleaner{
		minYear: DefaultMinYear,
		now:     time.Now,
		logger:  infrastructure.WithComponent(logger, "cleaner"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CurrentYear returns the upper bound for valid years.
func (c *Cleaner) CurrentYear() int {
	return c.now().Year()
}

// MinYear returns the lower bound for valid years.
func (c *Cleaner) MinYear() int {
	return c.minYear
}

// Clean returns cleaned copies of raw. The input is not modified.
func (c *Cleaner) Clean(raw []domain.RawRecord) ([]domain.Record, domain.CleanReport) {
	currentYear := c.CurrentYear()
	report := domain.CleanReport{
		Rows:              len(raw),
		CurrentYear:       currentYear,
		MissingCategories: map[string]int{},
	}

	median := c.yearMedian(raw, currentYear)
	report.YearMedian = median

	out := make([]domain.Record, len(raw))
	for i, r := range raw {
		year := r.Year.Float64
		if !c.validYear(r.Year, currentYear) {
			year = median
			report.InvalidYears++
		}

		rec := domain.Record{
			Rank:      r.Rank,
			Name:      r.Name,
			Platform:  r.Platform,
			Year:      int(math.RoundToEven(year)),
			Genre:     r.Genre,
			Publisher: r.Publisher,
		}

		for col, cat := range map[string]domain.Category{
			ColName: r.Name, ColPlatform: r.Platform, ColGenre: r.Genre, ColPublisher: r.Publisher,
		} {
			if !cat.Valid {
				report.MissingCategories[col]++
			}
		}

		for _, cell := range []struct {
			src domain.OptionalFloat
			dst *float64
		}{
			{r.NASales, &rec.NASales},
			{r.EUSales, &rec.EUSales},
			{r.JPSales, &rec.JPSales},
			{r.OtherSales, &rec.OtherSales},
		} {
			if !cell.src.Valid {
				report.ZeroFilledSales++
			}
			*cell.dst = cell.src.OrZero()
		}

		rec.GlobalSales = rec.RegionalSum()
		if !r.GlobalSales.Valid || r.GlobalSales.Float64 != rec.GlobalSales {
			report.GlobalCorrections++
		}
		out[i] = rec
	}

	c.logReport(report)
	return out, report
}

func (c *Cleaner) validYear(y domain.OptionalFloat, currentYear int) bool {
	if !y.Valid || math.IsNaN(y.Float64) {
		return false
	}
	return y.Float64 >= float64(c.minYear) && y.Float64 <= float64(currentYear)
}

// yearMedian is the median of valid years, or minYear when there are none.
func (c *Cleaner) yearMedian(raw []domain.RawRecord, currentYear int) float64 {
	valid := make([]float64, 0, len(raw))
	for _, r := range raw {
		if c.validYear(r.Year, currentYear) {
			valid = append(valid, r.Year.Float64)
		}
	}
	if len(valid) == 0 {
		return float64(c.minYear)
	}
	median := series.Floats(valid).Median()
	if math.IsNaN(median) {
		return float64(c.minYear)
	}
	return median
}

func (c *Cleaner) logReport(report domain.CleanReport) {
	if report.InvalidYears > 0 {
		c.logger.Warn("Replaced invalid years with median",
			slog.Int("count", report.InvalidYears),
			slog.Float64("median", report.YearMedian),
			slog.Int("min_year", c.minYear),
			slog.Int("current_year", report.CurrentYear))
	}
	for col, n := range report.MissingCategories {
		c.logger.Warn("Missing categorical values",
			slog.String("column", col),
			slog.Int("count", n))
	}
	if report.ZeroFilledSales > 0 {
		c.logger.Warn("Filled missing sales with zero", slog.Int("cells", report.ZeroFilledSales))
	}
	if report.GlobalCorrections > 0 {
		c.logger.Info("Recomputed global sales from regional columns",
			slog.Int("rows", report.GlobalCorrections))
	}
}
