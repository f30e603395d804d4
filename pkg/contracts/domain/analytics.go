package domain

// RegionTotals holds summed sales per region plus the global figure.
type RegionTotals struct {
	NA     float64 `json:"na_sales"`
	EU     float64 `json:"eu_sales"`
	JP     float64 `json:"jp_sales"`
	Other  float64 `json:"other_sales"`
	Global float64 `json:"global_sales"`
}

// Add accumulates the sales of r.
func (t *RegionTotals) Add(r Record) {
	t.NA += r.NASales
	t.EU += r.EUSales
	t.JP += r.JPSales
	t.Other += r.OtherSales
	t.Global += r.GlobalSales
}

// Get returns the total of a region.
func (t RegionTotals) Get(region Region) float64 {
	switch region {
	case RegionNA:
		return t.NA
	case RegionEU:
		return t.EU
	case RegionJP:
		return t.JP
	default:
		return t.Other
	}
}

// Shares returns each region's percentage of the regional sum.
func (t RegionTotals) Shares() map[Region]float64 {
	sum := t.NA + t.EU + t.JP + t.Other
	out := make(map[Region]float64, len(Regions))
	for _, region := range Regions {
		if sum > 0 {
			out[region] = t.Get(region) / sum * 100
		} else {
			out[region] = 0
		}
	}
	return out
}

// GroupStat is the aggregate of one group.
type GroupStat struct {
	Key          Category     `json:"key"`
	Label        string       `json:"label"`
	Total        float64      `json:"total_sales"`
	Mean         float64      `json:"avg_sales"`
	Count        int          `json:"count"`
	UniqueTitles int          `json:"unique_titles"`
	MarketShare  float64      `json:"market_share"`
	Regional     RegionTotals `json:"regional"`
}

// ShareEntry is one slice of a market share breakdown.
type ShareEntry struct {
	Key   Category `json:"key"`
	Label string   `json:"label"`
	Value float64  `json:"value"`
	Share float64  `json:"share"`
}

// YearStat is one point of the yearly trend series.
type YearStat struct {
	Year      int          `json:"year"`
	Sales     RegionTotals `json:"sales"`
	Count     int          `json:"count"`
	AvgSales  float64      `json:"avg_sales"`
	YoYGrowth *float64     `json:"yoy_growth"`
}

// RankedEntry is one row of a top-N ranking.
type RankedEntry struct {
	Position int      `json:"position"`
	Key      Category `json:"key"`
	Label    string   `json:"label"`
	Value    float64  `json:"value"`
	Count    int      `json:"count"`
}

// GameEntry is one row of a top games ranking.
type GameEntry struct {
	Position int                `json:"position"`
	Record   Record             `json:"record"`
	Regional map[Region]float64 `json:"regional_share"`
}

// RegionShare is one region's slice of worldwide sales.
type RegionShare struct {
	Region Region  `json:"region"`
	Name   string  `json:"name"`
	Sales  float64 `json:"sales"`
	Share  float64 `json:"share"`
}

// CrossTab is a row-by-column matrix of summed sales.
type CrossTab struct {
	Rows    []Category  `json:"rows"`
	Columns []Category  `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// SeriesLine is the per-year series of one category.
type SeriesLine struct {
	Key    Category  `json:"key"`
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// YearSeries is a set of per-year series aligned on Years.
type YearSeries struct {
	Years []int        `json:"years"`
	Lines []SeriesLine `json:"lines"`
}

// GrowthWindow compares two years of the trend series.
type GrowthWindow struct {
	Name           string   `json:"name"`
	FromYear       int      `json:"from_year"`
	ToYear         int      `json:"to_year"`
	SalesGrowth    *float64 `json:"sales_growth"`
	ReleaseGrowth  *float64 `json:"release_growth"`
	AvgSalesGrowth *float64 `json:"avg_sales_growth"`
}

// GrowthLeader is the category with the highest first-to-last year growth.
type GrowthLeader struct {
	Key       Category `json:"key"`
	Label     string   `json:"label"`
	Rate      float64  `json:"rate"`
	FirstYear int      `json:"first_year"`
	LastYear  int      `json:"last_year"`
}

// PeakYear is the year with the highest global sales.
type PeakYear struct {
	Year  int     `json:"year"`
	Sales float64 `json:"sales"`
}

// CategoryPeak is the best year of one category.
type CategoryPeak struct {
	Key   Category `json:"key"`
	Label string   `json:"label"`
	Year  int      `json:"year"`
	Sales float64  `json:"sales"`
}

// SalesSummary holds dataset-wide sales statistics.
type SalesSummary struct {
	Records  int          `json:"records"`
	Total    float64      `json:"total_sales"`
	Average  float64      `json:"avg_sales"`
	Max      float64      `json:"max_sales"`
	Regional RegionTotals `json:"regional"`
}

// UniqueCounts holds distinct value counts of the categorical columns.
type UniqueCounts struct {
	Games      int `json:"games"`
	Platforms  int `json:"platforms"`
	Genres     int `json:"genres"`
	Publishers int `json:"publishers"`
}

// UniqueValues holds sorted distinct present values for filter options.
type UniqueValues struct {
	Platforms  []string `json:"platforms"`
	Genres     []string `json:"genres"`
	Publishers []string `json:"publishers"`
}

// YearRange is the inclusive span of years in a dataset.
type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// MultiPlatformTitle is a game released on more than one platform.
type MultiPlatformTitle struct {
	Name       Category `json:"name"`
	Platforms  int      `json:"platforms"`
	TotalSales float64  `json:"total_sales"`
}

// RegionalGroup is the regional split of one group's sales.
type RegionalGroup struct {
	Key    Category           `json:"key"`
	Label  string             `json:"label"`
	Sales  RegionTotals       `json:"sales"`
	Shares map[Region]float64 `json:"shares"`
}
