package services

import (
	"vgsales/pkg/contracts/domain"
)

// Page names, also used as cache key prefixes and metric labels.
const (
	PageOverview   = "overview"
	PageSales      = "sales"
	PageGenres     = "genres"
	PagePlatforms  = "platforms"
	PagePublishers = "publishers"
	PageRegions    = "regions"
	PageFilters    = "filters"
)

// OverviewKPIs are the headline numbers of the overview page.
type OverviewKPIs struct {
	TotalSales      float64             `json:"total_sales"`
	TotalSalesLabel string              `json:"total_sales_label"`
	TotalGames      int                 `json:"total_games"`
	Unique          domain.UniqueCounts `json:"unique"`
	TopGenre        *domain.RankedEntry `json:"top_genre,omitempty"`
	YearRange       *domain.YearRange   `json:"year_range,omitempty"`
	Summary         domain.SalesSummary `json:"summary"`
}

// Insights are the derived statements shown under the overview charts.
type Insights struct {
	YoYGrowth        *float64           `json:"yoy_growth"`
	MarketLeader     *domain.ShareEntry `json:"market_leader,omitempty"`
	GenreCount       int                `json:"genre_count"`
	AvgSalesPerGenre float64            `json:"avg_sales_per_genre"`
}

// OverviewPage is the payload of the overview page.
type OverviewPage struct {
	KPIs              OverviewKPIs         `json:"kpis"`
	Insights          Insights             `json:"insights"`
	SalesTrend        []domain.YearStat    `json:"sales_trend"`
	RegionalShare     []domain.RegionShare `json:"regional_share"`
	GenreDistribution []domain.ShareEntry  `json:"genre_distribution"`
	TopPlatforms      []domain.RankedEntry `json:"top_platforms"`
	TopGenres         []domain.RankedEntry `json:"top_genres"`
	TopPublishers     []domain.RankedEntry `json:"top_publishers"`
	TopGames          []domain.GameEntry   `json:"top_games"`
}

// SalesPage is the payload of the sales analysis page.
type SalesPage struct {
	Summary       domain.SalesSummary         `json:"summary"`
	Trends        []domain.YearStat           `json:"trends"`
	Growth        []domain.GrowthWindow       `json:"growth"`
	PeakYear      *domain.PeakYear            `json:"peak_year,omitempty"`
	Regional      []domain.RegionShare        `json:"regional"`
	ByGenre       []domain.RankedEntry        `json:"by_genre"`
	ByPlatform    []domain.RankedEntry        `json:"by_platform"`
	TopGames      []domain.GameEntry          `json:"top_games"`
	MultiPlatform []domain.MultiPlatformTitle `json:"multi_platform"`
}

// CategoryPage is the payload of the genre, platform and publisher pages.
type CategoryPage struct {
	Dimension      domain.Dimension       `json:"dimension"`
	Count          int                    `json:"count"`
	Leader         *domain.RankedEntry    `json:"leader,omitempty"`
	MostReleases   *domain.RankedEntry    `json:"most_releases,omitempty"`
	FastestGrowing *domain.GrowthLeader   `json:"fastest_growing,omitempty"`
	Stats          []domain.GroupStat     `json:"stats"`
	MarketShare    []domain.ShareEntry    `json:"market_share"`
	Timeline       domain.YearSeries      `json:"timeline"`
	ShareTrends    domain.YearSeries      `json:"share_trends"`
	Regional       []domain.RegionalGroup `json:"regional"`
	PeakYears      []domain.CategoryPeak  `json:"peak_years"`
	CrossTab       *domain.CrossTab       `json:"cross_tab,omitempty"`
	TopGames       []domain.GameEntry     `json:"top_games"`
}

// RegionsPage is the payload of the regional analysis page.
type RegionsPage struct {
	Totals       domain.RegionTotals                    `json:"totals"`
	Distribution []domain.RegionShare                   `json:"distribution"`
	ByGenre      []domain.RegionalGroup                 `json:"by_genre"`
	ByPlatform   []domain.RegionalGroup                 `json:"by_platform"`
	TopGames     map[domain.Region][]domain.RankedEntry `json:"top_games"`
}

// FiltersPage lists the values the dashboard filters can take.
type FiltersPage struct {
	Values    domain.UniqueValues `json:"values"`
	Counts    domain.UniqueCounts `json:"counts"`
	YearRange *domain.YearRange   `json:"year_range,omitempty"`
	Records   int                 `json:"records"`
}
