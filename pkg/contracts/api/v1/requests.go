// Package api contains the HTTP request contracts of the sales dashboard.
// Version v1 represents the current stable API version.
package api

// FilterQuery holds the dataset filter accepted by every data endpoint.
// Absent numeric parameters are nil.
type FilterQuery struct {
	StartYear  *int     `json:"start_year,omitempty" query:"start_year" validate:"omitempty,min=1900,max=3000"`
	EndYear    *int     `json:"end_year,omitempty" query:"end_year" validate:"omitempty,min=1900,max=3000"`
	Platforms  []string `json:"platforms,omitempty" query:"platforms" validate:"omitempty,max=50,dive,min=1,max=100"`
	Genres     []string `json:"genres,omitempty" query:"genres" validate:"omitempty,max=50,dive,min=1,max=100"`
	Publishers []string `json:"publishers,omitempty" query:"publishers" validate:"omitempty,max=50,dive,min=1,max=200"`
	MinSales   *float64 `json:"min_sales,omitempty" query:"min_sales" validate:"omitempty,gte=0"`
}

// RankingQuery is a filtered ranking request. A present top_n must be at least 1.
type RankingQuery struct {
	FilterQuery
	TopN   *int   `json:"top_n,omitempty" query:"top_n" validate:"omitempty,min=1,max=100"`
	Metric string `json:"metric,omitempty" query:"metric" validate:"omitempty,metric"`
}

// AnalyticsQuery is a ranking request over one dimension taken from the path.
type AnalyticsQuery struct {
	RankingQuery
	Dimension string `json:"dimension" query:"dimension" validate:"required,dimension"`
}

// ExportQuery selects the format of a table export.
type ExportQuery struct {
	RankingQuery
	Format string `json:"format,omitempty" query:"format" validate:"omitempty,oneof=csv xlsx excel json"`
	BOM    bool   `json:"bom,omitempty" query:"bom"`
}

// LogTailQuery limits the lines returned from a log file.
type LogTailQuery struct {
	Name  string `json:"name" query:"name" validate:"required,filename"`
	Lines *int   `json:"lines,omitempty" query:"lines" validate:"omitempty,min=1,max=10000"`
}

// LogPruneQuery sets the retention of a log cleanup.
type LogPruneQuery struct {
	KeepDays *int `json:"keep_days,omitempty" query:"keep_days" validate:"omitempty,min=1,max=3650"`
}
