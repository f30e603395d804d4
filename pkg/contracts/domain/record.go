package domain

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// UnknownLabel is the display label of a missing categorical value.
const UnknownLabel = "Unknown"

// Category is an optional categorical value (name, platform, genre, publisher).
// A missing value is distinct from any present string, including "Unknown".
type Category struct {
	Value string
	Valid bool
}

// Known returns a present category.
func Known(v string) Category {
	return Category{Value: v, Valid: true}
}

// Missing returns an absent category.
func Missing() Category {
	return Category{}
}

// ParseCategory trims s and returns Missing for blank input.
func ParseCategory(s string) Category {
	s = strings.TrimSpace(s)
	if s == "" {
		return Missing()
	}
	return Known(s)
}

// Label returns the value, or UnknownLabel when missing.
func (c Category) Label() string {
	if !c.Valid {
		return UnknownLabel
	}
	return c.Value
}

// Less orders present values lexicographically and missing values last.
func (c Category) Less(o Category) bool {
	if c.Valid != o.Valid {
		return c.Valid
	}
	return c.Value < o.Value
}

// MarshalJSON encodes a missing category as null.
func (c Category) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(c.Value)
}

// UnmarshalJSON decodes null as a missing category.
func (c *Category) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Missing()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = Known(s)
	return nil
}

// OptionalFloat is a numeric cell that may be absent.
type OptionalFloat struct {
	Float64 float64
	Valid   bool
}

// Some returns a present float.
func Some(v float64) OptionalFloat {
	return OptionalFloat{Float64: v, Valid: true}
}

// OrZero returns the value or 0 when absent.
func (f OptionalFloat) OrZero() float64 {
	if !f.Valid {
		return 0
	}
	return f.Float64
}

// RawRecord is one validated but uncleaned CSV row.
type RawRecord struct {
	Rank        int
	Name        Category
	Platform    Category
	Year        OptionalFloat
	Genre       Category
	Publisher   Category
	NASales     OptionalFloat
	EUSales     OptionalFloat
	JPSales     OptionalFloat
	OtherSales  OptionalFloat
	GlobalSales OptionalFloat
}

// Record is one cleaned (game, platform, year) release. Sales are in millions of units.
type Record struct {
	Rank        int      `json:"rank"`
	Name        Category `json:"name"`
	Platform    Category `json:"platform"`
	Year        int      `json:"year"`
	Genre       Category `json:"genre"`
	Publisher   Category `json:"publisher"`
	NASales     float64  `json:"na_sales"`
	EUSales     float64  `json:"eu_sales"`
	JPSales     float64  `json:"jp_sales"`
	OtherSales  float64  `json:"other_sales"`
	GlobalSales float64  `json:"global_sales"`
}

// RegionalSum returns NA+EU+JP+Other, summed in that order.
func (r Record) RegionalSum() float64 {
	return r.NASales + r.EUSales + r.JPSales + r.OtherSales
}

// ToRaw converts a cleaned record back to its raw form.
func (r Record) ToRaw() RawRecord {
	return RawRecord{
		Rank:        r.Rank,
		Name:        r.Name,
		Platform:    r.Platform,
		Year:        Some(float64(r.Year)),
		Genre:       r.Genre,
		Publisher:   r.Publisher,
		NASales:     Some(r.NASales),
		EUSales:     Some(r.EUSales),
		JPSales:     Some(r.JPSales),
		OtherSales:  Some(r.OtherSales),
		GlobalSales: Some(r.GlobalSales),
	}
}

// Sales returns the value of a sales metric. MetricCount yields 1.
func (r Record) Sales(m Metric) float64 {
	switch m {
	case MetricNA:
		return r.NASales
	case MetricEU:
		return r.EUSales
	case MetricJP:
		return r.JPSales
	case MetricOther:
		return r.OtherSales
	case MetricCount:
		return 1
	default:
		return r.GlobalSales
	}
}

// Region is one of the four fixed sales regions.
type Region string

const (
	RegionNA    Region = "NA"
	RegionEU    Region = "EU"
	RegionJP    Region = "JP"
	RegionOther Region = "Other"
)

// Regions lists the regions in column order.
var Regions = []Region{RegionNA, RegionEU, RegionJP, RegionOther}

// DisplayName returns the human readable region name.
func (r Region) DisplayName() string {
	switch r {
	case RegionNA:
		return "North America"
	case RegionEU:
		return "Europe"
	case RegionJP:
		return "Japan"
	default:
		return "Other"
	}
}

// Metric returns the sales metric of the region.
func (r Region) Metric() Metric {
	switch r {
	case RegionNA:
		return MetricNA
	case RegionEU:
		return MetricEU
	case RegionJP:
		return MetricJP
	default:
		return MetricOther
	}
}

// Dimension is a grouping key.
type Dimension string

const (
	DimensionYear      Dimension = "year"
	DimensionPlatform  Dimension = "platform"
	DimensionGenre     Dimension = "genre"
	DimensionPublisher Dimension = "publisher"
	DimensionName      Dimension = "name"
)

// ParseDimension accepts the lower case key or the CSV column name.
func ParseDimension(s string) (Dimension, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "year":
		return DimensionYear, true
	case "platform":
		return DimensionPlatform, true
	case "genre":
		return DimensionGenre, true
	case "publisher":
		return DimensionPublisher, true
	case "name", "game", "games":
		return DimensionName, true
	}
	return "", false
}

// Key extracts the grouping key of a record for the dimension.
func (d Dimension) Key(r Record) Category {
	switch d {
	case DimensionPlatform:
		return r.Platform
	case DimensionGenre:
		return r.Genre
	case DimensionPublisher:
		return r.Publisher
	case DimensionName:
		return r.Name
	default:
		return Known(strconv.Itoa(r.Year))
	}
}

// Metric is an aggregatable record value.
type Metric string

const (
	MetricGlobal Metric = "Global_Sales"
	MetricNA     Metric = "NA_Sales"
	MetricEU     Metric = "EU_Sales"
	MetricJP     Metric = "JP_Sales"
	MetricOther  Metric = "Other_Sales"
	MetricCount  Metric = "Count"
)

// ParseMetric accepts the column name (case-insensitive) or a short alias.
func ParseMetric(s string) (Metric, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "global", "global_sales":
		return MetricGlobal, true
	case "na", "na_sales":
		return MetricNA, true
	case "eu", "eu_sales":
		return MetricEU, true
	case "jp", "jp_sales":
		return MetricJP, true
	case "other", "other_sales":
		return MetricOther, true
	case "count", "releases":
		return MetricCount, true
	}
	return "", false
}
