package domain

import "time"

// Dataset is an ordered, cleaned collection of records. It is never mutated
// after construction; aggregations receive Records() read-only.
type Dataset struct {
	Path     string      `json:"path"`
	LoadedAt time.Time   `json:"loaded_at"`
	Report   CleanReport `json:"clean_report"`
	records  []Record
}

// NewDataset wraps cleaned records.
func NewDataset(path string, records []Record, report CleanReport, loadedAt time.Time) *Dataset {
	return &Dataset{Path: path, LoadedAt: loadedAt, Report: report, records: records}
}

// EmptyDataset is the fallback used when loading fails.
func EmptyDataset(path string) *Dataset {
	return &Dataset{Path: path, records: []Record{}}
}

// Records returns the cleaned rows. Callers must not modify the slice.
func (d *Dataset) Records() []Record {
	if d == nil {
		return nil
	}
	return d.records
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// IsEmpty reports whether the dataset has no records.
func (d *Dataset) IsEmpty() bool {
	return d.Len() == 0
}

// CleanReport summarizes what the cleaner changed.
type CleanReport struct {
	Rows              int            `json:"rows"`
	CurrentYear       int            `json:"current_year"`
	InvalidYears      int            `json:"invalid_years"`
	YearMedian        float64        `json:"year_median"`
	MissingCategories map[string]int `json:"missing_categories"`
	ZeroFilledSales   int            `json:"zero_filled_sales"`
	GlobalCorrections int            `json:"global_corrections"`
}
