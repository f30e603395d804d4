package api

import (
	"time"

	"vgsales/pkg/contracts/domain"
)

// Response is the envelope of successful JSON responses.
type Response struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
	Count  *int        `json:"count,omitempty"`
}

// DatasetInfo describes the active dataset.
type DatasetInfo struct {
	Path        string              `json:"path"`
	Records     int                 `json:"records"`
	LoadedAt    time.Time           `json:"loaded_at"`
	Fallback    bool                `json:"fallback"`
	LastError   string              `json:"last_error,omitempty"`
	CleanReport *domain.CleanReport `json:"clean_report,omitempty"`
	CachedPaths []string            `json:"cached_paths"`
	YearRange   *domain.YearRange   `json:"year_range,omitempty"`
}

// LogFile is one entry of the log directory listing.
type LogFile struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// LogTail holds the last lines of a log file.
type LogTail struct {
	Name  string   `json:"name"`
	Lines []string `json:"lines"`
}

// PruneResult reports a log cleanup.
type PruneResult struct {
	Removed  []string `json:"removed"`
	KeepDays int      `json:"keep_days"`
}
