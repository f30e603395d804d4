package dataprocessing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDataLoading matches every *DataLoadingError via errors.Is.
var ErrDataLoading = errors.New("data loading failed")

// LoadErrorKind classifies a loading failure.
type LoadErrorKind string

const (
	KindMissingFile    LoadErrorKind = "missing_file"
	KindMissingColumns LoadErrorKind = "missing_columns"
	KindInvalidType    LoadErrorKind = "invalid_type"
	KindReadFailure    LoadErrorKind = "read_failure"
)

// DataLoadingError reports why a dataset file could not be loaded.
type DataLoadingError struct {
	Kind    LoadErrorKind
	Path    string
	Columns []string // missing or duplicated columns
	Row     int      // 1-based CSV line of an invalid value
	Column  string
	Value   string
	Err     error
}

func (e *DataLoadingError) Error() string {
	switch e.Kind {
	case KindMissingFile:
		return fmt.Sprintf("data file not found: %s", e.Path)
	case KindMissingColumns:
		return fmt.Sprintf("missing required columns in %s: %s", e.Path, strings.Join(e.Columns, ", "))
	case KindInvalidType:
		return fmt.Sprintf("invalid value %q for column %s at line %d of %s", e.Value, e.Column, e.Row, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
		}
		return fmt.Sprintf("failed to read %s", e.Path)
	}
}

func (e *DataLoadingError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrDataLoading) true for any loading error.
func (e *DataLoadingError) Is(target error) bool {
	return target == ErrDataLoading
}
