package services

import (
	"errors"

	"vgsales/internal/exporter"
)

// Service errors. Handlers map them to API errors.
var (
	// Request errors
	ErrInvalidDimension = errors.New("invalid dimension")
	ErrInvalidMetric    = errors.New("invalid metric")

	// Export errors
	ErrInvalidFormat = exporter.ErrInvalidFormat
	ErrUnknownTable  = exporter.ErrUnknownTable

	// Log errors
	ErrInvalidLogName = errors.New("invalid log file name")
	ErrLogNotFound    = errors.New("log file not found")
)
