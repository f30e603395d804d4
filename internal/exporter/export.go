package exporter

import (
	"fmt"
	"io"
	"time"
)

// Write renders tables in format to out. CSV and JSON carry the first table
// only; XLSX writes one sheet per table.
func Write(out io.Writer, format Format, tables ...Table) error {
	if len(tables) == 0 {
		return fmt.Errorf("no tables to export")
	}
	switch format {
	case FormatCSV:
		return NewCSVWriter(nil).WriteTable(out, tables[0], true)
	case FormatXLSX:
		return NewXLSXWriter().Write(out, tables...)
	case FormatJSON:
		return NewJSONWriter().Write(out, tables[0])
	}
	return fmt.Errorf("%w: %q", ErrInvalidFormat, format)
}

// FileName returns a download file name such as "vgsales-trends-20240601.csv".
func FileName(table string, format Format, at time.Time) string {
	return fmt.Sprintf("vgsales-%s-%s%s", table, at.Format("20060102"), format.Extension())
}
