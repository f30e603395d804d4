// Package exporter writes analytics tables as CSV, XLSX or JSON.
//
// A Table is a named grid of headers and typed cells built from cleaned
// records by BuildTable. Writers render it:
//
// CSVWriter: encoding/csv output with an optional UTF-8 BOM for Excel.
//
// XLSXWriter: one worksheet per table via excelize.
//
// JSONWriter: an array of row objects keyed by header.
//
// Example usage:
//
//	table, err := exporter.BuildTable("group-platform", records, 0)
//	if err != nil {
//	    return err
//	}
//	err = exporter.Write(w, exporter.FormatXLSX, table)
package exporter
