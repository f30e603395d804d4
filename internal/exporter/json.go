package exporter

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// JSONWriter renders a table as a JSON array of objects keyed by header.
type JSONWriter struct {
	Indent bool
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter() *JSONWriter {
	return &JSONWriter{}
}

// Write encodes t to out.
func (j *JSONWriter) Write(out io.Writer, t Table) error {
	rows := make([]map[string]interface{}, len(t.Rows))
	for i, row := range t.Rows {
		obj := make(map[string]interface{}, len(t.Headers))
		for c, h := range t.Headers {
			if c < len(row) {
				obj[h] = row[c]
			}
		}
		rows[i] = obj
	}

	enc := json.NewEncoder(out)
	if j.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("failed to encode %s: %w", t.Name, err)
	}
	return nil
}
