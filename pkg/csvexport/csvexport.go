// Package csvexport serializes heterogeneous rows to CSV. The header is the
// sorted union of the field names actually present across the whole batch,
// so a field that only some rows carry still gets a column.
package csvexport

import (
	"encoding/csv"
	"io"
	"sort"
)

// NoData is written instead of a header when there is nothing to export.
const NoData = "No data available"

// Field is a named value of a row. A nil Value means the row does not
// carry the field, which renders as an empty cell.
type Field struct {
	Name  string
	Value *string
}

// Row is anything that can describe itself as an ordered field list.
type Row interface {
	Fields() []Field
}

// Collect turns typed rows into field lists, preserving order.
func Collect[T Row](items []T) [][]Field {
	out := make([][]Field, 0, len(items))
	for _, item := range items {
		out = append(out, item.Fields())
	}
	return out
}

// Header returns the sorted union of present field names.
func Header(rows [][]Field) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for _, f := range row {
			if f.Value != nil {
				seen[f.Name] = struct{}{}
			}
		}
	}
	header := make([]string, 0, len(seen))
	for name := range seen {
		header = append(header, name)
	}
	sort.Strings(header)
	return header
}

// Write emits the header line followed by one line per row, in input order.
// Values containing a comma, a double quote or a newline are quoted with
// inner quotes doubled.
func Write(w io.Writer, rows [][]Field) error {
	if len(rows) == 0 {
		_, err := io.WriteString(w, NoData+"\n")
		return err
	}

	header := Header(rows)
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	record := make([]string, len(header))
	for _, row := range rows {
		values := make(map[string]string, len(row))
		for _, f := range row {
			if f.Value != nil {
				values[f.Name] = *f.Value
			}
		}
		for i, name := range header {
			record[i] = values[name]
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
