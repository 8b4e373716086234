package sheets

import (
	"fmt"
	"strings"

	"shiftbot/backend/internal/tracking"
)

// BuildSnapshot converts raw worksheet values into a snapshot. The first
// row is the header row; columns with blank headers are dropped, and so
// are rows with no values at all. Every kept row carries the full header
// set so column order is identical across rows.
func BuildSnapshot(values [][]interface{}) tracking.Snapshot {
	if len(values) < 2 {
		return nil
	}

	type column struct {
		index int
		name  string
	}
	var columns []column
	for idx, header := range values[0] {
		name := strings.TrimSpace(cellString(header))
		if name != "" {
			columns = append(columns, column{index: idx, name: name})
		}
	}
	if len(columns) == 0 {
		return nil
	}

	var snapshot tracking.Snapshot
	for _, raw := range values[1:] {
		row := tracking.NewRow()
		empty := true
		for _, col := range columns {
			value := ""
			if col.index < len(raw) {
				value = cellString(raw[col.index])
			}
			if value != "" {
				empty = false
			}
			row.Set(col.name, value)
		}
		if empty {
			continue
		}
		snapshot = append(snapshot, row)
	}
	return snapshot
}

// FormatSnapshot renders a snapshot as the compact row listing handed to
// the model. Empty cells are omitted and output is capped at limit rows.
func FormatSnapshot(snapshot tracking.Snapshot, limit int) string {
	if len(snapshot) == 0 {
		return "No data found."
	}

	shown := snapshot
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	var b strings.Builder
	for i, row := range shown {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("Row %d: ", i+1))
		first := true
		for _, col := range row.Columns() {
			value := row.Get(col)
			if value == "" {
				continue
			}
			if !first {
				b.WriteString(" | ")
			}
			b.WriteString(col)
			b.WriteString(": ")
			b.WriteString(value)
			first = false
		}
	}

	if limit > 0 && len(snapshot) > limit {
		b.WriteString(fmt.Sprintf("\n\n(Showing %d of %d total rows)", limit, len(snapshot)))
	}
	return b.String()
}

func cellString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
